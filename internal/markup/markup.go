// Package markup turns user supplied Markdown into the HTML that is stored
// next to posts and comments.
package markup

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	PostTags    = []string{"a", "abbr", "acronym", "b", "blockquote", "code", "em", "i", "li", "ol", "pre", "strong", "ul", "h1", "h2", "h3", "p"}
	CommentTags = []string{"a", "abbr", "acronym", "b", "code", "em", "i", "strong"}
)

// raw HTML is passed through so the allow-list decides what survives.
var md = goldmark.New(
	goldmark.WithExtensions(extension.Linkify),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

var (
	postPolicy    = newPolicy(PostTags)
	commentPolicy = newPolicy(CommentTags)
)

func newPolicy(tags []string) *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(tags...)
	p.AllowAttrs("href", "title").OnElements("a")
	p.AllowAttrs("title").OnElements("abbr", "acronym")
	p.AllowStandardURLs()
	p.RequireNoFollowOnLinks(true)
	return p
}

// Post renders a post body.
func Post(body string) string {
	return render(body, postPolicy)
}

// Comment renders a comment body with the narrower inline-only tag set.
func Comment(body string) string {
	return render(body, commentPolicy)
}

func render(body string, policy *bluemonday.Policy) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(body), &buf); err != nil {
		// goldmark only fails on writer errors; fall back to escaped text
		return policy.Sanitize(body)
	}
	return strings.TrimSpace(policy.Sanitize(buf.String()))
}
