package dto

import (
	"fmt"
	"strings"
	"time"

	"Inkwell/internal/model"
)

const APIPrefix = "/api/v1.0"

type TokenResp struct {
	Token      string `json:"token"`
	Expiration int    `json:"expiration"`
}

type UserResp struct {
	URL              string    `json:"url"`
	Username         string    `json:"username"`
	MemberSince      time.Time `json:"member_since"`
	LastSeen         time.Time `json:"last_seen"`
	PostsURL         string    `json:"posts_url"`
	FollowedPostsURL string    `json:"followed_posts_url"`
	PostCount        int64     `json:"post_count"`
}

func NewUserResp(base string, u *model.User, postCount int64) UserResp {
	return UserResp{
		URL:              fmt.Sprintf("%s%s/users/%d", base, APIPrefix, u.ID),
		Username:         u.Username,
		MemberSince:      u.MemberSince,
		LastSeen:         u.LastSeen,
		PostsURL:         fmt.Sprintf("%s%s/users/%d/posts/", base, APIPrefix, u.ID),
		FollowedPostsURL: fmt.Sprintf("%s%s/users/%d/timeline/", base, APIPrefix, u.ID),
		PostCount:        postCount,
	}
}

type PostResp struct {
	URL          string    `json:"url"`
	Body         string    `json:"body"`
	BodyHTML     string    `json:"body_html"`
	Timestamp    time.Time `json:"timestamp"`
	AuthorURL    string    `json:"author_url"`
	CommentsURL  string    `json:"comments_url"`
	CommentCount int64     `json:"comment_count"`
}

func NewPostResp(base string, p *model.Post, commentCount int64) PostResp {
	return PostResp{
		URL:          PostURL(base, p.ID),
		Body:         p.Body,
		BodyHTML:     p.BodyHTML,
		Timestamp:    p.Timestamp,
		AuthorURL:    fmt.Sprintf("%s%s/users/%d", base, APIPrefix, p.AuthorID),
		CommentsURL:  fmt.Sprintf("%s%s/posts/%d/comments/", base, APIPrefix, p.ID),
		CommentCount: commentCount,
	}
}

func PostURL(base string, id uint) string {
	return fmt.Sprintf("%s%s/posts/%d", base, APIPrefix, id)
}

type CommentResp struct {
	URL       string    `json:"url"`
	PostURL   string    `json:"post_url"`
	Body      string    `json:"body"`
	BodyHTML  string    `json:"body_html"`
	Timestamp time.Time `json:"timestamp"`
	AuthorURL string    `json:"author_url"`
}

func NewCommentResp(base string, c *model.Comment) CommentResp {
	return CommentResp{
		URL:       CommentURL(base, c.ID),
		PostURL:   PostURL(base, c.PostID),
		Body:      c.Body,
		BodyHTML:  c.BodyHTML,
		Timestamp: c.Timestamp,
		AuthorURL: fmt.Sprintf("%s%s/users/%d", base, APIPrefix, c.AuthorID),
	}
}

func CommentURL(base string, id uint) string {
	return fmt.Sprintf("%s%s/comments/%d", base, APIPrefix, id)
}

// Links holds the neighbouring pages of a collection, nil at either end.
type Links struct {
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
	Count int64   `json:"count"`
}

// NewLinks builds prev/next for collectionURL, which must not carry a query.
func NewLinks(collectionURL string, page int, hasPrev, hasNext bool, count int64) Links {
	l := Links{Count: count}
	if hasPrev {
		prev := pageURL(collectionURL, page-1)
		l.Prev = &prev
	}
	if hasNext {
		next := pageURL(collectionURL, page+1)
		l.Next = &next
	}
	return l
}

func pageURL(u string, page int) string {
	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%spage=%d", u, sep, page)
}

type PostsResp struct {
	Posts []PostResp `json:"posts"`
	Links
}

type CommentsResp struct {
	Comments []CommentResp `json:"comments"`
	Links
}
