package dto

import (
	"strings"
	"time"

	"Inkwell/internal/model"
)

const disabledComment = "This comment has been disabled by a moderator."

type Pagination struct {
	Page    int   `json:"page"`
	Pages   int   `json:"pages"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	HasPrev bool  `json:"has_prev"`
	HasNext bool  `json:"has_next"`
}

// AuthorView is the short user card shown next to posts, comments and follows.
type AuthorView struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

// AvatarURL prefers an uploaded avatar and falls back to gravatar.
func AvatarURL(base string, u *model.User, size int) string {
	if u.Avatar != "" {
		return base + "/avatars/" + u.Avatar
	}
	return u.GravatarURL(size, strings.HasPrefix(base, "https://"))
}

func NewAuthorView(base string, u *model.User) AuthorView {
	return AuthorView{ID: u.ID, Username: u.Username, AvatarURL: AvatarURL(base, u, 40)}
}

type PostView struct {
	ID           uint       `json:"id"`
	Body         string     `json:"body"`
	BodyHTML     string     `json:"body_html"`
	Timestamp    time.Time  `json:"timestamp"`
	Author       AuthorView `json:"author"`
	CommentCount int64      `json:"comment_count"`
	Editable     bool       `json:"editable"`
}

// NewPostView renders p for viewer, who may be nil.
func NewPostView(base string, p *model.Post, commentCount int64, viewer *model.User) PostView {
	return PostView{
		ID:           p.ID,
		Body:         p.Body,
		BodyHTML:     p.BodyHTML,
		Timestamp:    p.Timestamp,
		Author:       NewAuthorView(base, &p.Author),
		CommentCount: commentCount,
		Editable:     viewer != nil && (viewer.ID == p.AuthorID || viewer.IsAdministrator()),
	}
}

type CommentView struct {
	ID        uint       `json:"id"`
	BodyHTML  string     `json:"body_html"`
	Timestamp time.Time  `json:"timestamp"`
	Disabled  bool       `json:"disabled"`
	Author    AuthorView `json:"author"`
}

// NewCommentView hides the body of a disabled comment from everyone but
// moderators.
func NewCommentView(base string, c *model.Comment, viewer *model.User) CommentView {
	v := CommentView{
		ID:        c.ID,
		BodyHTML:  c.BodyHTML,
		Timestamp: c.Timestamp,
		Disabled:  c.Disabled,
		Author:    NewAuthorView(base, &c.Author),
	}
	if c.Disabled && !viewer.Can(model.PermModerate) {
		v.BodyHTML = disabledComment
	}
	return v
}

type FollowView struct {
	User      AuthorView `json:"user"`
	Timestamp time.Time  `json:"timestamp"`
}

type ProfileView struct {
	ID          uint      `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email,omitempty"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	AboutMe     string    `json:"about_me"`
	MemberSince time.Time `json:"member_since"`
	LastSeen    time.Time `json:"last_seen"`
	AvatarURL   string    `json:"avatar_url"`
	Role        string    `json:"role,omitempty"`
	Confirmed   bool      `json:"confirmed"`
	Followers   int64     `json:"followers"`
	Following   int64     `json:"following"`
	PostCount   int64     `json:"post_count"`
	IsFollowing bool      `json:"is_following"`
	FollowsYou  bool      `json:"follows_you"`
}

// NewProfileView exposes the email address only to administrators.
func NewProfileView(base string, u *model.User, viewer *model.User) ProfileView {
	v := ProfileView{
		ID:          u.ID,
		Username:    u.Username,
		Name:        u.Name,
		Location:    u.Location,
		AboutMe:     u.AboutMe,
		MemberSince: u.MemberSince,
		LastSeen:    u.LastSeen,
		AvatarURL:   AvatarURL(base, u, 256),
		Confirmed:   u.Confirmed,
	}
	if u.Role != nil {
		v.Role = u.Role.Name
	}
	if viewer.IsAdministrator() {
		v.Email = u.Email
	}
	return v
}

type CurrentUserView struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	Confirmed   bool   `json:"confirmed"`
	CanWrite    bool   `json:"can_write"`
	CanModerate bool   `json:"can_moderate"`
	IsAdmin     bool   `json:"is_admin"`
	AvatarURL   string `json:"avatar_url"`
}

func NewCurrentUserView(base string, u *model.User) *CurrentUserView {
	if u == nil {
		return nil
	}
	return &CurrentUserView{
		ID:          u.ID,
		Username:    u.Username,
		Confirmed:   u.Confirmed,
		CanWrite:    u.Can(model.PermWrite),
		CanModerate: u.Can(model.PermModerate),
		IsAdmin:     u.IsAdministrator(),
		AvatarURL:   AvatarURL(base, u, 18),
	}
}
