package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"Inkwell/internal/dto"
	"Inkwell/internal/middleware"
	"Inkwell/internal/model"
	"Inkwell/internal/repository"
	"Inkwell/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	showFollowedCookie = "show_followed"
	showFollowedMaxAge = 30 * 24 * 60 * 60
)

type MainHandler struct {
	*Renderer
	users    *service.UserService
	posts    *service.PostService
	comments *service.CommentService
}

func NewMainHandler(r *Renderer, users *service.UserService, posts *service.PostService, comments *service.CommentService) *MainHandler {
	return &MainHandler{Renderer: r, users: users, posts: posts, comments: comments}
}

func (h *MainHandler) postViews(c *gin.Context, posts []model.Post) []dto.PostView {
	base, viewer := baseURL(c), middleware.CurrentUser(c)
	views := make([]dto.PostView, 0, len(posts))
	for i := range posts {
		views = append(views, dto.NewPostView(base, &posts[i], h.posts.CommentCount(posts[i].ID), viewer))
	}
	return views
}

func (h *MainHandler) commentViews(c *gin.Context, comments []model.Comment) []dto.CommentView {
	base, viewer := baseURL(c), middleware.CurrentUser(c)
	views := make([]dto.CommentView, 0, len(comments))
	for i := range comments {
		views = append(views, dto.NewCommentView(base, &comments[i], viewer))
	}
	return views
}

// Index lists every post, or the timeline when show_followed is set.
// GET /
func (h *MainHandler) Index(c *gin.Context) {
	user := middleware.CurrentUser(c)
	showFollowed := false
	if user != nil {
		v, _ := c.Cookie(showFollowedCookie)
		showFollowed = v == "1"
	}

	var (
		page *repository.Page[model.Post]
		err  error
	)
	if showFollowed {
		page, err = h.posts.ListFollowed(user, pageParam(c))
	} else {
		page, err = h.posts.List(pageParam(c))
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, gin.H{
		"posts":         h.postViews(c, page.Items),
		"show_followed": showFollowed,
		"pagination":    pagination(page),
	})
}

// CreatePost
// POST /
func (h *MainHandler) CreatePost(c *gin.Context) {
	var req dto.PostReq
	if !h.bind(c, &req) {
		return
	}
	if _, err := h.posts.Create(middleware.CurrentUser(c), req); err != nil {
		h.fail(c, err)
		return
	}
	h.redirect(c, "/")
}

// ShowAll
// GET /all
func (h *MainHandler) ShowAll(c *gin.Context) {
	c.SetCookie(showFollowedCookie, "", showFollowedMaxAge, "/", "", false, true)
	h.redirect(c, "/")
}

// ShowFollowed
// GET /followed
func (h *MainHandler) ShowFollowed(c *gin.Context) {
	c.SetCookie(showFollowedCookie, "1", showFollowedMaxAge, "/", "", false, true)
	h.redirect(c, "/")
}

// User shows a profile and the user's posts.
// GET /user/:username
func (h *MainHandler) User(c *gin.Context) {
	user, err := h.users.GetByUsername(c.Param("username"))
	if err != nil {
		h.fail(c, err)
		return
	}
	page, err := h.posts.ListByAuthor(user, pageParam(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	viewer := middleware.CurrentUser(c)
	profile := dto.NewProfileView(baseURL(c), user, viewer)
	profile.Followers, profile.Following, profile.PostCount = h.users.Stats(user)
	if viewer != nil && viewer.ID != user.ID {
		profile.IsFollowing = h.users.IsFollowing(viewer.ID, user.ID)
		profile.FollowsYou = h.users.IsFollowing(user.ID, viewer.ID)
	}

	h.render(c, http.StatusOK, gin.H{
		"user":       profile,
		"posts":      h.postViews(c, page.Items),
		"pagination": pagination(page),
	})
}

// EditProfile
// POST /edit-profile
func (h *MainHandler) EditProfile(c *gin.Context) {
	var req dto.EditProfileReq
	if !h.bind(c, &req) {
		return
	}
	user := middleware.CurrentUser(c)
	if err := h.users.EditProfile(user, req); err != nil {
		h.fail(c, err)
		return
	}
	h.flash(c, "Your profile has been updated.")
	h.redirect(c, "/user/"+url.PathEscape(user.Username))
}

// EditProfileAdminForm returns the editable account and the role choices.
// GET /edit-profile/:id
func (h *MainHandler) EditProfileAdminForm(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		h.fail(c, service.ErrNotFound)
		return
	}
	user, err := h.users.GetByID(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	roles, err := h.users.Roles()
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, gin.H{
		"user":  dto.NewProfileView(baseURL(c), user, middleware.CurrentUser(c)),
		"roles": roles,
	})
}

// EditProfileAdmin
// POST /edit-profile/:id
func (h *MainHandler) EditProfileAdmin(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		h.fail(c, service.ErrNotFound)
		return
	}
	var req dto.EditProfileAdminReq
	if !h.bind(c, &req) {
		return
	}
	user, err := h.users.EditProfileAdmin(middleware.CurrentUser(c), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.flash(c, "The profile has been updated.")
	h.redirect(c, "/user/"+url.PathEscape(user.Username))
}

// Post shows one post with a page of its comments; page -1 is the newest.
// GET /post/:id
func (h *MainHandler) Post(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		h.fail(c, service.ErrNotFound)
		return
	}
	post, err := h.posts.Get(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	page, err := h.comments.ListByPost(post.ID, pageParam(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, gin.H{
		"post":       dto.NewPostView(baseURL(c), post, page.Total, middleware.CurrentUser(c)),
		"comments":   h.commentViews(c, page.Items),
		"pagination": pagination(page),
	})
}

// AddComment
// POST /post/:id
func (h *MainHandler) AddComment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		h.fail(c, service.ErrNotFound)
		return
	}
	var req dto.CommentReq
	if !h.bind(c, &req) {
		return
	}
	if _, err := h.comments.Add(middleware.CurrentUser(c), id, req); err != nil {
		h.fail(c, err)
		return
	}
	h.flash(c, "Your comment has been published.")
	h.redirect(c, fmt.Sprintf("/post/%d?page=%d", id, repository.LastPage))
}

// EditPost
// POST /edit/:id
func (h *MainHandler) EditPost(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		h.fail(c, service.ErrNotFound)
		return
	}
	var req dto.PostReq
	if !h.bind(c, &req) {
		return
	}
	if _, err := h.posts.Edit(middleware.CurrentUser(c), id, req); err != nil {
		h.fail(c, err)
		return
	}
	h.flash(c, "The post has been updated.")
	h.redirect(c, fmt.Sprintf("/post/%d", id))
}

// Follow
// GET /follow/:username
func (h *MainHandler) Follow(c *gin.Context) {
	username := c.Param("username")
	_, err := h.users.Follow(middleware.CurrentUser(c), username)
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.flash(c, "Invalid user.")
		h.redirect(c, "/")
		return
	case errors.Is(err, service.ErrAlreadyFollowing):
		h.flash(c, "You are already following this user.")
	case err != nil:
		h.fail(c, err)
		return
	default:
		h.flash(c, fmt.Sprintf("You are now following %s.", username))
	}
	h.redirect(c, "/user/"+url.PathEscape(username))
}

// Unfollow
// GET /unfollow/:username
func (h *MainHandler) Unfollow(c *gin.Context) {
	username := c.Param("username")
	_, err := h.users.Unfollow(middleware.CurrentUser(c), username)
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.flash(c, "Invalid user.")
		h.redirect(c, "/")
		return
	case errors.Is(err, service.ErrNotFollowing):
		h.flash(c, "You are not following this user.")
	case err != nil:
		h.fail(c, err)
		return
	default:
		h.flash(c, fmt.Sprintf("You are not following %s anymore.", username))
	}
	h.redirect(c, "/user/"+url.PathEscape(username))
}

// Followers
// GET /followers/:username
func (h *MainHandler) Followers(c *gin.Context) {
	h.follows(c, "Followers of", h.users.Followers, func(f *model.Follow) *model.User { return &f.Follower })
}

// FollowedBy
// GET /followed-by/:username
func (h *MainHandler) FollowedBy(c *gin.Context) {
	h.follows(c, "Followed by", h.users.Followed, func(f *model.Follow) *model.User { return &f.Followed })
}

func (h *MainHandler) follows(
	c *gin.Context,
	title string,
	list func(*model.User, int) (*repository.Page[model.Follow], error),
	other func(*model.Follow) *model.User,
) {
	user, err := h.users.GetByUsername(c.Param("username"))
	if errors.Is(err, service.ErrNotFound) {
		h.flash(c, "Invalid user.")
		h.redirect(c, "/")
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	page, err := list(user, pageParam(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	base := baseURL(c)
	follows := make([]dto.FollowView, 0, len(page.Items))
	for i := range page.Items {
		follows = append(follows, dto.FollowView{
			User:      dto.NewAuthorView(base, other(&page.Items[i])),
			Timestamp: page.Items[i].Timestamp,
		})
	}
	h.render(c, http.StatusOK, gin.H{
		"title":      title,
		"user":       dto.NewAuthorView(base, user),
		"follows":    follows,
		"pagination": pagination(page),
	})
}

// Moderate lists every comment, newest first.
// GET /moderate
func (h *MainHandler) Moderate(c *gin.Context) {
	page, err := h.comments.ListForModeration(middleware.CurrentUser(c), pageParam(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, gin.H{
		"comments":   h.commentViews(c, page.Items),
		"pagination": pagination(page),
	})
}

// ModerateEnable
// GET /moderate/enable/:id
func (h *MainHandler) ModerateEnable(c *gin.Context) {
	h.setDisabled(c, false)
}

// ModerateDisable
// GET /moderate/disable/:id
func (h *MainHandler) ModerateDisable(c *gin.Context) {
	h.setDisabled(c, true)
}

func (h *MainHandler) setDisabled(c *gin.Context, disabled bool) {
	id, ok := idParam(c)
	if !ok {
		h.fail(c, service.ErrNotFound)
		return
	}
	if _, err := h.comments.SetDisabled(middleware.CurrentUser(c), id, disabled); err != nil {
		h.fail(c, err)
		return
	}
	h.redirect(c, fmt.Sprintf("/moderate?page=%d", pageParam(c)))
}
