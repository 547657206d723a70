package handler

import (
	"net/http"

	"Inkwell/internal/dto"
	"Inkwell/internal/middleware"
	"Inkwell/internal/model"
	"Inkwell/internal/repository"
	"Inkwell/internal/service"

	"github.com/gin-gonic/gin"
)

// APIHandler serves /api/v1.0. Every route runs behind middleware.APIAuth.
type APIHandler struct {
	auth     *service.AuthService
	users    *service.UserService
	posts    *service.PostService
	comments *service.CommentService
}

func NewAPIHandler(auth *service.AuthService, users *service.UserService, posts *service.PostService, comments *service.CommentService) *APIHandler {
	return &APIHandler{auth: auth, users: users, posts: posts, comments: comments}
}

func (h *APIHandler) postsResp(c *gin.Context, collection string, page *repository.Page[model.Post]) dto.PostsResp {
	base := baseURL(c)
	resp := dto.PostsResp{
		Posts: make([]dto.PostResp, 0, len(page.Items)),
		Links: dto.NewLinks(base+collection, page.Page, page.HasPrev(), page.HasNext(), page.Total),
	}
	for i := range page.Items {
		resp.Posts = append(resp.Posts, dto.NewPostResp(base, &page.Items[i], h.posts.CommentCount(page.Items[i].ID)))
	}
	return resp
}

func (h *APIHandler) commentsResp(c *gin.Context, collection string, page *repository.Page[model.Comment]) dto.CommentsResp {
	base := baseURL(c)
	resp := dto.CommentsResp{
		Comments: make([]dto.CommentResp, 0, len(page.Items)),
		Links:    dto.NewLinks(base+collection, page.Page, page.HasPrev(), page.HasNext(), page.Total),
	}
	for i := range page.Items {
		resp.Comments = append(resp.Comments, dto.NewCommentResp(base, &page.Items[i]))
	}
	return resp
}

func (h *APIHandler) apiID(c *gin.Context) (uint, bool) {
	id, ok := idParam(c)
	if !ok {
		apiAbort(c, http.StatusNotFound, "resource not found")
	}
	return id, ok
}

// Token issues a bearer token. A token cannot be traded for a new one.
// GET /api/v1.0/token
func (h *APIHandler) Token(c *gin.Context) {
	if middleware.TokenUsed(c) {
		apiAbort(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	tok, expiration, err := h.auth.IssueAPIToken(middleware.CurrentUser(c))
	if err != nil {
		apiFail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TokenResp{Token: tok, Expiration: expiration})
}

// Posts
// GET /api/v1.0/posts/?page=1
func (h *APIHandler) Posts(c *gin.Context) {
	page, err := h.posts.List(pageParam(c))
	if err != nil {
		apiFail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.postsResp(c, dto.APIPrefix+"/posts/", page))
}

// NewPost
// POST /api/v1.0/posts/
func (h *APIHandler) NewPost(c *gin.Context) {
	var req dto.PostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		apiAbort(c, http.StatusBadRequest, "post does not have a body")
		return
	}
	post, err := h.posts.Create(middleware.CurrentUser(c), req)
	if err != nil {
		apiFail(c, err)
		return
	}
	resp := dto.NewPostResp(baseURL(c), post, 0)
	c.Header("Location", resp.URL)
	c.JSON(http.StatusCreated, resp)
}

// Post
// GET /api/v1.0/posts/:id
func (h *APIHandler) Post(c *gin.Context) {
	id, ok := h.apiID(c)
	if !ok {
		return
	}
	post, err := h.posts.Get(id)
	if err != nil {
		apiFail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPostResp(baseURL(c), post, h.posts.CommentCount(post.ID)))
}

// EditPost
// PUT /api/v1.0/posts/:id
func (h *APIHandler) EditPost(c *gin.Context) {
	id, ok := h.apiID(c)
	if !ok {
		return
	}
	var req dto.PostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		apiAbort(c, http.StatusBadRequest, "post does not have a body")
		return
	}
	post, err := h.posts.Edit(middleware.CurrentUser(c), id, req)
	if err != nil {
		apiFail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPostResp(baseURL(c), post, h.posts.CommentCount(post.ID)))
}

// PostComments lists a post's comments, oldest first.
// GET /api/v1.0/posts/:id/comments/
func (h *APIHandler) PostComments(c *gin.Context) {
	id, ok := h.apiID(c)
	if !ok {
		return
	}
	post, err := h.posts.Get(id)
	if err != nil {
		apiFail(c, err)
		return
	}
	page, err := h.comments.ListByPost(post.ID, pageParam(c))
	if err != nil {
		apiFail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.commentsResp(c, c.Request.URL.Path, page))
}

// NewPostComment
// POST /api/v1.0/posts/:id/comments/
func (h *APIHandler) NewPostComment(c *gin.Context) {
	id, ok := h.apiID(c)
	if !ok {
		return
	}
	var req dto.CommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		apiAbort(c, http.StatusBadRequest, "comment does not have a body")
		return
	}
	comment, err := h.comments.Add(middleware.CurrentUser(c), id, req)
	if err != nil {
		apiFail(c, err)
		return
	}
	resp := dto.NewCommentResp(baseURL(c), comment)
	c.Header("Location", resp.URL)
	c.JSON(http.StatusCreated, resp)
}

// User
// GET /api/v1.0/users/:id
func (h *APIHandler) User(c *gin.Context) {
	user, ok := h.apiUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResp(baseURL(c), user, h.users.PostCount(user)))
}

// UserPosts
// GET /api/v1.0/users/:id/posts/
func (h *APIHandler) UserPosts(c *gin.Context) {
	user, ok := h.apiUser(c)
	if !ok {
		return
	}
	page, err := h.posts.ListByAuthor(user, pageParam(c))
	if err != nil {
		apiFail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.postsResp(c, c.Request.URL.Path, page))
}

// UserTimeline lists posts by everyone the user follows.
// GET /api/v1.0/users/:id/timeline/
func (h *APIHandler) UserTimeline(c *gin.Context) {
	user, ok := h.apiUser(c)
	if !ok {
		return
	}
	page, err := h.posts.ListFollowed(user, pageParam(c))
	if err != nil {
		apiFail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.postsResp(c, c.Request.URL.Path, page))
}

func (h *APIHandler) apiUser(c *gin.Context) (*model.User, bool) {
	id, ok := h.apiID(c)
	if !ok {
		return nil, false
	}
	user, err := h.users.GetByID(id)
	if err != nil {
		apiFail(c, err)
		return nil, false
	}
	return user, true
}

// Comments lists every comment, newest first.
// GET /api/v1.0/comments/
func (h *APIHandler) Comments(c *gin.Context) {
	page, err := h.comments.List(pageParam(c))
	if err != nil {
		apiFail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.commentsResp(c, dto.APIPrefix+"/comments/", page))
}

// Comment
// GET /api/v1.0/comments/:id
func (h *APIHandler) Comment(c *gin.Context) {
	id, ok := h.apiID(c)
	if !ok {
		return
	}
	comment, err := h.comments.Get(id)
	if err != nil {
		apiFail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCommentResp(baseURL(c), comment))
}
