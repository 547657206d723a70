package service

import (
	"Inkwell/internal/conf"
	"Inkwell/internal/data"
	"Inkwell/internal/dto"
	"Inkwell/internal/model"
	"Inkwell/internal/repository"
)

type PostService struct {
	Data  *data.Data
	cfg   conf.AppConfig
	posts repository.PostRepository
}

func NewPostService(d *data.Data, cfg conf.AppConfig) *PostService {
	return &PostService{Data: d, cfg: cfg, posts: repository.NewPostRepository(d.DB)}
}

func (s *PostService) Create(author *model.User, req dto.PostReq) (*model.Post, error) {
	if !author.Can(model.PermWrite) {
		return nil, ErrForbidden
	}
	if err := req.Validate().Err(); err != nil {
		return nil, err
	}
	post := &model.Post{Body: req.Body, AuthorID: author.ID}
	if err := s.posts.Create(post); err != nil {
		return nil, err
	}
	post.Author = *author
	return post, nil
}

// Edit rewrites the body of a post. Only its author or an administrator may.
func (s *PostService) Edit(editor *model.User, id uint, req dto.PostReq) (*model.Post, error) {
	post, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if editor == nil || (editor.ID != post.AuthorID && !editor.IsAdministrator()) {
		return nil, ErrForbidden
	}
	if err := req.Validate().Err(); err != nil {
		return nil, err
	}
	post.Body = req.Body
	if err := s.posts.Save(post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) Get(id uint) (*model.Post, error) {
	post, err := s.posts.GetByID(id)
	return post, notFound(err)
}

func (s *PostService) List(page int) (*repository.Page[model.Post], error) {
	return s.posts.List(page, s.cfg.PostsPerPage)
}

func (s *PostService) ListByAuthor(author *model.User, page int) (*repository.Page[model.Post], error) {
	return s.posts.ListByAuthor(author.ID, page, s.cfg.PostsPerPage)
}

// ListFollowed is the timeline of user: their own posts and those of everyone
// they follow.
func (s *PostService) ListFollowed(user *model.User, page int) (*repository.Page[model.Post], error) {
	return s.posts.ListFollowed(user.ID, page, s.cfg.PostsPerPage)
}

func (s *PostService) CommentCount(postID uint) int64 {
	return s.posts.CountComments(postID)
}
