package service

import (
	"Inkwell/internal/conf"
	"Inkwell/internal/data"
	"Inkwell/internal/dto"
	"Inkwell/internal/model"
	"Inkwell/internal/repository"
)

type CommentService struct {
	Data     *data.Data
	cfg      conf.AppConfig
	posts    repository.PostRepository
	comments repository.CommentRepository
}

func NewCommentService(d *data.Data, cfg conf.AppConfig) *CommentService {
	return &CommentService{
		Data:     d,
		cfg:      cfg,
		posts:    repository.NewPostRepository(d.DB),
		comments: repository.NewCommentRepository(d.DB),
	}
}

func (s *CommentService) Add(author *model.User, postID uint, req dto.CommentReq) (*model.Comment, error) {
	if !author.Can(model.PermComment) {
		return nil, ErrForbidden
	}
	post, err := s.posts.GetByID(postID)
	if err != nil {
		return nil, notFound(err)
	}
	if err := req.Validate().Err(); err != nil {
		return nil, err
	}
	comment := &model.Comment{Body: req.Body, AuthorID: author.ID, PostID: post.ID}
	if err := s.comments.Create(comment); err != nil {
		return nil, err
	}
	comment.Author = *author
	return comment, nil
}

func (s *CommentService) Get(id uint) (*model.Comment, error) {
	comment, err := s.comments.GetByID(id)
	return comment, notFound(err)
}

// ListByPost pages oldest first; repository.LastPage selects the newest page.
func (s *CommentService) ListByPost(postID uint, page int) (*repository.Page[model.Comment], error) {
	return s.comments.ListByPost(postID, page, s.cfg.CommentsPerPage)
}

// List pages every comment newest first.
func (s *CommentService) List(page int) (*repository.Page[model.Comment], error) {
	return s.comments.List(page, s.cfg.CommentsPerPage)
}

// ListForModeration is List behind the Moderate permission.
func (s *CommentService) ListForModeration(moderator *model.User, page int) (*repository.Page[model.Comment], error) {
	if !moderator.Can(model.PermModerate) {
		return nil, ErrForbidden
	}
	return s.List(page)
}

func (s *CommentService) SetDisabled(moderator *model.User, id uint, disabled bool) (*model.Comment, error) {
	if !moderator.Can(model.PermModerate) {
		return nil, ErrForbidden
	}
	comment, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	comment.Disabled = disabled
	if err := s.comments.Save(comment); err != nil {
		return nil, err
	}
	return comment, nil
}
