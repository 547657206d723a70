package repository

import (
	"Inkwell/internal/model"
	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(comment *model.Comment) error
	Save(comment *model.Comment) error
	GetByID(id uint) (*model.Comment, error)
	// ListByPost is oldest first; page LastPage jumps to the newest comments.
	ListByPost(postID uint, page, perPage int) (*Page[model.Comment], error)
	// List is newest first across all posts.
	List(page, perPage int) (*Page[model.Comment], error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(comment *model.Comment) error {
	return r.db.Omit("Author", "Post").Create(comment).Error
}

func (r *commentRepository) Save(comment *model.Comment) error {
	return r.db.Omit("Author", "Post").Save(comment).Error
}

func (r *commentRepository) GetByID(id uint) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.Preload("Author").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListByPost(postID uint, page, perPage int) (*Page[model.Comment], error) {
	base := r.db.Model(&model.Comment{}).Where("post_id = ?", postID)
	return paginate[model.Comment](base, "timestamp asc, id asc", page, perPage, "Author")
}

func (r *commentRepository) List(page, perPage int) (*Page[model.Comment], error) {
	return paginate[model.Comment](r.db.Model(&model.Comment{}), "timestamp desc, id desc", page, perPage, "Author", "Post")
}
