package repository

import (
	"Inkwell/internal/model"
	"gorm.io/gorm"
)

const postOrder = "posts.timestamp desc, posts.id desc"

type PostRepository interface {
	Create(post *model.Post) error
	Save(post *model.Post) error
	GetByID(id uint) (*model.Post, error)
	List(page, perPage int) (*Page[model.Post], error)
	ListByAuthor(authorID uint, page, perPage int) (*Page[model.Post], error)
	// ListFollowed returns posts by every author userID follows, which
	// includes userID itself through the self-follow edge.
	ListFollowed(userID uint, page, perPage int) (*Page[model.Post], error)
	CountComments(postID uint) int64
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(post *model.Post) error {
	return r.db.Omit("Author", "Comments").Create(post).Error
}

func (r *postRepository) Save(post *model.Post) error {
	return r.db.Omit("Author", "Comments").Save(post).Error
}

func (r *postRepository) GetByID(id uint) (*model.Post, error) {
	var post model.Post
	if err := r.db.Preload("Author").First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(page, perPage int) (*Page[model.Post], error) {
	return paginate[model.Post](r.db.Model(&model.Post{}), postOrder, page, perPage, "Author")
}

func (r *postRepository) ListByAuthor(authorID uint, page, perPage int) (*Page[model.Post], error) {
	base := r.db.Model(&model.Post{}).Where("author_id = ?", authorID)
	return paginate[model.Post](base, postOrder, page, perPage, "Author")
}

func (r *postRepository) ListFollowed(userID uint, page, perPage int) (*Page[model.Post], error) {
	base := r.db.Model(&model.Post{}).
		Joins("JOIN follows ON follows.followed_id = posts.author_id").
		Where("follows.follower_id = ?", userID)
	return paginate[model.Post](base, postOrder, page, perPage, "Author")
}

func (r *postRepository) CountComments(postID uint) int64 {
	var count int64
	r.db.Model(&model.Comment{}).Where("post_id = ?", postID).Count(&count)
	return count
}
