package repository

import (
	"time"

	"Inkwell/internal/model"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	Save(user *model.User) error
	GetByID(id uint) (*model.User, error)
	GetByEmail(email string) (*model.User, error)
	GetByUsername(username string) (*model.User, error)
	// excludeID skips one user, 0 skips nobody
	IsEmailExist(email string, excludeID uint) bool
	IsUsernameExist(username string, excludeID uint) bool
	Touch(id uint, at time.Time) error
	CountPosts(id uint) int64
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	return r.db.Omit("Role").Create(user).Error
}

func (r *userRepository) Save(user *model.User) error {
	return r.db.Omit("Role").Save(user).Error
}

func (r *userRepository) GetByID(id uint) (*model.User, error) {
	return r.first("id = ?", id)
}

func (r *userRepository) GetByEmail(email string) (*model.User, error) {
	return r.first("email = ?", email)
}

func (r *userRepository) GetByUsername(username string) (*model.User, error) {
	return r.first("username = ?", username)
}

func (r *userRepository) first(query string, arg interface{}) (*model.User, error) {
	var user model.User
	if err := r.db.Preload("Role").Where(query, arg).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) IsEmailExist(email string, excludeID uint) bool {
	return r.exists("email = ?", email, excludeID)
}

func (r *userRepository) IsUsernameExist(username string, excludeID uint) bool {
	return r.exists("username = ?", username, excludeID)
}

func (r *userRepository) exists(query string, arg interface{}, excludeID uint) bool {
	var count int64
	q := r.db.Model(&model.User{}).Where(query, arg)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	q.Count(&count)
	return count > 0
}

func (r *userRepository) Touch(id uint, at time.Time) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).UpdateColumn("last_seen", at).Error
}

func (r *userRepository) CountPosts(id uint) int64 {
	var count int64
	r.db.Model(&model.Post{}).Where("author_id = ?", id).Count(&count)
	return count
}
