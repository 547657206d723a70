package repository

import (
	"time"

	"Inkwell/internal/model"
	"gorm.io/gorm"
)

type FollowRepository interface {
	Follow(followerID, followedID uint, at time.Time) error
	Unfollow(followerID, followedID uint) error
	IsFollowing(followerID, followedID uint) bool
	// Followers lists the edges pointing at userID, with Follower loaded.
	Followers(userID uint, page, perPage int) (*Page[model.Follow], error)
	// Followed lists the edges leaving userID, with Followed loaded.
	Followed(userID uint, page, perPage int) (*Page[model.Follow], error)
	CountFollowers(userID uint) int64
	CountFollowed(userID uint) int64
	// AddSelfFollows makes every user follow themself and returns how many
	// edges were created.
	AddSelfFollows(at time.Time) (int, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Follow(followerID, followedID uint, at time.Time) error {
	if r.IsFollowing(followerID, followedID) {
		return nil
	}
	return r.db.Omit("Follower", "Followed").Create(&model.Follow{
		FollowerID: followerID,
		FollowedID: followedID,
		Timestamp:  at,
	}).Error
}

func (r *followRepository) Unfollow(followerID, followedID uint) error {
	return r.db.Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&model.Follow{}).Error
}

func (r *followRepository) IsFollowing(followerID, followedID uint) bool {
	var count int64
	r.db.Model(&model.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count)
	return count > 0
}

func (r *followRepository) Followers(userID uint, page, perPage int) (*Page[model.Follow], error) {
	base := r.db.Model(&model.Follow{}).Where("followed_id = ?", userID)
	return paginate[model.Follow](base, "timestamp desc, follower_id", page, perPage, "Follower")
}

func (r *followRepository) Followed(userID uint, page, perPage int) (*Page[model.Follow], error) {
	base := r.db.Model(&model.Follow{}).Where("follower_id = ?", userID)
	return paginate[model.Follow](base, "timestamp desc, followed_id", page, perPage, "Followed")
}

func (r *followRepository) CountFollowers(userID uint) int64 {
	var count int64
	r.db.Model(&model.Follow{}).Where("followed_id = ?", userID).Count(&count)
	return count
}

func (r *followRepository) CountFollowed(userID uint) int64 {
	var count int64
	r.db.Model(&model.Follow{}).Where("follower_id = ?", userID).Count(&count)
	return count
}

func (r *followRepository) AddSelfFollows(at time.Time) (int, error) {
	var ids []uint
	selfFollowers := r.db.Model(&model.Follow{}).Select("follower_id").Where("follower_id = followed_id")
	if err := r.db.Model(&model.User{}).Where("id NOT IN (?)", selfFollowers).Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	for _, id := range ids {
		if err := r.Follow(id, id, at); err != nil {
			return 0, err
		}
	}
	return len(ids), nil
}
