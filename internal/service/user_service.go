package service

import (
	"errors"
	"time"

	"Inkwell/internal/conf"
	"Inkwell/internal/data"
	"Inkwell/internal/dto"
	"Inkwell/internal/model"
	"Inkwell/internal/repository"

	"gorm.io/gorm"
)

type UserService struct {
	Data    *data.Data
	cfg     conf.AppConfig
	users   repository.UserRepository
	roles   repository.RoleRepository
	follows repository.FollowRepository
}

func NewUserService(d *data.Data, cfg conf.AppConfig) *UserService {
	return &UserService{
		Data:    d,
		cfg:     cfg,
		users:   repository.NewUserRepository(d.DB),
		roles:   repository.NewRoleRepository(d.DB),
		follows: repository.NewFollowRepository(d.DB),
	}
}

func (s *UserService) GetByID(id uint) (*model.User, error) {
	user, err := s.users.GetByID(id)
	return user, notFound(err)
}

func (s *UserService) GetByUsername(username string) (*model.User, error) {
	user, err := s.users.GetByUsername(username)
	return user, notFound(err)
}

// Ping records that user was just active.
func (s *UserService) Ping(user *model.User) error {
	now := time.Now().UTC()
	if err := s.users.Touch(user.ID, now); err != nil {
		return err
	}
	user.LastSeen = now
	return nil
}

func (s *UserService) EditProfile(user *model.User, req dto.EditProfileReq) error {
	if err := req.Validate().Err(); err != nil {
		return err
	}
	user.Name = req.Name
	user.Location = req.Location
	user.AboutMe = req.AboutMe
	return s.users.Save(user)
}

// EditProfileAdmin lets an administrator rewrite any account, including its
// role and confirmation state.
func (s *UserService) EditProfileAdmin(editor *model.User, id uint, req dto.EditProfileAdminReq) (*model.User, error) {
	if !editor.IsAdministrator() {
		return nil, ErrForbidden
	}
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	fe := req.Validate()
	email := dto.NormalizeEmail(req.Email)
	if _, bad := fe["email"]; !bad && s.users.IsEmailExist(email, user.ID) {
		fe.Add("email", "Email already registered.")
	}
	if _, bad := fe["username"]; !bad && s.users.IsUsernameExist(req.Username, user.ID) {
		fe.Add("username", "Username already in use.")
	}
	var role *model.Role
	if _, bad := fe["role"]; !bad {
		role, err = s.roles.GetByID(req.RoleID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fe.Add("role", "Not a valid choice.")
		} else if err != nil {
			return nil, err
		}
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	user.SetEmail(email)
	user.Username = req.Username
	user.Confirmed = req.Confirmed
	user.RoleID = &role.ID
	user.Role = role
	user.Name = req.Name
	user.Location = req.Location
	user.AboutMe = req.AboutMe
	if err := s.users.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Roles() ([]model.Role, error) {
	return s.roles.List()
}

// Follow makes follower follow the user called username.
func (s *UserService) Follow(follower *model.User, username string) (*model.User, error) {
	if !follower.Can(model.PermFollow) {
		return nil, ErrForbidden
	}
	target, err := s.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if s.follows.IsFollowing(follower.ID, target.ID) {
		return target, ErrAlreadyFollowing
	}
	return target, s.follows.Follow(follower.ID, target.ID, time.Now().UTC())
}

func (s *UserService) Unfollow(follower *model.User, username string) (*model.User, error) {
	if !follower.Can(model.PermFollow) {
		return nil, ErrForbidden
	}
	target, err := s.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	// the self edge keeps a user's own posts in their timeline
	if target.ID == follower.ID || !s.follows.IsFollowing(follower.ID, target.ID) {
		return target, ErrNotFollowing
	}
	return target, s.follows.Unfollow(follower.ID, target.ID)
}

func (s *UserService) IsFollowing(followerID, followedID uint) bool {
	return s.follows.IsFollowing(followerID, followedID)
}

func (s *UserService) Followers(user *model.User, page int) (*repository.Page[model.Follow], error) {
	return s.follows.Followers(user.ID, page, s.cfg.FollowersPerPage)
}

func (s *UserService) Followed(user *model.User, page int) (*repository.Page[model.Follow], error) {
	return s.follows.Followed(user.ID, page, s.cfg.FollowersPerPage)
}

// Stats returns follower, followed and post counts. Self-follows are not
// counted.
func (s *UserService) Stats(user *model.User) (followers, followed, posts int64) {
	followers = s.follows.CountFollowers(user.ID)
	followed = s.follows.CountFollowed(user.ID)
	if s.follows.IsFollowing(user.ID, user.ID) {
		followers--
		followed--
	}
	return followers, followed, s.users.CountPosts(user.ID)
}

func (s *UserService) PostCount(user *model.User) int64 {
	return s.users.CountPosts(user.ID)
}
