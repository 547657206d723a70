package model

import (
	"time"

	"Inkwell/internal/utils"
)

type User struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;size:64;not null" json:"email"`
	Username     string `gorm:"uniqueIndex;size:64;not null" json:"username"`
	PasswordHash string `gorm:"size:128" json:"-"`
	Confirmed    bool   `gorm:"default:false" json:"confirmed"`

	// profile
	Name     string `gorm:"size:64" json:"name"`
	Location string `gorm:"size:64" json:"location"`
	AboutMe  string `gorm:"type:text" json:"about_me"`

	MemberSince time.Time `json:"member_since"`
	LastSeen    time.Time `json:"last_seen"`

	AvatarHash string `gorm:"size:32" json:"-"`
	// object key of an uploaded avatar, empty means gravatar
	Avatar string `gorm:"size:255" json:"-"`

	RoleID *uint `gorm:"index" json:"role_id"`
	Role   *Role `json:"role,omitempty"`
}

// SetPassword stores a salted hash of password.
func (u *User) SetPassword(password string) error {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) VerifyPassword(password string) bool {
	return utils.CheckPasswordHash(password, u.PasswordHash)
}

// Can is false for a nil (anonymous) user and for users without a role.
func (u *User) Can(perm Permission) bool {
	return u != nil && u.Role.Has(perm)
}

func (u *User) IsAdministrator() bool {
	return u.Can(PermAdmin)
}

// SetEmail updates the address and the derived avatar hash together.
func (u *User) SetEmail(email string) {
	u.Email = email
	u.AvatarHash = utils.AvatarHash(email)
}

func (u *User) GravatarURL(size int, secure bool) string {
	hash := u.AvatarHash
	if hash == "" {
		hash = utils.AvatarHash(u.Email)
	}
	return utils.GravatarURL(hash, size, secure)
}
