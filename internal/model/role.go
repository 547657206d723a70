package model

type Role struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	Name        string `gorm:"uniqueIndex;size:64;not null" json:"name"`
	Default     bool   `gorm:"index;default:false" json:"default"`
	Permissions int    `gorm:"not null;default:0" json:"permissions"`

	Users []User `gorm:"foreignKey:RoleID" json:"-"`
}

// Has reports whether every bit of perm is granted.
func (r *Role) Has(perm Permission) bool {
	return r != nil && r.Permissions&int(perm) == int(perm)
}

func (r *Role) Add(perm Permission) {
	if !r.Has(perm) {
		r.Permissions |= int(perm)
	}
}

func (r *Role) Remove(perm Permission) {
	if r.Has(perm) {
		r.Permissions &^= int(perm)
	}
}

func (r *Role) Reset() {
	r.Permissions = 0
}
