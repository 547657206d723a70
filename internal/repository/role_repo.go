package repository

import (
	"errors"

	"Inkwell/internal/model"
	"gorm.io/gorm"
)

type RoleRepository interface {
	// InsertRoles creates or updates every model.DefaultRoles entry.
	InsertRoles() error
	GetByID(id uint) (*model.Role, error)
	GetByName(name string) (*model.Role, error)
	GetDefault() (*model.Role, error)
	List() ([]model.Role, error)
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) InsertRoles() error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, seed := range model.DefaultRoles {
			var role model.Role
			err := tx.Where("name = ?", seed.Name).First(&role).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			role.Name = seed.Name
			role.Reset()
			for _, p := range seed.Permissions {
				role.Add(p)
			}
			role.Default = seed.Default
			if err := tx.Save(&role).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *roleRepository) GetByID(id uint) (*model.Role, error) {
	var role model.Role
	if err := r.db.First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) GetByName(name string) (*model.Role, error) {
	var role model.Role
	if err := r.db.Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) GetDefault() (*model.Role, error) {
	var role model.Role
	if err := r.db.Where(&model.Role{Default: true}).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) List() ([]model.Role, error) {
	var roles []model.Role
	if err := r.db.Order("name").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}
