package model

import (
	"time"

	"Inkwell/internal/markup"
	"gorm.io/gorm"
)

type Post struct {
	BaseModel
	Body      string    `gorm:"type:text" json:"body"`
	BodyHTML  string    `gorm:"type:text" json:"body_html"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`

	AuthorID uint `gorm:"index;not null" json:"author_id"`
	Author   User `json:"-"`

	Comments []Comment `gorm:"foreignKey:PostID" json:"-"`
}

// BeforeSave regenerates BodyHTML so the stored HTML always matches Body.
func (p *Post) BeforeSave(tx *gorm.DB) error {
	p.BodyHTML = markup.Post(p.Body)
	if p.Timestamp.IsZero() {
		p.Timestamp = time.Now().UTC()
	}
	return nil
}
