package model

import (
	"time"

	"Inkwell/internal/markup"
	"gorm.io/gorm"
)

type Comment struct {
	BaseModel
	Body      string    `gorm:"type:text" json:"body"`
	BodyHTML  string    `gorm:"type:text" json:"body_html"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
	Disabled  bool      `gorm:"default:false" json:"disabled"`

	AuthorID uint `gorm:"index;not null" json:"author_id"`
	Author   User `json:"-"`
	PostID   uint `gorm:"index;not null" json:"post_id"`
	Post     Post `json:"-"`
}

func (c *Comment) BeforeSave(tx *gorm.DB) error {
	c.BodyHTML = markup.Comment(c.Body)
	if c.Timestamp.IsZero() {
		c.Timestamp = time.Now().UTC()
	}
	return nil
}
