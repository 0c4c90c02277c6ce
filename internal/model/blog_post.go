package model

import "time"

type BlogPost struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AuthorID  uint      `gorm:"not null;index" json:"author"`
	Author    *User     `gorm:"foreignKey:AuthorID" json:"-"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Slug      string    `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthorName returns the author's username when the relation is loaded.
func (p *BlogPost) AuthorName() string {
	if p.Author == nil {
		return ""
	}
	return p.Author.Username
}
