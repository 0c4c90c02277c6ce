package model

import "time"

type ArtImage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user"`
	Image      string    `gorm:"size:255;not null" json:"-"`
	Caption    string    `gorm:"size:255" json:"caption"`
	Title      string    `gorm:"size:255" json:"title"`
	UploadedAt time.Time `gorm:"autoCreateTime;index" json:"uploaded_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
