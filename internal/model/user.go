package model

import "time"

type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"size:150;not null;uniqueIndex" json:"username"`
	Email        string     `gorm:"size:254;not null;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	FirstName    string     `gorm:"size:150" json:"first_name"`
	LastName     string     `gorm:"size:150" json:"last_name"`
	Bio          *string    `gorm:"type:text" json:"bio"`
	Avatar       *string    `gorm:"size:255" json:"-"`
	IsActive     bool       `gorm:"not null" json:"is_active"`
	IsStaff      bool       `gorm:"not null;default:false" json:"is_staff"`
	IsSuperuser  bool       `gorm:"not null;default:false" json:"-"`
	LastLogin    *time.Time `json:"-"`
	CreatedAt    time.Time  `gorm:"column:date_joined" json:"date_joined"`
	UpdatedAt    time.Time  `json:"updated_at"`

	BlogPosts []BlogPost `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	ArtImages []ArtImage `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// Role is the coarse role reported to clients after login.
func (u *User) Role() string {
	if u.IsStaff {
		return "admin"
	}
	return "user"
}
