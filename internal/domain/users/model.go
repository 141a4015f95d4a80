package users

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"not null;uniqueIndex:idx_users_email"`
	Image        string
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'google'"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_users_google_sub"`
	Role         string  `gorm:"not null;default:'user'"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
