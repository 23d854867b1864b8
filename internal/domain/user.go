package domain

import (
	"time"
)

// User is an account owning websites. Only anonymous guests are created today.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	IsGuest   bool      `json:"isGuest" gorm:"not null;default:false"`
	Websites  []Website `json:"websites,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// GuestIdentity is returned to the client when a guest is created.
type GuestIdentity struct {
	UserID    string `json:"userId"`
	WebsiteID string `json:"websiteId"`
	Slug      string `json:"slug"`
	Token     string `json:"token"`
}
