package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model

	FirstName    string `gorm:"not null"`
	LastName     string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"` // stored lowercased
	PasswordHash string `gorm:"not null"`

	LastSignInIP  string
	Location      string
	GeocodeResult datatypes.JSON `gorm:"type:jsonb"` // raw geocoder payload

	// Relationships
	Projects []Project `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Notes    []Note    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// Name returns the user's full name.
func (u *User) Name() string {
	return u.FirstName + " " + u.LastName
}
