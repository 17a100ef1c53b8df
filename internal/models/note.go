package models

import "gorm.io/gorm"

type Note struct {
	gorm.Model

	ProjectID uint   `gorm:"not null;index"`
	UserID    uint   `gorm:"not null;index"` // authoring user
	Message   string `gorm:"not null"`

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User    User    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
