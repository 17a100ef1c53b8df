package models

import "gorm.io/gorm"

type Task struct {
	gorm.Model

	ProjectID uint   `gorm:"not null;index"`
	Name      string `gorm:"not null"`

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
