package models

import "gorm.io/gorm"

type Project struct {
	gorm.Model

	Name    string `gorm:"not null"`
	OwnerID uint   `gorm:"not null;index"` // immutable after creation

	// Completed is tri-state: nil until the project is acted on, then
	// false/true. Only the complete operation moves it to true.
	Completed *bool

	// Relationships
	Owner User   `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Tasks []Task `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Notes []Note `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
