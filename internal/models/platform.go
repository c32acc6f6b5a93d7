package models

import "gorm.io/gorm"

type Platform struct {
	gorm.Model

	Name string `gorm:"not null"`
	URL  string

	// Relationships
	Applications []Application `gorm:"foreignKey:PlatformID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
