package models

import (
	"time"

	"gorm.io/gorm"
)

// Step is one recorded stage transition in an application's pipeline.
type Step struct {
	gorm.Model

	ApplicationID uint      `gorm:"not null;index"`
	StepID        uint      `gorm:"not null;index"`
	StepDate      time.Time `gorm:"type:date;not null"`
	Observation   string

	// Relationships
	Application Application    `gorm:"foreignKey:ApplicationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Definition  StepDefinition `gorm:"foreignKey:StepID"`
}
