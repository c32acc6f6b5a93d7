package models

import (
	"time"

	"gorm.io/gorm"
)

// Application modes: who initiated the contact.
const (
	ModeActive  = "active"
	ModePassive = "passive"
)

type Application struct {
	gorm.Model

	UserID          uint      `gorm:"not null;index"`
	Company         string    `gorm:"not null"`
	Role            string    `gorm:"not null"`
	ApplicationDate time.Time `gorm:"type:date;not null"`
	PlatformID      uint      `gorm:"not null;index"`
	Mode            string    `gorm:"not null"` // "active" or "passive"
	ExpectedSalary  *float64
	SalaryRangeMin  *float64
	SalaryRangeMax  *float64
	SalaryOffer     *float64
	Observation     string

	// Cached projection of the most recent step, kept in sync
	// transactionally with every step write.
	LastStep     uint      `gorm:"not null;index"`
	LastStepDate time.Time `gorm:"type:date;not null"`

	FeedbackID   *uint      `gorm:"index"`
	FeedbackDate *time.Time `gorm:"type:date"`

	// Relationships
	User               User                `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Platform           Platform            `gorm:"foreignKey:PlatformID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	LastStepDefinition StepDefinition      `gorm:"foreignKey:LastStep"`
	Feedback           *FeedbackDefinition `gorm:"foreignKey:FeedbackID"`
	Steps              []Step              `gorm:"foreignKey:ApplicationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
