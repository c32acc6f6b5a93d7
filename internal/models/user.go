package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model

	Username        string `gorm:"uniqueIndex;not null"`
	Email           string `gorm:"uniqueIndex;not null"`
	PasswordHash    string `gorm:"not null"`
	FirstName       string
	LastName        string
	CurrentCompany  string
	CurrentSalary   *float64
	ExperienceYears *int
	TechStack       datatypes.JSONSlice[string]

	// Relationships
	Applications []Application `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
