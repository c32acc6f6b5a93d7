package models

// Well-known pipeline stage ids. The dashboard treats Applied as the
// funnel entry point and Offer/Rejected as terminal outcomes.
const (
	StepApplied  uint = 1
	StepOffer    uint = 6
	StepRejected uint = 7
)

type StepDefinition struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Description string
	Color       string
}
