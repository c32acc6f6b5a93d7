package pipeline

import (
	"math"
	"time"

	"github.com/jobtrail-dev/jobtrail/db"
	"github.com/jobtrail-dev/jobtrail/internal/models"
)

// The dashboard time series covers a 30-day window ending today, inclusive.
const timeSeriesDays = 30

type StepFunnelEntry struct {
	StepID         uint    `json:"step_id"`
	Name           string  `json:"step_name"`
	Color          string  `json:"step_color"`
	Applications   int64   `json:"applications_count"`
	ConversionRate float64 `json:"conversion_rate"`
}

type PlatformCount struct {
	Platform string `json:"platform_name"`
	Count    int64  `json:"count"`
}

type ModeCount struct {
	Mode  string `json:"mode"`
	Count int64  `json:"count"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type StepDuration struct {
	StepID  uint    `json:"step_id"`
	Name    string  `json:"step_name"`
	Color   string  `json:"step_color"`
	AvgDays float64 `json:"avg_days"`
}

type Metrics struct {
	TotalApplications int64             `json:"total_applications"`
	Funnel            []StepFunnelEntry `json:"conversion_data"`
	ByPlatform        []PlatformCount   `json:"applications_by_platform"`
	ByMode            []ModeCount       `json:"applications_by_mode"`
	Daily             []DailyCount      `json:"daily_applications"`
	TotalOffers       int64             `json:"total_offers"`
	TotalRejections   int64             `json:"total_rejections"`
	SuccessRate       float64           `json:"success_rate"`
	AvgDaysPerStep    []StepDuration    `json:"average_days_per_step"`
}

// round1 rounds half away from zero to one decimal place. Applied to
// every percentage the dashboard reports.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func countOwnedSteps(userID uint, stepID uint) (int64, error) {
	var count int64

	q := db.DB.Model(&models.Step{}).
		Joins("JOIN applications ON applications.id = steps.application_id").
		Where("applications.user_id = ?", userID)

	if stepID != 0 {
		q = q.Where("steps.step_id = ?", stepID)
	}

	err := q.Distinct("steps.application_id").Count(&count).Error
	return count, err
}

// Dashboard aggregates the calling user's applications into the metrics
// the home dashboard renders. Read-only; everything degrades to zeroes
// when the user has no applications yet.
func Dashboard(userID uint) (*Metrics, error) {
	metrics := &Metrics{
		Funnel:         []StepFunnelEntry{},
		ByPlatform:     []PlatformCount{},
		ByMode:         []ModeCount{},
		Daily:          []DailyCount{},
		AvgDaysPerStep: []StepDuration{},
	}

	total, err := countOwnedSteps(userID, 0)

	if err != nil {
		return nil, classify("dashboard", err)
	}

	metrics.TotalApplications = total

	var definitions []models.StepDefinition

	if err := db.DB.Order("id").Find(&definitions).Error; err != nil {
		return nil, classify("dashboard", err)
	}

	for _, definition := range definitions {
		count, err := countOwnedSteps(userID, definition.ID)

		if err != nil {
			return nil, classify("dashboard", err)
		}

		rate := 0.0

		if total > 0 {
			rate = round1(float64(count) / float64(total) * 100)
		}

		metrics.Funnel = append(metrics.Funnel, StepFunnelEntry{
			StepID:         definition.ID,
			Name:           definition.Name,
			Color:          definition.Color,
			Applications:   count,
			ConversionRate: rate,
		})
	}

	if err := db.DB.Model(&models.Application{}).
		Select("platforms.name AS platform, COUNT(applications.id) AS count").
		Joins("JOIN platforms ON platforms.id = applications.platform_id").
		Where("applications.user_id = ?", userID).
		Group("platforms.name").
		Order("count DESC").
		Scan(&metrics.ByPlatform).Error; err != nil {
		return nil, classify("dashboard", err)
	}

	if err := db.DB.Model(&models.Application{}).
		Select("mode, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("mode").
		Scan(&metrics.ByMode).Error; err != nil {
		return nil, classify("dashboard", err)
	}

	daily, err := dailyCounts(userID)

	if err != nil {
		return nil, classify("dashboard", err)
	}

	metrics.Daily = daily

	if err := db.DB.Model(&models.Application{}).
		Where("user_id = ? AND last_step = ?", userID, models.StepOffer).
		Count(&metrics.TotalOffers).Error; err != nil {
		return nil, classify("dashboard", err)
	}

	if err := db.DB.Model(&models.Application{}).
		Where("user_id = ? AND last_step = ?", userID, models.StepRejected).
		Count(&metrics.TotalRejections).Error; err != nil {
		return nil, classify("dashboard", err)
	}

	if total > 0 {
		metrics.SuccessRate = round1(float64(metrics.TotalOffers) / float64(total) * 100)
	}

	durations, err := averageDays(userID, definitions)

	if err != nil {
		return nil, classify("dashboard", err)
	}

	metrics.AvgDaysPerStep = durations

	return metrics, nil
}

// dailyCounts buckets the user's applications per calendar day over the
// trailing window. Bucketing happens in Go so the date arithmetic stays
// identical across database drivers.
func dailyCounts(userID uint) ([]DailyCount, error) {
	var dates []time.Time

	if err := db.DB.Model(&models.Application{}).
		Where("user_id = ?", userID).
		Pluck("application_date", &dates).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	windowEnd := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	windowStart := windowEnd.AddDate(0, 0, -(timeSeriesDays - 1))

	buckets := make(map[string]int64)

	for _, date := range dates {
		day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

		if day.Before(windowStart) || day.After(windowEnd) {
			continue
		}

		buckets[day.Format("2006-01-02")]++
	}

	daily := []DailyCount{}

	for offset := 0; offset < timeSeriesDays; offset++ {
		day := windowStart.AddDate(0, 0, offset).Format("2006-01-02")

		if count, ok := buckets[day]; ok {
			daily = append(daily, DailyCount{Date: day, Count: count})
		}
	}

	return daily, nil
}

// averageDays computes the mean days from application to each step for
// every definition after the funnel entry point. Definitions with no
// observations report 0.
func averageDays(userID uint, definitions []models.StepDefinition) ([]StepDuration, error) {
	var rows []struct {
		StepID          uint
		StepDate        time.Time
		ApplicationDate time.Time
	}

	if err := db.DB.Model(&models.Step{}).
		Select("steps.step_id AS step_id, steps.step_date AS step_date, applications.application_date AS application_date").
		Joins("JOIN applications ON applications.id = steps.application_id").
		Where("applications.user_id = ? AND steps.step_id <> ?", userID, models.StepApplied).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	sums := make(map[uint]float64)
	counts := make(map[uint]int64)

	for _, row := range rows {
		stepDay := time.Date(row.StepDate.Year(), row.StepDate.Month(), row.StepDate.Day(), 0, 0, 0, 0, time.UTC)
		appliedDay := time.Date(row.ApplicationDate.Year(), row.ApplicationDate.Month(), row.ApplicationDate.Day(), 0, 0, 0, 0, time.UTC)

		sums[row.StepID] += stepDay.Sub(appliedDay).Hours() / 24
		counts[row.StepID]++
	}

	durations := []StepDuration{}

	for _, definition := range definitions {
		if definition.ID == models.StepApplied {
			continue
		}

		avg := 0.0

		if counts[definition.ID] > 0 {
			avg = sums[definition.ID] / float64(counts[definition.ID])
		}

		durations = append(durations, StepDuration{
			StepID:  definition.ID,
			Name:    definition.Name,
			Color:   definition.Color,
			AvgDays: avg,
		})
	}

	return durations, nil
}
