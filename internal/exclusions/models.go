package exclusions

import (
	"time"

	"github.com/google/uuid"
)

// RecurringType represents how an exclusion period repeats
type RecurringType string

const (
	RecurringNone   RecurringType = "none"
	RecurringYearly RecurringType = "yearly"
)

// ExclusionPeriod is a calendar window during which gift cards cannot be
// redeemed, e.g. public holidays. Periods may recur yearly.
type ExclusionPeriod struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	Name          string        `json:"name" db:"name"`
	Description   *string       `json:"description,omitempty" db:"description"`
	StartDate     time.Time     `json:"start_date" db:"start_date"`
	EndDate       time.Time     `json:"end_date" db:"end_date"`
	IsRecurring   bool          `json:"is_recurring" db:"is_recurring"`
	RecurringType RecurringType `json:"recurring_type" db:"recurring_type"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// DateRange is a closed calendar interval used for overlap checks
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ActiveAt reports whether the period blocks redemption at the given time.
// Literal ranges match directly; yearly recurring periods match their
// month/day window re-anchored to the query year, including windows that
// wrap the year end (e.g. Dec 20 through Jan 5).
func (p *ExclusionPeriod) ActiveAt(now time.Time) bool {
	day := dateOnly(now)

	if !day.Before(dateOnly(p.StartDate)) && !day.After(dateOnly(p.EndDate)) {
		return true
	}

	if !p.IsRecurring || p.RecurringType != RecurringYearly {
		return false
	}

	start := time.Date(day.Year(), p.StartDate.Month(), p.StartDate.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(day.Year(), p.EndDate.Month(), p.EndDate.Day(), 0, 0, 0, 0, time.UTC)

	if start.After(end) {
		// Window wraps the year end
		return !day.Before(start) || !day.After(end)
	}
	return !day.Before(start) && !day.After(end)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CreateExclusionPeriodRequest represents a request to create an exclusion period
type CreateExclusionPeriodRequest struct {
	Name          string  `json:"name" binding:"required"`
	Description   *string `json:"description,omitempty"`
	StartDate     string  `json:"start_date" binding:"required"` // "2006-01-02"
	EndDate       string  `json:"end_date" binding:"required"`   // "2006-01-02"
	IsRecurring   bool    `json:"is_recurring"`
	RecurringType *string `json:"recurring_type,omitempty"` // "yearly" or "none"
}

// UpdateExclusionPeriodRequest represents a partial update; absent fields
// keep their stored values.
type UpdateExclusionPeriodRequest struct {
	Name          *string `json:"name,omitempty"`
	Description   *string `json:"description,omitempty"`
	StartDate     *string `json:"start_date,omitempty"`
	EndDate       *string `json:"end_date,omitempty"`
	IsRecurring   *bool   `json:"is_recurring,omitempty"`
	RecurringType *string `json:"recurring_type,omitempty"`
}
