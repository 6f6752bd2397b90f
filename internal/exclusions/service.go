package exclusions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/richxcame/giftcard-service/pkg/common"
	"github.com/richxcame/giftcard-service/pkg/logger"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// CheckOverlap returns the subset of existing periods whose raw stored
// [start, end] range intersects the candidate range. The period matching
// excludeID is skipped so updates do not conflict with themselves.
//
// Overlap on closed intervals: existing.start <= candidate.end &&
// existing.end >= candidate.start. Recurring periods are compared on their
// literal stored year only; recurrence is applied at redemption time via
// ActiveAt, not here.
func CheckOverlap(candidate DateRange, existing []ExclusionPeriod, excludeID *uuid.UUID) []ExclusionPeriod {
	var conflicts []ExclusionPeriod
	for _, period := range existing {
		if excludeID != nil && period.ID == *excludeID {
			continue
		}
		if !period.StartDate.After(candidate.End) && !period.EndDate.Before(candidate.Start) {
			conflicts = append(conflicts, period)
		}
	}
	return conflicts
}

// Service handles exclusion period business logic
type Service struct {
	repo RepositoryInterface
}

// NewService creates a new exclusion period service
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// CreateExclusionPeriod validates and persists a new exclusion period,
// rejecting any candidate that overlaps an existing one.
func (s *Service) CreateExclusionPeriod(ctx context.Context, req *CreateExclusionPeriodRequest) (*ExclusionPeriod, error) {
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, common.NewBadRequestError("invalid start_date format", err)
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, common.NewBadRequestError("invalid end_date format", err)
	}
	if endDate.Before(startDate) {
		return nil, common.NewBadRequestError("end_date cannot be before start_date", nil)
	}

	recurringType := RecurringNone
	if req.RecurringType != nil {
		recurringType = RecurringType(*req.RecurringType)
		if recurringType != RecurringNone && recurringType != RecurringYearly {
			return nil, common.NewBadRequestError("recurring_type must be \"yearly\" or \"none\"", nil)
		}
	} else if req.IsRecurring {
		recurringType = RecurringYearly
	}

	existing, err := s.repo.List(ctx)
	if err != nil {
		return nil, common.NewInternalError("failed to load exclusion periods", err)
	}

	conflicts := CheckOverlap(DateRange{Start: startDate, End: endDate}, existing, nil)
	if len(conflicts) > 0 {
		return nil, common.NewConflictError(overlapMessage(conflicts), nil)
	}

	period := &ExclusionPeriod{
		ID:            uuid.New(),
		Name:          req.Name,
		Description:   req.Description,
		StartDate:     startDate,
		EndDate:       endDate,
		IsRecurring:   req.IsRecurring || recurringType == RecurringYearly,
		RecurringType: recurringType,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := s.repo.Create(ctx, period); err != nil {
		return nil, common.NewInternalError("failed to create exclusion period", err)
	}

	logger.Info("Exclusion period created",
		zap.String("period_id", period.ID.String()),
		zap.String("name", period.Name),
		zap.Time("start_date", period.StartDate),
		zap.Time("end_date", period.EndDate),
	)

	return period, nil
}

// GetExclusionPeriod gets an exclusion period by ID
func (s *Service) GetExclusionPeriod(ctx context.Context, id uuid.UUID) (*ExclusionPeriod, error) {
	period, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, common.NewNotFoundError("exclusion period not found", err)
	}
	return period, nil
}

// ListExclusionPeriods lists all exclusion periods
func (s *Service) ListExclusionPeriods(ctx context.Context) ([]ExclusionPeriod, error) {
	periods, err := s.repo.List(ctx)
	if err != nil {
		return nil, common.NewInternalError("failed to list exclusion periods", err)
	}
	return periods, nil
}

// UpdateExclusionPeriod merges the patch over the stored period, re-runs the
// overlap check excluding the period itself, and persists the result.
func (s *Service) UpdateExclusionPeriod(ctx context.Context, id uuid.UUID, req *UpdateExclusionPeriodRequest) (*ExclusionPeriod, error) {
	period, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, common.NewNotFoundError("exclusion period not found", err)
	}

	if req.Name != nil {
		period.Name = *req.Name
	}
	if req.Description != nil {
		period.Description = req.Description
	}
	if req.StartDate != nil {
		startDate, err := time.Parse(dateLayout, *req.StartDate)
		if err != nil {
			return nil, common.NewBadRequestError("invalid start_date format", err)
		}
		period.StartDate = startDate
	}
	if req.EndDate != nil {
		endDate, err := time.Parse(dateLayout, *req.EndDate)
		if err != nil {
			return nil, common.NewBadRequestError("invalid end_date format", err)
		}
		period.EndDate = endDate
	}
	if req.IsRecurring != nil {
		period.IsRecurring = *req.IsRecurring
		if !period.IsRecurring {
			period.RecurringType = RecurringNone
		}
	}
	if req.RecurringType != nil {
		recurringType := RecurringType(*req.RecurringType)
		if recurringType != RecurringNone && recurringType != RecurringYearly {
			return nil, common.NewBadRequestError("recurring_type must be \"yearly\" or \"none\"", nil)
		}
		period.RecurringType = recurringType
		period.IsRecurring = recurringType == RecurringYearly
	}

	if period.EndDate.Before(period.StartDate) {
		return nil, common.NewBadRequestError("end_date cannot be before start_date", nil)
	}

	existing, err := s.repo.List(ctx)
	if err != nil {
		return nil, common.NewInternalError("failed to load exclusion periods", err)
	}

	conflicts := CheckOverlap(DateRange{Start: period.StartDate, End: period.EndDate}, existing, &period.ID)
	if len(conflicts) > 0 {
		return nil, common.NewConflictError(overlapMessage(conflicts), nil)
	}

	if err := s.repo.Update(ctx, period); err != nil {
		return nil, common.NewInternalError("failed to update exclusion period", err)
	}

	return period, nil
}

// DeleteExclusionPeriod deletes an exclusion period
func (s *Service) DeleteExclusionPeriod(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return common.NewNotFoundError("exclusion period not found", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return common.NewInternalError("failed to delete exclusion period", err)
	}

	logger.Info("Exclusion period deleted", zap.String("period_id", id.String()))
	return nil
}

// ActivePeriodsAt returns the periods blocking redemption at the given time,
// including yearly recurring periods matched on their re-anchored window.
func (s *Service) ActivePeriodsAt(ctx context.Context, now time.Time) ([]ExclusionPeriod, error) {
	periods, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	var active []ExclusionPeriod
	for i := range periods {
		if periods[i].ActiveAt(now) {
			active = append(active, periods[i])
		}
	}
	return active, nil
}

func overlapMessage(conflicts []ExclusionPeriod) string {
	names := make([]string, 0, len(conflicts))
	for _, period := range conflicts {
		names = append(names, fmt.Sprintf("%s (%s to %s)",
			period.Name,
			period.StartDate.Format(dateLayout),
			period.EndDate.Format(dateLayout),
		))
	}
	return "exclusion period overlaps existing period(s): " + strings.Join(names, ", ")
}
