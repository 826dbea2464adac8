package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	lockserrors "clubhouse/internal/locks/errors"
	"clubhouse/internal/locks/repository"
	"clubhouse/internal/locks/validator"
	"clubhouse/pkg/authz"
	"clubhouse/pkg/config"
	apperrors "clubhouse/pkg/errors"
	"clubhouse/pkg/model"
	"clubhouse/pkg/sanitizer"
)

// ReservationStore is the slice of the reservation engine the lock manager
// needs: occupancy lookups when placing a blackout over existing bookings.
type ReservationStore interface {
	FindOccupying(ctx context.Context, resourceID string, period model.Period) ([]*model.Reservation, error)
}

type LockService interface {
	Create(ctx context.Context, callerID string, input *model.LockCreate) (*model.Lock, error)
	GetByID(ctx context.Context, callerID, id string) (*model.Lock, error)
	ListBetween(ctx context.Context, callerID, resourceID string, period model.Period, limit int, offset int64) ([]*model.Lock, error)
	Update(ctx context.Context, callerID, id string, updates *model.LockUpdate) (*model.Lock, error)
	Delete(ctx context.Context, callerID, id string) error
}

type lockService struct {
	repo         repository.LockRepository
	reservations ReservationStore
	validator    *validator.LockValidator
	gate         authz.Gate
	directory    authz.Directory
	cfg          *config.Config
}

func NewLockService(
	repo repository.LockRepository,
	reservations ReservationStore,
	v *validator.LockValidator,
	gate authz.Gate,
	directory authz.Directory,
	cfg *config.Config,
) LockService {
	return &lockService{
		repo:         repo,
		reservations: reservations,
		validator:    v,
		gate:         gate,
		directory:    directory,
		cfg:          cfg,
	}
}

func (s *lockService) Create(ctx context.Context, callerID string, input *model.LockCreate) (*model.Lock, error) {
	input.Message = sanitizer.NormalizeMessage(input.Message)
	if err := s.validator.ValidateCreate(input); err != nil {
		s.cfg.Log.Warn("Lock validation failed", "error", err)
		return nil, apperrors.Validation("Lock validation failed", map[string]any{"error": err.Error()})
	}

	period, err := model.NewPeriod(input.StartTime, input.EndTime)
	if err != nil {
		return nil, apperrors.PeriodInvalid(err.Error())
	}

	if err := s.checkManagesResource(ctx, callerID, input.ResourceID); err != nil {
		return nil, err
	}

	if err := s.verifyNoConflicts(ctx, input.ResourceID, period, ""); err != nil {
		return nil, err
	}

	lock := &model.Lock{
		ResourceID: input.ResourceID,
		Period:     period,
		Message:    input.Message,
	}
	if err := s.repo.Create(ctx, lock); err != nil {
		s.cfg.Log.Error("Failed to create lock", "resource_id", input.ResourceID, "error", err)
		return nil, apperrors.Internal("Failed to create lock", err)
	}

	s.cfg.Log.Info("Lock created", "id", lock.ID, "resource_id", lock.ResourceID, "start_time", period.Start)
	return lock, nil
}

func (s *lockService) GetByID(ctx context.Context, callerID, id string) (*model.Lock, error) {
	caller, err := s.gate.ResolveMember(ctx, callerID)
	if err != nil {
		return nil, err
	}

	lock, err := s.findLock(ctx, id)
	if err != nil {
		return nil, err
	}

	resource, err := s.directory.ResolveResource(ctx, lock.ResourceID)
	if err != nil {
		return nil, err
	}
	if caller.GroupID != resource.GroupID {
		return nil, apperrors.DifferentGroup("Caller does not belong to the resource's group")
	}

	return lock, nil
}

// ListBetween returns locks overlapping the period, dropping locks that lie
// entirely beyond the resource's bookable span: members cannot book there
// anyway, so the blackout carries no information.
func (s *lockService) ListBetween(ctx context.Context, callerID, resourceID string, period model.Period, limit int, offset int64) ([]*model.Lock, error) {
	if resourceID == "" {
		return nil, apperrors.InvalidInput("Resource ID is required")
	}

	caller, err := s.gate.ResolveMember(ctx, callerID)
	if err != nil {
		return nil, err
	}
	resource, err := s.directory.ResolveResource(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if caller.GroupID != resource.GroupID {
		return nil, apperrors.DifferentGroup("Caller does not belong to the resource's group")
	}

	locks, err := s.repo.FindBetween(ctx, resourceID, period, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list locks", "resource_id", resourceID, "error", err)
		return nil, apperrors.Internal("Failed to list locks", err)
	}

	span := resource.BookableSpanDays
	if span <= 0 {
		span = s.cfg.DefaultBookableSpanDays
	}
	horizon := time.Now().AddDate(0, 0, span)

	visible := make([]*model.Lock, 0, len(locks))
	for _, lock := range locks {
		if lock.Period.Start.After(horizon) {
			continue
		}
		visible = append(visible, lock)
	}

	return visible, nil
}

func (s *lockService) Update(ctx context.Context, callerID, id string, updates *model.LockUpdate) (*model.Lock, error) {
	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Lock update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	existing, err := s.findLock(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkManagesResource(ctx, callerID, existing.ResourceID); err != nil {
		return nil, err
	}

	merged := *existing
	if updates.StartTime != nil || updates.EndTime != nil {
		start := existing.Period.Start
		end := existing.Period.End
		if updates.StartTime != nil {
			start = *updates.StartTime
		}
		if updates.EndTime != nil {
			end = *updates.EndTime
		}
		period, err := model.NewPeriod(start, end)
		if err != nil {
			return nil, apperrors.PeriodInvalid(err.Error())
		}
		merged.Period = period
	}
	if updates.Message != nil {
		merged.Message = sanitizer.NormalizeMessage(*updates.Message)
	}

	// Self-excluded: the lock must not be compared with its own stored period.
	if err := s.verifyNoConflicts(ctx, merged.ResourceID, merged.Period, id); err != nil {
		return nil, err
	}

	if _, err := s.repo.Update(ctx, id, &merged); err != nil {
		return nil, s.mapLookupError(err, id, "Failed to update lock")
	}

	s.cfg.Log.Info("Lock updated", "id", id)
	return &merged, nil
}

func (s *lockService) Delete(ctx context.Context, callerID, id string) error {
	existing, err := s.findLock(ctx, id)
	if err != nil {
		return err
	}

	if err := s.checkManagesResource(ctx, callerID, existing.ResourceID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapLookupError(err, id, "Failed to delete lock")
	}

	s.cfg.Log.Info("Lock deleted", "id", id, "resource_id", existing.ResourceID)
	return nil
}

// --- Helpers ---

func (s *lockService) checkManagesResource(ctx context.Context, callerID, resourceID string) error {
	privileged, err := s.gate.HasAuthority(ctx, callerID, authz.CapabilitySchedule)
	if err != nil {
		return err
	}
	if !privileged {
		return apperrors.AuthorizationDenied("Managing locks requires schedule authority")
	}

	caller, err := s.gate.ResolveMember(ctx, callerID)
	if err != nil {
		return err
	}
	resource, err := s.directory.ResolveResource(ctx, resourceID)
	if err != nil {
		return err
	}
	if caller.GroupID != resource.GroupID {
		return apperrors.DifferentGroup("Caller does not belong to the resource's group")
	}
	return nil
}

func (s *lockService) verifyNoConflicts(ctx context.Context, resourceID string, period model.Period, excludeLockID string) error {
	locks, err := s.repo.FindOverlapping(ctx, resourceID, period)
	if err != nil {
		return apperrors.Internal("Failed to check existing locks", err)
	}
	for _, l := range locks {
		if l.ID == excludeLockID {
			continue
		}
		return apperrors.PeriodOverlapped(fmt.Sprintf(
			"Lock period overlaps an existing lock (%s - %s)",
			l.Period.Start.Format(time.RFC3339),
			l.Period.End.Format(time.RFC3339),
		))
	}

	reservations, err := s.reservations.FindOccupying(ctx, resourceID, period)
	if err != nil {
		return apperrors.Internal("Failed to check existing reservations", err)
	}
	if len(reservations) > 0 {
		return apperrors.PeriodOverlapped("Lock period overlaps existing reservations; resolve them first")
	}

	return nil
}

func (s *lockService) findLock(ctx context.Context, id string) (*model.Lock, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Lock ID cannot be empty")
	}
	lock, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, id, "Failed to retrieve lock")
	}
	return lock, nil
}

func (s *lockService) mapLookupError(err error, id, internalMsg string) error {
	if errors.Is(err, lockserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Lock", id)
	}
	if errors.Is(err, lockserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid lock ID format")
	}
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Internal(internalMsg, err)
}
