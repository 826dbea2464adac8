package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	reservationserrors "clubhouse/internal/reservations/errors"
	"clubhouse/internal/reservations/repository"
	"clubhouse/internal/reservations/validator"
	"clubhouse/pkg/authz"
	"clubhouse/pkg/claim"
	"clubhouse/pkg/config"
	apperrors "clubhouse/pkg/errors"
	"clubhouse/pkg/model"
	"clubhouse/pkg/notify"
	"clubhouse/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

// LockStore is the slice of the lock manager the reservation engine needs:
// blackout lookups during unprivileged booking.
type LockStore interface {
	FindOverlapping(ctx context.Context, resourceID string, period model.Period) ([]*model.Lock, error)
}

type ReservationService interface {
	Create(ctx context.Context, callerID string, input *model.ReservationCreate) (*model.Reservation, error)
	GetByID(ctx context.Context, callerID, id string) (*model.Reservation, error)
	Search(ctx context.Context, callerID, resourceID string, startTime, endTime *time.Time, limit int, offset int64) ([]*model.Reservation, int64, error)
	ListByStatus(ctx context.Context, callerID string, status model.ReservationStatus, limit int, offset int64) ([]*model.Reservation, int64, error)
	ListMine(ctx context.Context, callerID string, scope repository.OwnerScope, limit int, offset int64) ([]*model.Reservation, error)
	Update(ctx context.Context, callerID, id string, updates *model.ReservationUpdate) (*model.Reservation, error)
	UpdateOwner(ctx context.Context, callerID, id, newOwnerID string) error
	Delete(ctx context.Context, callerID, id string) error
	ConfirmAll(ctx context.Context, callerID string, ids []string) (int, error)
	RejectAll(ctx context.Context, callerID string, ids []string, message string) (int, error)
	Return(ctx context.Context, callerID, id string, input *model.ReservationReturn) error
}

type reservationService struct {
	repo       repository.ReservationRepository
	locks      LockStore
	validator  *validator.ReservationValidator
	claimer    claim.Claimer
	gate       authz.Gate
	directory  authz.Directory
	dispatcher notify.Dispatcher
	cfg        *config.Config
}

func NewReservationService(
	repo repository.ReservationRepository,
	locks LockStore,
	v *validator.ReservationValidator,
	claimer claim.Claimer,
	gate authz.Gate,
	directory authz.Directory,
	dispatcher notify.Dispatcher,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:       repo,
		locks:      locks,
		validator:  v,
		claimer:    claimer,
		gate:       gate,
		directory:  directory,
		dispatcher: dispatcher,
		cfg:        cfg,
	}
}

func (s *reservationService) Create(ctx context.Context, callerID string, input *model.ReservationCreate) (*model.Reservation, error) {
	caller, err := s.resolveApprovedMember(ctx, callerID)
	if err != nil {
		return nil, err
	}

	input.Title = sanitizer.NormalizeTitle(input.Title)
	input.Usage = sanitizer.NormalizeUsage(input.Usage)
	input.Invitees = sanitizer.NormalizeMemberIDs(input.Invitees)

	if err := s.validator.ValidateCreate(input); err != nil {
		s.cfg.Log.Warn("Reservation validation failed", "error", err)
		return nil, apperrors.Validation("Reservation validation failed", map[string]any{"error": err.Error()})
	}

	period, err := model.NewPeriod(input.StartTime, input.EndTime)
	if err != nil {
		return nil, apperrors.PeriodInvalid(err.Error())
	}

	resource, err := s.directory.ResolveResource(ctx, input.ResourceID)
	if err != nil {
		return nil, err
	}
	if caller.GroupID != resource.GroupID {
		return nil, apperrors.DifferentGroup("Caller does not belong to the resource's group")
	}

	privileged, err := s.gate.HasAuthority(ctx, callerID, authz.CapabilitySchedule)
	if err != nil {
		return nil, err
	}

	ownerID := callerID
	if input.OwnerID != "" && input.OwnerID != callerID {
		if !privileged {
			return nil, apperrors.RequestInvalid("Unprivileged callers may only book for themselves")
		}
		owner, err := s.resolveApprovedMember(ctx, input.OwnerID)
		if err != nil {
			return nil, err
		}
		if owner.GroupID != resource.GroupID {
			return nil, apperrors.DifferentGroup("Owner does not belong to the resource's group")
		}
		ownerID = owner.ID
	}

	if !privileged {
		if err := s.checkUnprivilegedWindow(ctx, resource, period); err != nil {
			return nil, err
		}
	}

	status := model.StatusRequested
	if privileged {
		status = model.StatusConfirmed
	}

	reservation := &model.Reservation{
		ResourceID: resource.ID,
		OwnerID:    ownerID,
		Period:     period,
		Title:      input.Title,
		Usage:      input.Usage,
		Sharing:    input.Sharing,
		Status:     status,
		Invitees:   s.filterInvitees(ctx, input.Invitees, resource.GroupID, ownerID),
	}

	if err := s.verifyAvailability(ctx, reservation); err != nil {
		return nil, err
	}

	won, err := s.claimer.Claim(ctx, resource.ID, period)
	if err != nil {
		return nil, apperrors.Internal("Failed to claim reservation slot", err)
	}
	if !won {
		return nil, apperrors.ReservationUnavailable("This slot is being reserved by another request. Please try again.")
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		// Re-checked under the claim: a row may have landed between the
		// first check and winning the claim.
		if err := s.verifyAvailability(sessCtx, reservation); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, reservation); err != nil {
			return apperrors.Internal("Failed to create reservation", err)
		}
		return nil
	})
	if err != nil {
		if releaseErr := s.claimer.Release(ctx, resource.ID, period); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release slot claim", "resource_id", resource.ID, "error", releaseErr)
		}
		s.cfg.Log.Error("Failed to create reservation", "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Reservation created",
		"id", reservation.ID,
		"resource_id", resource.ID,
		"owner_id", ownerID,
		"status", status,
		"start_time", period.Start,
	)

	s.notifyAfterCreate(ctx, reservation, resource)
	return reservation, nil
}

func (s *reservationService) GetByID(ctx context.Context, callerID, id string) (*model.Reservation, error) {
	caller, err := s.gate.ResolveMember(ctx, callerID)
	if err != nil {
		return nil, err
	}

	reservation, err := s.findReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	resource, err := s.directory.ResolveResource(ctx, reservation.ResourceID)
	if err != nil {
		return nil, err
	}
	if caller.GroupID != resource.GroupID {
		return nil, apperrors.DifferentGroup("Caller does not belong to the resource's group")
	}

	return reservation, nil
}

func (s *reservationService) Search(ctx context.Context, callerID, resourceID string, startTime, endTime *time.Time, limit int, offset int64) ([]*model.Reservation, int64, error) {
	if resourceID == "" {
		return nil, 0, apperrors.InvalidInput("Resource ID is required")
	}

	caller, err := s.gate.ResolveMember(ctx, callerID)
	if err != nil {
		return nil, 0, err
	}
	resource, err := s.directory.ResolveResource(ctx, resourceID)
	if err != nil {
		return nil, 0, err
	}
	if caller.GroupID != resource.GroupID {
		return nil, 0, apperrors.DifferentGroup("Caller does not belong to the resource's group")
	}

	var count int64
	var reservations []*model.Reservation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByResourcePeriod(ctx, resourceID, startTime, endTime)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count reservations", "resource_id", resourceID, "error", errCount)
			errCount = apperrors.Internal("Failed to count reservations", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		reservations, errFind = s.repo.FindByResourcePeriod(ctx, resourceID, startTime, endTime, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to search reservations", "resource_id", resourceID, "error", errFind)
			errFind = apperrors.Internal("Failed to search reservations", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return reservations, count, nil
}

func (s *reservationService) ListByStatus(ctx context.Context, callerID string, status model.ReservationStatus, limit int, offset int64) ([]*model.Reservation, int64, error) {
	if err := s.requireAuthority(ctx, callerID, authz.CapabilitySchedule); err != nil {
		return nil, 0, err
	}

	switch status {
	case model.StatusRequested, model.StatusConfirmed, model.StatusRejected:
	default:
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("unknown status: %s", status))
	}

	var count int64
	var reservations []*model.Reservation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByStatus(ctx, status)
		if errCount != nil {
			errCount = apperrors.Internal("Failed to count reservations", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		reservations, errFind = s.repo.FindByStatus(ctx, status, limit, offset)
		if errFind != nil {
			errFind = apperrors.Internal("Failed to list reservations", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return reservations, count, nil
}

func (s *reservationService) ListMine(ctx context.Context, callerID string, scope repository.OwnerScope, limit int, offset int64) ([]*model.Reservation, error) {
	switch scope {
	case repository.ScopeUpcoming, repository.ScopePrevious, repository.ScopeRejected:
	default:
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown scope: %s", scope))
	}

	reservations, err := s.repo.FindByOwner(ctx, callerID, scope, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list own reservations", "owner_id", callerID, "error", err)
		return nil, apperrors.Internal("Failed to list reservations", err)
	}
	return reservations, nil
}

func (s *reservationService) Update(ctx context.Context, callerID, id string, updates *model.ReservationUpdate) (*model.Reservation, error) {
	existing, err := s.findReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.OwnerID != callerID {
		return nil, apperrors.AuthorizationDenied("Only the reservation owner may edit it")
	}

	if movesPeriod(existing, updates) {
		return nil, apperrors.RequestInvalid("Reservation period cannot be changed; cancel and rebook instead")
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Reservation update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	resource, err := s.directory.ResolveResource(ctx, existing.ResourceID)
	if err != nil {
		return nil, err
	}

	merged := s.mergeReservationUpdates(existing, updates)
	merged.Title = sanitizer.NormalizeTitle(merged.Title)
	merged.Usage = sanitizer.NormalizeUsage(merged.Usage)
	if updates.Invitees != nil {
		merged.Invitees = s.filterInvitees(ctx, sanitizer.NormalizeMemberIDs(merged.Invitees), resource.GroupID, merged.OwnerID)
	}

	// A pending request flips straight to confirmed once its owner holds
	// schedule authority.
	if merged.Status == model.StatusRequested {
		privileged, err := s.gate.HasAuthority(ctx, callerID, authz.CapabilitySchedule)
		if err != nil {
			return nil, err
		}
		if privileged {
			merged.Status = model.StatusConfirmed
		}
	}

	if err := s.validator.ValidateStored(merged); err != nil {
		return nil, apperrors.Validation("Reservation validation failed", map[string]any{"error": err.Error()})
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		return nil, s.mapLookupError(err, id, "Failed to update reservation")
	}

	s.cfg.Log.Info("Reservation updated", "id", id)
	return merged, nil
}

func (s *reservationService) UpdateOwner(ctx context.Context, callerID, id, newOwnerID string) error {
	if newOwnerID == "" {
		return apperrors.InvalidInput("New owner ID is required")
	}
	if err := s.requireAuthority(ctx, callerID, authz.CapabilitySchedule); err != nil {
		return err
	}

	existing, err := s.findReservation(ctx, id)
	if err != nil {
		return err
	}
	resource, err := s.directory.ResolveResource(ctx, existing.ResourceID)
	if err != nil {
		return err
	}

	owner, err := s.resolveApprovedMember(ctx, newOwnerID)
	if err != nil {
		return err
	}
	if owner.GroupID != resource.GroupID {
		return apperrors.DifferentGroup("New owner does not belong to the resource's group")
	}

	existing.OwnerID = owner.ID
	if _, err := s.repo.Update(ctx, id, existing); err != nil {
		return s.mapLookupError(err, id, "Failed to update reservation owner")
	}

	s.cfg.Log.Info("Reservation owner updated", "id", id, "owner_id", owner.ID)
	return nil
}

// Delete removes a reservation. Owners cancel quietly; anyone else needs
// schedule authority in the resource's group, and the owner is notified.
func (s *reservationService) Delete(ctx context.Context, callerID, id string) error {
	existing, err := s.findReservation(ctx, id)
	if err != nil {
		return err
	}

	byOwner := existing.OwnerID == callerID
	if !byOwner {
		if err := s.requireAuthority(ctx, callerID, authz.CapabilitySchedule); err != nil {
			return err
		}
		caller, err := s.gate.ResolveMember(ctx, callerID)
		if err != nil {
			return err
		}
		resource, err := s.directory.ResolveResource(ctx, existing.ResourceID)
		if err != nil {
			return err
		}
		if caller.GroupID != resource.GroupID {
			return apperrors.DifferentGroup("Caller does not belong to the resource's group")
		}
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Delete(sessCtx, id); err != nil {
			return s.mapLookupError(err, id, "Failed to delete reservation")
		}
		return nil
	})
	if err != nil {
		return err
	}

	if releaseErr := s.claimer.Release(ctx, existing.ResourceID, existing.Period); releaseErr != nil {
		s.cfg.Log.Warn("Failed to release slot claim", "resource_id", existing.ResourceID, "error", releaseErr)
	}

	s.cfg.Log.Info("Reservation deleted", "id", id, "by_owner", byOwner)

	if !byOwner {
		s.dispatcher.Notify(ctx, notify.Event{
			Kind:          notify.KindReservationDeleted,
			Recipients:    []string{existing.OwnerID},
			ReservationID: id,
			ResourceID:    existing.ResourceID,
			Actor:         callerID,
		})
	}
	return nil
}

// ConfirmAll transitions the given pending reservations to confirmed,
// sequentially and best-effort: the first failing id stops the batch and the
// count of completed transitions is returned alongside the error. Each id is
// individually checked against the caller's group.
func (s *reservationService) ConfirmAll(ctx context.Context, callerID string, ids []string) (int, error) {
	caller, err := s.batchCaller(ctx, callerID, ids)
	if err != nil {
		return 0, err
	}

	confirmed := 0
	for _, id := range ids {
		reservation, err := s.pendingForDecision(ctx, caller, id)
		if err != nil {
			return confirmed, err
		}

		reservation.Status = model.StatusConfirmed
		if _, err := s.repo.Update(ctx, reservation.ID, reservation); err != nil {
			s.cfg.Log.Error("Failed to confirm reservation", "id", reservation.ID, "error", err)
			return confirmed, apperrors.Internal("Failed to confirm reservation", err)
		}
		confirmed++

		s.dispatcher.Notify(ctx, notify.Event{
			Kind:          notify.KindReservationConfirmed,
			Recipients:    append([]string{reservation.OwnerID}, reservation.Invitees...),
			ReservationID: reservation.ID,
			ResourceID:    reservation.ResourceID,
			Actor:         callerID,
		})
	}

	s.cfg.Log.Info("Pending reservations confirmed", "count", confirmed)
	return confirmed, nil
}

// RejectAll transitions the given pending reservations to rejected with the
// required message, releasing each slot claim so it becomes bookable again.
// Same batch contract as ConfirmAll.
func (s *reservationService) RejectAll(ctx context.Context, callerID string, ids []string, message string) (int, error) {
	message = sanitizer.NormalizeMessage(message)
	if message == "" {
		return 0, apperrors.InvalidInput("A reject message is required")
	}

	caller, err := s.batchCaller(ctx, callerID, ids)
	if err != nil {
		return 0, err
	}

	rejected := 0
	for _, id := range ids {
		reservation, err := s.pendingForDecision(ctx, caller, id)
		if err != nil {
			return rejected, err
		}

		reservation.Status = model.StatusRejected
		reservation.RejectMessage = message
		if _, err := s.repo.Update(ctx, reservation.ID, reservation); err != nil {
			s.cfg.Log.Error("Failed to reject reservation", "id", reservation.ID, "error", err)
			return rejected, apperrors.Internal("Failed to reject reservation", err)
		}
		rejected++

		if releaseErr := s.claimer.Release(ctx, reservation.ResourceID, reservation.Period); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release slot claim", "resource_id", reservation.ResourceID, "error", releaseErr)
		}

		s.dispatcher.Notify(ctx, notify.Event{
			Kind:          notify.KindReservationRejected,
			Recipients:    []string{reservation.OwnerID},
			ReservationID: reservation.ID,
			ResourceID:    reservation.ResourceID,
			Actor:         callerID,
			Detail:        map[string]string{"message": message},
		})
	}

	s.cfg.Log.Info("Pending reservations rejected", "count", rejected)
	return rejected, nil
}

func (s *reservationService) Return(ctx context.Context, callerID, id string, input *model.ReservationReturn) error {
	caller, err := s.gate.ResolveMember(ctx, callerID)
	if err != nil {
		return err
	}

	input.Message = sanitizer.NormalizeMessage(input.Message)
	input.Attachments = sanitizer.NormalizeAttachments(input.Attachments)
	if err := s.validator.ValidateReturn(input); err != nil {
		return apperrors.Validation("Invalid return input", map[string]any{"error": err.Error()})
	}

	existing, err := s.findReservation(ctx, id)
	if err != nil {
		return err
	}
	resource, err := s.directory.ResolveResource(ctx, existing.ResourceID)
	if err != nil {
		return err
	}
	if caller.GroupID != resource.GroupID {
		return apperrors.DifferentGroup("Caller does not belong to the resource's group")
	}

	// Returning is one-way: a second report must leave the first untouched.
	if existing.IsReturned {
		return apperrors.RequestInvalid("Resource has already been returned for this reservation")
	}

	existing.IsReturned = true
	existing.ReturnMessage = input.Message
	existing.Attachments = append(existing.Attachments, input.Attachments...)

	if _, err := s.repo.Update(ctx, id, existing); err != nil {
		return s.mapLookupError(err, id, "Failed to record return")
	}

	s.cfg.Log.Info("Resource returned", "id", id, "resource_id", existing.ResourceID)

	holders, err := s.gate.AuthorityHolders(ctx, resource.GroupID, authz.CapabilityReadReturns)
	if err != nil {
		s.cfg.Log.Warn("Failed to resolve return readers", "group_id", resource.GroupID, "error", err)
		return nil
	}
	s.dispatcher.Notify(ctx, notify.Event{
		Kind:          notify.KindReservationReturned,
		Recipients:    holders,
		ReservationID: id,
		ResourceID:    existing.ResourceID,
		Actor:         callerID,
		Detail:        map[string]string{"message": input.Message},
	})
	return nil
}

// --- Helpers ---

func (s *reservationService) resolveApprovedMember(ctx context.Context, memberID string) (*model.Member, error) {
	member, err := s.gate.ResolveMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if !member.Approved {
		return nil, apperrors.NotConfirmedMember(memberID)
	}
	return member, nil
}

func (s *reservationService) requireAuthority(ctx context.Context, callerID string, capability authz.Capability) error {
	privileged, err := s.gate.HasAuthority(ctx, callerID, capability)
	if err != nil {
		return err
	}
	if !privileged {
		return apperrors.AuthorizationDenied(fmt.Sprintf("This operation requires %s authority", capability))
	}
	return nil
}

func (s *reservationService) batchCaller(ctx context.Context, callerID string, ids []string) (*model.Member, error) {
	if len(ids) == 0 {
		return nil, apperrors.InvalidInput("At least one reservation ID is required")
	}
	if err := s.requireAuthority(ctx, callerID, authz.CapabilitySchedule); err != nil {
		return nil, err
	}
	return s.gate.ResolveMember(ctx, callerID)
}

// pendingForDecision loads a reservation for a batch confirm/reject and
// checks it is pending and managed by the caller's group.
func (s *reservationService) pendingForDecision(ctx context.Context, caller *model.Member, id string) (*model.Reservation, error) {
	reservation, err := s.findReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	resource, err := s.directory.ResolveResource(ctx, reservation.ResourceID)
	if err != nil {
		return nil, err
	}
	if caller.GroupID != resource.GroupID {
		return nil, apperrors.DifferentGroup("Caller does not belong to the resource's group")
	}
	if reservation.Status != model.StatusRequested {
		return nil, apperrors.RequestInvalid(fmt.Sprintf("Reservation %s is not pending", id))
	}
	return reservation, nil
}

// checkUnprivilegedWindow enforces the booking rules that schedule authority
// bypasses: no booking of already-ended periods, no booking beyond the
// resource's bookable span, and no overlap with blackout locks.
func (s *reservationService) checkUnprivilegedWindow(ctx context.Context, resource *model.Resource, period model.Period) error {
	now := time.Now()
	if !period.End.After(now) {
		return apperrors.PeriodInvalid("Reservation period has already ended")
	}

	span := resource.BookableSpanDays
	if span <= 0 {
		span = s.cfg.DefaultBookableSpanDays
	}
	if period.End.After(now.AddDate(0, 0, span)) {
		return apperrors.BookableSpanExceeded(span)
	}

	locks, err := s.locks.FindOverlapping(ctx, resource.ID, period)
	if err != nil {
		return apperrors.Internal("Failed to check resource locks", err)
	}
	if len(locks) > 0 {
		return apperrors.PeriodOverlapped("Reservation period overlaps a resource lock")
	}

	return nil
}

func (s *reservationService) verifyAvailability(ctx context.Context, reservation *model.Reservation) error {
	existing, err := s.repo.FindOccupying(ctx, reservation.ResourceID, reservation.Period)
	if err != nil {
		return apperrors.Internal("Failed to check existing reservations", err)
	}

	for _, r := range existing {
		if r.ID == reservation.ID {
			continue
		}
		return apperrors.ReservationUnavailable(fmt.Sprintf(
			"Slot is taken by an existing reservation (%s - %s)",
			r.Period.Start.Format(time.RFC3339),
			r.Period.End.Format(time.RFC3339),
		))
	}
	return nil
}

// filterInvitees drops IDs that do not resolve to approved members of the
// resource's group, and the owner themselves. Unresolvable invitees are
// skipped silently rather than failing the booking.
func (s *reservationService) filterInvitees(ctx context.Context, ids []string, groupID, ownerID string) []string {
	var invitees []string
	for _, id := range ids {
		if id == ownerID {
			continue
		}
		member, err := s.gate.ResolveMember(ctx, id)
		if err != nil || member.GroupID != groupID || !member.Approved {
			continue
		}
		invitees = append(invitees, id)
	}
	return invitees
}

func (s *reservationService) mergeReservationUpdates(existing *model.Reservation, updates *model.ReservationUpdate) *model.Reservation {
	merged := *existing

	if updates.Title != nil {
		merged.Title = *updates.Title
	}
	if updates.Usage != nil {
		merged.Usage = *updates.Usage
	}
	if updates.Sharing != nil {
		merged.Sharing = *updates.Sharing
	}
	if updates.Invitees != nil {
		merged.Invitees = *updates.Invitees
	}

	return &merged
}

func movesPeriod(existing *model.Reservation, updates *model.ReservationUpdate) bool {
	if updates.StartTime != nil && !updates.StartTime.Equal(existing.Period.Start) {
		return true
	}
	if updates.EndTime != nil && !updates.EndTime.Equal(existing.Period.End) {
		return true
	}
	return false
}

func (s *reservationService) findReservation(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}
	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, id, "Failed to retrieve reservation")
	}
	return reservation, nil
}

func (s *reservationService) mapLookupError(err error, id, internalMsg string) error {
	if errors.Is(err, reservationserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Reservation", id)
	}
	if errors.Is(err, reservationserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid reservation ID format")
	}
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Internal(internalMsg, err)
}

func (s *reservationService) notifyAfterCreate(ctx context.Context, reservation *model.Reservation, resource *model.Resource) {
	if reservation.Status == model.StatusRequested {
		holders, err := s.gate.AuthorityHolders(ctx, resource.GroupID, authz.CapabilitySchedule)
		if err != nil {
			s.cfg.Log.Warn("Failed to resolve schedule authority holders", "group_id", resource.GroupID, "error", err)
			return
		}
		s.dispatcher.Notify(ctx, notify.Event{
			Kind:          notify.KindReservationRequested,
			Recipients:    holders,
			ReservationID: reservation.ID,
			ResourceID:    resource.ID,
			Actor:         reservation.OwnerID,
		})
		return
	}

	if len(reservation.Invitees) > 0 {
		s.dispatcher.Notify(ctx, notify.Event{
			Kind:          notify.KindReservationInvited,
			Recipients:    reservation.Invitees,
			ReservationID: reservation.ID,
			ResourceID:    resource.ID,
			Actor:         reservation.OwnerID,
		})
	}
}
