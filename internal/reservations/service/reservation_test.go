package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	reservationserrors "clubhouse/internal/reservations/errors"
	"clubhouse/internal/reservations/repository"
	"clubhouse/internal/reservations/validator"
	"clubhouse/pkg/authz"
	"clubhouse/pkg/claim"
	"clubhouse/pkg/config"
	mongotx "clubhouse/pkg/db/mongo"
	apperrors "clubhouse/pkg/errors"
	"clubhouse/pkg/logger"
	"clubhouse/pkg/model"
	"clubhouse/pkg/notify"

	"go.mongodb.org/mongo-driver/mongo"
)

// memoryReservationRepo is a concurrency-safe in-memory repository.
type memoryReservationRepo struct {
	mu           sync.Mutex
	reservations map[string]*model.Reservation
	nextID       int
}

func newMemoryReservationRepo() *memoryReservationRepo {
	return &memoryReservationRepo{reservations: make(map[string]*model.Reservation)}
}

func (m *memoryReservationRepo) Create(_ context.Context, r *model.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	r.ID = objectIDLike(m.nextID)
	now := time.Now()
	r.CreatedAt = now
	r.LastModifiedAt = now
	stored := *r
	m.reservations[r.ID] = &stored
	return nil
}

// objectIDLike builds a deterministic 24-hex-char id.
func objectIDLike(n int) string {
	const hexDigits = "0123456789abcdef"
	id := make([]byte, 24)
	for i := range id {
		id[i] = '0'
	}
	for i := 23; n > 0 && i >= 0; i-- {
		id[i] = hexDigits[n%16]
		n /= 16
	}
	return string(id)
}

func (m *memoryReservationRepo) FindByID(_ context.Context, id string) (*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return nil, reservationserrors.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (m *memoryReservationRepo) FindByResourcePeriod(_ context.Context, resourceID string, startTime, endTime *time.Time, _ int, _ int64) ([]*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Reservation
	for _, r := range m.reservations {
		if r.ResourceID != resourceID || !r.Status.Occupying() {
			continue
		}
		if startTime != nil && !r.Period.End.After(*startTime) {
			continue
		}
		if endTime != nil && !r.Period.Start.Before(*endTime) {
			continue
		}
		copied := *r
		out = append(out, &copied)
	}
	return out, nil
}

func (m *memoryReservationRepo) CountByResourcePeriod(ctx context.Context, resourceID string, startTime, endTime *time.Time) (int64, error) {
	rs, err := m.FindByResourcePeriod(ctx, resourceID, startTime, endTime, 0, 0)
	return int64(len(rs)), err
}

func (m *memoryReservationRepo) FindOccupying(_ context.Context, resourceID string, period model.Period) ([]*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Reservation
	for _, r := range m.reservations {
		if r.ResourceID == resourceID && r.Status.Occupying() && r.Period.Overlaps(period) {
			copied := *r
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memoryReservationRepo) FindByStatus(_ context.Context, status model.ReservationStatus, _ int, _ int64) ([]*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Reservation
	for _, r := range m.reservations {
		if r.Status == status {
			copied := *r
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memoryReservationRepo) CountByStatus(ctx context.Context, status model.ReservationStatus) (int64, error) {
	rs, err := m.FindByStatus(ctx, status, 0, 0)
	return int64(len(rs)), err
}

func (m *memoryReservationRepo) FindByOwner(_ context.Context, ownerID string, scope repository.OwnerScope, _ int, _ int64) ([]*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	var out []*model.Reservation
	for _, r := range m.reservations {
		if r.OwnerID != ownerID {
			continue
		}
		switch scope {
		case repository.ScopeUpcoming:
			if !r.Status.Occupying() || !r.Period.End.After(now) {
				continue
			}
		case repository.ScopePrevious:
			if r.Status == model.StatusRejected || r.Period.End.After(now) {
				continue
			}
		case repository.ScopeRejected:
			if r.Status != model.StatusRejected {
				continue
			}
		}
		copied := *r
		out = append(out, &copied)
	}
	return out, nil
}

func (m *memoryReservationRepo) Update(_ context.Context, id string, r *model.Reservation) (*mongo.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.reservations[id]
	if !ok {
		return nil, reservationserrors.ErrNotFound
	}
	updated := *r
	updated.ID = id
	updated.ResourceID = existing.ResourceID
	updated.Period = existing.Period
	updated.CreatedAt = existing.CreatedAt
	updated.LastModifiedAt = time.Now()
	m.reservations[id] = &updated
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *memoryReservationRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reservations[id]; !ok {
		return reservationserrors.ErrNotFound
	}
	delete(m.reservations, id)
	return nil
}

func (m *memoryReservationRepo) ExecuteTransaction(_ context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type stubLockStore struct {
	locks []*model.Lock
}

func (s *stubLockStore) FindOverlapping(_ context.Context, resourceID string, period model.Period) ([]*model.Lock, error) {
	var out []*model.Lock
	for _, l := range s.locks {
		if l.ResourceID == resourceID && l.Period.Overlaps(period) {
			out = append(out, l)
		}
	}
	return out, nil
}

// countingClaimer records how often a claim was attempted.
type countingClaimer struct {
	inner  claim.Claimer
	mu     sync.Mutex
	claims int
}

func (c *countingClaimer) Claim(ctx context.Context, resourceID string, period model.Period) (bool, error) {
	c.mu.Lock()
	c.claims++
	c.mu.Unlock()
	return c.inner.Claim(ctx, resourceID, period)
}

func (c *countingClaimer) Release(ctx context.Context, resourceID string, period model.Period) error {
	return c.inner.Release(ctx, resourceID, period)
}

// failingCreateRepo fails every insert, leaving the rest of the repository
// contract intact.
type failingCreateRepo struct {
	*memoryReservationRepo
}

func (f *failingCreateRepo) Create(context.Context, *model.Reservation) error {
	return errors.New("write concern error")
}

// --- Fixture ---

const (
	groupA = "group-a"
	groupB = "group-b"

	resourceID  = "court-1"
	resourceBID = "boatshed-1"

	memberID  = "member-1"
	member2ID = "member-2"
	managerID = "manager-1"
	readerID  = "reader-1"
	outsider  = "outsider-1"
)

type fixture struct {
	svc        ReservationService
	repo       *memoryReservationRepo
	locks      *stubLockStore
	claimer    *claim.MemoryClaimer
	gate       *authz.StaticGate
	directory  *authz.StaticDirectory
	dispatcher *notify.RecordingDispatcher
	validator  *validator.ReservationValidator
	cfg        *config.Config
}

// rewire rebuilds the service with substitute collaborators.
func (f *fixture) rewire(repo repository.ReservationRepository, claimer claim.Claimer) {
	f.svc = NewReservationService(
		repo, f.locks, f.validator, claimer, f.gate, f.directory, f.dispatcher, f.cfg,
	)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard})
	cfg := &config.Config{
		DefaultBookableSpanDays: 14,
		MaxInviteesPerBooking:   50,
		ReadTimeout:             time.Second,
		WriteTimeout:            time.Second,
		Log:                     log,
	}

	gate := authz.NewStaticGate().
		AddMember(&model.Member{ID: memberID, GroupID: groupA, Approved: true}).
		AddMember(&model.Member{ID: member2ID, GroupID: groupA, Approved: true}).
		AddMember(&model.Member{ID: managerID, GroupID: groupA, Approved: true}, authz.CapabilitySchedule).
		AddMember(&model.Member{ID: readerID, GroupID: groupA, Approved: true}, authz.CapabilityReadReturns).
		AddMember(&model.Member{ID: outsider, GroupID: groupB, Approved: true}).
		AddMember(&model.Member{ID: "pending-1", GroupID: groupA, Approved: false})

	directory := authz.NewStaticDirectory(
		&model.Resource{ID: resourceID, GroupID: groupA, Name: "Court 1", BookableSpanDays: 14},
		&model.Resource{ID: resourceBID, GroupID: groupB, Name: "Boatshed 1", BookableSpanDays: 14},
	)

	f := &fixture{
		repo:       newMemoryReservationRepo(),
		locks:      &stubLockStore{},
		claimer:    claim.NewMemoryClaimer(time.Minute),
		gate:       gate,
		directory:  directory,
		dispatcher: notify.NewRecordingDispatcher(),
		validator:  validator.NewReservationValidator(log, cfg.MaxInviteesPerBooking),
		cfg:        cfg,
	}
	f.rewire(f.repo, f.claimer)
	return f
}

func createInput(owner string, start time.Time) *model.ReservationCreate {
	return &model.ReservationCreate{
		ResourceID: resourceID,
		OwnerID:    owner,
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
		Title:      "Practice session",
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	if !apperrors.HasCode(err, code) {
		t.Fatalf("expected code %s, got: %v", code, err)
	}
}

// --- Create ---

func TestCreate_UnprivilegedRequestIsPending(t *testing.T) {
	f := newFixture(t)
	start := time.Now().Add(24 * time.Hour)

	reservation, err := f.svc.Create(context.Background(), memberID, createInput("", start))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reservation.Status != model.StatusRequested {
		t.Errorf("expected status requested, got %s", reservation.Status)
	}
	if reservation.OwnerID != memberID {
		t.Errorf("expected owner %s, got %s", memberID, reservation.OwnerID)
	}

	events := f.dispatcher.EventsOfKind(notify.KindReservationRequested)
	if len(events) != 1 {
		t.Fatalf("expected 1 requested notification, got %d", len(events))
	}
	if len(events[0].Recipients) != 1 || events[0].Recipients[0] != managerID {
		t.Errorf("expected schedule authority holder as recipient, got %v", events[0].Recipients)
	}
}

func TestCreate_PrivilegedIsConfirmedAndInviteesFiltered(t *testing.T) {
	f := newFixture(t)
	start := time.Now().Add(24 * time.Hour)

	input := createInput("", start)
	input.Invitees = []string{member2ID, outsider, "pending-1", "no-such-member", managerID}

	reservation, err := f.svc.Create(context.Background(), managerID, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reservation.Status != model.StatusConfirmed {
		t.Errorf("expected status confirmed, got %s", reservation.Status)
	}

	// Outsider, unapproved, and unknown members are dropped silently.
	kept := make(map[string]bool)
	for _, id := range reservation.Invitees {
		if id == outsider || id == "pending-1" || id == "no-such-member" {
			t.Errorf("invitee %s should have been filtered out", id)
		}
		kept[id] = true
	}
	if !kept[member2ID] {
		t.Error("expected member-2 to remain an invitee")
	}

	events := f.dispatcher.EventsOfKind(notify.KindReservationInvited)
	if len(events) != 1 {
		t.Fatalf("expected 1 invited notification, got %d", len(events))
	}
}

func TestCreate_OnBehalfRequiresScheduleAuthority(t *testing.T) {
	f := newFixture(t)
	start := time.Now().Add(24 * time.Hour)

	_, err := f.svc.Create(context.Background(), memberID, createInput(member2ID, start))
	assertCode(t, err, apperrors.CodeRequestInvalid)

	reservation, err := f.svc.Create(context.Background(), managerID, createInput(member2ID, start))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reservation.OwnerID != member2ID {
		t.Errorf("expected owner %s, got %s", member2ID, reservation.OwnerID)
	}
}

func TestCreate_UnapprovedCallerRejected(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), "pending-1", createInput("", time.Now().Add(time.Hour)))
	assertCode(t, err, apperrors.CodeNotConfirmedMember)
}

func TestCreate_DifferentGroupRejected(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), outsider, createInput("", time.Now().Add(time.Hour)))
	assertCode(t, err, apperrors.CodeDifferentGroup)
}

func TestCreate_PastPeriodRejectedForUnprivileged(t *testing.T) {
	f := newFixture(t)
	start := time.Now().Add(-3 * time.Hour)

	_, err := f.svc.Create(context.Background(), memberID, createInput("", start))
	assertCode(t, err, apperrors.CodePeriodInvalid)

	// Schedule authority may backfill past reservations.
	if _, err := f.svc.Create(context.Background(), managerID, createInput("", start)); err != nil {
		t.Fatalf("unexpected error for privileged backfill: %v", err)
	}
}

func TestCreate_BookableSpanEnforced(t *testing.T) {
	f := newFixture(t)

	start := time.Now().AddDate(0, 0, 15)
	_, err := f.svc.Create(context.Background(), memberID, createInput("", start))
	assertCode(t, err, apperrors.CodeBookableSpanExceeded)

	// The bound is on the end: starting inside the span does not help when
	// the booking ends beyond it.
	spanning := createInput("", time.Now().AddDate(0, 0, 13))
	spanning.EndTime = time.Now().AddDate(0, 0, 16)
	_, err = f.svc.Create(context.Background(), memberID, spanning)
	assertCode(t, err, apperrors.CodeBookableSpanExceeded)

	// Ending just inside the span is fine.
	inside := createInput("", time.Now().AddDate(0, 0, 13))
	if _, err := f.svc.Create(context.Background(), memberID, inside); err != nil {
		t.Fatalf("unexpected error for booking inside the span: %v", err)
	}

	if _, err := f.svc.Create(context.Background(), managerID, createInput("", start)); err != nil {
		t.Fatalf("unexpected error for privileged far booking: %v", err)
	}
}

func TestCreate_LockOverlapRejected(t *testing.T) {
	f := newFixture(t)
	start := time.Now().Add(24 * time.Hour)
	f.locks.locks = append(f.locks.locks, &model.Lock{
		ResourceID: resourceID,
		Period:     model.Period{Start: start.Add(-time.Hour), End: start.Add(30 * time.Minute)},
	})

	_, err := f.svc.Create(context.Background(), memberID, createInput("", start))
	assertCode(t, err, apperrors.CodePeriodOverlapped)
}

func TestCreate_DBOverlapIsUnavailable(t *testing.T) {
	f := newFixture(t)
	start := time.Now().Add(24 * time.Hour)

	if _, err := f.svc.Create(context.Background(), memberID, createInput("", start)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 30 minutes into an existing booking: taken, not merely locked.
	shifted := createInput("", start.Add(30*time.Minute))
	counting := &countingClaimer{inner: f.claimer}
	f.rewire(f.repo, counting)

	_, err := f.svc.Create(context.Background(), member2ID, shifted)
	assertCode(t, err, apperrors.CodeReservationUnavailable)

	// The durable overlap check runs before the claim, so the losing
	// request never touches the claim store.
	if counting.claims != 0 {
		t.Errorf("expected no claim attempt on DB overlap, got %d", counting.claims)
	}
	period, _ := model.NewPeriod(shifted.StartTime, shifted.EndTime)
	won, _ := f.claimer.Claim(context.Background(), resourceID, period)
	if !won {
		t.Error("expected the shifted slot to be unclaimed after overlap failure")
	}

	// An adjacent booking right after the existing one goes through.
	if _, err := f.svc.Create(context.Background(), member2ID, createInput("", start.Add(time.Hour))); err != nil {
		t.Fatalf("unexpected error for adjacent booking: %v", err)
	}
}

func TestCreate_ClaimReleasedWhenInsertFails(t *testing.T) {
	f := newFixture(t)
	start := time.Now().Add(24 * time.Hour)
	f.rewire(&failingCreateRepo{f.repo}, f.claimer)

	input := createInput("", start)
	if _, err := f.svc.Create(context.Background(), memberID, input); err == nil {
		t.Fatal("expected create to fail")
	}

	// A failed insert must not strand the slot behind its claim.
	period, _ := model.NewPeriod(input.StartTime, input.EndTime)
	won, _ := f.claimer.Claim(context.Background(), resourceID, period)
	if !won {
		t.Error("expected claim to have been released after insert failure")
	}
}

func TestCreate_ConcurrentRequestsYieldOneWinner(t *testing.T) {
	f := newFixture(t)
	start := time.Now().Add(24 * time.Hour)

	const attempts = 10
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, errs[idx] = f.svc.Create(context.Background(), memberID, createInput("", start))
		}(i)
	}
	wg.Wait()

	winners, unavailable := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		case apperrors.HasCode(err, apperrors.CodeReservationUnavailable):
			unavailable++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if winners != 1 {
		t.Errorf("expected exactly 1 winner, got %d", winners)
	}
	if unavailable != attempts-1 {
		t.Errorf("expected %d unavailable errors, got %d", attempts-1, unavailable)
	}
}

// --- Update ---

func TestUpdate_PeriodChangeRejected(t *testing.T) {
	f := newFixture(t)
	start := time.Now().Add(24 * time.Hour)
	reservation, err := f.svc.Create(context.Background(), memberID, createInput("", start))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	newStart := start.Add(time.Hour)
	_, err = f.svc.Update(context.Background(), memberID, reservation.ID, &model.ReservationUpdate{StartTime: &newStart})
	assertCode(t, err, apperrors.CodeRequestInvalid)

	// Echoing the stored period back is not a move.
	sameStart := reservation.Period.Start
	title := "Renamed session"
	updated, err := f.svc.Update(context.Background(), memberID, reservation.ID, &model.ReservationUpdate{
		StartTime: &sameStart,
		Title:     &title,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Title != title {
		t.Errorf("expected title %q, got %q", title, updated.Title)
	}
}

func TestUpdate_NilFieldsLeftUnchanged(t *testing.T) {
	f := newFixture(t)
	start := time.Now().Add(24 * time.Hour)
	input := createInput("", start)
	input.Usage = "weekly practice"
	reservation, err := f.svc.Create(context.Background(), memberID, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sharing := true
	updated, err := f.svc.Update(context.Background(), memberID, reservation.ID, &model.ReservationUpdate{Sharing: &sharing})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.Sharing {
		t.Error("expected sharing to be enabled")
	}
	if updated.Title != reservation.Title || updated.Usage != reservation.Usage {
		t.Error("expected untouched fields to keep their values")
	}
}

func TestUpdate_NonOwnerDenied(t *testing.T) {
	f := newFixture(t)
	reservation, err := f.svc.Create(context.Background(), memberID, createInput("", time.Now().Add(24*time.Hour)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	title := "Hijacked"
	_, err = f.svc.Update(context.Background(), member2ID, reservation.ID, &model.ReservationUpdate{Title: &title})
	assertCode(t, err, apperrors.CodeAuthorizationDenied)
}

func TestUpdate_AutoConfirmsWhenOwnerGainsAuthority(t *testing.T) {
	f := newFixture(t)
	reservation, err := f.svc.Create(context.Background(), memberID, createInput("", time.Now().Add(24*time.Hour)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reservation.Status != model.StatusRequested {
		t.Fatalf("expected requested, got %s", reservation.Status)
	}

	f.gate.AddMember(&model.Member{ID: memberID, GroupID: groupA, Approved: true}, authz.CapabilitySchedule)

	title := "Promoted"
	updated, err := f.svc.Update(context.Background(), memberID, reservation.ID, &model.ReservationUpdate{Title: &title})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != model.StatusConfirmed {
		t.Errorf("expected auto-confirmed status, got %s", updated.Status)
	}
}

// --- Owner / delete ---

func TestUpdateOwner_PrivilegedOnly(t *testing.T) {
	f := newFixture(t)
	reservation, err := f.svc.Create(context.Background(), memberID, createInput("", time.Now().Add(24*time.Hour)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = f.svc.UpdateOwner(context.Background(), memberID, reservation.ID, member2ID)
	assertCode(t, err, apperrors.CodeAuthorizationDenied)

	err = f.svc.UpdateOwner(context.Background(), managerID, reservation.ID, outsider)
	assertCode(t, err, apperrors.CodeDifferentGroup)

	if err := f.svc.UpdateOwner(context.Background(), managerID, reservation.ID, member2ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := f.svc.GetByID(context.Background(), managerID, reservation.ID)
	if got.OwnerID != member2ID {
		t.Errorf("expected owner %s, got %s", member2ID, got.OwnerID)
	}
}

func TestDelete_ByOwnerIsQuietAndFreesSlot(t *testing.T) {
	f := newFixture(t)
	start := time.Now().Add(24 * time.Hour)
	reservation, err := f.svc.Create(context.Background(), memberID, createInput("", start))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.svc.Delete(context.Background(), memberID, reservation.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if events := f.dispatcher.EventsOfKind(notify.KindReservationDeleted); len(events) != 0 {
		t.Errorf("owner cancellation must not notify, got %d events", len(events))
	}

	// The slot is immediately bookable again.
	if _, err := f.svc.Create(context.Background(), member2ID, createInput("", start)); err != nil {
		t.Fatalf("expected slot to be free after cancellation: %v", err)
	}
}

func TestDelete_ByManagerNotifiesOwner(t *testing.T) {
	f := newFixture(t)
	reservation, err := f.svc.Create(context.Background(), memberID, createInput("", time.Now().Add(24*time.Hour)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = f.svc.Delete(context.Background(), member2ID, reservation.ID)
	assertCode(t, err, apperrors.CodeAuthorizationDenied)

	if err := f.svc.Delete(context.Background(), managerID, reservation.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	events := f.dispatcher.EventsOfKind(notify.KindReservationDeleted)
	if len(events) != 1 {
		t.Fatalf("expected 1 deleted notification, got %d", len(events))
	}
	if len(events[0].Recipients) != 1 || events[0].Recipients[0] != memberID {
		t.Errorf("expected owner as recipient, got %v", events[0].Recipients)
	}
}

// --- Batch decisions ---

func TestConfirmAll_ConfirmsListedAndNotifiesInvitees(t *testing.T) {
	f := newFixture(t)
	base := time.Now().Add(24 * time.Hour)

	ids := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		input := createInput("", base.Add(time.Duration(i)*2*time.Hour))
		if i == 0 {
			input.Invitees = []string{member2ID}
		}
		reservation, err := f.svc.Create(context.Background(), memberID, input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ids = append(ids, reservation.ID)
	}

	_, err := f.svc.ConfirmAll(context.Background(), memberID, ids)
	assertCode(t, err, apperrors.CodeAuthorizationDenied)

	_, err = f.svc.ConfirmAll(context.Background(), managerID, nil)
	assertCode(t, err, apperrors.CodeInvalidInput)

	count, err := f.svc.ConfirmAll(context.Background(), managerID, ids)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 confirmations, got %d", count)
	}

	for _, id := range ids {
		got, _ := f.svc.GetByID(context.Background(), managerID, id)
		if got.Status != model.StatusConfirmed {
			t.Errorf("reservation %s: expected confirmed, got %s", id, got.Status)
		}
	}

	events := f.dispatcher.EventsOfKind(notify.KindReservationConfirmed)
	if len(events) != 3 {
		t.Fatalf("expected 3 confirmed notifications, got %d", len(events))
	}
	// Invitees are told alongside the owner.
	first := events[0]
	if len(first.Recipients) != 2 || first.Recipients[0] != memberID || first.Recipients[1] != member2ID {
		t.Errorf("expected owner and invitee as recipients, got %v", first.Recipients)
	}
}

func TestConfirmAll_ValidatesEachReservation(t *testing.T) {
	f := newFixture(t)
	start := time.Now().Add(24 * time.Hour)

	mine, err := f.svc.Create(context.Background(), memberID, createInput("", start))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	foreignInput := createInput("", start)
	foreignInput.ResourceID = resourceBID
	foreign, err := f.svc.Create(context.Background(), outsider, foreignInput)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A reservation on another group's resource stops the batch.
	count, err := f.svc.ConfirmAll(context.Background(), managerID, []string{mine.ID, foreign.ID})
	assertCode(t, err, apperrors.CodeDifferentGroup)
	if count != 1 {
		t.Errorf("expected 1 confirmation before the failure, got %d", count)
	}

	// An already-decided reservation is not pending.
	_, err = f.svc.ConfirmAll(context.Background(), managerID, []string{mine.ID})
	assertCode(t, err, apperrors.CodeRequestInvalid)
}

func TestRejectAll_RequiresMessageAndFreesSlots(t *testing.T) {
	f := newFixture(t)
	start := time.Now().Add(24 * time.Hour)
	reservation, err := f.svc.Create(context.Background(), memberID, createInput("", start))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = f.svc.RejectAll(context.Background(), managerID, []string{reservation.ID}, "   ")
	assertCode(t, err, apperrors.CodeInvalidInput)

	count, err := f.svc.RejectAll(context.Background(), managerID, []string{reservation.ID}, "Court resurfacing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 rejection, got %d", count)
	}

	got, _ := f.svc.GetByID(context.Background(), managerID, reservation.ID)
	if got.Status != model.StatusRejected {
		t.Errorf("expected rejected status, got %s", got.Status)
	}
	if got.RejectMessage != "Court resurfacing" {
		t.Errorf("unexpected reject message: %q", got.RejectMessage)
	}

	// Rejected reservations no longer occupy the slot.
	if _, err := f.svc.Create(context.Background(), member2ID, createInput("", start)); err != nil {
		t.Fatalf("expected slot to be free after rejection: %v", err)
	}
}

// --- Return ---

func TestReturn_IsOneWay(t *testing.T) {
	f := newFixture(t)
	reservation, err := f.svc.Create(context.Background(), memberID, createInput("", time.Now().Add(24*time.Hour)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := &model.ReservationReturn{
		Message:     "Net slightly torn",
		Attachments: []string{"https://img.example.com/net.jpg"},
	}
	if err := f.svc.Return(context.Background(), memberID, reservation.ID, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := &model.ReservationReturn{Message: "Actually fine"}
	err = f.svc.Return(context.Background(), member2ID, reservation.ID, second)
	assertCode(t, err, apperrors.CodeRequestInvalid)

	got, _ := f.svc.GetByID(context.Background(), memberID, reservation.ID)
	if !got.IsReturned {
		t.Error("expected reservation to be marked returned")
	}
	if got.ReturnMessage != "Net slightly torn" {
		t.Errorf("second return must not overwrite the first, got %q", got.ReturnMessage)
	}

	events := f.dispatcher.EventsOfKind(notify.KindReservationReturned)
	if len(events) != 1 {
		t.Fatalf("expected 1 returned notification, got %d", len(events))
	}
	if len(events[0].Recipients) != 1 || events[0].Recipients[0] != readerID {
		t.Errorf("expected read_returns holder as recipient, got %v", events[0].Recipients)
	}
}

// --- Queries ---

func TestListByStatus_PrivilegedOnly(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.Create(context.Background(), memberID, createInput("", time.Now().Add(24*time.Hour))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, _, err := f.svc.ListByStatus(context.Background(), memberID, model.StatusRequested, 10, 0)
	assertCode(t, err, apperrors.CodeAuthorizationDenied)

	reservations, total, err := f.svc.ListByStatus(context.Background(), managerID, model.StatusRequested, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(reservations) != 1 {
		t.Errorf("expected 1 requested reservation, got total=%d len=%d", total, len(reservations))
	}
}

func TestListMine_ScopeValidated(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ListMine(context.Background(), memberID, "everything", 10, 0)
	assertCode(t, err, apperrors.CodeInvalidInput)

	if _, err := f.svc.Create(context.Background(), memberID, createInput("", time.Now().Add(24*time.Hour))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mine, err := f.svc.ListMine(context.Background(), memberID, repository.ScopeUpcoming, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mine) != 1 {
		t.Errorf("expected 1 upcoming reservation, got %d", len(mine))
	}
}

func TestSearch_ListsPendingAndConfirmedOnly(t *testing.T) {
	f := newFixture(t)
	start := time.Now().Add(24 * time.Hour)

	pending, err := f.svc.Create(context.Background(), memberID, createInput("", start))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doomed, err := f.svc.Create(context.Background(), member2ID, createInput("", start.Add(2*time.Hour)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.RejectAll(context.Background(), managerID, []string{doomed.ID}, "Maintenance"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reservations, total, err := f.svc.Search(context.Background(), memberID, resourceID, nil, nil, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(reservations) != 1 {
		t.Fatalf("expected only the pending reservation, got total=%d len=%d", total, len(reservations))
	}
	if reservations[0].ID != pending.ID {
		t.Errorf("expected reservation %s, got %s", pending.ID, reservations[0].ID)
	}
}

func TestGetByID_GroupScoped(t *testing.T) {
	f := newFixture(t)
	reservation, err := f.svc.Create(context.Background(), memberID, createInput("", time.Now().Add(24*time.Hour)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.svc.GetByID(context.Background(), member2ID, reservation.ID); err != nil {
		t.Fatalf("same-group member should read reservations: %v", err)
	}

	_, err = f.svc.GetByID(context.Background(), outsider, reservation.ID)
	assertCode(t, err, apperrors.CodeDifferentGroup)
}
