package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	lockserrors "clubhouse/internal/locks/errors"
	"clubhouse/internal/locks/validator"
	"clubhouse/pkg/authz"
	"clubhouse/pkg/config"
	apperrors "clubhouse/pkg/errors"
	"clubhouse/pkg/logger"
	"clubhouse/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

type memoryLockRepo struct {
	mu     sync.Mutex
	locks  map[string]*model.Lock
	nextID int
}

func newMemoryLockRepo() *memoryLockRepo {
	return &memoryLockRepo{locks: make(map[string]*model.Lock)}
}

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

func (m *memoryLockRepo) Create(_ context.Context, lock *model.Lock) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	lock.ID = objectIDLike(m.nextID)
	now := time.Now()
	lock.CreatedAt = now
	lock.LastModifiedAt = now
	stored := *lock
	m.locks[lock.ID] = &stored
	return nil
}

func (m *memoryLockRepo) FindByID(_ context.Context, id string) (*model.Lock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[id]
	if !ok {
		return nil, lockserrors.ErrNotFound
	}
	copied := *l
	return &copied, nil
}

func (m *memoryLockRepo) FindOverlapping(_ context.Context, resourceID string, period model.Period) ([]*model.Lock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Lock
	for _, l := range m.locks {
		if l.ResourceID == resourceID && l.Period.Overlaps(period) {
			copied := *l
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memoryLockRepo) FindBetween(ctx context.Context, resourceID string, period model.Period, _ int, _ int64) ([]*model.Lock, error) {
	return m.FindOverlapping(ctx, resourceID, period)
}

func (m *memoryLockRepo) Update(_ context.Context, id string, lock *model.Lock) (*mongo.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.locks[id]
	if !ok {
		return nil, lockserrors.ErrNotFound
	}
	updated := *lock
	updated.ID = id
	updated.ResourceID = existing.ResourceID
	updated.CreatedAt = existing.CreatedAt
	updated.LastModifiedAt = time.Now()
	m.locks[id] = &updated
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *memoryLockRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.locks[id]; !ok {
		return lockserrors.ErrNotFound
	}
	delete(m.locks, id)
	return nil
}

type stubReservationStore struct {
	reservations []*model.Reservation
}

func (s *stubReservationStore) FindOccupying(_ context.Context, resourceID string, period model.Period) ([]*model.Reservation, error) {
	var out []*model.Reservation
	for _, r := range s.reservations {
		if r.ResourceID == resourceID && r.Status.Occupying() && r.Period.Overlaps(period) {
			out = append(out, r)
		}
	}
	return out, nil
}

const (
	groupA = "group-a"

	resourceID = "boat-1"

	memberID  = "member-1"
	managerID = "manager-1"
	outsider  = "outsider-1"
)

type fixture struct {
	svc          LockService
	repo         *memoryLockRepo
	reservations *stubReservationStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard})
	cfg := &config.Config{
		DefaultBookableSpanDays: 14,
		ReadTimeout:             time.Second,
		WriteTimeout:            time.Second,
		Log:                     log,
	}

	gate := authz.NewStaticGate().
		AddMember(&model.Member{ID: memberID, GroupID: groupA, Approved: true}).
		AddMember(&model.Member{ID: managerID, GroupID: groupA, Approved: true}, authz.CapabilitySchedule).
		AddMember(&model.Member{ID: outsider, GroupID: "group-b", Approved: true}, authz.CapabilitySchedule)

	directory := authz.NewStaticDirectory(
		&model.Resource{ID: resourceID, GroupID: groupA, Name: "Boat 1", BookableSpanDays: 14},
	)

	f := &fixture{
		repo:         newMemoryLockRepo(),
		reservations: &stubReservationStore{},
	}
	f.svc = NewLockService(f.repo, f.reservations, validator.NewLockValidator(log), gate, directory, cfg)
	return f
}

func lockInput(start time.Time) *model.LockCreate {
	return &model.LockCreate{
		ResourceID: resourceID,
		StartTime:  start,
		EndTime:    start.Add(2 * time.Hour),
		Message:    "Maintenance",
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

func TestCreate_RequiresScheduleAuthorityInGroup(t *testing.T) {
	f := newFixture(t)
	start := time.Now().Add(24 * time.Hour)

	_, err := f.svc.Create(context.Background(), memberID, lockInput(start))
	assertCode(t, err, apperrors.CodeAuthorizationDenied)

	_, err = f.svc.Create(context.Background(), outsider, lockInput(start))
	assertCode(t, err, apperrors.CodeDifferentGroup)

	lock, err := f.svc.Create(context.Background(), managerID, lockInput(start))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lock.ID == "" {
		t.Error("expected lock to receive an ID")
	}
}

func TestCreate_LockOverlapRejected(t *testing.T) {
	f := newFixture(t)
	start := time.Now().Add(24 * time.Hour)

	if _, err := f.svc.Create(context.Background(), managerID, lockInput(start)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := f.svc.Create(context.Background(), managerID, lockInput(start.Add(time.Hour)))
	assertCode(t, err, apperrors.CodePeriodOverlapped)

	// Adjacent locks do not overlap.
	if _, err := f.svc.Create(context.Background(), managerID, lockInput(start.Add(2*time.Hour))); err != nil {
		t.Fatalf("unexpected error for adjacent lock: %v", err)
	}
}

func TestCreate_ReservationOverlapRejected(t *testing.T) {
	f := newFixture(t)
	start := time.Now().Add(24 * time.Hour)
	f.reservations.reservations = append(f.reservations.reservations, &model.Reservation{
		ID:         "res-1",
		ResourceID: resourceID,
		Status:     model.StatusConfirmed,
		Period:     model.Period{Start: start, End: start.Add(time.Hour)},
	})

	_, err := f.svc.Create(context.Background(), managerID, lockInput(start))
	assertCode(t, err, apperrors.CodePeriodOverlapped)

	// Rejected reservations do not block a lock.
	f.reservations.reservations[0].Status = model.StatusRejected
	if _, err := f.svc.Create(context.Background(), managerID, lockInput(start)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdate_SelfExcludedFromOverlapCheck(t *testing.T) {
	f := newFixture(t)
	start := time.Now().Add(24 * time.Hour)

	lock, err := f.svc.Create(context.Background(), managerID, lockInput(start))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Extending the same lock must not collide with itself.
	newEnd := start.Add(3 * time.Hour)
	updated, err := f.svc.Update(context.Background(), managerID, lock.ID, &model.LockUpdate{EndTime: &newEnd})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.Period.End.Equal(newEnd) {
		t.Errorf("expected end %v, got %v", newEnd, updated.Period.End)
	}

	other, err := f.svc.Create(context.Background(), managerID, lockInput(start.Add(4*time.Hour)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Moving onto another lock still fails.
	collidingStart := start.Add(time.Hour)
	collidingEnd := start.Add(5 * time.Hour)
	_, err = f.svc.Update(context.Background(), managerID, other.ID, &model.LockUpdate{
		StartTime: &collidingStart,
		EndTime:   &collidingEnd,
	})
	assertCode(t, err, apperrors.CodePeriodOverlapped)
}

func TestUpdate_NilFieldsLeftUnchanged(t *testing.T) {
	f := newFixture(t)
	start := time.Now().Add(24 * time.Hour)

	lock, err := f.svc.Create(context.Background(), managerID, lockInput(start))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	message := "Hull repair"
	updated, err := f.svc.Update(context.Background(), managerID, lock.ID, &model.LockUpdate{Message: &message})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Message != message {
		t.Errorf("expected message %q, got %q", message, updated.Message)
	}
	if !updated.Period.Equal(lock.Period) {
		t.Error("expected period to be unchanged")
	}
}

func TestDelete_RequiresScheduleAuthority(t *testing.T) {
	f := newFixture(t)
	lock, err := f.svc.Create(context.Background(), managerID, lockInput(time.Now().Add(24*time.Hour)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = f.svc.Delete(context.Background(), memberID, lock.ID)
	assertCode(t, err, apperrors.CodeAuthorizationDenied)

	if err := f.svc.Delete(context.Background(), managerID, lock.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = f.svc.Delete(context.Background(), managerID, lock.ID)
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestListBetween_DropsLocksBeyondBookableSpan(t *testing.T) {
	f := newFixture(t)
	now := time.Now()

	near, err := f.svc.Create(context.Background(), managerID, lockInput(now.Add(24*time.Hour)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	far, err := f.svc.Create(context.Background(), managerID, lockInput(now.AddDate(0, 0, 20)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	window := model.Period{Start: now, End: now.AddDate(0, 0, 30)}
	locks, err := f.svc.ListBetween(context.Background(), memberID, resourceID, window, 50, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(locks) != 1 {
		t.Fatalf("expected 1 visible lock, got %d", len(locks))
	}
	if locks[0].ID != near.ID {
		t.Errorf("expected near lock %s, got %s", near.ID, locks[0].ID)
	}
	for _, l := range locks {
		if l.ID == far.ID {
			t.Error("lock beyond the bookable span should have been dropped")
		}
	}
}

func TestGetByID_GroupScoped(t *testing.T) {
	f := newFixture(t)
	lock, err := f.svc.Create(context.Background(), managerID, lockInput(time.Now().Add(24*time.Hour)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.svc.GetByID(context.Background(), memberID, lock.ID); err != nil {
		t.Fatalf("same-group member should read locks: %v", err)
	}

	_, err = f.svc.GetByID(context.Background(), outsider, lock.ID)
	assertCode(t, err, apperrors.CodeDifferentGroup)
}
