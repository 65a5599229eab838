package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/open-ssl/krisha/notification-service/internal/core/domain"

	"github.com/google/uuid"
)

func newTestDispatcher(records *fakeRecords, messenger *fakeMessenger) *DispatchNotificationUseCase {
	uc := NewDispatchNotificationUseCase(records, messenger)
	uc.initialDelay = time.Millisecond
	return uc
}

type recordKey struct {
	userID    int64
	listingID uuid.UUID
}

type fakeRecords struct {
	mu      sync.Mutex
	seen    map[recordKey]struct{}
	failing bool
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{seen: make(map[recordKey]struct{})}
}

func (r *fakeRecords) Exists(ctx context.Context, userID int64, listingID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return false, errors.New("db down")
	}
	_, ok := r.seen[recordKey{userID, listingID}]
	return ok, nil
}

func (r *fakeRecords) Record(ctx context.Context, userID int64, listingID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return errors.New("db down")
	}
	r.seen[recordKey{userID, listingID}] = struct{}{}
	return nil
}

type fakeMessenger struct {
	mu        sync.Mutex
	sent      []int64
	failures  int  // первые failures отправок падают
	forbidden bool // пользователь заблокировал бота
}

func (m *fakeMessenger) SendListing(ctx context.Context, userID int64, listing domain.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forbidden {
		return domain.ErrDeliveryForbidden
	}
	if m.failures > 0 {
		m.failures--
		return domain.ErrMessengerUnavailable
	}
	m.sent = append(m.sent, userID)
	return nil
}

func (m *fakeMessenger) SendCredentialPrompt(ctx context.Context, adminID int64, prompt domain.CredentialPrompt) error {
	return nil
}

func (m *fakeMessenger) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func TestDispatchSendsOnce(t *testing.T) {
	records := newFakeRecords()
	messenger := &fakeMessenger{}
	uc := newTestDispatcher(records, messenger)

	listing := sampleListing()

	status, err := uc.Execute(context.Background(), 42, listing)
	if err != nil || status != domain.DispatchSent {
		t.Fatalf("got (%v, %v), want (sent, nil)", status, err)
	}

	// повторная доставка того же объявления тому же пользователю
	status, err = uc.Execute(context.Background(), 42, listing)
	if err != nil || status != domain.DispatchSkipped {
		t.Fatalf("got (%v, %v), want (skipped, nil)", status, err)
	}
	if messenger.sentCount() != 1 {
		t.Errorf("got %d sends, want 1", messenger.sentCount())
	}
}

func TestDispatchRetriesTransientFailure(t *testing.T) {
	records := newFakeRecords()
	// первые две попытки падают, третья проходит
	messenger := &fakeMessenger{failures: 2}
	uc := newTestDispatcher(records, messenger)

	status, err := uc.Execute(context.Background(), 42, sampleListing())
	if err != nil || status != domain.DispatchSent {
		t.Fatalf("got (%v, %v), want (sent, nil) after retries", status, err)
	}
}

func TestDispatchFailedLeavesNoRecord(t *testing.T) {
	records := newFakeRecords()
	messenger := &fakeMessenger{failures: dispatchMaxAttempts}
	uc := newTestDispatcher(records, messenger)

	listing := sampleListing()
	status, err := uc.Execute(context.Background(), 42, listing)
	if status != domain.DispatchFailed || err == nil {
		t.Fatalf("got (%v, %v), want (failed, error)", status, err)
	}

	// записи нет, следующая попытка должна отправить
	seen, _ := records.Exists(context.Background(), 42, listing.ID)
	if seen {
		t.Error("failed dispatch must not leave a notification record")
	}

	status, err = uc.Execute(context.Background(), 42, listing)
	if err != nil || status != domain.DispatchSent {
		t.Fatalf("got (%v, %v), want (sent, nil) on the next attempt", status, err)
	}
}

func TestDispatchBlockedUserRecordedAsSkipped(t *testing.T) {
	records := newFakeRecords()
	messenger := &fakeMessenger{forbidden: true}
	uc := newTestDispatcher(records, messenger)

	listing := sampleListing()
	status, err := uc.Execute(context.Background(), 42, listing)
	if err != nil || status != domain.DispatchSkipped {
		t.Fatalf("got (%v, %v), want (skipped, nil) for a blocked user", status, err)
	}

	// запись есть: передоставка события не пойдет в Telegram повторно
	seen, _ := records.Exists(context.Background(), 42, listing.ID)
	if !seen {
		t.Error("blocked delivery must be journaled to avoid a retry storm")
	}
	if messenger.sentCount() != 0 {
		t.Errorf("got %d sends, want 0", messenger.sentCount())
	}
}

func TestDispatchDifferentUsersIndependent(t *testing.T) {
	records := newFakeRecords()
	messenger := &fakeMessenger{}
	uc := newTestDispatcher(records, messenger)

	listing := sampleListing()
	for _, userID := range []int64{1, 2, 3} {
		status, err := uc.Execute(context.Background(), userID, listing)
		if err != nil || status != domain.DispatchSent {
			t.Fatalf("user %d: got (%v, %v), want (sent, nil)", userID, status, err)
		}
	}
	if messenger.sentCount() != 3 {
		t.Errorf("got %d sends, want 3", messenger.sentCount())
	}
}
