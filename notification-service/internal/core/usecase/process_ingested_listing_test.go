package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/open-ssl/krisha/notification-service/internal/core/domain"
)

type fakeFilterSource struct {
	filters []domain.UserFilter
	err     error
}

func (s *fakeFilterSource) ActiveFilters(ctx context.Context) ([]domain.UserFilter, error) {
	return s.filters, s.err
}

func TestProcessListingNotifiesMatchedUsers(t *testing.T) {
	filters := &fakeFilterSource{filters: []domain.UserFilter{
		filterWith(func(f *domain.UserFilter) { f.UserID = 1 }),
		filterWith(func(f *domain.UserFilter) { f.UserID = 2; f.City = "Астана" }),
	}}
	records := newFakeRecords()
	messenger := &fakeMessenger{}
	uc := NewProcessIngestedListingUseCase(filters, newTestDispatcher(records, messenger))

	if err := uc.Execute(context.Background(), sampleListing()); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	if messenger.sentCount() != 1 {
		t.Errorf("got %d sends, want 1: only user 1 matches", messenger.sentCount())
	}
}

func TestProcessListingDeduplicatesUsersAcrossFilters(t *testing.T) {
	// два фильтра одного пользователя совпали с одним объявлением
	filters := &fakeFilterSource{filters: []domain.UserFilter{
		filterWith(func(f *domain.UserFilter) { f.UserID = 7 }),
		filterWith(func(f *domain.UserFilter) { f.UserID = 7; f.City = "Алматы" }),
	}}
	records := newFakeRecords()
	messenger := &fakeMessenger{}
	uc := NewProcessIngestedListingUseCase(filters, newTestDispatcher(records, messenger))

	if err := uc.Execute(context.Background(), sampleListing()); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if messenger.sentCount() != 1 {
		t.Errorf("got %d sends, want 1", messenger.sentCount())
	}
}

func TestProcessListingRedeliveryIsIdempotent(t *testing.T) {
	filters := &fakeFilterSource{filters: []domain.UserFilter{
		filterWith(func(f *domain.UserFilter) { f.UserID = 1 }),
	}}
	records := newFakeRecords()
	messenger := &fakeMessenger{}
	uc := NewProcessIngestedListingUseCase(filters, newTestDispatcher(records, messenger))

	listing := sampleListing()
	if err := uc.Execute(context.Background(), listing); err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	// повторная доставка того же события брокером
	if err := uc.Execute(context.Background(), listing); err != nil {
		t.Fatalf("second Execute: %v", err)
	}

	if messenger.sentCount() != 1 {
		t.Errorf("got %d sends, want 1 after redelivery", messenger.sentCount())
	}
}

func TestProcessListingFailsWhenFiltersUnavailable(t *testing.T) {
	filters := &fakeFilterSource{err: errors.New("scraper-service is down")}
	uc := NewProcessIngestedListingUseCase(filters, newTestDispatcher(newFakeRecords(), &fakeMessenger{}))

	if err := uc.Execute(context.Background(), sampleListing()); err == nil {
		t.Error("expected error when filter source is unavailable")
	}
}

func TestProcessListingReportsPartialFailure(t *testing.T) {
	filters := &fakeFilterSource{filters: []domain.UserFilter{
		filterWith(func(f *domain.UserFilter) { f.UserID = 1 }),
		filterWith(func(f *domain.UserFilter) { f.UserID = 2 }),
	}}
	records := newFakeRecords()
	// все попытки первой доставки исчерпаны, вторая проходит
	messenger := &fakeMessenger{failures: dispatchMaxAttempts}
	uc := NewProcessIngestedListingUseCase(filters, newTestDispatcher(records, messenger))

	err := uc.Execute(context.Background(), sampleListing())
	if err == nil {
		t.Fatal("expected error when one dispatch fails")
	}
	if messenger.sentCount() != 1 {
		t.Errorf("got %d sends, want 1: the healthy user still gets notified", messenger.sentCount())
	}
}
