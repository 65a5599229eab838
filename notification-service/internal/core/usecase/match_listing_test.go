package usecase

import (
	"testing"

	"github.com/open-ssl/krisha/notification-service/internal/core/domain"

	"github.com/google/uuid"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func sampleListing() domain.Listing {
	return domain.Listing{
		ID:         uuid.New(),
		Source:     "krisha",
		ExternalID: "100500",
		Change:     "new",
		Price:      floatPtr(250000),
		Rooms:      intPtr(2),
		City:       "Алматы",
		Square:     floatPtr(54),
		RentalType: domain.RentalTypeFullApartment,
	}
}

func filterWith(mutate func(*domain.UserFilter)) domain.UserFilter {
	filter := domain.UserFilter{ID: uuid.New(), UserID: 1}
	if mutate != nil {
		mutate(&filter)
	}
	return filter
}

func TestMatchListingConjunction(t *testing.T) {
	listing := sampleListing()

	tests := []struct {
		name   string
		filter domain.UserFilter
		want   bool
	}{
		{"empty filter matches everything", filterWith(nil), true},
		{"matching rental type", filterWith(func(f *domain.UserFilter) {
			f.RentalType = domain.RentalTypeFullApartment
		}), true},
		{"wrong rental type", filterWith(func(f *domain.UserFilter) {
			f.RentalType = domain.RentalTypeRoomSharing
		}), false},
		{"city is case-insensitive", filterWith(func(f *domain.UserFilter) {
			f.City = "алматы"
		}), true},
		{"different city", filterWith(func(f *domain.UserFilter) {
			f.City = "Астана"
		}), false},
		{"rooms in set", filterWith(func(f *domain.UserFilter) {
			f.Rooms = []int{1, 2}
		}), true},
		{"rooms not in set", filterWith(func(f *domain.UserFilter) {
			f.Rooms = []int{3, 4}
		}), false},
		{"price inside range", filterWith(func(f *domain.UserFilter) {
			f.MinPrice = floatPtr(200000)
			f.MaxPrice = floatPtr(300000)
		}), true},
		{"price above max", filterWith(func(f *domain.UserFilter) {
			f.MaxPrice = floatPtr(200000)
		}), false},
		{"price below min", filterWith(func(f *domain.UserFilter) {
			f.MinPrice = floatPtr(300000)
		}), false},
		{"square at minimum", filterWith(func(f *domain.UserFilter) {
			f.MinSquare = floatPtr(54)
		}), true},
		{"square below minimum", filterWith(func(f *domain.UserFilter) {
			f.MinSquare = floatPtr(60)
		}), false},
		{"all conditions together", filterWith(func(f *domain.UserFilter) {
			f.RentalType = domain.RentalTypeFullApartment
			f.City = "Алматы"
			f.Rooms = []int{2}
			f.MinPrice = floatPtr(100000)
			f.MaxPrice = floatPtr(300000)
			f.MinSquare = floatPtr(40)
		}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched := MatchListing(listing, []domain.UserFilter{tt.filter})
			got := len(matched) == 1
			if got != tt.want {
				t.Errorf("got match=%v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchListingMissingFieldFailsConstraint(t *testing.T) {
	// у объявления из сообщества не распознана цена
	listing := sampleListing()
	listing.Price = nil
	listing.Rooms = nil

	priceFilter := filterWith(func(f *domain.UserFilter) { f.MaxPrice = floatPtr(300000) })
	roomsFilter := filterWith(func(f *domain.UserFilter) { f.Rooms = []int{2} })
	openFilter := filterWith(nil)

	matched := MatchListing(listing, []domain.UserFilter{priceFilter, roomsFilter, openFilter})
	if len(matched) != 1 || matched[0].ID != openFilter.ID {
		t.Errorf("got %d matches, want only the unconstrained filter", len(matched))
	}
}

func TestMatchListingReturnsAllMatches(t *testing.T) {
	listing := sampleListing()
	filters := []domain.UserFilter{
		filterWith(func(f *domain.UserFilter) { f.UserID = 1 }),
		filterWith(func(f *domain.UserFilter) { f.UserID = 2; f.City = "Алматы" }),
		filterWith(func(f *domain.UserFilter) { f.UserID = 3; f.City = "Астана" }),
	}

	matched := MatchListing(listing, filters)
	if len(matched) != 2 {
		t.Fatalf("got %d matches, want 2", len(matched))
	}
}
