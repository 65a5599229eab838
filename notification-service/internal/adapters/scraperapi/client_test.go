package scraperapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/open-ssl/krisha/notification-service/internal/core/domain"

	"github.com/google/uuid"
)

func TestActiveFiltersDecodesResponse(t *testing.T) {
	filterID := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/filters/active" {
			t.Errorf("got path %s, want /api/v1/filters/active", r.URL.Path)
		}
		fmt.Fprintf(w, `[
			{"id":"%s","user_id":7,"rental_type":"full_apartment","city":"Алматы","rooms":[1,2],"min_price":100000,"max_price":300000},
			{"id":"not-a-uuid","user_id":8}
		]`, filterID)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	filters, err := client.ActiveFilters(context.Background())
	if err != nil {
		t.Fatalf("ActiveFilters: %v", err)
	}

	// фильтр с кривым id пропущен
	if len(filters) != 1 {
		t.Fatalf("got %d filters, want 1", len(filters))
	}
	got := filters[0]
	if got.ID != filterID || got.UserID != 7 {
		t.Errorf("got filter %+v", got)
	}
	if got.MinPrice == nil || *got.MinPrice != 100000 {
		t.Errorf("got min_price %v, want 100000", got.MinPrice)
	}
	if len(got.Rooms) != 2 {
		t.Errorf("got rooms %v, want [1 2]", got.Rooms)
	}
}

func TestActiveFiltersWrapsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.ActiveFilters(context.Background())
	if !errors.Is(err, domain.ErrFilterSourceUnavailable) {
		t.Errorf("got %v, want ErrFilterSourceUnavailable", err)
	}
}

func TestActiveFiltersWrapsTransportError(t *testing.T) {
	client, err := NewClient("http://127.0.0.1:1", 200*time.Millisecond)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.ActiveFilters(context.Background())
	if !errors.Is(err, domain.ErrFilterSourceUnavailable) {
		t.Errorf("got %v, want ErrFilterSourceUnavailable", err)
	}
}
