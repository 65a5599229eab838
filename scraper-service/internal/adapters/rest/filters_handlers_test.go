package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/open-ssl/krisha/scraper-service/internal/core/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type fakeFilterRepo struct {
	filters map[uuid.UUID]domain.UserFilter
}

func newFakeFilterRepo() *fakeFilterRepo {
	return &fakeFilterRepo{filters: make(map[uuid.UUID]domain.UserFilter)}
}

func (r *fakeFilterRepo) Create(ctx context.Context, filter domain.UserFilter) (domain.UserFilter, error) {
	filter.ID = uuid.New()
	filter.IsActive = true
	filter.CreatedAt = time.Now().UTC()
	r.filters[filter.ID] = filter
	return filter, nil
}

func (r *fakeFilterRepo) ListByUser(ctx context.Context, userID int64) ([]domain.UserFilter, error) {
	var result []domain.UserFilter
	for _, filter := range r.filters {
		if filter.UserID == userID && filter.IsActive {
			result = append(result, filter)
		}
	}
	return result, nil
}

func (r *fakeFilterRepo) ListActive(ctx context.Context) ([]domain.UserFilter, error) {
	var result []domain.UserFilter
	for _, filter := range r.filters {
		if filter.IsActive {
			result = append(result, filter)
		}
	}
	return result, nil
}

func (r *fakeFilterRepo) Deactivate(ctx context.Context, filterID uuid.UUID) error {
	filter, ok := r.filters[filterID]
	if !ok {
		return domain.ErrFilterNotFound
	}
	filter.IsActive = false
	r.filters[filterID] = filter
	return nil
}

func newTestRouter(repo *fakeFilterRepo) http.Handler {
	handler := NewFilterHandler(repo)
	r := chi.NewRouter()
	r.Post("/api/v1/filters", handler.CreateFilter)
	r.Get("/api/v1/filters", handler.ListFilters)
	r.Get("/api/v1/filters/active", handler.ListActiveFilters)
	r.Delete("/api/v1/filters/{filterID}", handler.DeleteFilter)
	return r
}

func TestCreateFilter(t *testing.T) {
	router := newTestRouter(newFakeFilterRepo())

	body := bytes.NewBufferString(`{"user_id": 42, "rental_type": "full_apartment", "city": "Алматы", "rooms": [1, 2]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/filters", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("got status %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var resp FilterResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.UserID != 42 || !resp.IsActive {
		t.Errorf("got %+v, want active filter for user 42", resp)
	}
}

func TestCreateFilterRejectsBadPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing user_id", `{"city": "Алматы"}`},
		{"unknown rental_type", `{"user_id": 1, "rental_type": "penthouse"}`},
		{"inverted price range", `{"user_id": 1, "min_price": 300000, "max_price": 100000}`},
		{"broken json", `{"user_id": `},
	}

	router := newTestRouter(newFakeFilterRepo())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/filters", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("got status %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestListFiltersRequiresUserID(t *testing.T) {
	router := newTestRouter(newFakeFilterRepo())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/filters", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestDeleteFilterLifecycle(t *testing.T) {
	repo := newFakeFilterRepo()
	router := newTestRouter(repo)

	created, err := repo.Create(context.Background(), domain.UserFilter{UserID: 7})
	if err != nil {
		t.Fatalf("seed filter: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/filters/"+created.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusNoContent)
	}

	// повторное удаление — 404
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/filters/"+uuid.NewString(), nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("got status %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestListActiveFiltersSkipsDeactivated(t *testing.T) {
	repo := newFakeFilterRepo()
	router := newTestRouter(repo)

	first, _ := repo.Create(context.Background(), domain.UserFilter{UserID: 1})
	repo.Create(context.Background(), domain.UserFilter{UserID: 2})
	repo.Deactivate(context.Background(), first.ID)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/filters/active", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp []FilterResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 || resp[0].UserID != 2 {
		t.Errorf("got %+v, want only the filter of user 2", resp)
	}
}
