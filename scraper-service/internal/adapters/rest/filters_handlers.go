package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/open-ssl/krisha/scraper-service/internal/core/domain"
	"github.com/open-ssl/krisha/scraper-service/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type FilterHandler struct {
	filters port.FilterRepositoryPort
}

func NewFilterHandler(filters port.FilterRepositoryPort) *FilterHandler {
	return &FilterHandler{filters: filters}
}

// CreateFilter обрабатывает POST /api/v1/filters
func (h *FilterHandler) CreateFilter(w http.ResponseWriter, r *http.Request) {
	var req CreateFilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if req.UserID == 0 {
		WriteJSONError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if req.RentalType != "" &&
		req.RentalType != domain.RentalTypeFullApartment &&
		req.RentalType != domain.RentalTypeRoomSharing {
		WriteJSONError(w, http.StatusBadRequest, "unknown rental_type")
		return
	}
	if req.MinPrice != nil && req.MaxPrice != nil && *req.MinPrice > *req.MaxPrice {
		WriteJSONError(w, http.StatusBadRequest, "min_price must not exceed max_price")
		return
	}

	filter, err := h.filters.Create(r.Context(), domain.UserFilter{
		UserID:     req.UserID,
		RentalType: req.RentalType,
		City:       req.City,
		Rooms:      req.Rooms,
		MinPrice:   req.MinPrice,
		MaxPrice:   req.MaxPrice,
		MinSquare:  req.MinSquare,
	})
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, "Failed to create filter")
		return
	}

	RespondWithJSON(w, http.StatusCreated, toFilterResponse(filter))
}

// ListFilters обрабатывает GET /api/v1/filters?user_id=...
func (h *FilterHandler) ListFilters(w http.ResponseWriter, r *http.Request) {
	userIDStr := r.URL.Query().Get("user_id")
	if userIDStr == "" {
		WriteJSONError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "user_id must be an integer")
		return
	}

	filters, err := h.filters.ListByUser(r.Context(), userID)
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, "Failed to list filters")
		return
	}

	RespondWithJSON(w, http.StatusOK, toFilterResponses(filters))
}

// ListActiveFilters обрабатывает GET /api/v1/filters/active.
// Это внутренний эндпоинт для notification-service.
func (h *FilterHandler) ListActiveFilters(w http.ResponseWriter, r *http.Request) {
	filters, err := h.filters.ListActive(r.Context())
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, "Failed to list active filters")
		return
	}

	RespondWithJSON(w, http.StatusOK, toFilterResponses(filters))
}

// DeleteFilter обрабатывает DELETE /api/v1/filters/{filterID}
func (h *FilterHandler) DeleteFilter(w http.ResponseWriter, r *http.Request) {
	filterID, err := uuid.Parse(chi.URLParam(r, "filterID"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "filterID must be a UUID")
		return
	}

	if err := h.filters.Deactivate(r.Context(), filterID); err != nil {
		if errors.Is(err, domain.ErrFilterNotFound) {
			WriteJSONError(w, http.StatusNotFound, "Filter not found")
			return
		}
		WriteJSONError(w, http.StatusInternalServerError, "Failed to delete filter")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
