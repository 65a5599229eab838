package usecase

import (
	"context"
	"fmt"

	"github.com/open-ssl/krisha/notification-service/internal/core/domain"
	"github.com/open-ssl/krisha/notification-service/internal/core/port"
	"github.com/open-ssl/krisha/pkg/logging"
)

// ProcessIngestedListingUseCase — конвейер одного события listing.ingested:
// забрать активные фильтры, отобрать совпавшие, доставить каждому
// пользователю не более одного уведомления на объявление.
//
// Для change="updated" конвейер тот же: журнал доставок сам отсеет
// пользователей, которые это объявление уже видели, а те, чьи фильтры
// совпали только после обновления, получат его впервые.
type ProcessIngestedListingUseCase struct {
	filters  port.FilterSourcePort
	dispatch *DispatchNotificationUseCase
}

func NewProcessIngestedListingUseCase(filters port.FilterSourcePort, dispatch *DispatchNotificationUseCase) *ProcessIngestedListingUseCase {
	return &ProcessIngestedListingUseCase{
		filters:  filters,
		dispatch: dispatch,
	}
}

// Execute возвращает ошибку только если событие нужно повторить целиком
func (uc *ProcessIngestedListingUseCase) Execute(ctx context.Context, listing domain.Listing) error {
	logger := logging.LoggerFromContext(ctx)

	activeFilters, err := uc.filters.ActiveFilters(ctx)
	if err != nil {
		return fmt.Errorf("fetch active filters: %w", err)
	}

	matched := MatchListing(listing, activeFilters)
	if len(matched) == 0 {
		return nil
	}

	// Один пользователь мог совпасть несколькими фильтрами —
	// уведомление все равно одно
	users := uniqueUserIDs(matched)

	var sent, skipped, failed int
	for _, userID := range users {
		status, dispatchErr := uc.dispatch.Execute(ctx, userID, listing)
		switch status {
		case domain.DispatchSent:
			sent++
		case domain.DispatchSkipped:
			skipped++
		case domain.DispatchFailed:
			failed++
			logger.Error("Failed to dispatch notification", dispatchErr, logging.Fields{
				"user_id":    userID,
				"listing_id": listing.ID.String(),
			})
		}
	}

	logger.Info("Listing processed", logging.Fields{
		"listing_id": listing.ID.String(),
		"change":     listing.Change,
		"matched":    len(users),
		"sent":       sent,
		"skipped":    skipped,
		"failed":     failed,
	})

	if failed > 0 {
		// Повтор события безопасен: доставленным пользователям
		// журнал даст Skipped
		return fmt.Errorf("listing %s: %d of %d notifications failed", listing.ID, failed, len(users))
	}
	return nil
}

func uniqueUserIDs(filters []domain.UserFilter) []int64 {
	seen := make(map[int64]struct{}, len(filters))
	var users []int64
	for _, filter := range filters {
		if _, ok := seen[filter.UserID]; ok {
			continue
		}
		seen[filter.UserID] = struct{}{}
		users = append(users, filter.UserID)
	}
	return users
}
