package usecase

import (
	"strings"

	"github.com/open-ssl/krisha/notification-service/internal/core/domain"
)

// MatchListing возвращает фильтры, которым удовлетворяет объявление.
// Матчер — чистая конъюнкция: объявление проходит фильтр, только если
// проходит каждое заданное условие. Условие по полю, которого у
// объявления нет (например, цена не распознана), считается непройденным.
func MatchListing(listing domain.Listing, filters []domain.UserFilter) []domain.UserFilter {
	var matched []domain.UserFilter
	for _, filter := range filters {
		if filterMatches(listing, filter) {
			matched = append(matched, filter)
		}
	}
	return matched
}

func filterMatches(listing domain.Listing, filter domain.UserFilter) bool {
	if filter.RentalType != "" && filter.RentalType != listing.RentalType {
		return false
	}

	if filter.City != "" && !equalCity(filter.City, listing.City) {
		return false
	}

	if len(filter.Rooms) > 0 {
		if listing.Rooms == nil || !containsInt(filter.Rooms, *listing.Rooms) {
			return false
		}
	}

	if filter.MinPrice != nil {
		if listing.Price == nil || *listing.Price < *filter.MinPrice {
			return false
		}
	}
	if filter.MaxPrice != nil {
		if listing.Price == nil || *listing.Price > *filter.MaxPrice {
			return false
		}
	}

	if filter.MinSquare != nil {
		if listing.Square == nil || *listing.Square < *filter.MinSquare {
			return false
		}
	}

	return true
}

func equalCity(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func containsInt(values []int, target int) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
