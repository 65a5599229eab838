package postgres

import (
	"crypto/sha256"
	"fmt"
	"regexp"
	"strings"

	"github.com/open-ssl/krisha/scraper-service/internal/core/domain"

	"github.com/mmcloughlin/geohash"
)

const (
	geohashPrecision = 5
	areaBucketSize   = 2.0
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// normalizeAreaToBucket загоняет площадь в корзину фиксированного размера,
// чтобы 54.0 и 54.9 м² давали один и тот же хэш
func normalizeAreaToBucket(area *float64, bucketSize float64) string {
	if area == nil {
		return "null"
	}
	if bucketSize <= 0 {
		bucketSize = 1.0 // Защита от деления на ноль
	}
	bucketIndex := int(*area / bucketSize)
	return fmt.Sprintf("%d", bucketIndex)
}

// normalizeText приводит свободный текст к канонической форме:
// нижний регистр и схлопнутые пробельные последовательности
func normalizeText(text string) string {
	lower := strings.ToLower(strings.TrimSpace(text))
	return whitespaceRegex.ReplaceAllString(lower, " ")
}

// buildListingHashPayload создает стабильную строку из ключевых полей
// объявления. Поля, меняющиеся при каждом скрапинге (даты, счётчики
// просмотров), сюда не входят.
func buildListingHashPayload(listing domain.Listing) string {
	parts := make([]string, 0, 6)

	addFloat := func(val *float64) {
		if val != nil {
			parts = append(parts, fmt.Sprintf("%f", *val))
		} else {
			parts = append(parts, "null")
		}
	}

	addInt := func(val *int) {
		if val != nil {
			parts = append(parts, fmt.Sprintf("%d", *val))
		} else {
			parts = append(parts, "null")
		}
	}

	addFloat(listing.Price)
	addInt(listing.Rooms)
	parts = append(parts, normalizeAreaToBucket(listing.Square, areaBucketSize))
	parts = append(parts, normalizeText(listing.City))

	// Геохэш с точностью ~5 км: мелкие расхождения координат между
	// скрапингами не считаются изменением объявления
	if listing.Latitude != nil && listing.Longitude != nil {
		geohsh := geohash.Encode(*listing.Latitude, *listing.Longitude)
		parts = append(parts, geohsh[:geohashPrecision])
	} else {
		parts = append(parts, "null")
	}

	parts = append(parts, normalizeText(listing.RawText))

	return strings.Join(parts, "|")
}

// calculateContentHash вычисляет SHA256 хэш канонической строки
func calculateContentHash(payload string) string {
	h := sha256.New()
	h.Write([]byte(payload))
	return fmt.Sprintf("%x", h.Sum(nil))
}
