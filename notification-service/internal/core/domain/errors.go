package domain

import "errors"

var (
	// ErrMessengerUnavailable — мессенджер недоступен либо ответил ошибкой;
	// доставка будет повторена с ограниченным бэкоффом
	ErrMessengerUnavailable = errors.New("messenger unavailable")

	// ErrDeliveryForbidden — пользователь заблокировал бота; доставка
	// невозможна навсегда, повторять бессмысленно
	ErrDeliveryForbidden = errors.New("delivery forbidden")

	// ErrFilterSourceUnavailable — scraper-service недоступен и кэш фильтров пуст
	ErrFilterSourceUnavailable = errors.New("filter source unavailable")
)
