package domain

import "errors"

var (
	// ErrCodeRequestTimeout — код подтверждения не пришел в отведенное окно.
	// Вызывающая сторона прерывает попытку входа и повторяет её на
	// следующем цикле оркестратора, не роняя процесс.
	ErrCodeRequestTimeout = errors.New("credential request timed out")

	// ErrSourceUnavailable — источник объявлений недоступен; сбор
	// изолируется и повторяется на следующем интервале расписания.
	ErrSourceUnavailable = errors.New("listing source unavailable")

	// ErrFilterNotFound — фильтр с таким идентификатором не существует
	ErrFilterNotFound = errors.New("filter not found")
)
