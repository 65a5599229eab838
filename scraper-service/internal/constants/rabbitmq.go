package constants

// Топология RabbitMQ, общая для scraper-service и notification-service.
// Все события ходят через один direct-обменник rent_events.
const (
	RentEventsExchange     = "rent_events"
	RentEventsExchangeType = "direct"

	// Поглощенные объявления (new/updated) для матчинга и доставки
	IngestedListingsQueue     = "ingested_listings"
	ListingIngestedRoutingKey = "listing.ingested"

	// Запросы кода подтверждения для администратора
	CredentialRequestsQueue       = "credential_requests"
	CredentialRequestedRoutingKey = "credential.requested"

	// Ответы администратора с кодом
	CredentialAnswersQueue       = "credential_answers"
	CredentialAnsweredRoutingKey = "credential.answered"
)

// Инфраструктура ретраев консьюмера ответов с кодом
const (
	CredentialAnswersRetryExchange = "credential_answers_retry_exchange"
	CredentialAnswersRetryQueue    = "credential_answers_wait_queue"
	CredentialAnswersFinalDLX      = "credential_answers_final_dlx"
	CredentialAnswersFinalDLQ      = "credential_answers_final_dlq"
	CredentialAnswersRetryTTL      = 10000 // миллисекунды
	CredentialAnswersMaxRetries    = 3
)
