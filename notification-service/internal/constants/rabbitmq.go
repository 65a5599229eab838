package constants

// Топология RabbitMQ, зеркало констант scraper-service: оба сервиса
// объявляют одну и ту же топологию, кто первым поднялся — тот и создал
const (
	RentEventsExchange     = "rent_events"
	RentEventsExchangeType = "direct"

	IngestedListingsQueue     = "ingested_listings"
	ListingIngestedRoutingKey = "listing.ingested"

	CredentialRequestsQueue       = "credential_requests"
	CredentialRequestedRoutingKey = "credential.requested"

	CredentialAnsweredRoutingKey = "credential.answered"
)

// Ретраи консьюмера объявлений: доставка уведомлений зависит от БД и
// Telegram, транзиентные сбои гоняем через wait-очередь
const (
	IngestedListingsRetryExchange = "ingested_listings_retry_exchange"
	IngestedListingsRetryQueue    = "ingested_listings_wait_queue"
	IngestedListingsFinalDLX      = "ingested_listings_final_dlx"
	IngestedListingsFinalDLQ      = "ingested_listings_final_dlq"
	IngestedListingsRetryTTL      = 15000 // миллисекунды
	IngestedListingsMaxRetries    = 5
)

// Ретраи консьюмера запросов кода: запрос живет недолго, ретраев мало
const (
	CredentialRequestsRetryExchange = "credential_requests_retry_exchange"
	CredentialRequestsRetryQueue    = "credential_requests_wait_queue"
	CredentialRequestsFinalDLX      = "credential_requests_final_dlx"
	CredentialRequestsFinalDLQ      = "credential_requests_final_dlq"
	CredentialRequestsRetryTTL      = 5000 // миллисекунды
	CredentialRequestsMaxRetries    = 3
)
