package communityfeed

import (
	"fmt"

	"github.com/open-ssl/krisha/scraper-service/internal/core/domain"
)

// mapMessageToListing превращает сообщение сообщества в доменное объявление.
// Структурированных полей у сообщения нет: цену, комнаты и район из текста
// достает AI-обогащение на стадии поглощения.
func mapMessageToListing(channel string, msg gatewayMessage) domain.Listing {
	return domain.Listing{
		Source:     "community:" + channel,
		ExternalID: fmt.Sprintf("msg-%d", msg.ID),
		RawText:    msg.Text,
	}
}
