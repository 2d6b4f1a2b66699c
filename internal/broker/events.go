package broker

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ActionStatusChanged      = "status_changed"
	ActionAttachmentUploaded = "attachment_uploaded"
)

// Event é a mensagem de domínio publicada na fila e consumida pelo notifier.
type Event struct {
	Action       string `json:"action"`
	CompanyID    string `json:"company_id"`
	CNPJ         string `json:"cnpj"`
	SocialName   string `json:"social_name"`
	FromStatus   int    `json:"from_status,omitempty"`
	ToStatus     int    `json:"to_status,omitempty"`
	DocumentID   int    `json:"document_id,omitempty"`
	AttachmentID string `json:"attachment_id,omitempty"`
	Timestamp    string `json:"timestamp"`
}

// PublishEvent serializa e publica o evento com os headers padrão.
func (p *Publisher) PublishEvent(ctx context.Context, ev Event) error {
	if ev.Timestamp == "" {
		ev.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.Publish(ctx, body, amqp.Table{
		"action":     ev.Action,
		"company_id": ev.CompanyID,
		"cnpj":       ev.CNPJ,
		"timestamp":  ev.Timestamp,
	})
}
