package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
)

// NotificationPublisher publishes invoice lifecycle events to NATS for
// consumption by downstream notification services.
//
// Subject convention: notifications.invoicing.<event_type>
// Event types: invoice_created, invoice_status_changed, invoice_overdue
//
// All publish operations are non-fatal: errors are logged but never
// propagated to the caller, so notification failures never interrupt
// invoice operations.
type NotificationPublisher struct {
	nats *NATSClient
	log  zerolog.Logger
}

// NotificationEvent is the JSON schema published to NATS.
type NotificationEvent struct {
	EventType     string         `json:"event_type"`
	OwnerID       string         `json:"owner_id"`
	ResourceType  string         `json:"resource_type"`
	ResourceID    string         `json:"resource_id"`
	InvoiceNumber string         `json:"invoice_number,omitempty"`
	Payload       map[string]any `json:"payload,omitempty"`
}

// NewNotificationPublisher creates a publisher backed by the given NATS
// client. A nil client disables publishing.
func NewNotificationPublisher(nats *NATSClient, log zerolog.Logger) *NotificationPublisher {
	return &NotificationPublisher{nats: nats, log: log}
}

// PublishInvoiceEvent publishes an invoice lifecycle event.
// Subject: notifications.invoicing.<eventType>
func (p *NotificationPublisher) PublishInvoiceEvent(ctx context.Context, eventType, ownerID, invoiceID, invoiceNumber string, payload map[string]any) {
	if p == nil || p.nats == nil {
		return
	}

	event := &NotificationEvent{
		EventType:     eventType,
		OwnerID:       ownerID,
		ResourceType:  "invoice",
		ResourceID:    invoiceID,
		InvoiceNumber: invoiceNumber,
		Payload:       payload,
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.log.Warn().Err(err).Str("event_type", eventType).Msg("notification: failed to marshal event")
		return
	}

	subject := fmt.Sprintf("notifications.invoicing.%s", eventType)
	if err := p.nats.Publish(ctx, subject, data); err != nil {
		p.log.Warn().Err(err).
			Str("subject", subject).
			Str("invoice_id", invoiceID).
			Msg("notification: failed to publish NATS event (non-fatal)")
		return
	}

	p.log.Debug().
		Str("subject", subject).
		Str("invoice_id", invoiceID).
		Msg("notification: event published")
}
