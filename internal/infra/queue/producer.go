package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DigestLead is the slice of a lead the digest email needs.
type DigestLead struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	City   string `json:"city"`
	Status string `json:"status"`
	Remark string `json:"remark"`
}

// TelecallerDigest groups a day's due leads under one assignee.
type TelecallerDigest struct {
	Telecaller string       `json:"telecaller"`
	Leads      []DigestLead `json:"leads"`
}

// ReminderDigestPayload is one day's follow-up digest, published once per
// sweep and consumed by the mail worker.
type ReminderDigestPayload struct {
	Date     string             `json:"date"` // YYYY-MM-DD
	Total    int                `json:"total"`
	RolledIn int                `json:"rolled_in"` // leads surfaced by the overdue rollover
	Sections []TelecallerDigest `json:"sections"`
}

type QueueProducerInterface interface {
	PublishReminderDigest(ctx context.Context, payload ReminderDigestPayload) error
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Conn: conn, Ch: ch}
}

func (p *RabbitMQProducer) PublishReminderDigest(ctx context.Context, payload ReminderDigestPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal digest payload: %v", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish digest: %v", err)
	}

	return nil
}
