package queue

import (
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DigestMailer is the delivery contract the worker calls out to.
type DigestMailer interface {
	SendReminderDigest(to string, payload ReminderDigestPayload) error
}

type Worker struct {
	Channel   *amqp.Channel
	Mailer    DigestMailer
	Recipient string
}

func NewWorker(ch *amqp.Channel, mailer DigestMailer, recipient string) *Worker {
	return &Worker{
		Channel:   ch,
		Mailer:    mailer,
		Recipient: recipient,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer tag
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		log.Fatalf("❌ [WORKER] Failed to register consumer: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload ReminderDigestPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] Malformed digest message: %s", err)
				// Poison message. Reject without requeue so it hits the DLQ.
				d.Nack(false, false)
				continue
			}

			log.Printf("📥 [WORKER] Digest for %s: %d leads due", payload.Date, payload.Total)

			if err := w.Mailer.SendReminderDigest(w.Recipient, payload); err != nil {
				log.Printf("❌ [WORKER] Digest delivery failed: %s", err)
				d.Nack(false, false)
			} else {
				log.Printf("✅ [WORKER] Digest for %s delivered to %s", payload.Date, w.Recipient)
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Digest worker waiting on queue '%s'", queueName)
	<-forever
}
