package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/smtp"
	"os"
	"os/signal"
	"syscall"

	amqp "github.com/rabbitmq/amqp091-go"

	"logbiz/recruitment-api/internal/config"
	"logbiz/recruitment-api/internal/services"
)

// The notifier consumes lifecycle events from the broker and sends the
// matching candidate emails. It runs as its own process so a slow SMTP server
// never affects API latency.
func main() {
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	if cfg.AMQP.URL == "" {
		log.Fatal("❌ AMQP_URL is required for the notifier")
	}

	conn, err := amqp.Dial(cfg.AMQP.URL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to RabbitMQ: %v", err)
	}
	defer conn.Close()

	channel, err := conn.Channel()
	if err != nil {
		log.Fatalf("❌ Failed to open channel: %v", err)
	}
	defer channel.Close()

	err = channel.ExchangeDeclare(
		cfg.AMQP.Exchange, // name
		"topic",           // kind
		true,              // durable
		false,             // auto-delete
		false,             // internal
		false,             // no-wait
		nil,               // args
	)
	if err != nil {
		log.Fatalf("❌ Failed to declare exchange: %v", err)
	}

	queue, err := channel.QueueDeclare(
		cfg.AMQP.Queue, // name
		true,           // durable
		false,          // auto-delete
		false,          // exclusive
		false,          // no-wait
		nil,            // args
	)
	if err != nil {
		log.Fatalf("❌ Failed to declare queue: %v", err)
	}

	if err := channel.QueueBind(queue.Name, "#", cfg.AMQP.Exchange, false, nil); err != nil {
		log.Fatalf("❌ Failed to bind queue: %v", err)
	}

	deliveries, err := channel.Consume(
		queue.Name, // queue
		"notifier", // consumer tag
		false,      // auto-ack
		false,      // exclusive
		false,      // no-local
		false,      // no-wait
		nil,        // args
	)
	if err != nil {
		log.Fatalf("❌ Failed to start consumer: %v", err)
	}

	mailer := newMailer(cfg.SMTP)
	log.Printf("🚀 Notifier listening on queue '%s'\n", queue.Name)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-quit:
			log.Println("\n🛑 Shutting down notifier...")
			return
		case delivery, ok := <-deliveries:
			if !ok {
				log.Println("❌ Delivery channel closed")
				return
			}
			if err := handleEvent(mailer, delivery.RoutingKey, delivery.Body); err != nil {
				log.Printf("⚠️  Failed to handle %s: %v\n", delivery.RoutingKey, err)
			}
			delivery.Ack(false)
		}
	}
}

func handleEvent(m *mailer, routingKey string, body []byte) error {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("failed to decode event: %w", err)
	}

	email := stringField(payload, "candidate_email")
	name := stringField(payload, "candidate_name")
	title := stringField(payload, "assignment_title")

	switch routingKey {
	case services.EventAssignmentAssigned:
		if email == "" {
			return nil
		}
		subject := fmt.Sprintf("New Assignment: %s", title)
		text := fmt.Sprintf(
			"Hi %s,\n\nYou have been assigned a new take-home assignment: %s.\nDeadline: %s\n\nGood luck!\nThe Logbiz Recruitment Team",
			name, title, stringField(payload, "deadline"),
		)
		return m.send(email, subject, text)

	case services.EventReviewCompleted:
		if email == "" {
			return nil
		}
		verdict := "Unfortunately this attempt did not reach the passing score."
		if passing, _ := payload["passing"].(bool); passing {
			verdict = "Congratulations, you passed!"
		}
		subject := fmt.Sprintf("Your submission for %s has been reviewed", title)
		text := fmt.Sprintf(
			"Hi %s,\n\nYour submission for %s has been reviewed.\nScore: %v\n%s\n\nThe Logbiz Recruitment Team",
			name, title, payload["score"], verdict,
		)
		return m.send(email, subject, text)

	case services.EventCertificateIssued:
		if email == "" {
			return nil
		}
		subject := fmt.Sprintf("Your certificate for %s", title)
		text := fmt.Sprintf(
			"Hi %s,\n\nYour certificate %s has been issued.\nDownload it here: %s\n\nThe Logbiz Recruitment Team",
			name, stringField(payload, "certificate_number"), stringField(payload, "pdf_url"),
		)
		return m.send(email, subject, text)

	case services.EventSubmissionCreated:
		// Internal bookkeeping only, no candidate email
		log.Printf("📥 Submission %s received\n", stringField(payload, "submission_id"))
		return nil

	default:
		log.Printf("⚠️  Unknown routing key: %s\n", routingKey)
		return nil
	}
}

type mailer struct {
	cfg config.SMTPConfig
}

func newMailer(cfg config.SMTPConfig) *mailer {
	return &mailer{cfg: cfg}
}

func (m *mailer) send(to, subject, text string) error {
	if m.cfg.User == "" {
		log.Printf("⚠️  SMTP not configured, skipping email to %s (%s)\n", to, subject)
		return nil
	}

	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		m.cfg.From, to, subject, text,
	)

	addr := m.cfg.Host + ":" + m.cfg.Port
	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("📧 Sent '%s' to %s\n", subject, to)
	return nil
}

func stringField(payload map[string]interface{}, key string) string {
	v, _ := payload[key].(string)
	return v
}
