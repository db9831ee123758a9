package handlers

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

type SheetPinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	Sheets    SheetPinger
	RabbitMQ  *amqp091.Connection
	StartTime time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

func NewHealthHandler(sheets SheetPinger, rabbitMQ *amqp091.Connection) *HealthHandler {
	return &HealthHandler{
		Sheets:    sheets,
		RabbitMQ:  rabbitMQ,
		StartTime: time.Now(),
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)

	if h.Sheets != nil {
		if err := h.Sheets.Ping(r.Context()); err != nil {
			deps["sheets"] = fmt.Sprintf("unhealthy: %v", err)
		} else {
			deps["sheets"] = "healthy"
		}
	} else {
		deps["sheets"] = "not configured"
	}

	if h.RabbitMQ != nil {
		if h.RabbitMQ.IsClosed() {
			deps["rabbitmq"] = "unhealthy: connection closed"
		} else {
			deps["rabbitmq"] = "healthy"
		}
	} else {
		deps["rabbitmq"] = "not configured"
	}

	if os.Getenv("GOOGLE_MAPS_API_KEY") != "" {
		deps["places"] = "configured"
	} else {
		deps["places"] = "not configured"
	}

	status := "healthy"
	for _, v := range deps {
		if v != "healthy" && v != "configured" && v != "not configured" {
			status = "degraded"
			break
		}
	}

	response := HealthResponse{
		Status:       status,
		Version:      "1.0.0",
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	}

	if status == "degraded" {
		writeJSON(w, http.StatusServiceUnavailable, response)
		return
	}
	writeJSON(w, http.StatusOK, response)
}
