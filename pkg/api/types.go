package api

import (
	"github.com/ssargent/eventstore/pkg/event"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port   int
	Bind   string
	APIKey string // empty disables authentication
}

// EventService defines the event operations the handlers need
type EventService interface {
	Create(p event.Payload) (event.Event, error)
	Read(id uint64) (event.Event, error)
	Update(id uint64, p event.Payload) (event.Event, error)
	Delete(id uint64) (event.Event, error)
}
