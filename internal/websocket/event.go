package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of event (created, updated, deleted)
type EventType string

const (
	EventTypeCreated EventType = "created"
	EventTypeUpdated EventType = "updated"
	EventTypeDeleted EventType = "deleted"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeExpense   EntityType = "expense"
	EntityTypeCategory  EntityType = "category"
	EntityTypeIncome    EntityType = "income"
	EntityTypePortfolio EntityType = "portfolio"
	EntityTypeAsset     EntityType = "asset"
	EntityTypeSettings  EntityType = "settings"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "expense.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "expense"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ExpenseCreated creates an expense.created event
func ExpenseCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeExpense, payload)
}

// ExpenseUpdated creates an expense.updated event
func ExpenseUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeExpense, payload)
}

// ExpenseDeleted creates an expense.deleted event
func ExpenseDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeExpense, payload)
}

// CategoryCreated creates a category.created event
func CategoryCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeCategory, payload)
}

// CategoryUpdated creates a category.updated event
func CategoryUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeCategory, payload)
}

// CategoryDeleted creates a category.deleted event
func CategoryDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeCategory, payload)
}

// IncomeCreated creates an income.created event
func IncomeCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeIncome, payload)
}

// IncomeUpdated creates an income.updated event
func IncomeUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeIncome, payload)
}

// IncomeDeleted creates an income.deleted event
func IncomeDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeIncome, payload)
}

// PortfolioCreated creates a portfolio.created event
func PortfolioCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypePortfolio, payload)
}

// PortfolioUpdated creates a portfolio.updated event
func PortfolioUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypePortfolio, payload)
}

// PortfolioDeleted creates a portfolio.deleted event
func PortfolioDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypePortfolio, payload)
}

// AssetCreated creates an asset.created event
func AssetCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeAsset, payload)
}

// AssetUpdated creates an asset.updated event
func AssetUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeAsset, payload)
}

// AssetDeleted creates an asset.deleted event
func AssetDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeAsset, payload)
}

// SettingsUpdated creates a settings.updated event
func SettingsUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeSettings, payload)
}
