// Package events delivers post-commit side effects (audit trail entries and
// user notifications). Dispatch is fire-and-forget: it runs after the unit of
// work has committed, and a delivery failure is logged but never propagated
// back to the financial operation.
package events

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Audit receives best-effort audit entries. Persistence is out of scope; the
// default sink logs structured entries.
type Audit interface {
	Log(action, entityType, entityID string, details map[string]interface{}) error
}

// Notifier delivers a user-facing notification.
type Notifier interface {
	Notify(userID uuid.UUID, typ, title, message string, data map[string]interface{}) error
}

// Event describes one post-commit side effect. UserID nil means audit-only.
type Event struct {
	UserID     *uuid.UUID
	Type       string
	Title      string
	Message    string
	Action     string
	EntityType string
	EntityID   string
	Data       map[string]interface{}
}

// Dispatcher fans events out to the audit sink and notifier asynchronously.
type Dispatcher struct {
	Audit    Audit
	Notifier Notifier

	wg sync.WaitGroup
}

// Emit dispatches events in the background and returns immediately.
func (d *Dispatcher) Emit(events ...Event) {
	if d == nil {
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for _, e := range events {
			d.deliver(e)
		}
	}()
}

// Wait blocks until all in-flight dispatches finish. Used in tests and on
// shutdown.
func (d *Dispatcher) Wait() {
	if d != nil {
		d.wg.Wait()
	}
}

func (d *Dispatcher) deliver(e Event) {
	if d.Audit != nil && e.Action != "" {
		if err := d.Audit.Log(e.Action, e.EntityType, e.EntityID, e.Data); err != nil {
			log.Warn().Err(err).Str("action", e.Action).Str("entity_id", e.EntityID).Msg("audit log failed")
		}
	}
	if d.Notifier != nil && e.UserID != nil {
		if err := d.Notifier.Notify(*e.UserID, e.Type, e.Title, e.Message, e.Data); err != nil {
			log.Warn().Err(err).Str("user_id", e.UserID.String()).Str("type", e.Type).Msg("notification delivery failed")
		}
	}
}

// LogAudit writes audit entries to the service log.
type LogAudit struct{}

func (LogAudit) Log(action, entityType, entityID string, details map[string]interface{}) error {
	log.Info().
		Str("action", action).
		Str("entity_type", entityType).
		Str("entity_id", entityID).
		Interface("details", details).
		Msg("audit")
	return nil
}
