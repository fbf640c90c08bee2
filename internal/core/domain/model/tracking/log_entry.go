// Package tracking contains the append-only audit trail of order mutations.
// Log entries are the sole source of historical truth for an order: they are
// written alongside every mutation and are never updated or deleted.
package tracking

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrLogEntryIsNotConstructed is returned when a LogEntry was not created
// through NewLogEntry or RestoreLogEntry.
var ErrLogEntryIsNotConstructed = errors.New("LogEntry must be created via NewLogEntry constructor")

// Action is the short symbolic tag classifying an audit log entry.
type Action string

// The closed action vocabulary. Strings are part of the audit record shape
// and must stay stable.
const (
	ActionCreated          Action = "created"
	ActionUpdated          Action = "updated"
	ActionStatusUpdated    Action = "status_updated"
	ActionAssigned         Action = "assigned"
	ActionCarrierCreated   Action = "carrier_created"
	ActionCarrierCancelled Action = "carrier_cancelled"
	ActionCarrierError     Action = "carrier_error"
	ActionCarrierSynced    Action = "carrier_synced"
	ActionTrackingUpdated  Action = "tracking_updated"
	ActionDeleted          Action = "deleted"
)

// Validate checks the Action is a member of the closed vocabulary.
func (a Action) Validate() error {
	switch a {
	case ActionCreated, ActionUpdated, ActionStatusUpdated, ActionAssigned,
		ActionCarrierCreated, ActionCarrierCancelled, ActionCarrierError,
		ActionCarrierSynced, ActionTrackingUpdated, ActionDeleted:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%q is not a known action", string(a)))
}

// LogEntry is one immutable audit record. Exactly one entry is written per
// order mutation; carrier failures produce their own entries independent of
// the transition that triggered them.
type LogEntry struct {
	id             kernel.UUID
	orderID        kernel.UUID
	actorID        *kernel.UUID
	action         Action
	previousStatus *string
	newStatus      *string
	details        string
	createdAt      time.Time

	guard guard.ConstructorGuard
}

// NewLogEntry creates an audit record for an order mutation.
//
// Parameters:
//   - orderID: the mutated order (required)
//   - actorID: the acting operator, or nil for system-originated events
//     such as carrier callbacks and scheduled sync
//   - action: the symbolic classification tag
//   - previousStatus, newStatus: the status pair for transitions, nil for
//     actions that do not move the status
//   - details: free-text human-readable description of what changed
func NewLogEntry(
	orderID kernel.UUID,
	actorID *kernel.UUID,
	action Action,
	previousStatus, newStatus *string,
	details string,
) (*LogEntry, error) {
	if err := errors.Join(orderID.Validate(), action.Validate()); err != nil {
		return nil, err
	}
	if actorID != nil {
		if err := actorID.Validate(); err != nil {
			return nil, err
		}
	}

	return &LogEntry{
		id:             kernel.NewUUID(),
		orderID:        orderID,
		actorID:        actorID,
		action:         action,
		previousStatus: previousStatus,
		newStatus:      newStatus,
		details:        details,
		createdAt:      time.Now().UTC(),
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// RestoreLogEntry reconstructs a log entry from persistence.
func RestoreLogEntry(
	id, orderID kernel.UUID,
	actorID *kernel.UUID,
	action Action,
	previousStatus, newStatus *string,
	details string,
	createdAt time.Time,
) (*LogEntry, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), action.Validate()); err != nil {
		return nil, err
	}

	return &LogEntry{
		id:             id,
		orderID:        orderID,
		actorID:        actorID,
		action:         action,
		previousStatus: previousStatus,
		newStatus:      newStatus,
		details:        details,
		createdAt:      createdAt,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the LogEntry was built via its constructor.
func (e *LogEntry) Validate() error {
	if e == nil {
		return ErrLogEntryIsNotConstructed
	}
	return e.guard.Validate(ErrLogEntryIsNotConstructed)
}

// ID returns the entry's identifier.
func (e *LogEntry) ID() kernel.UUID { return e.id }

// OrderID returns the mutated order's identifier.
func (e *LogEntry) OrderID() kernel.UUID { return e.orderID }

// ActorID returns the acting operator's identifier, or nil for system events.
func (e *LogEntry) ActorID() *kernel.UUID { return e.actorID }

// Action returns the symbolic classification tag.
func (e *LogEntry) Action() Action { return e.action }

// PreviousStatus returns the status before the mutation, or nil.
func (e *LogEntry) PreviousStatus() *string { return e.previousStatus }

// NewStatus returns the status after the mutation, or nil.
func (e *LogEntry) NewStatus() *string { return e.newStatus }

// Details returns the free-text description of the mutation.
func (e *LogEntry) Details() string { return e.details }

// CreatedAt returns when the entry was recorded.
func (e *LogEntry) CreatedAt() time.Time { return e.createdAt }
