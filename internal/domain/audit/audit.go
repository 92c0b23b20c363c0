// Package audit defines how domain services record destructive or
// irreversible operations. The PostgreSQL implementation stores a JSON
// snapshot, zstd-compressed when large.
package audit

import (
	"context"

	"pdv/internal/core/id"
)

// Action represents the type of audited operation.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionOpen   Action = "open"
	ActionClose  Action = "close"
)

// Recorder stores audit entries. Record is called inside the transaction of
// the audited operation, so a failed operation leaves no entry.
type Recorder interface {
	Record(ctx context.Context, entityType string, entityID id.ID, action Action, snapshot any) error
}

// Nop discards all entries.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(context.Context, string, id.ID, Action, any) error { return nil }
