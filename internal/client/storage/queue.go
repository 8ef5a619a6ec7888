package storage

import (
	"context"

	"github.com/iudanet/echomind/internal/models"
)

// QueueStorage defines the persistent queue of offline mutations
type QueueStorage interface {
	// Enqueue assigns a sequence number to op and persists it
	Enqueue(ctx context.Context, op *models.PendingOperation) error

	// ListPending returns all queued operations in insertion order
	ListPending(ctx context.Context) ([]*models.PendingOperation, error)

	// UpdatePending persists attempt counters of an already queued operation
	// Returns ErrOperationNotFound if op is not queued
	UpdatePending(ctx context.Context, op *models.PendingOperation) error

	// RemovePending deletes operation from the queue
	RemovePending(ctx context.Context, id string) error

	// ClearPending drops the whole queue
	ClearPending(ctx context.Context) error

	// MoveToDeadLetter removes op from the queue and stores it as abandoned
	MoveToDeadLetter(ctx context.Context, op *models.PendingOperation) error

	// ListDeadLetter returns abandoned operations in insertion order
	ListDeadLetter(ctx context.Context) ([]*models.PendingOperation, error)

	// ClearDeadLetter drops all abandoned operations
	ClearDeadLetter(ctx context.Context) error

	// HasPending reports whether a queued or abandoned operation exists for the record
	HasPending(ctx context.Context, collection, recordID string) (bool, error)
}
