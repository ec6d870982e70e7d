// Package storage provides abstractions for the session's ledger state.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/roomies/internal/models"
)

// ErrDuplicateID is returned when a record is created with an ID already in use.
var ErrDuplicateID = errors.New("duplicate id")

// Store defines the interface for ledger state operations.
// This abstraction keeps the service layer independent of where the session
// lives (process memory today).
type Store interface {
	// Snapshot returns the current users and expenses.
	// The returned slices must not be modified.
	Snapshot(ctx context.Context) (models.Ledger, error)

	// CreateUser appends a new user.
	// The user.ID field will be populated by the store if empty.
	CreateUser(ctx context.Context, user *models.User) error

	// CreateExpense records a new expense as the most recent one.
	// The expense.ID and expense.CreatedAt fields will be populated by the store if empty.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// Close releases any resources held by the store.
	Close() error
}
