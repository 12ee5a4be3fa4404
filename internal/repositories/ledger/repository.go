// Package ledger provides persistence for reward grants. Entries are
// append-only; balances are derived by summing, never stored.
package ledger

import (
	"context"

	"github.com/cursedmounds/kurgan-api/internal/entities"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=ledgermock github.com/cursedmounds/kurgan-api/internal/repositories/ledger Repository

// Repository defines the interface for ledger persistence.
type Repository interface {
	// Append records a new ledger entry for a user.
	Append(ctx context.Context, input AppendInput) (*AppendOutput, error)

	// List returns a user's ledger entries in insertion order.
	List(ctx context.Context, input ListInput) (*ListOutput, error)

	// Balance sums a user's entries for a single currency.
	Balance(ctx context.Context, input BalanceInput) (*BalanceOutput, error)
}

// AppendInput contains the entry to record.
type AppendInput struct {
	Entry *entities.LedgerEntry
}

// AppendOutput contains the recorded entry.
type AppendOutput struct {
	Entry *entities.LedgerEntry
}

// ListInput identifies the user whose entries to return.
type ListInput struct {
	UserID string
}

// ListOutput contains the user's entries, oldest first.
type ListOutput struct {
	Entries []entities.LedgerEntry
}

// BalanceInput identifies a user and currency.
type BalanceInput struct {
	UserID   string
	Currency string
}

// BalanceOutput contains the summed amount.
type BalanceOutput struct {
	Amount int64
}
