package entities

import "time"

// LedgerEntry is one append-only reward grant. The surrounding wallet
// service folds these into balances; the core only emits them.
type LedgerEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Source    string    `json:"source"`
	Currency  string    `json:"currency"`
	Amount    int       `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}
