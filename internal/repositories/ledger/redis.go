package ledger

import (
	"context"
	"encoding/json"

	"github.com/cursedmounds/kurgan-api/internal/entities"
	"github.com/cursedmounds/kurgan-api/internal/errors"
	redisclient "github.com/cursedmounds/kurgan-api/internal/redis"
)

const (
	ledgerKeyPrefix = "ledger:"

	errEntryNil    = "entry cannot be nil"
	errEntryID     = "entry ID cannot be empty"
	errUserIDEmpty = "user ID cannot be empty"
)

// Config holds the configuration for the Redis repository.
type Config struct {
	Client redisclient.Client
}

// Validate ensures all required dependencies are provided.
func (c *Config) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
}

// NewRedisRepository creates a new Redis repository for the reward ledger.
func NewRedisRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{client: cfg.Client}, nil
}

var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) Append(ctx context.Context, input AppendInput) (*AppendOutput, error) {
	entry := input.Entry
	if entry == nil {
		return nil, errors.InvalidArgument(errEntryNil)
	}
	if entry.ID == "" {
		return nil, errors.InvalidArgument(errEntryID)
	}
	if entry.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}
	if entry.Currency == "" {
		return nil, errors.InvalidArgument("currency cannot be empty")
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal ledger entry")
	}

	if err := r.client.RPush(ctx, ledgerKey(entry.UserID), data).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to append ledger entry")
	}

	return &AppendOutput{Entry: entry}, nil
}

func (r *redisRepository) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	rows, err := r.client.LRange(ctx, ledgerKey(input.UserID), 0, -1).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list ledger entries")
	}

	entries := make([]entities.LedgerEntry, 0, len(rows))
	for _, raw := range rows {
		var entry entities.LedgerEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal ledger entry")
		}
		entries = append(entries, entry)
	}

	return &ListOutput{Entries: entries}, nil
}

func (r *redisRepository) Balance(ctx context.Context, input BalanceInput) (*BalanceOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}
	if input.Currency == "" {
		return nil, errors.InvalidArgument("currency cannot be empty")
	}

	listOut, err := r.List(ctx, ListInput{UserID: input.UserID})
	if err != nil {
		return nil, err
	}

	var total int64
	for _, entry := range listOut.Entries {
		if entry.Currency == input.Currency {
			total += int64(entry.Amount)
		}
	}

	return &BalanceOutput{Amount: total}, nil
}

func ledgerKey(userID string) string {
	return ledgerKeyPrefix + userID
}
