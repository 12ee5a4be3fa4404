package dailycharacter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/cursedmounds/kurgan-api/internal/entities"
	"github.com/cursedmounds/kurgan-api/internal/errors"
	"github.com/cursedmounds/kurgan-api/internal/pkg/clock"
	redisclient "github.com/cursedmounds/kurgan-api/internal/redis"
)

const (
	// Key pattern: daily_character:{user_id}:{day_key}
	keyPrefix = "daily_character:"

	// Rows outlive their day by enough to read yesterday's sheet, then lapse.
	rowTTL = 48 * time.Hour

	errCharacterNil = "character cannot be nil"
	errUserIDEmpty  = "user ID cannot be empty"
	errDayKeyEmpty  = "day key cannot be empty"
)

// Config holds the configuration for the Redis repository.
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate ensures all required dependencies are provided.
func (c *Config) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.Clock == nil {
		return errors.InvalidArgument("clock is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// NewRedisRepository creates a new Redis repository for daily characters.
func NewRedisRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
	}, nil
}

var _ Repository = (*redisRepository)(nil)

// Create stores the character under SETNX so the first writer wins. The
// storage-level uniqueness backs up the derived-seed determinism: even two
// racing creates write the identical row, but only one of them is told so.
func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	char, err := validateCharacter(input.Character)
	if err != nil {
		return nil, err
	}
	if char.CreatedAt.IsZero() {
		char.CreatedAt = r.clock.Now()
	}

	data, err := json.Marshal(char)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal daily character")
	}

	key := buildKey(char.UserID, char.DayKey)
	set, err := r.client.SetNX(ctx, key, data, rowTTL).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to store daily character")
	}
	if !set {
		return nil, errors.AlreadyExistsf("daily character for user %s on %s already exists", char.UserID, char.DayKey)
	}

	return &CreateOutput{Character: char}, nil
}

// Get retrieves the character for a (user, day) pair.
func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}
	if input.DayKey == "" {
		return nil, errors.InvalidArgument(errDayKeyEmpty)
	}

	key := buildKey(input.UserID, input.DayKey)
	raw, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("no daily character for user %s on %s", input.UserID, input.DayKey)
		}
		return nil, errors.Wrapf(err, "failed to get daily character")
	}

	var char entities.GeneratedCharacter
	if err := json.Unmarshal([]byte(raw), &char); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal daily character")
	}

	return &GetOutput{Character: &char}, nil
}

// Replace unconditionally overwrites the row, for forced rerolls.
func (r *redisRepository) Replace(ctx context.Context, input ReplaceInput) (*ReplaceOutput, error) {
	char, err := validateCharacter(input.Character)
	if err != nil {
		return nil, err
	}
	if char.CreatedAt.IsZero() {
		char.CreatedAt = r.clock.Now()
	}

	data, err := json.Marshal(char)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal daily character")
	}

	key := buildKey(char.UserID, char.DayKey)
	if err := r.client.Set(ctx, key, data, rowTTL).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to replace daily character")
	}

	return &ReplaceOutput{Character: char}, nil
}

func validateCharacter(char *entities.GeneratedCharacter) (*entities.GeneratedCharacter, error) {
	if char == nil {
		return nil, errors.InvalidArgument(errCharacterNil)
	}
	if char.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}
	if char.DayKey == "" {
		return nil, errors.InvalidArgument(errDayKeyEmpty)
	}
	return char, nil
}

func buildKey(userID, dayKey string) string {
	return fmt.Sprintf("%s%s:%s", keyPrefix, userID, dayKey)
}
