package run

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"

	"github.com/cursedmounds/kurgan-api/internal/entities"
	"github.com/cursedmounds/kurgan-api/internal/errors"
	redisclient "github.com/cursedmounds/kurgan-api/internal/redis"
)

const (
	// Key patterns: run:{run_id} for state, run:active:{user_id} for the
	// single active-run slot per user.
	runKeyPrefix    = "run:"
	activeKeyPrefix = "run:active:"

	errRunNil      = "run cannot be nil"
	errRunIDEmpty  = "run ID cannot be empty"
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

// NewRedisRepository creates a new Redis repository for runs.
func NewRedisRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{client: cfg.Client}, nil
}

var _ Repository = (*redisRepository)(nil)

// Create stores a new run and claims the user's active-run slot.
func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	rn := input.Run
	if rn == nil {
		return nil, errors.InvalidArgument(errRunNil)
	}
	if rn.ID == "" {
		return nil, errors.InvalidArgument(errRunIDEmpty)
	}
	if rn.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	data, err := json.Marshal(rn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal run")
	}

	activeKey := activeKeyPrefix + rn.UserID
	claimed, err := r.client.SetNX(ctx, activeKey, rn.ID, 0).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to claim active run slot")
	}
	if !claimed {
		return nil, errors.AlreadyExistsf("user %s already has an active run", rn.UserID)
	}

	if err := r.client.Set(ctx, runKeyPrefix+rn.ID, data, 0).Err(); err != nil {
		// Release the slot so the user isn't wedged by a half-written run.
		_ = r.client.Del(ctx, activeKey)
		return nil, errors.Wrapf(err, "failed to store run")
	}

	return &CreateOutput{Run: rn}, nil
}

// Get retrieves a run by ID.
func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errRunIDEmpty)
	}

	rn, err := r.getRun(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Run: rn}, nil
}

// GetActiveByUser retrieves the user's current active run.
func (r *redisRepository) GetActiveByUser(ctx context.Context, input GetActiveByUserInput) (*GetActiveByUserOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	runID, err := r.client.Get(ctx, activeKeyPrefix+input.UserID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("user %s has no active run", input.UserID)
		}
		return nil, errors.Wrapf(err, "failed to resolve active run")
	}

	rn, err := r.getRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	return &GetActiveByUserOutput{Run: rn}, nil
}

// Update persists an advanced run under WATCH. The stored row must still be
// active at the room counter the caller observed; anything else means a
// concurrent advance won the race and this one aborts without writing.
func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	rn := input.Run
	if rn == nil {
		return nil, errors.InvalidArgument(errRunNil)
	}
	if rn.ID == "" {
		return nil, errors.InvalidArgument(errRunIDEmpty)
	}

	key := runKeyPrefix + rn.ID

	txErr := r.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Result()
		if err != nil {
			if err == redis.Nil {
				return errors.NotFoundf("run %s not found", rn.ID)
			}
			return errors.Wrapf(err, "failed to get run")
		}

		var stored entities.Run
		if err := json.Unmarshal([]byte(raw), &stored); err != nil {
			return errors.Wrapf(err, "failed to unmarshal stored run")
		}

		if stored.Status != entities.RunStatusActive {
			return errors.FailedPreconditionf("run %s is %s, not %s", rn.ID, stored.Status, entities.RunStatusActive)
		}
		if stored.Room != input.PreviousRoom {
			return errors.Abortedf("run %s moved from room %d to %d under us", rn.ID, input.PreviousRoom, stored.Room)
		}

		data, err := json.Marshal(rn)
		if err != nil {
			return errors.Wrapf(err, "failed to marshal run")
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			if rn.Status == entities.RunStatusFinished {
				pipe.Del(ctx, activeKeyPrefix+rn.UserID)
			}
			return nil
		})
		return err
	}, key)

	if txErr != nil {
		if txErr == redis.TxFailedErr {
			return nil, errors.Aborted("run was modified concurrently")
		}
		var coded *errors.Error
		if errors.As(txErr, &coded) {
			return nil, coded
		}
		return nil, errors.Wrapf(txErr, "failed to update run")
	}

	return &UpdateOutput{Run: rn}, nil
}

func (r *redisRepository) getRun(ctx context.Context, id string) (*entities.Run, error) {
	raw, err := r.client.Get(ctx, runKeyPrefix+id).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("run %s not found", id)
		}
		return nil, errors.Wrapf(err, "failed to get run")
	}

	var rn entities.Run
	if err := json.Unmarshal([]byte(raw), &rn); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal run")
	}
	return &rn, nil
}
