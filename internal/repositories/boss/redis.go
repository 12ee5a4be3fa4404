package boss

import (
	"context"
	"encoding/json"
	"fmt"

	redis "github.com/redis/go-redis/v9"

	"github.com/cursedmounds/kurgan-api/internal/entities"
	"github.com/cursedmounds/kurgan-api/internal/errors"
	redisclient "github.com/cursedmounds/kurgan-api/internal/redis"
)

const (
	// Key patterns: boss:{id} for state, boss:{id}:attackers for the damage
	// leaderboard, boss:{id}:attacks for the attribution log.
	bossKeyPrefix = "boss:"

	errBossNil     = "boss cannot be nil"
	errBossIDEmpty = "boss ID cannot be empty"
	errAttackNil   = "attack cannot be nil"
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

// NewRedisRepository creates a new Redis repository for bosses.
func NewRedisRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{client: cfg.Client}, nil
}

var _ Repository = (*redisRepository)(nil)

// Create spawns a new boss.
func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	b := input.Boss
	if b == nil {
		return nil, errors.InvalidArgument(errBossNil)
	}
	if b.ID == "" {
		return nil, errors.InvalidArgument(errBossIDEmpty)
	}

	data, err := json.Marshal(b)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal boss")
	}

	set, err := r.client.SetNX(ctx, bossKey(b.ID), data, 0).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to store boss")
	}
	if !set {
		return nil, errors.AlreadyExistsf("boss %s already exists", b.ID)
	}

	return &CreateOutput{Boss: b}, nil
}

// Get retrieves a boss by ID.
func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errBossIDEmpty)
	}

	raw, err := r.client.Get(ctx, bossKey(input.ID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("boss %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get boss")
	}

	var b entities.Boss
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal boss")
	}

	return &GetOutput{Boss: &b}, nil
}

// ApplyDamage runs the decrement-and-check under WATCH so simultaneous
// attacks cannot drive hp below zero or defeat the boss twice.
func (r *redisRepository) ApplyDamage(ctx context.Context, input ApplyDamageInput) (*ApplyDamageOutput, error) {
	attack := input.Attack
	if attack == nil {
		return nil, errors.InvalidArgument(errAttackNil)
	}
	if attack.BossID == "" {
		return nil, errors.InvalidArgument(errBossIDEmpty)
	}
	if attack.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}
	if attack.Damage < 0 {
		return nil, errors.InvalidArgumentf("damage cannot be negative: %d", attack.Damage)
	}

	key := bossKey(attack.BossID)
	var out ApplyDamageOutput

	txErr := r.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Result()
		if err != nil {
			if err == redis.Nil {
				return errors.NotFoundf("boss %s not found", attack.BossID)
			}
			return errors.Wrapf(err, "failed to get boss")
		}

		var b entities.Boss
		if err := json.Unmarshal([]byte(raw), &b); err != nil {
			return errors.Wrapf(err, "failed to unmarshal boss")
		}

		if b.Status != entities.BossStatusActive {
			return errors.FailedPreconditionf("boss %s is %s, not %s", b.ID, b.Status, entities.BossStatusActive)
		}

		b.CurrentHP -= int64(attack.Damage)
		if b.CurrentHP <= 0 {
			b.CurrentHP = 0
			b.Status = entities.BossStatusDefeated
		}

		data, err := json.Marshal(&b)
		if err != nil {
			return errors.Wrapf(err, "failed to marshal boss")
		}

		attackData, err := json.Marshal(attack)
		if err != nil {
			return errors.Wrapf(err, "failed to marshal attack record")
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			pipe.ZIncrBy(ctx, attackersKey(b.ID), float64(attack.Damage), attack.UserID)
			pipe.RPush(ctx, attacksKey(b.ID), attackData)
			return nil
		})
		if err != nil {
			return err
		}

		out.RemainingHP = b.CurrentHP
		out.Defeated = b.Status == entities.BossStatusDefeated
		return nil
	}, key)

	if txErr != nil {
		if txErr == redis.TxFailedErr {
			return nil, errors.Aborted("boss was modified concurrently")
		}
		var coded *errors.Error
		if errors.As(txErr, &coded) {
			return nil, coded
		}
		return nil, errors.Wrapf(txErr, "failed to apply damage")
	}

	return &out, nil
}

// TopAttackers lists the highest-damage attackers for a boss.
func (r *redisRepository) TopAttackers(ctx context.Context, input TopAttackersInput) (*TopAttackersOutput, error) {
	if input.BossID == "" {
		return nil, errors.InvalidArgument(errBossIDEmpty)
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.client.ZRevRangeWithScores(ctx, attackersKey(input.BossID), 0, int64(limit)-1).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read attacker leaderboard")
	}

	attackers := make([]entities.BossAttacker, 0, len(rows))
	for _, row := range rows {
		userID, _ := row.Member.(string)
		attackers = append(attackers, entities.BossAttacker{
			UserID: userID,
			Damage: int64(row.Score),
		})
	}

	return &TopAttackersOutput{Attackers: attackers}, nil
}

func bossKey(id string) string {
	return bossKeyPrefix + id
}

func attackersKey(id string) string {
	return fmt.Sprintf("%s%s:attackers", bossKeyPrefix, id)
}

func attacksKey(id string) string {
	return fmt.Sprintf("%s%s:attacks", bossKeyPrefix, id)
}
