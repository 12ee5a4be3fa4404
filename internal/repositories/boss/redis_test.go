package boss_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/cursedmounds/kurgan-api/internal/entities"
	"github.com/cursedmounds/kurgan-api/internal/errors"
	bossrepo "github.com/cursedmounds/kurgan-api/internal/repositories/boss"
	"github.com/cursedmounds/kurgan-api/internal/testutils"
)

const testBossID = "boss_week_23"

type RedisRepositoryTestSuite struct {
	suite.Suite
	repo bossrepo.Repository
	ctx  context.Context
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	client, _ := testutils.CreateTestRedisClient(s.T())
	repo, err := bossrepo.NewRedisRepository(&bossrepo.Config{Client: client})
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RedisRepositoryTestSuite) testBoss() *entities.Boss {
	return &entities.Boss{
		ID:        testBossID,
		Name:      "Khan of the Hollow Mound",
		TotalHP:   1000,
		CurrentHP: 1000,
		Status:    entities.BossStatusActive,
		SpawnedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *RedisRepositoryTestSuite) attack(userID string, damage int) *entities.BossAttack {
	return &entities.BossAttack{
		BossID:    testBossID,
		UserID:    userID,
		Damage:    damage,
		CreatedAt: time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC),
	}
}

func (s *RedisRepositoryTestSuite) TestCreateAndGet() {
	b := s.testBoss()

	_, err := s.repo.Create(s.ctx, bossrepo.CreateInput{Boss: b})
	s.Require().NoError(err)

	got, err := s.repo.Get(s.ctx, bossrepo.GetInput{ID: testBossID})
	s.Require().NoError(err)
	s.Equal(b, got.Boss)

	_, err = s.repo.Create(s.ctx, bossrepo.CreateInput{Boss: b})
	s.Require().Error(err)
	s.True(errors.IsAlreadyExists(err))
}

func (s *RedisRepositoryTestSuite) TestApplyDamage() {
	_, err := s.repo.Create(s.ctx, bossrepo.CreateInput{Boss: s.testBoss()})
	s.Require().NoError(err)

	out, err := s.repo.ApplyDamage(s.ctx, bossrepo.ApplyDamageInput{Attack: s.attack("user_1", 150)})
	s.Require().NoError(err)
	s.Equal(int64(850), out.RemainingHP)
	s.False(out.Defeated)

	got, err := s.repo.Get(s.ctx, bossrepo.GetInput{ID: testBossID})
	s.Require().NoError(err)
	s.Equal(int64(850), got.Boss.CurrentHP)
	s.Equal(entities.BossStatusActive, got.Boss.Status)
}

func (s *RedisRepositoryTestSuite) TestOverkillFloorsAtZero() {
	_, err := s.repo.Create(s.ctx, bossrepo.CreateInput{Boss: s.testBoss()})
	s.Require().NoError(err)

	out, err := s.repo.ApplyDamage(s.ctx, bossrepo.ApplyDamageInput{Attack: s.attack("user_1", 5000)})
	s.Require().NoError(err)
	s.Equal(int64(0), out.RemainingHP)
	s.True(out.Defeated)

	got, err := s.repo.Get(s.ctx, bossrepo.GetInput{ID: testBossID})
	s.Require().NoError(err)
	s.Equal(int64(0), got.Boss.CurrentHP)
	s.Equal(entities.BossStatusDefeated, got.Boss.Status)
}

func (s *RedisRepositoryTestSuite) TestDefeatedBossRejectsDamage() {
	_, err := s.repo.Create(s.ctx, bossrepo.CreateInput{Boss: s.testBoss()})
	s.Require().NoError(err)

	_, err = s.repo.ApplyDamage(s.ctx, bossrepo.ApplyDamageInput{Attack: s.attack("user_1", 1000)})
	s.Require().NoError(err)

	_, err = s.repo.ApplyDamage(s.ctx, bossrepo.ApplyDamageInput{Attack: s.attack("user_2", 10)})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
}

func (s *RedisRepositoryTestSuite) TestLeaderboardAccumulates() {
	_, err := s.repo.Create(s.ctx, bossrepo.CreateInput{Boss: s.testBoss()})
	s.Require().NoError(err)

	for _, a := range []struct {
		user   string
		damage int
	}{
		{"user_1", 100},
		{"user_2", 250},
		{"user_1", 75},
		{"user_3", 50},
	} {
		_, err := s.repo.ApplyDamage(s.ctx, bossrepo.ApplyDamageInput{Attack: s.attack(a.user, a.damage)})
		s.Require().NoError(err)
	}

	out, err := s.repo.TopAttackers(s.ctx, bossrepo.TopAttackersInput{BossID: testBossID, Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(out.Attackers, 2)
	s.Equal(entities.BossAttacker{UserID: "user_2", Damage: 250}, out.Attackers[0])
	s.Equal(entities.BossAttacker{UserID: "user_1", Damage: 175}, out.Attackers[1])

	full, err := s.repo.TopAttackers(s.ctx, bossrepo.TopAttackersInput{BossID: testBossID})
	s.Require().NoError(err)
	s.Len(full.Attackers, 3)
}

func (s *RedisRepositoryTestSuite) TestTopAttackersEmptyBoard() {
	out, err := s.repo.TopAttackers(s.ctx, bossrepo.TopAttackersInput{BossID: "boss_unknown"})
	s.Require().NoError(err)
	s.Empty(out.Attackers)
}

func (s *RedisRepositoryTestSuite) TestApplyDamageMissingBoss() {
	_, err := s.repo.ApplyDamage(s.ctx, bossrepo.ApplyDamageInput{Attack: s.attack("user_1", 10)})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestValidation() {
	s.Run("nil boss", func() {
		_, err := s.repo.Create(s.ctx, bossrepo.CreateInput{Boss: nil})
		s.Require().Error(err)
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("nil attack", func() {
		_, err := s.repo.ApplyDamage(s.ctx, bossrepo.ApplyDamageInput{Attack: nil})
		s.Require().Error(err)
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("negative damage", func() {
		_, err := s.repo.ApplyDamage(s.ctx, bossrepo.ApplyDamageInput{Attack: s.attack("user_1", -5)})
		s.Require().Error(err)
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("missing attacker", func() {
		a := s.attack("", 5)
		_, err := s.repo.ApplyDamage(s.ctx, bossrepo.ApplyDamageInput{Attack: a})
		s.Require().Error(err)
		s.True(errors.IsInvalidArgument(err))
	})
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}
