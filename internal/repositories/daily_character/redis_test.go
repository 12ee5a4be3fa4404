package dailycharacter_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/cursedmounds/kurgan-api/internal/entities"
	"github.com/cursedmounds/kurgan-api/internal/errors"
	"github.com/cursedmounds/kurgan-api/internal/pkg/clock"
	daily "github.com/cursedmounds/kurgan-api/internal/repositories/daily_character"
	"github.com/cursedmounds/kurgan-api/internal/testutils"
)

const (
	testUserID = "user_123"
	testDayKey = "2025-06-01"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	repo daily.Repository
	ctx  context.Context
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	client, _ := testutils.CreateTestRedisClient(s.T())
	repo, err := daily.NewRedisRepository(&daily.Config{Client: client, Clock: clock.New()})
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RedisRepositoryTestSuite) testCharacter() *entities.GeneratedCharacter {
	return &entities.GeneratedCharacter{
		UserID:        testUserID,
		DayKey:        testDayKey,
		Seed:          0xDEADBEEF,
		ArchetypeID:   "kozak",
		ArchetypeName: "KOZAK",
		Stats:         entities.StatBlock{HP: 30, Atk: 8, Def: 6, Spd: 5, Crit: 10, Luck: 5},
		Passive:       "Steppe Wind: first strike of every fight cannot miss",
		CreatedAt:     time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (s *RedisRepositoryTestSuite) TestCreateAndGet() {
	char := s.testCharacter()

	out, err := s.repo.Create(s.ctx, daily.CreateInput{Character: char})
	s.Require().NoError(err)
	s.Require().NotNil(out)

	got, err := s.repo.Get(s.ctx, daily.GetInput{UserID: testUserID, DayKey: testDayKey})
	s.Require().NoError(err)
	s.Equal(char, got.Character)
}

func (s *RedisRepositoryTestSuite) TestCreateIsFirstWriteWins() {
	first := s.testCharacter()
	_, err := s.repo.Create(s.ctx, daily.CreateInput{Character: first})
	s.Require().NoError(err)

	second := s.testCharacter()
	second.ArchetypeID = "molfar"
	second.ArchetypeName = "MOLFAR"

	_, err = s.repo.Create(s.ctx, daily.CreateInput{Character: second})
	s.Require().Error(err)
	s.True(errors.IsAlreadyExists(err))

	// First row must be untouched.
	got, err := s.repo.Get(s.ctx, daily.GetInput{UserID: testUserID, DayKey: testDayKey})
	s.Require().NoError(err)
	s.Equal("kozak", got.Character.ArchetypeID)
}

func (s *RedisRepositoryTestSuite) TestCreateDifferentDaysCoexist() {
	first := s.testCharacter()
	_, err := s.repo.Create(s.ctx, daily.CreateInput{Character: first})
	s.Require().NoError(err)

	second := s.testCharacter()
	second.DayKey = "2025-06-02"
	_, err = s.repo.Create(s.ctx, daily.CreateInput{Character: second})
	s.Require().NoError(err)
}

func (s *RedisRepositoryTestSuite) TestRowExpires() {
	client, mr := testutils.CreateTestRedisClient(s.T())
	repo, err := daily.NewRedisRepository(&daily.Config{Client: client, Clock: clock.New()})
	s.Require().NoError(err)

	_, err = repo.Create(s.ctx, daily.CreateInput{Character: s.testCharacter()})
	s.Require().NoError(err)

	mr.FastForward(49 * time.Hour)

	_, err = repo.Get(s.ctx, daily.GetInput{UserID: testUserID, DayKey: testDayKey})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestCreateStampsCreatedAt() {
	fixed := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	client, _ := testutils.CreateTestRedisClient(s.T())
	repo, err := daily.NewRedisRepository(&daily.Config{Client: client, Clock: &clock.Fixed{T: fixed}})
	s.Require().NoError(err)

	char := s.testCharacter()
	char.CreatedAt = time.Time{}
	_, err = repo.Create(s.ctx, daily.CreateInput{Character: char})
	s.Require().NoError(err)

	got, err := repo.Get(s.ctx, daily.GetInput{UserID: testUserID, DayKey: testDayKey})
	s.Require().NoError(err)
	s.True(got.Character.CreatedAt.Equal(fixed))
}

func (s *RedisRepositoryTestSuite) TestGetMissing() {
	_, err := s.repo.Get(s.ctx, daily.GetInput{UserID: "nobody", DayKey: testDayKey})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestReplaceOverwrites() {
	_, err := s.repo.Create(s.ctx, daily.CreateInput{Character: s.testCharacter()})
	s.Require().NoError(err)

	rerolled := s.testCharacter()
	rerolled.Seed = 0xCAFEF00D
	rerolled.ArchetypeID = "plastun"
	rerolled.ArchetypeName = "PLASTUN"

	_, err = s.repo.Replace(s.ctx, daily.ReplaceInput{Character: rerolled})
	s.Require().NoError(err)

	got, err := s.repo.Get(s.ctx, daily.GetInput{UserID: testUserID, DayKey: testDayKey})
	s.Require().NoError(err)
	s.Equal("plastun", got.Character.ArchetypeID)
	s.Equal(uint32(0xCAFEF00D), got.Character.Seed)
}

func (s *RedisRepositoryTestSuite) TestValidation() {
	s.Run("nil character", func() {
		_, err := s.repo.Create(s.ctx, daily.CreateInput{Character: nil})
		s.Require().Error(err)
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("missing user ID", func() {
		char := s.testCharacter()
		char.UserID = ""
		_, err := s.repo.Create(s.ctx, daily.CreateInput{Character: char})
		s.Require().Error(err)
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("missing day key", func() {
		char := s.testCharacter()
		char.DayKey = ""
		_, err := s.repo.Replace(s.ctx, daily.ReplaceInput{Character: char})
		s.Require().Error(err)
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("empty get input", func() {
		_, err := s.repo.Get(s.ctx, daily.GetInput{})
		s.Require().Error(err)
		s.True(errors.IsInvalidArgument(err))
	})
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}
