package ledger_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/cursedmounds/kurgan-api/internal/entities"
	"github.com/cursedmounds/kurgan-api/internal/errors"
	"github.com/cursedmounds/kurgan-api/internal/repositories/ledger"
	"github.com/cursedmounds/kurgan-api/internal/testutils"
)

const testUserID = "user_123"

type RedisRepositoryTestSuite struct {
	suite.Suite
	repo ledger.Repository
	ctx  context.Context
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	client, _ := testutils.CreateTestRedisClient(s.T())
	repo, err := ledger.NewRedisRepository(&ledger.Config{Client: client})
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RedisRepositoryTestSuite) entry(id, currency string, amount int) *entities.LedgerEntry {
	return &entities.LedgerEntry{
		ID:        id,
		UserID:    testUserID,
		Source:    "run_finish",
		Currency:  currency,
		Amount:    amount,
		CreatedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (s *RedisRepositoryTestSuite) TestAppendAndList() {
	for i, amount := range []int{40, 12, 40} {
		currency := "gold"
		if i == 1 {
			currency = "dust"
		}
		_, err := s.repo.Append(s.ctx, ledger.AppendInput{
			Entry: s.entry(fmt.Sprintf("entry_%d", i), currency, amount),
		})
		s.Require().NoError(err)
	}

	out, err := s.repo.List(s.ctx, ledger.ListInput{UserID: testUserID})
	s.Require().NoError(err)
	s.Require().Len(out.Entries, 3)

	// Insertion order is preserved.
	s.Equal("entry_0", out.Entries[0].ID)
	s.Equal("entry_1", out.Entries[1].ID)
	s.Equal("entry_2", out.Entries[2].ID)
}

func (s *RedisRepositoryTestSuite) TestBalanceSumsOneCurrency() {
	ids := 0
	add := func(currency string, amount int) {
		ids++
		_, err := s.repo.Append(s.ctx, ledger.AppendInput{
			Entry: s.entry(fmt.Sprintf("entry_%d", ids), currency, amount),
		})
		s.Require().NoError(err)
	}

	add("gold", 40)
	add("dust", 12)
	add("gold", 40)
	add("gold", -15)

	gold, err := s.repo.Balance(s.ctx, ledger.BalanceInput{UserID: testUserID, Currency: "gold"})
	s.Require().NoError(err)
	s.Equal(int64(65), gold.Amount)

	dust, err := s.repo.Balance(s.ctx, ledger.BalanceInput{UserID: testUserID, Currency: "dust"})
	s.Require().NoError(err)
	s.Equal(int64(12), dust.Amount)
}

func (s *RedisRepositoryTestSuite) TestEmptyLedger() {
	out, err := s.repo.List(s.ctx, ledger.ListInput{UserID: "nobody"})
	s.Require().NoError(err)
	s.Empty(out.Entries)

	bal, err := s.repo.Balance(s.ctx, ledger.BalanceInput{UserID: "nobody", Currency: "gold"})
	s.Require().NoError(err)
	s.Equal(int64(0), bal.Amount)
}

func (s *RedisRepositoryTestSuite) TestValidation() {
	s.Run("nil entry", func() {
		_, err := s.repo.Append(s.ctx, ledger.AppendInput{Entry: nil})
		s.Require().Error(err)
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("missing entry ID", func() {
		e := s.entry("", "gold", 1)
		_, err := s.repo.Append(s.ctx, ledger.AppendInput{Entry: e})
		s.Require().Error(err)
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("missing currency", func() {
		e := s.entry("entry_1", "", 1)
		_, err := s.repo.Append(s.ctx, ledger.AppendInput{Entry: e})
		s.Require().Error(err)
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("missing user on balance", func() {
		_, err := s.repo.Balance(s.ctx, ledger.BalanceInput{Currency: "gold"})
		s.Require().Error(err)
		s.True(errors.IsInvalidArgument(err))
	})
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}
