package run_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/cursedmounds/kurgan-api/internal/content"
	"github.com/cursedmounds/kurgan-api/internal/engine/chargen"
	runengine "github.com/cursedmounds/kurgan-api/internal/engine/run"
	"github.com/cursedmounds/kurgan-api/internal/entities"
	"github.com/cursedmounds/kurgan-api/internal/errors"
	runorch "github.com/cursedmounds/kurgan-api/internal/orchestrators/run"
	"github.com/cursedmounds/kurgan-api/internal/pkg/clock"
	"github.com/cursedmounds/kurgan-api/internal/pkg/idgen"
	"github.com/cursedmounds/kurgan-api/internal/pkg/rng"
	dailycharacter "github.com/cursedmounds/kurgan-api/internal/repositories/daily_character"
	"github.com/cursedmounds/kurgan-api/internal/repositories/ledger"
	runrepo "github.com/cursedmounds/kurgan-api/internal/repositories/run"
	"github.com/cursedmounds/kurgan-api/internal/testutils"
)

const testUserID = "user_123"

var testDay = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

type RunOrchestratorTestSuite struct {
	suite.Suite
	clock      *clock.Fixed
	charRepo   dailycharacter.Repository
	ledgerRepo ledger.Repository
	service    runorch.Service
	ctx        context.Context
}

func (s *RunOrchestratorTestSuite) SetupTest() {
	client, _ := testutils.CreateTestRedisClient(s.T())
	s.clock = &clock.Fixed{T: testDay}
	tunables := content.Default()

	var err error
	s.charRepo, err = dailycharacter.NewRedisRepository(&dailycharacter.Config{
		Client: client,
		Clock:  s.clock,
	})
	s.Require().NoError(err)

	runRepo, err := runrepo.NewRedisRepository(&runrepo.Config{Client: client})
	s.Require().NoError(err)

	s.ledgerRepo, err = ledger.NewRedisRepository(&ledger.Config{Client: client})
	s.Require().NoError(err)

	engine, err := runengine.New(&runengine.Config{Tunables: tunables})
	s.Require().NoError(err)

	svc, err := runorch.NewOrchestrator(&runorch.Config{
		RunRepo:       runRepo,
		CharacterRepo: s.charRepo,
		LedgerRepo:    s.ledgerRepo,
		Engine:        engine,
		IDGenerator:   idgen.NewSequential("run"),
		Clock:         s.clock,
		SeedFn:        func() uint32 { return 777 },
	})
	s.Require().NoError(err)
	s.service = svc
	s.ctx = context.Background()
}

// seedCharacter stores a daily sheet so runs can start.
func (s *RunOrchestratorTestSuite) seedCharacter() {
	gen, err := chargen.New(&chargen.Config{Tunables: content.Default()})
	s.Require().NoError(err)

	char, err := gen.Generate(rng.DailySeed(testUserID, "2025-06-01"))
	s.Require().NoError(err)
	char.UserID = testUserID
	char.DayKey = "2025-06-01"

	_, err = s.charRepo.Create(s.ctx, dailycharacter.CreateInput{Character: char})
	s.Require().NoError(err)
}

func (s *RunOrchestratorTestSuite) TestStartRequiresDailyCharacter() {
	_, err := s.service.StartRun(s.ctx, &runorch.StartRunInput{UserID: testUserID})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
}

func (s *RunOrchestratorTestSuite) TestStartRun() {
	s.seedCharacter()

	out, err := s.service.StartRun(s.ctx, &runorch.StartRunInput{UserID: testUserID})
	s.Require().NoError(err)
	s.False(out.Resumed)
	s.Equal("run_1", out.Run.ID)
	s.Equal(testUserID, out.Run.UserID)
	s.Equal("2025-06-01", out.Run.DayKey)
	s.Equal(uint32(777), out.Run.Seed)
	s.Equal(entities.RunStatusActive, out.Run.Status)
	s.Equal(0, out.Run.Room)
	s.Require().Len(out.Run.Encounters, 1)
	s.NotEmpty(out.Run.Encounters[0].Flavor)
}

func (s *RunOrchestratorTestSuite) TestStartResumesActiveRun() {
	s.seedCharacter()

	first, err := s.service.StartRun(s.ctx, &runorch.StartRunInput{UserID: testUserID})
	s.Require().NoError(err)

	second, err := s.service.StartRun(s.ctx, &runorch.StartRunInput{UserID: testUserID})
	s.Require().NoError(err)
	s.True(second.Resumed)
	s.Equal(first.Run.ID, second.Run.ID)
}

func (s *RunOrchestratorTestSuite) TestAdvanceToCompletion() {
	s.seedCharacter()

	started, err := s.service.StartRun(s.ctx, &runorch.StartRunInput{UserID: testUserID})
	s.Require().NoError(err)

	// Default threshold is 5 rooms; the first 4 advances yield encounters.
	for i := 1; i <= 4; i++ {
		out, err := s.service.AdvanceRun(s.ctx, &runorch.AdvanceRunInput{
			UserID: testUserID,
			Action: entities.ActionAttack,
		})
		s.Require().NoError(err)
		s.False(out.Step.Finished)
		s.Require().NotNil(out.Step.Encounter)
		s.Equal(i, out.Run.Room)
	}

	final, err := s.service.AdvanceRun(s.ctx, &runorch.AdvanceRunInput{
		UserID: testUserID,
		Action: entities.ActionAttack,
	})
	s.Require().NoError(err)
	s.True(final.Step.Finished)
	s.Require().NotNil(final.Step.Outcome)
	s.Equal(runengine.ResultVictory, final.Step.Outcome.Result)
	s.Equal(entities.RunStatusFinished, final.Run.Status)
	s.True(final.Run.FinishedAt.Equal(testDay))

	// Rewards landed in the ledger.
	gold, err := s.ledgerRepo.Balance(s.ctx, ledger.BalanceInput{UserID: testUserID, Currency: "gold"})
	s.Require().NoError(err)
	s.Equal(int64(40), gold.Amount)

	dust, err := s.ledgerRepo.Balance(s.ctx, ledger.BalanceInput{UserID: testUserID, Currency: "dust"})
	s.Require().NoError(err)
	s.Equal(int64(12), dust.Amount)

	entries, err := s.ledgerRepo.List(s.ctx, ledger.ListInput{UserID: testUserID})
	s.Require().NoError(err)
	s.Require().Len(entries.Entries, 2)
	s.Equal(runorch.LedgerSourceRunFinish, entries.Entries[0].Source)

	// Active slot released; a fresh run can start.
	_, err = s.service.GetCurrentRun(s.ctx, &runorch.GetCurrentRunInput{UserID: testUserID})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))

	next, err := s.service.StartRun(s.ctx, &runorch.StartRunInput{UserID: testUserID})
	s.Require().NoError(err)
	s.False(next.Resumed)
	s.NotEqual(started.Run.ID, next.Run.ID)
}

func (s *RunOrchestratorTestSuite) TestAdvanceWithoutActiveRun() {
	_, err := s.service.AdvanceRun(s.ctx, &runorch.AdvanceRunInput{
		UserID: testUserID,
		Action: entities.ActionAttack,
	})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *RunOrchestratorTestSuite) TestAdvanceRejectsUnknownAction() {
	s.seedCharacter()

	_, err := s.service.StartRun(s.ctx, &runorch.StartRunInput{UserID: testUserID})
	s.Require().NoError(err)

	_, err = s.service.AdvanceRun(s.ctx, &runorch.AdvanceRunInput{
		UserID: testUserID,
		Action: entities.Action("DANCE"),
	})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *RunOrchestratorTestSuite) TestGetCurrentRun() {
	s.seedCharacter()

	started, err := s.service.StartRun(s.ctx, &runorch.StartRunInput{UserID: testUserID})
	s.Require().NoError(err)

	got, err := s.service.GetCurrentRun(s.ctx, &runorch.GetCurrentRunInput{UserID: testUserID})
	s.Require().NoError(err)
	s.Equal(started.Run.ID, got.Run.ID)
}

func (s *RunOrchestratorTestSuite) TestValidation() {
	_, err := s.service.StartRun(s.ctx, nil)
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))

	_, err = s.service.AdvanceRun(s.ctx, &runorch.AdvanceRunInput{Action: entities.ActionAttack})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))

	_, err = s.service.GetCurrentRun(s.ctx, &runorch.GetCurrentRunInput{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func TestRunOrchestratorTestSuite(t *testing.T) {
	suite.Run(t, new(RunOrchestratorTestSuite))
}
