package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/poi-service/internal/domain"
	"github.com/poi-service/internal/domain/repository"
	"github.com/poi-service/internal/repository/postgres/testhelpers"
)

type EventRepositorySuite struct {
	suite.Suite
	testDB *testhelpers.TestDB
	repo   repository.DatasetEventRepository
	ctx    context.Context
}

func (s *EventRepositorySuite) SetupSuite() {
	s.ctx = context.Background()
	s.testDB = testhelpers.SetupTestDB(s.T())

	repo, err := testhelpers.NewEventRepositoryForTest(s.ctx, s.testDB.DB, s.testDB.Logger)
	s.Require().NoError(err, "Failed to apply migrations")
	s.repo = repo
}

func (s *EventRepositorySuite) TearDownSuite() {
	if s.testDB != nil {
		s.testDB.Close()
	}
}

func (s *EventRepositorySuite) SetupTest() {
	s.Require().NoError(s.testDB.Cleanup(s.ctx))
}

func (s *EventRepositorySuite) TestSave_LoadedAndCleared() {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	datasetID := uuid.New()

	loaded := domain.NewDatasetLoadedEvent(datasetID, 3, []string{"cafe", "museum"}, base)
	cleared := domain.NewDatasetClearedEvent(base.Add(time.Minute))

	s.Require().NoError(s.repo.Save(s.ctx, loaded))
	s.Require().NoError(s.repo.Save(s.ctx, cleared))

	events, err := s.repo.List(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(events, 2)

	s.Equal(cleared.EventID, events[0].EventID)
	s.Nil(events[0].DatasetID)
	s.Empty(events[0].Categories)

	s.Equal(loaded.EventID, events[1].EventID)
	s.Require().NotNil(events[1].DatasetID)
	s.Equal(datasetID, *events[1].DatasetID)
	s.Equal([]string{"cafe", "museum"}, events[1].Categories)
	s.True(base.Equal(events[1].OccurredAt))
}

func (s *EventRepositorySuite) TestSave_DuplicateIgnored() {
	event := domain.NewDatasetClearedEvent(time.Now())

	s.Require().NoError(s.repo.Save(s.ctx, event))
	s.Require().NoError(s.repo.Save(s.ctx, event))

	events, err := s.repo.List(s.ctx, 10)
	s.Require().NoError(err)
	s.Len(events, 1)
}

func TestEventRepositorySuite(t *testing.T) {
	suite.Run(t, new(EventRepositorySuite))
}
