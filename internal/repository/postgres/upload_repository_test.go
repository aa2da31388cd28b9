package postgres_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/suite"

	"github.com/poi-service/internal/domain"
	"github.com/poi-service/internal/domain/repository"
	"github.com/poi-service/internal/repository/postgres/testhelpers"
)

// UploadRepositorySuite tests the upload history repository with real database
type UploadRepositorySuite struct {
	suite.Suite
	testDB *testhelpers.TestDB
	repo   repository.UploadRepository
	ctx    context.Context
}

// SetupSuite runs once before all tests
func (s *UploadRepositorySuite) SetupSuite() {
	s.ctx = context.Background()
	s.testDB = testhelpers.SetupTestDB(s.T())

	repo, err := testhelpers.NewUploadRepositoryForTest(s.ctx, s.testDB.DB, s.testDB.Logger)
	s.Require().NoError(err, "Failed to apply migrations")
	s.repo = repo
}

// TearDownSuite runs once after all tests
func (s *UploadRepositorySuite) TearDownSuite() {
	if s.testDB != nil {
		s.testDB.Close()
	}
}

// SetupTest runs before each test
func (s *UploadRepositorySuite) SetupTest() {
	s.Require().NoError(s.testDB.Cleanup(s.ctx))
}

func (s *UploadRepositorySuite) TestCreate_FillsIDAndTimestamp() {
	record := &domain.UploadRecord{
		DatasetID:    uuid.New(),
		Filename:     "pois.csv",
		SizeBytes:    2048,
		TotalRecords: 3,
		Categories:   pq.StringArray{"cafe", "museum"},
	}

	s.Require().NoError(s.repo.Create(s.ctx, record))
	s.NotZero(record.ID)
	s.False(record.UploadedAt.IsZero())
}

func (s *UploadRepositorySuite) TestList_NewestFirst() {
	first := &domain.UploadRecord{DatasetID: uuid.New(), Filename: "a.csv", SizeBytes: 10, TotalRecords: 1, Categories: pq.StringArray{"cafe"}}
	second := &domain.UploadRecord{DatasetID: uuid.New(), Filename: "b.csv", SizeBytes: 20, TotalRecords: 2, Categories: pq.StringArray{"museum", "park"}}

	s.Require().NoError(s.repo.Create(s.ctx, first))
	s.Require().NoError(s.repo.Create(s.ctx, second))

	records, err := s.repo.List(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(records, 2)

	s.Equal(second.DatasetID, records[0].DatasetID)
	s.Equal(pq.StringArray{"museum", "park"}, records[0].Categories)
	s.Equal(first.DatasetID, records[1].DatasetID)
}

func (s *UploadRepositorySuite) TestList_Limit() {
	for i := 0; i < 3; i++ {
		s.Require().NoError(s.repo.Create(s.ctx, &domain.UploadRecord{
			DatasetID: uuid.New(), Filename: "x.csv", Categories: pq.StringArray{"cafe"},
		}))
	}

	records, err := s.repo.List(s.ctx, 2)
	s.Require().NoError(err)
	s.Len(records, 2)
}

func (s *UploadRepositorySuite) TestList_Empty() {
	records, err := s.repo.List(s.ctx, 5)
	s.Require().NoError(err)
	s.NotNil(records)
	s.Empty(records)
}

func TestUploadRepositorySuite(t *testing.T) {
	suite.Run(t, new(UploadRepositorySuite))
}
