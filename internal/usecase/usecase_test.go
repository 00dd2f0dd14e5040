package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"go-jobportal-backend/internal/domain"
	"go-jobportal-backend/internal/matching"
	"go-jobportal-backend/internal/usecase"
	"go-jobportal-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock Repositories
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) FetchJobSeekers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobRepo) FetchOpenJobs(ctx context.Context) ([]domain.Job, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Job), args.Error(1)
}

var fixedNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func daysAgo(d int) *time.Time {
	t := fixedNow.Add(-time.Duration(d) * 24 * time.Hour)
	return &t
}

func newUsecase(users *MockUserRepo, jobs *MockJobRepo, cfg usecase.RecommendationConfig) domain.RecommendationUsecase {
	engine := matching.NewEngine(nil,
		matching.WithClock(func() time.Time { return fixedNow }),
		matching.WithWorkers(2),
	)
	return usecase.NewRecommendationUsecase(users, jobs, engine, cfg)
}

func requireAppError(t *testing.T, err error, code int) *apperror.AppError {
	t.Helper()
	appErr, ok := apperror.As(err)
	require.True(t, ok, "expected *apperror.AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

func openJobs() []domain.Job {
	return []domain.Job{
		{ID: 1, Title: "Backend Engineer", Requirements: []string{"Go", "PostgreSQL"}, Company: domain.CompanySummary{ID: 7, Name: "Acme"}},
		{ID: 2, Title: "Go Developer", Requirements: []string{"Go", "SQL"}, ApplicationCount: 20},
		{ID: 3, Title: "Designer", Requirements: []string{"Figma", "Photoshop"}},
		{ID: 4, Title: "Data Analyst", Requirements: []string{"Teamwork"}},
	}
}

func TestRecommendJobsForUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Should return 404 when user does not exist", func(t *testing.T) {
		users, jobs := new(MockUserRepo), new(MockJobRepo)
		users.On("GetByID", ctx, "ghost").Return(nil, domain.ErrNotFound)

		_, err := newUsecase(users, jobs, usecase.RecommendationConfig{}).RecommendJobsForUser(ctx, "ghost", 0)
		requireAppError(t, err, http.StatusNotFound)
		jobs.AssertNotCalled(t, "FetchOpenJobs", mock.Anything)
	})

	t.Run("Should surface repository failures as upstream errors", func(t *testing.T) {
		users, jobs := new(MockUserRepo), new(MockJobRepo)
		cause := errors.New("connection reset")
		users.On("GetByID", ctx, "u1").Return(&domain.User{ID: "u1", IsJobSeeking: true}, nil)
		jobs.On("FetchOpenJobs", ctx).Return(nil, cause)

		_, err := newUsecase(users, jobs, usecase.RecommendationConfig{}).RecommendJobsForUser(ctx, "u1", 0)
		requireAppError(t, err, http.StatusBadGateway)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("Should return early when user is not job seeking", func(t *testing.T) {
		users, jobs := new(MockUserRepo), new(MockJobRepo)
		users.On("GetByID", ctx, "u1").Return(&domain.User{ID: "u1", Skills: []string{"Go"}}, nil)

		res, err := newUsecase(users, jobs, usecase.RecommendationConfig{}).RecommendJobsForUser(ctx, "u1", 0)
		require.NoError(t, err)
		assert.Equal(t, domain.MsgUserNotJobSeeking, res.Message)
		assert.NotNil(t, res.Data)
		assert.Empty(t, res.Data)
		jobs.AssertNotCalled(t, "FetchOpenJobs", mock.Anything)
	})

	t.Run("Should report no jobs", func(t *testing.T) {
		users, jobs := new(MockUserRepo), new(MockJobRepo)
		users.On("GetByID", ctx, "u1").Return(&domain.User{ID: "u1", IsJobSeeking: true}, nil)
		jobs.On("FetchOpenJobs", ctx).Return([]domain.Job{}, nil)

		res, err := newUsecase(users, jobs, usecase.RecommendationConfig{}).RecommendJobsForUser(ctx, "u1", 0)
		require.NoError(t, err)
		assert.Equal(t, domain.MsgNoJobsFound, res.Message)
		assert.Empty(t, res.Data)
	})

	t.Run("Should report no suitable jobs when nothing clears the gate", func(t *testing.T) {
		users, jobs := new(MockUserRepo), new(MockJobRepo)
		users.On("GetByID", ctx, "u1").Return(&domain.User{ID: "u1", IsJobSeeking: true, Skills: []string{"Cobol"}}, nil)
		jobs.On("FetchOpenJobs", ctx).Return(openJobs(), nil)

		res, err := newUsecase(users, jobs, usecase.RecommendationConfig{}).RecommendJobsForUser(ctx, "u1", 0)
		require.NoError(t, err)
		assert.Equal(t, domain.MsgNoSuitableJobs, res.Message)
		assert.NotNil(t, res.Data)
		assert.Empty(t, res.Data)
	})

	t.Run("Should rank jobs with social proof and user recency", func(t *testing.T) {
		users, jobs := new(MockUserRepo), new(MockJobRepo)
		users.On("GetByID", ctx, "u1").Return(&domain.User{
			ID:             "u1",
			IsJobSeeking:   true,
			Skills:         []string{"Go", "PostgreSQL"},
			LastActivityAt: daysAgo(1),
		}, nil)
		jobs.On("FetchOpenJobs", ctx).Return(openJobs(), nil)

		res, err := newUsecase(users, jobs, usecase.RecommendationConfig{}).RecommendJobsForUser(ctx, "u1", 0)
		require.NoError(t, err)
		assert.Equal(t, domain.MsgJobsRecommended, res.Message)
		require.Len(t, res.Data, 2)

		// (2 matches + 0.3 title + 20 applications * 0.05) * 1.2
		assert.Equal(t, int64(2), res.Data[0].ID)
		assert.InDelta(t, 3.96, res.Data[0].Score, 1e-9)
		assert.Equal(t, []string{"Go", "SQL"}, res.Data[0].MatchedSkills)

		assert.Equal(t, int64(1), res.Data[1].ID)
		assert.InDelta(t, 2.4, res.Data[1].Score, 1e-9)
		assert.Equal(t, []string{"Go", "PostgreSQL"}, res.Data[1].MatchedSkills)
		assert.Equal(t, "Acme", res.Data[1].Company.Name)
	})

	t.Run("Should cap topN at the configured maximum", func(t *testing.T) {
		users, jobs := new(MockUserRepo), new(MockJobRepo)
		users.On("GetByID", ctx, "u1").Return(&domain.User{ID: "u1", IsJobSeeking: true, Skills: []string{"Go", "PostgreSQL"}}, nil)
		jobs.On("FetchOpenJobs", ctx).Return(openJobs(), nil)

		uc := newUsecase(users, jobs, usecase.RecommendationConfig{MaxTopN: 1})
		res, err := uc.RecommendJobsForUser(ctx, "u1", 10)
		require.NoError(t, err)
		require.Len(t, res.Data, 1)
		assert.Equal(t, int64(2), res.Data[0].ID)
	})
}

func applicantJob() *domain.Job {
	return &domain.Job{
		ID:               42,
		Title:            "Go Engineer",
		Requirements:     []string{"Go", "PostgreSQL", "Docker"},
		ApplicationCount: 40,
	}
}

func TestFindPotentialApplicantsForJob(t *testing.T) {
	ctx := context.Background()

	t.Run("Should return 404 when job does not exist", func(t *testing.T) {
		users, jobs := new(MockUserRepo), new(MockJobRepo)
		jobs.On("GetByID", ctx, int64(9)).Return(nil, domain.ErrNotFound)

		_, err := newUsecase(users, jobs, usecase.RecommendationConfig{}).FindPotentialApplicantsForJob(ctx, 9, 0)
		requireAppError(t, err, http.StatusNotFound)
		users.AssertNotCalled(t, "FetchJobSeekers", mock.Anything)
	})

	t.Run("Should surface job seeker fetch failures", func(t *testing.T) {
		users, jobs := new(MockUserRepo), new(MockJobRepo)
		jobs.On("GetByID", ctx, int64(42)).Return(applicantJob(), nil)
		users.On("FetchJobSeekers", ctx).Return(nil, errors.New("timeout"))

		_, err := newUsecase(users, jobs, usecase.RecommendationConfig{}).FindPotentialApplicantsForJob(ctx, 42, 0)
		requireAppError(t, err, http.StatusBadGateway)
	})

	t.Run("Should report when there are no job seekers", func(t *testing.T) {
		users, jobs := new(MockUserRepo), new(MockJobRepo)
		jobs.On("GetByID", ctx, int64(42)).Return(applicantJob(), nil)
		users.On("FetchJobSeekers", ctx).Return([]domain.User{}, nil)

		res, err := newUsecase(users, jobs, usecase.RecommendationConfig{}).FindPotentialApplicantsForJob(ctx, 42, 0)
		require.NoError(t, err)
		assert.Equal(t, domain.MsgNoPotentialApplicants, res.Message)
		assert.NotNil(t, res.Data)
		assert.Empty(t, res.Data)
	})

	t.Run("Should rank applicants and hide private emails", func(t *testing.T) {
		users, jobs := new(MockUserRepo), new(MockJobRepo)
		jobs.On("GetByID", ctx, int64(42)).Return(applicantJob(), nil)
		users.On("FetchJobSeekers", ctx).Return([]domain.User{
			{ID: "bob", Email: "bob@example.com", Skills: []string{"PostgreSQL", "Go"}, IsJobSeeking: true},
			{ID: "carol", Email: "carol@example.com", IsJobSeeking: true, IsPublic: true},
			{ID: "alice", Email: "alice@example.com", Skills: []string{"Go", "Docker"}, IsJobSeeking: true, IsPublic: true, LastActivityAt: daysAgo(2)},
			{ID: "dave", Skills: []string{"Figma"}, IsJobSeeking: true},
		}, nil)

		res, err := newUsecase(users, jobs, usecase.RecommendationConfig{}).FindPotentialApplicantsForJob(ctx, 42, 0)
		require.NoError(t, err)
		assert.Equal(t, domain.MsgApplicantsFound, res.Message)
		require.Len(t, res.Data, 2)

		alice, bob := res.Data[0], res.Data[1]
		assert.Equal(t, "alice", alice.ID)
		assert.InDelta(t, 2.76, alice.Score, 1e-9)
		assert.Equal(t, "alice@example.com", alice.Email)
		assert.Equal(t, []string{"Go", "Docker"}, alice.MatchedSkills)

		// No social proof in this direction.
		assert.Equal(t, "bob", bob.ID)
		assert.InDelta(t, 2.3, bob.Score, 1e-9)
		assert.Empty(t, bob.Email)
		assert.Equal(t, []string{"PostgreSQL", "Go"}, bob.MatchedSkills)
	})

	t.Run("Should report no potential applicants when nobody clears the gate", func(t *testing.T) {
		users, jobs := new(MockUserRepo), new(MockJobRepo)
		jobs.On("GetByID", ctx, int64(42)).Return(applicantJob(), nil)
		users.On("FetchJobSeekers", ctx).Return([]domain.User{{ID: "carol", IsJobSeeking: true}}, nil)

		res, err := newUsecase(users, jobs, usecase.RecommendationConfig{}).FindPotentialApplicantsForJob(ctx, 42, 0)
		require.NoError(t, err)
		assert.Equal(t, domain.MsgNoPotentialApplicants, res.Message)
		assert.Empty(t, res.Data)
	})
}

func TestAuthGetCurrentUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Should fail safe when id is empty", func(t *testing.T) {
		uc := usecase.NewAuthUsecase(new(MockUserRepo))
		_, err := uc.GetCurrentUser(ctx, "")
		requireAppError(t, err, http.StatusUnauthorized)
	})

	t.Run("Should reject tokens for deleted users", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("GetByID", ctx, "gone").Return(nil, domain.ErrNotFound)
		_, err := usecase.NewAuthUsecase(repo).GetCurrentUser(ctx, "gone")
		requireAppError(t, err, http.StatusUnauthorized)
	})

	t.Run("Should return the stored user", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("GetByID", ctx, "u1").Return(&domain.User{ID: "u1", Role: domain.RoleEmployer}, nil)
		user, err := usecase.NewAuthUsecase(repo).GetCurrentUser(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleEmployer, user.Role)
	})
}

func TestHealthCheck(t *testing.T) {
	uc := usecase.NewHealthUsecase(map[string]usecase.HealthCheck{
		"database": func(ctx context.Context) error { return nil },
		"redis":    nil,
	})
	assert.Equal(t, map[string]string{"status": "ok", "database": "ok", "redis": "disabled"}, uc.Check(context.Background()))

	degraded := usecase.NewHealthUsecase(map[string]usecase.HealthCheck{
		"database": func(ctx context.Context) error { return errors.New("down") },
	})
	res := degraded.Check(context.Background())
	assert.Equal(t, "degraded", res["status"])
	assert.Equal(t, "down", res["database"])
}
