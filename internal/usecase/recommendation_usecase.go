package usecase

import (
	"context"
	"errors"
	"time"

	"go-jobportal-backend/internal/domain"
	"go-jobportal-backend/internal/matching"
	"go-jobportal-backend/pkg/apperror"
	"go-jobportal-backend/pkg/logger"
	"go-jobportal-backend/pkg/metrics"
)

// RecommendationConfig holds the topN defaults and cap.
type RecommendationConfig struct {
	DefaultJobsTopN       int
	DefaultApplicantsTopN int
	// MaxTopN caps any requested topN; zero disables the cap.
	MaxTopN int
}

func DefaultRecommendationConfig() RecommendationConfig {
	return RecommendationConfig{
		DefaultJobsTopN:       5,
		DefaultApplicantsTopN: 10,
		MaxTopN:               50,
	}
}

type recommendationUsecase struct {
	userRepo domain.UserRepository
	jobRepo  domain.JobRepository
	engine   *matching.Engine
	cfg      RecommendationConfig
}

func NewRecommendationUsecase(
	userRepo domain.UserRepository,
	jobRepo domain.JobRepository,
	engine *matching.Engine,
	cfg RecommendationConfig,
) domain.RecommendationUsecase {
	def := DefaultRecommendationConfig()
	if cfg.DefaultJobsTopN <= 0 {
		cfg.DefaultJobsTopN = def.DefaultJobsTopN
	}
	if cfg.DefaultApplicantsTopN <= 0 {
		cfg.DefaultApplicantsTopN = def.DefaultApplicantsTopN
	}
	if engine == nil {
		engine = matching.NewEngine(nil)
	}
	return &recommendationUsecase{
		userRepo: userRepo,
		jobRepo:  jobRepo,
		engine:   engine,
		cfg:      cfg,
	}
}

func (u *recommendationUsecase) RecommendJobsForUser(ctx context.Context, userID string, topN int) (*domain.RecommendationResult[domain.RecommendedJob], error) {
	topN = u.limit(topN, u.cfg.DefaultJobsTopN)

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		metrics.ObserveRankingError(metrics.DirectionJobs)
		return nil, lookupError(err, "User not found", "Failed to load user")
	}

	if !user.IsJobSeeking {
		return jobResult(domain.MsgUserNotJobSeeking, nil), nil
	}

	jobs, err := u.jobRepo.FetchOpenJobs(ctx)
	if err != nil {
		metrics.ObserveRankingError(metrics.DirectionJobs)
		return nil, apperror.Upstream("Failed to load jobs", err)
	}
	if len(jobs) == 0 {
		return jobResult(domain.MsgNoJobsFound, nil), nil
	}

	start := time.Now()

	// The user side is identical for every job.
	skills := u.engine.Expand(user.Skills)
	corpus := matching.NewCorpus(user.BioText())

	ranked := matching.Rank(u.engine, jobs, func(job domain.Job) matching.Input {
		return matching.Input{
			Skills:       skills,
			Requirements: job.Requirements,
			Title:        job.Title,
			Corpus:       corpus,
			TargetText:   job.Description,
			Bonus:        matching.SocialProof(job.ApplicationCount),
			ActivityAt:   user.LastActivityAt,
		}
	}, topN)

	elapsed := time.Since(start)
	metrics.ObserveRanking(metrics.DirectionJobs, len(jobs), len(ranked), elapsed)
	logger.Log.InfoContext(ctx, "Ranked jobs for user",
		"direction", metrics.DirectionJobs,
		"user_id", user.ID,
		"subjects", len(jobs),
		"results", len(ranked),
		"top_n", topN,
		"duration_ms", elapsed.Milliseconds(),
	)

	if len(ranked) == 0 {
		return jobResult(domain.MsgNoSuitableJobs, nil), nil
	}

	data := make([]domain.RecommendedJob, 0, len(ranked))
	for _, r := range ranked {
		data = append(data, toRecommendedJob(r.Item, r.Matched, r.Score))
	}
	return jobResult(domain.MsgJobsRecommended, data), nil
}

func (u *recommendationUsecase) FindPotentialApplicantsForJob(ctx context.Context, jobID int64, topN int) (*domain.RecommendationResult[domain.PotentialApplicant], error) {
	topN = u.limit(topN, u.cfg.DefaultApplicantsTopN)

	job, err := u.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		metrics.ObserveRankingError(metrics.DirectionApplicants)
		return nil, lookupError(err, "Job not found", "Failed to load job")
	}

	seekers, err := u.userRepo.FetchJobSeekers(ctx)
	if err != nil {
		metrics.ObserveRankingError(metrics.DirectionApplicants)
		return nil, apperror.Upstream("Failed to load job seekers", err)
	}
	if len(seekers) == 0 {
		return applicantResult(domain.MsgNoPotentialApplicants, nil), nil
	}

	start := time.Now()

	ranked := matching.Rank(u.engine, seekers, func(c domain.User) matching.Input {
		return matching.Input{
			Skills:       u.engine.Expand(c.Skills),
			Requirements: job.Requirements,
			Title:        job.Title,
			Corpus:       matching.NewCorpus(c.BioText()),
			TargetText:   job.Description,
			ActivityAt:   c.LastActivityAt,
		}
	}, topN)

	elapsed := time.Since(start)
	metrics.ObserveRanking(metrics.DirectionApplicants, len(seekers), len(ranked), elapsed)
	logger.Log.InfoContext(ctx, "Ranked applicants for job",
		"direction", metrics.DirectionApplicants,
		"job_id", job.ID,
		"subjects", len(seekers),
		"results", len(ranked),
		"top_n", topN,
		"duration_ms", elapsed.Milliseconds(),
	)

	if len(ranked) == 0 {
		return applicantResult(domain.MsgNoPotentialApplicants, nil), nil
	}

	data := make([]domain.PotentialApplicant, 0, len(ranked))
	for _, r := range ranked {
		data = append(data, toPotentialApplicant(r.Item, r.Matched, r.Score))
	}
	return applicantResult(domain.MsgApplicantsFound, data), nil
}

// limit applies the default for topN <= 0 and the configured cap.
func (u *recommendationUsecase) limit(topN, def int) int {
	if topN <= 0 {
		topN = def
	}
	if u.cfg.MaxTopN > 0 && topN > u.cfg.MaxTopN {
		topN = u.cfg.MaxTopN
	}
	return topN
}

func lookupError(err error, notFound, upstream string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return apperror.NotFound(notFound)
	}
	return apperror.Upstream(upstream, err)
}

func jobResult(msg string, data []domain.RecommendedJob) *domain.RecommendationResult[domain.RecommendedJob] {
	if data == nil {
		data = []domain.RecommendedJob{}
	}
	return &domain.RecommendationResult[domain.RecommendedJob]{Message: msg, Data: data}
}

func applicantResult(msg string, data []domain.PotentialApplicant) *domain.RecommendationResult[domain.PotentialApplicant] {
	if data == nil {
		data = []domain.PotentialApplicant{}
	}
	return &domain.RecommendationResult[domain.PotentialApplicant]{Message: msg, Data: data}
}

func toRecommendedJob(job domain.Job, matched []string, score float64) domain.RecommendedJob {
	return domain.RecommendedJob{
		ID:               job.ID,
		Title:            job.Title,
		Description:      job.Description,
		Requirements:     job.Requirements,
		Salary:           job.Salary,
		Location:         job.Location,
		JobType:          job.JobType,
		Position:         job.Position,
		Level:            job.Level,
		Benefits:         job.Benefits,
		Deadline:         job.Deadline,
		Company:          job.Company,
		ApplicationCount: job.ApplicationCount,
		MatchedSkills:    nonNil(matched),
		Score:            score,
	}
}

func toPotentialApplicant(user domain.User, matched []string, score float64) domain.PotentialApplicant {
	applicant := domain.PotentialApplicant{
		ID:             user.ID,
		Fullname:       user.Fullname,
		Skills:         user.Skills,
		Bio:            user.Bio,
		LastActivityAt: user.LastActivityAt,
		MatchedSkills:  nonNil(matched),
		Score:          score,
	}
	if user.IsPublic {
		applicant.Email = user.Email
	}
	return applicant
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
