package domain

import (
	"context"
	"time"
)

// RecommendedJob is a job ranked for a job seeker.
type RecommendedJob struct {
	ID               int64          `json:"id"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	Requirements     []string       `json:"requirements"`
	Salary           string         `json:"salary"`
	Location         string         `json:"location"`
	JobType          string         `json:"job_type"`
	Position         string         `json:"position"`
	Level            string         `json:"level"`
	Benefits         []string       `json:"benefits"`
	Deadline         *time.Time     `json:"deadline,omitempty"`
	Company          CompanySummary `json:"company"`
	ApplicationCount int            `json:"application_count"`
	MatchedSkills    []string       `json:"matched_skills"`
	Score            float64        `json:"score"`
}

// PotentialApplicant is a job seeker ranked for a job. Email is only set
// when the profile is public.
type PotentialApplicant struct {
	ID             string     `json:"id"`
	Fullname       string     `json:"fullname"`
	Email          string     `json:"email,omitempty"`
	Skills         []string   `json:"skills"`
	Bio            *string    `json:"bio,omitempty"`
	LastActivityAt *time.Time `json:"last_activity_at,omitempty"`
	MatchedSkills  []string   `json:"matched_skills"`
	Score          float64    `json:"score"`
}

// RecommendationResult carries a ranking and the message shown with it.
// Data is never nil so an empty ranking serializes as [].
type RecommendationResult[T any] struct {
	Message string `json:"message"`
	Data    []T    `json:"data"`
}

// Result messages.
const (
	MsgUserNotJobSeeking     = "User is not looking for a job"
	MsgNoJobsFound           = "No jobs found"
	MsgNoSuitableJobs        = "No suitable jobs found"
	MsgJobsRecommended       = "Recommended jobs retrieved successfully"
	MsgNoPotentialApplicants = "No potential applicants found"
	MsgApplicantsFound       = "Potential applicants retrieved successfully"
)

type RecommendationUsecase interface {
	RecommendJobsForUser(ctx context.Context, userID string, topN int) (*RecommendationResult[RecommendedJob], error)
	FindPotentialApplicantsForJob(ctx context.Context, jobID int64, topN int) (*RecommendationResult[PotentialApplicant], error)
}
