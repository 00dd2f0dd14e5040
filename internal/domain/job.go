package domain

import (
	"context"
	"time"
)

// Job status constants
const (
	JobStatusOpen   = "open"
	JobStatusClosed = "closed"
)

// CompanySummary is the part of a company shown next to a job.
type CompanySummary struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	LogoURL *string `json:"logo_url,omitempty"`
}

type Job struct {
	ID               int64          `json:"id" validate:"required"`
	Title            string         `json:"title" validate:"required"`
	Description      string         `json:"description"`
	Requirements     []string       `json:"requirements" validate:"dive,skill_token"`
	Salary           string         `json:"salary"`
	Location         string         `json:"location"`
	JobType          string         `json:"job_type"`
	Position         string         `json:"position"`
	Level            string         `json:"level"`
	Benefits         []string       `json:"benefits"`
	Deadline         *time.Time     `json:"deadline,omitempty"`
	Status           string         `json:"status" validate:"omitempty,oneof=open closed"`
	Company          CompanySummary `json:"company"`
	ApplicationCount int            `json:"application_count" validate:"min=0"`
	CreatedAt        time.Time      `json:"created_at"`
}

// IsOpen reports whether the job accepts applications at now.
func (j *Job) IsOpen(now time.Time) bool {
	if j.Status != "" && j.Status != JobStatusOpen {
		return false
	}
	return j.Deadline == nil || !j.Deadline.Before(now)
}

type JobRepository interface {
	GetByID(ctx context.Context, id int64) (*Job, error)
	// FetchOpenJobs returns every open job with company and application
	// count in one read.
	FetchOpenJobs(ctx context.Context) ([]Job, error)
}
