package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go-jobportal-backend/internal/domain"

	"github.com/lib/pq"
)

type jobRepo struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) domain.JobRepository {
	return &jobRepo{db: db}
}

const jobSelect = `
		SELECT
			j.id, j.title, COALESCE(j.description, ''), COALESCE(j.requirements, '{}'),
			COALESCE(j.salary, ''), COALESCE(j.location, ''), COALESCE(j.job_type, ''),
			COALESCE(j.position, ''), COALESCE(j.level, ''), COALESCE(j.benefits, '{}'),
			j.deadline, j.status, j.created_at,
			COALESCE(c.id, 0), COALESCE(c.name, 'Unknown Company'), c.logo_url,
			(SELECT COUNT(*) FROM applications a WHERE a.job_id = j.id) AS application_count
		FROM jobs j
		LEFT JOIN companies c ON j.company_id = c.id`

func scanJob(row rowScanner) (*domain.Job, error) {
	var (
		job          domain.Job
		requirements pq.StringArray
		benefits     pq.StringArray
		deadline     sql.NullTime
		logoURL      sql.NullString
	)
	if err := row.Scan(
		&job.ID, &job.Title, &job.Description, &requirements,
		&job.Salary, &job.Location, &job.JobType,
		&job.Position, &job.Level, &benefits,
		&deadline, &job.Status, &job.CreatedAt,
		&job.Company.ID, &job.Company.Name, &logoURL,
		&job.ApplicationCount,
	); err != nil {
		return nil, err
	}
	job.Requirements = []string(requirements)
	job.Benefits = []string(benefits)
	if deadline.Valid {
		job.Deadline = &deadline.Time
	}
	if logoURL.Valid {
		job.Company.LogoURL = &logoURL.String
	}
	return &job, nil
}

func (r *jobRepo) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	query := jobSelect + `
		WHERE j.id = $1`
	job, err := scanJob(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get job %d: %w", id, err)
	}
	return job, nil
}

// FetchOpenJobs retrieves only open jobs whose deadline has not passed, with
// company and application count, in a single query.
func (r *jobRepo) FetchOpenJobs(ctx context.Context) ([]domain.Job, error) {
	query := jobSelect + `
		WHERE j.status = $1 AND (j.deadline IS NULL OR j.deadline >= NOW())
		ORDER BY j.created_at DESC, j.id`

	rows, err := r.db.QueryContext(ctx, query, domain.JobStatusOpen)
	if err != nil {
		return nil, fmt.Errorf("fetch open jobs: %w", err)
	}
	defer rows.Close()

	jobs := []domain.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch open jobs: %w", err)
	}
	return jobs, nil
}
