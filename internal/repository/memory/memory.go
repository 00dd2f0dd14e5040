// Package memory serves users and jobs from JSON snapshots. It backs the
// matchctl CLI and tests.
package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"go-jobportal-backend/internal/domain"
	"go-jobportal-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// Store holds read-only snapshots. It is safe for concurrent readers.
type Store struct {
	users []domain.User
	jobs  []domain.Job
	now   func() time.Time
}

func NewStore(users []domain.User, jobs []domain.Job) *Store {
	return &Store{users: users, jobs: jobs, now: time.Now}
}

// WithClock replaces time.Now for deadline checks.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Users() domain.UserRepository { return userRepo{s} }
func (s *Store) Jobs() domain.JobRepository   { return jobRepo{s} }

type userRepo struct{ s *Store }

func (r userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	for i := range r.s.users {
		if r.s.users[i].ID == id {
			user := r.s.users[i]
			return &user, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r userRepo) FetchJobSeekers(ctx context.Context) ([]domain.User, error) {
	out := []domain.User{}
	for _, u := range r.s.users {
		if u.IsJobSeeking {
			out = append(out, u)
		}
	}
	return out, nil
}

type jobRepo struct{ s *Store }

func (r jobRepo) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	for i := range r.s.jobs {
		if r.s.jobs[i].ID == id {
			job := r.s.jobs[i]
			return &job, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r jobRepo) FetchOpenJobs(ctx context.Context) ([]domain.Job, error) {
	now := r.s.now()
	out := []domain.Job{}
	for _, j := range r.s.jobs {
		if j.IsOpen(now) {
			out = append(out, j)
		}
	}
	return out, nil
}

// DecodeUsers reads a JSON array of users, or a single user object.
func DecodeUsers(r io.Reader, v *validator.Validate) ([]domain.User, error) {
	var users []domain.User
	if err := decodeOneOrMany(r, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	for i := range users {
		if err := v.Struct(&users[i]); err != nil {
			return nil, fmt.Errorf("user %d: %v", i, validation.FormatValidationErrors(err))
		}
	}
	return users, nil
}

// DecodeJobs reads a JSON array of jobs, or a single job object.
func DecodeJobs(r io.Reader, v *validator.Validate) ([]domain.Job, error) {
	var jobs []domain.Job
	if err := decodeOneOrMany(r, &jobs); err != nil {
		return nil, fmt.Errorf("decode jobs: %w", err)
	}
	for i := range jobs {
		if err := v.Struct(&jobs[i]); err != nil {
			return nil, fmt.Errorf("job %d: %v", i, validation.FormatValidationErrors(err))
		}
	}
	return jobs, nil
}

func LoadUsersFile(path string, v *validator.Validate) ([]domain.User, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeUsers(f, v)
}

func LoadJobsFile(path string, v *validator.Validate) ([]domain.Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeJobs(f, v)
}

func decodeOneOrMany[T any](r io.Reader, out *[]T) error {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return err
	}
	if trimmed := bytes.TrimLeft(raw, " \t\r\n"); len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(raw, out)
	}
	var one T
	if err := json.Unmarshal(raw, &one); err != nil {
		return err
	}
	*out = []T{one}
	return nil
}
