package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go-jobportal-backend/internal/domain"

	"github.com/lib/pq"
)

type userRepo struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, COALESCE(fullname, ''), email, role, COALESCE(skills, '{}'), bio,
	is_job_seeking, is_public, last_activity_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		user         domain.User
		skills       pq.StringArray
		bio          sql.NullString
		lastActivity sql.NullTime
	)
	if err := row.Scan(
		&user.ID, &user.Fullname, &user.Email, &user.Role, &skills, &bio,
		&user.IsJobSeeking, &user.IsPublic, &lastActivity, &user.CreatedAt, &user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	user.Skills = []string(skills)
	if bio.Valid {
		user.Bio = &bio.String
	}
	if lastActivity.Valid {
		user.LastActivityAt = &lastActivity.Time
	}
	return &user, nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return user, nil
}

// FetchJobSeekers reads all job-seeking users ordered by id so rankings are
// reproducible across calls.
func (r *userRepo) FetchJobSeekers(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE is_job_seeking = TRUE ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetch job seekers: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job seeker: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch job seekers: %w", err)
	}
	return users, nil
}
