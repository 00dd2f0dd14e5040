package main

import (
	"fmt"

	"go-jobportal-backend/internal/domain"
	"go-jobportal-backend/internal/repository/memory"

	"github.com/spf13/cobra"
)

type jobsOptions struct {
	userFile string
	userID   string
	jobsFile string
	top      int
}

func newJobsCmd(root *rootOptions) *cobra.Command {
	opts := &jobsOptions{}

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Recommend jobs for a user",
		Long:  "Ranks the open jobs in --jobs against the user in --user. When --user holds several users, --user-id picks one.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runJobs(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.userFile, "user", "u", "", "Path to a user JSON object or array (required)")
	cmd.Flags().StringVar(&opts.userID, "user-id", "", "User to rank for when --user holds several")
	cmd.Flags().StringVarP(&opts.jobsFile, "jobs", "j", "", "Path to a JSON array of jobs (required)")
	cmd.Flags().IntVarP(&opts.top, "top", "n", 5, "Maximum number of jobs to return")

	if err := cmd.MarkFlagRequired("user"); err != nil {
		panic(fmt.Sprintf("failed to mark user flag as required: %v", err))
	}
	if err := cmd.MarkFlagRequired("jobs"); err != nil {
		panic(fmt.Sprintf("failed to mark jobs flag as required: %v", err))
	}
	return cmd
}

func runJobs(cmd *cobra.Command, root *rootOptions, opts *jobsOptions) error {
	v := root.validator()

	users, err := memory.LoadUsersFile(opts.userFile, v)
	if err != nil {
		return fmt.Errorf("failed to load users: %w", err)
	}
	userID, err := pickUser(users, opts.userID)
	if err != nil {
		return err
	}

	jobs, err := memory.LoadJobsFile(opts.jobsFile, v)
	if err != nil {
		return fmt.Errorf("failed to load jobs: %w", err)
	}

	engine, err := root.engine()
	if err != nil {
		return err
	}

	uc := newUsecase(memory.NewStore(users, jobs), engine)
	res, err := uc.RecommendJobsForUser(cmd.Context(), userID, opts.top)
	if err != nil {
		return fmt.Errorf("failed to recommend jobs: %w", err)
	}
	return writeOutput(cmd.OutOrStdout(), res.Message, res.Data)
}

func pickUser(users []domain.User, id string) (string, error) {
	if id != "" {
		return id, nil
	}
	switch len(users) {
	case 0:
		return "", fmt.Errorf("no users in input")
	case 1:
		return users[0].ID, nil
	default:
		return "", fmt.Errorf("input holds %d users; choose one with --user-id", len(users))
	}
}
