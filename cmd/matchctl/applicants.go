package main

import (
	"fmt"

	"go-jobportal-backend/internal/domain"
	"go-jobportal-backend/internal/repository/memory"

	"github.com/spf13/cobra"
)

type applicantsOptions struct {
	jobFile   string
	jobID     int64
	usersFile string
	top       int
}

func newApplicantsCmd(root *rootOptions) *cobra.Command {
	opts := &applicantsOptions{}

	cmd := &cobra.Command{
		Use:   "applicants",
		Short: "Find potential applicants for a job",
		Long:  "Ranks the job-seeking users in --users against the job in --job. When --job holds several jobs, --job-id picks one.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApplicants(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.jobFile, "job", "", "Path to a job JSON object or array (required)")
	cmd.Flags().Int64Var(&opts.jobID, "job-id", 0, "Job to rank for when --job holds several")
	cmd.Flags().StringVar(&opts.usersFile, "users", "", "Path to a JSON array of users (required)")
	cmd.Flags().IntVarP(&opts.top, "top", "n", 10, "Maximum number of applicants to return")

	if err := cmd.MarkFlagRequired("job"); err != nil {
		panic(fmt.Sprintf("failed to mark job flag as required: %v", err))
	}
	if err := cmd.MarkFlagRequired("users"); err != nil {
		panic(fmt.Sprintf("failed to mark users flag as required: %v", err))
	}
	return cmd
}

func runApplicants(cmd *cobra.Command, root *rootOptions, opts *applicantsOptions) error {
	v := root.validator()

	jobs, err := memory.LoadJobsFile(opts.jobFile, v)
	if err != nil {
		return fmt.Errorf("failed to load job: %w", err)
	}
	jobID, err := pickJob(jobs, opts.jobID)
	if err != nil {
		return err
	}

	users, err := memory.LoadUsersFile(opts.usersFile, v)
	if err != nil {
		return fmt.Errorf("failed to load users: %w", err)
	}

	engine, err := root.engine()
	if err != nil {
		return err
	}

	uc := newUsecase(memory.NewStore(users, jobs), engine)
	res, err := uc.FindPotentialApplicantsForJob(cmd.Context(), jobID, opts.top)
	if err != nil {
		return fmt.Errorf("failed to find applicants: %w", err)
	}
	return writeOutput(cmd.OutOrStdout(), res.Message, res.Data)
}

func pickJob(jobs []domain.Job, id int64) (int64, error) {
	if id != 0 {
		return id, nil
	}
	switch len(jobs) {
	case 0:
		return 0, fmt.Errorf("no jobs in input")
	case 1:
		return jobs[0].ID, nil
	default:
		return 0, fmt.Errorf("input holds %d jobs; choose one with --job-id", len(jobs))
	}
}
