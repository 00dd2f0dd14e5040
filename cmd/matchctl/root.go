package main

import (
	"encoding/json"
	"fmt"
	"io"

	"go-jobportal-backend/internal/domain"
	"go-jobportal-backend/internal/matching"
	"go-jobportal-backend/internal/repository/memory"
	"go-jobportal-backend/internal/usecase"
	"go-jobportal-backend/pkg/logger"
	"go-jobportal-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	taxonomyPath string
	workers      int
	logLevel     string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "matchctl",
		Short:         "Rank jobs and applicants from JSON files",
		Long:          "matchctl runs the job recommendation and applicant search rankings over JSON snapshots of users and jobs, printing the same envelope the API returns.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger.Log = logger.New(cmd.ErrOrStderr(), opts.logLevel)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.taxonomyPath, "taxonomy", "", "Path to a skill taxonomy JSON file (default: built-in)")
	cmd.PersistentFlags().IntVar(&opts.workers, "workers", 0, "Parallel scoring workers (default: GOMAXPROCS)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level written to stderr")

	cmd.AddCommand(newJobsCmd(opts), newApplicantsCmd(opts))
	return cmd
}

// engine builds the matching engine for a run.
func (o *rootOptions) engine() (*matching.Engine, error) {
	taxonomy := matching.DefaultTaxonomy()
	if o.taxonomyPath != "" {
		var err error
		taxonomy, err = matching.LoadTaxonomyFile(o.taxonomyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load taxonomy %s: %w", o.taxonomyPath, err)
		}
	}
	return matching.NewEngine(taxonomy, matching.WithWorkers(o.workers)), nil
}

func (o *rootOptions) validator() *validator.Validate {
	return validation.New(0)
}

func newUsecase(store *memory.Store, engine *matching.Engine) domain.RecommendationUsecase {
	cfg := usecase.DefaultRecommendationConfig()
	// No upper bound for local runs
	cfg.MaxTopN = 0
	return usecase.NewRecommendationUsecase(store.Users(), store.Jobs(), engine, cfg)
}

type output struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func writeOutput(w io.Writer, message string, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output{Success: true, Message: message, Data: data})
}
