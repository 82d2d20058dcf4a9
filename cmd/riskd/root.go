package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Exit codes for offline assessment.
const (
	exitSystemFault  = 1
	exitInvalidInput = 2
)

// exitError carries a process exit code through cobra.
type exitError struct {
	err  error
	code int
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "riskd",
		Short:         "Loan default risk service",
		Long:          "riskd scores loan applicants' questionnaire answers with a pre-trained model and maps the default probability to a lending recommendation.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("log-level", "", "Log level (overrides LOG_LEVEL)")

	root.AddCommand(
		newServeCmd(),
		newAssessCmd(),
		newValidateCmd(),
		newMigrateCmd(),
		newVersionCmd(),
	)

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w\n\n%s", err, cmd.UsageString())
	})
	return root
}

func logLevel(cmd *cobra.Command, fallback string) string {
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		return lvl
	}
	return fallback
}
