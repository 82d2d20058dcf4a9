package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kushwaha-yash/loan-risk/internal/infrastructure/modelbundle"
	"github.com/kushwaha-yash/loan-risk/internal/infrastructure/questions"
)

func newValidateCmd() *cobra.Command {
	var bundlePath, questionsPath string

	cmd := &cobra.Command{
		Use:   "validate-bundle",
		Short: "Check a model bundle, and optionally a questionnaire, before deploying",
		RunE: func(cmd *cobra.Command, _ []string) error {
			bundle, err := modelbundle.Load(bundlePath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "bundle %s ok\n", bundlePath)
			fmt.Fprintf(out, "  version:  %s\n", bundle.Version())
			fmt.Fprintf(out, "  features: %s\n", strings.Join(bundle.Schema().Names(), ", "))

			if questionsPath == "" {
				return nil
			}
			catalog, err := questions.Load(questionsPath)
			if err != nil {
				return err
			}
			if err := catalog.CheckAgainst(bundle.Schema()); err != nil {
				return err
			}
			fmt.Fprintf(out, "questions %s ok (%d questions)\n", questionsPath, len(catalog.Questions()))
			return nil
		},
	}

	cmd.Flags().StringVar(&bundlePath, "bundle", "configs/model_bundle.json", "Path to the model bundle")
	cmd.Flags().StringVar(&questionsPath, "questions", "", "Path to the questionnaire to check against the bundle")
	return cmd
}
