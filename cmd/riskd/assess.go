package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kushwaha-yash/loan-risk/internal/domain/service"
	"github.com/kushwaha-yash/loan-risk/internal/infrastructure/modelbundle"
	"github.com/kushwaha-yash/loan-risk/pkg/observability"
)

type verdictOutput struct {
	Risk           string  `json:"risk"`
	Recommendation string  `json:"recommendation"`
	Probability    float64 `json:"probability"`
}

func newAssessCmd() *cobra.Command {
	var bundlePath, answersPath string

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Score one set of answers offline and print the verdict",
		Long: `Runs the assessment pipeline against a model bundle without starting servers.
Answers are a JSON object keyed by feature name; pass "-" to read stdin.
Exits 2 when the answers are invalid and 1 on any other failure.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := observability.InitLogger(observability.LogConfig{
				Output: cmd.ErrOrStderr(),
				Level:  logLevel(cmd, "warn"),
				Format: "text",
			})

			bundle, err := modelbundle.Load(bundlePath)
			if err != nil {
				return &exitError{err: err, code: exitSystemFault}
			}

			raw, err := readAnswers(answersPath, cmd.InOrStdin())
			if err != nil {
				return &exitError{err: err, code: exitInvalidInput}
			}

			pipeline, err := service.NewPipeline(bundle, logger)
			if err != nil {
				return &exitError{err: err, code: exitSystemFault}
			}

			verdict, err := pipeline.Assess(cmd.Context(), raw)
			if err != nil {
				code := exitSystemFault
				if service.KindOf(err) == service.KindInvalidInput {
					code = exitInvalidInput
				}
				return &exitError{err: err, code: code}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(verdictOutput{
				Risk:           verdict.Tier.String(),
				Recommendation: verdict.Recommendation,
				Probability:    verdict.Probability,
			})
		},
	}

	cmd.Flags().StringVar(&bundlePath, "bundle", "configs/model_bundle.json", "Path to the model bundle")
	cmd.Flags().StringVar(&answersPath, "answers", "-", "Path to the answers JSON, or - for stdin")
	return cmd
}

func readAnswers(path string, stdin io.Reader) (map[string]any, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse answers: %w", err)
	}
	return raw, nil
}
