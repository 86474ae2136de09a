package main

import (
	"github.com/spf13/cobra"

	"maturity/internal/config"
	"maturity/internal/engine"
	"maturity/internal/scoring"
	"maturity/internal/workers/assessrunner"
)

var assessFlags struct {
	input       string
	batch       bool
	concurrency int
	profile     string
}

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Score digital maturity from resolved evidence",
	Long: "Assess reads one engine input (entity, discovered links, page features,\n" +
		"survey response) and prints the full report. With --batch the file holds\n" +
		"a list of inputs that are scored in parallel; one failing entity never\n" +
		"stops the others.",
	RunE: runAssess,
}

func init() {
	f := assessCmd.Flags()
	f.StringVarP(&assessFlags.input, "file", "f", "", "JSON/YAML input file, - for stdin (required)")
	f.BoolVar(&assessFlags.batch, "batch", false, "Input is a list of entities")
	f.IntVar(&assessFlags.concurrency, "concurrency", 4, "Parallel evaluations in batch mode")
	f.StringVar(&assessFlags.profile, "profile", "", "YAML scoring profile overriding weights and blend")

	_ = assessCmd.MarkFlagRequired("file")
}

func runAssess(cmd *cobra.Command, _ []string) error {
	profile := scoring.DefaultProfile()
	if assessFlags.profile != "" {
		p, err := config.LoadProfile(assessFlags.profile)
		if err != nil {
			return err
		}
		profile = p
	}
	scorer, err := scoring.New(profile)
	if err != nil {
		return err
	}
	eng := engine.New(engine.WithScoring(scorer))

	if assessFlags.batch {
		var inputs []engine.Input
		if err := readDoc(assessFlags.input, &inputs); err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), assessrunner.Batch(cmd.Context(), eng, inputs, assessFlags.concurrency))
	}

	var in engine.Input
	if err := readDoc(assessFlags.input, &in); err != nil {
		return err
	}
	report, err := eng.Evaluate(in)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), report)
}
