package main

import (
	"github.com/spf13/cobra"

	"maturity/internal/domain"
	"maturity/internal/matching"
)

var matchFlags struct {
	response string
	roster   string
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match survey responses against a stakeholder roster",
	Long: "Match reads one survey response, or a list of them, and reports the\n" +
		"best roster entry with its confidence tier and top candidates.",
	RunE: runMatch,
}

func init() {
	f := matchCmd.Flags()
	f.StringVar(&matchFlags.response, "response", "", "JSON/YAML survey response or list of responses (required)")
	f.StringVar(&matchFlags.roster, "roster", "", "JSON/YAML roster file (required)")

	_ = matchCmd.MarkFlagRequired("response")
	_ = matchCmd.MarkFlagRequired("roster")
}

func runMatch(cmd *cobra.Command, _ []string) error {
	var roster []domain.EntityRecord
	if err := readDoc(matchFlags.roster, &roster); err != nil {
		return err
	}
	idx := matching.NewIndex(roster)

	var many []domain.SurveyResponse
	if err := readDoc(matchFlags.response, &many); err == nil {
		out := make([]domain.MatchResult, 0, len(many))
		for _, r := range many {
			out = append(out, idx.Match(r))
		}
		return printJSON(cmd.OutOrStdout(), out)
	}
	var one domain.SurveyResponse
	if err := readDoc(matchFlags.response, &one); err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), idx.Match(one))
}
