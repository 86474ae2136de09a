package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"maturity/internal/domain"
	"maturity/internal/engine"
	"maturity/internal/logger"
	ports "maturity/internal/ports"
	stakesvc "maturity/internal/services/stakeholders"
)

var importFlags struct {
	input   string
	enqueue bool
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load stakeholders and their gathered evidence into the database",
	Long: "Import reads a list of engine inputs (the same format assess --batch\n" +
		"takes), upserts each entity and stores its links, page features and\n" +
		"narratives. A survey carried by an input is linked to that entity.\n" +
		"With --enqueue an assessment job is queued for every imported entity.",
	RunE: runImport,
}

func init() {
	f := importCmd.Flags()
	f.StringVarP(&importFlags.input, "file", "f", "", "JSON/YAML list of inputs, - for stdin (required)")
	f.BoolVar(&importFlags.enqueue, "enqueue", false, "Queue an assessment for every imported entity")

	_ = importCmd.MarkFlagRequired("file")
}

type importSummary struct {
	Imported int      `json:"imported"`
	IDs      []string `json:"ids"`
	Surveys  int      `json:"surveys"`
	Jobs     []string `json:"jobs,omitempty"`
}

func runImport(cmd *cobra.Command, _ []string) error {
	var inputs []engine.Input
	if err := readDoc(importFlags.input, &inputs); err != nil {
		return err
	}

	log, err := logger.New("cli")
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := cmd.Context()
	repo, closeFn, err := openStore(ctx, log)
	if err != nil {
		return err
	}
	defer closeFn()

	records := make([]domain.EntityRecord, len(inputs))
	for i, in := range inputs {
		records[i] = in.Entity
	}
	saved, err := stakesvc.New(repo).Import(ctx, records)
	if err != nil {
		return err
	}

	var sum importSummary
	for i, rec := range saved {
		in := inputs[i]
		ev := ports.Evidence{Links: in.Links, Page: in.Page, Narratives: in.Narratives}
		if err := repo.SaveEvidence(ctx, rec.ID, ev); err != nil {
			return fmt.Errorf("save evidence for %s: %w", rec.ID, err)
		}
		if in.Survey != nil {
			resp := *in.Survey
			if resp.ID == "" {
				resp.ID = uuid.NewString()
			}
			if resp.SubmittedAt.IsZero() {
				resp.SubmittedAt = time.Now().UTC()
			}
			err := repo.SaveSurvey(ctx, ports.StoredSurvey{
				Response:      resp,
				StakeholderID: rec.ID,
				Match:         domain.MatchResult{Tier: domain.TierHigh, Reason: "linked at import"},
			})
			if err != nil {
				return fmt.Errorf("save survey for %s: %w", rec.ID, err)
			}
			sum.Surveys++
		}
		if importFlags.enqueue {
			jobID, err := repo.Enqueue(ctx, rec.ID)
			if err != nil {
				return fmt.Errorf("enqueue %s: %w", rec.ID, err)
			}
			sum.Jobs = append(sum.Jobs, jobID)
		}
		sum.IDs = append(sum.IDs, rec.ID)
	}
	sum.Imported = len(saved)
	log.Info("roster imported", "count", sum.Imported, "surveys", sum.Surveys, "jobs", len(sum.Jobs))
	return printJSON(cmd.OutOrStdout(), sum)
}
