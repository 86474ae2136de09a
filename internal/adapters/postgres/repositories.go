package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"maturity/internal/domain"
	"maturity/internal/ports"
)

var (
	_ ports.StakeholderRepository = (*DB)(nil)
	_ ports.EvidenceRepository    = (*DB)(nil)
	_ ports.SurveyRepository      = (*DB)(nil)
	_ ports.AssessmentRepository  = (*DB)(nil)
)

const stakeholderColumns = `id, name, sector, country, region, contact, links, category_scores, created_at, updated_at`

func scanStakeholder(row pgx.Row) (domain.EntityRecord, error) {
	var e domain.EntityRecord
	err := row.Scan(&e.ID, &e.Name, &e.Sector, &e.Country, &e.Region, &e.Contact, &e.Links, &e.CategoryScores, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// StakeholderRepository

func (db *DB) List(ctx context.Context) ([]domain.EntityRecord, error) {
	rows, err := db.Pool.Query(ctx, `SELECT `+stakeholderColumns+` FROM stakeholders ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.EntityRecord
	for rows.Next() {
		e, err := scanStakeholder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (db *DB) Get(ctx context.Context, id string) (domain.EntityRecord, error) {
	e, err := scanStakeholder(db.Pool.QueryRow(ctx, `SELECT `+stakeholderColumns+` FROM stakeholders WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return e, ports.ErrNotFound
	}
	return e, err
}

func (db *DB) Upsert(ctx context.Context, e domain.EntityRecord) (domain.EntityRecord, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Links == nil {
		e.Links = map[domain.Platform]string{}
	}
	if e.CategoryScores == nil {
		e.CategoryScores = map[domain.Category]int{}
	}
	return scanStakeholder(db.Pool.QueryRow(ctx, `
		INSERT INTO stakeholders (id, name, sector, country, region, contact, links, category_scores)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			sector = EXCLUDED.sector,
			country = EXCLUDED.country,
			region = EXCLUDED.region,
			contact = EXCLUDED.contact,
			links = EXCLUDED.links,
			category_scores = EXCLUDED.category_scores,
			updated_at = now()
		RETURNING `+stakeholderColumns,
		e.ID, e.Name, e.Sector, e.Country, e.Region, e.Contact, e.Links, e.CategoryScores))
}

func (db *DB) UpdateLinks(ctx context.Context, id string, links map[domain.Platform]string) error {
	tag, err := db.Pool.Exec(ctx, `UPDATE stakeholders SET links = $2, updated_at = now() WHERE id = $1`, id, links)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (db *DB) UpdateScores(ctx context.Context, id string, scores map[domain.Category]int) error {
	if scores == nil {
		scores = map[domain.Category]int{}
	}
	tag, err := db.Pool.Exec(ctx, `UPDATE stakeholders SET category_scores = $2, updated_at = now() WHERE id = $1`, id, scores)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// EvidenceRepository

func (db *DB) GetEvidence(ctx context.Context, stakeholderID string) (ports.Evidence, error) {
	var ev ports.Evidence
	err := db.Pool.QueryRow(ctx, `
		SELECT links, page, narratives FROM evidence WHERE stakeholder_id = $1
	`, stakeholderID).Scan(&ev.Links, &ev.Page, &ev.Narratives)
	if errors.Is(err, pgx.ErrNoRows) {
		return ports.Evidence{}, nil
	}
	return ev, err
}

func (db *DB) SaveEvidence(ctx context.Context, stakeholderID string, ev ports.Evidence) error {
	if ev.Links == nil {
		ev.Links = []domain.DiscoveredLink{}
	}
	if ev.Narratives == nil {
		ev.Narratives = map[domain.Category]domain.Narrative{}
	}
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO evidence (stakeholder_id, links, page, narratives)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (stakeholder_id) DO UPDATE SET
			links = EXCLUDED.links, page = EXCLUDED.page, narratives = EXCLUDED.narratives, updated_at = now()
	`, stakeholderID, ev.Links, ev.Page, ev.Narratives)
	return err
}

// SurveyRepository

func (db *DB) SaveSurvey(ctx context.Context, s ports.StoredSurvey) error {
	var stakeholder *string
	if s.StakeholderID != "" {
		stakeholder = &s.StakeholderID
	}
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO survey_responses (id, stakeholder_id, submitted_at, answers, match_tier, match)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, s.Response.ID, stakeholder, s.Response.SubmittedAt, s.Response.Answers, string(s.Match.Tier), s.Match)
	if err != nil {
		return fmt.Errorf("insert survey %s: %w", s.Response.ID, err)
	}
	return nil
}

func (db *DB) LatestSurvey(ctx context.Context, stakeholderID string) (*domain.SurveyResponse, error) {
	var r domain.SurveyResponse
	err := db.Pool.QueryRow(ctx, `
		SELECT id, submitted_at, answers FROM survey_responses
		WHERE stakeholder_id = $1
		ORDER BY submitted_at DESC
		LIMIT 1
	`, stakeholderID).Scan(&r.ID, &r.SubmittedAt, &r.Answers)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (db *DB) Unmatched(ctx context.Context) ([]ports.StoredSurvey, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, submitted_at, answers, match FROM survey_responses
		WHERE stakeholder_id IS NULL
		ORDER BY submitted_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ports.StoredSurvey
	for rows.Next() {
		var s ports.StoredSurvey
		if err := rows.Scan(&s.Response.ID, &s.Response.SubmittedAt, &s.Response.Answers, &s.Match); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// AssessmentRepository

func (db *DB) SaveAssessment(ctx context.Context, rec ports.AssessmentRecord) (string, error) {
	id := uuid.NewString()
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO assessments (id, stakeholder_id, sector_type, combined_total, tier, assessment, categories, capacity, validations, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, id, rec.StakeholderID, string(rec.Assessment.SectorType), rec.Assessment.CombinedTotal, string(rec.Assessment.Tier),
		rec.Assessment, rec.Categories, rec.Capacity, rec.Validations, rec.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("insert assessment: %w", err)
	}
	return id, nil
}

func (db *DB) LatestAssessment(ctx context.Context, stakeholderID string) (ports.AssessmentRecord, error) {
	var rec ports.AssessmentRecord
	err := db.Pool.QueryRow(ctx, `
		SELECT id::text, stakeholder_id, assessment, categories, capacity, validations, created_at
		FROM assessments
		WHERE stakeholder_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, stakeholderID).Scan(&rec.ID, &rec.StakeholderID, &rec.Assessment, &rec.Categories, &rec.Capacity, &rec.Validations, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return rec, ports.ErrNotFound
	}
	return rec, err
}
