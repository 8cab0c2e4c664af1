package dao

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noir-madlax/GoodGame-sub002/internal/domain/analysis/entity"
)

// AnalysisPostgres implements analysis storage for PostgreSQL
type AnalysisPostgres struct {
	pool *pgxpool.Pool
}

// NewAnalysisPostgres creates a new PostgreSQL analysis repository
func NewAnalysisPostgres(pool *pgxpool.Pool) *AnalysisPostgres {
	return &AnalysisPostgres{pool: pool}
}

// Upsert inserts an analysis row, replacing any previous annotation for
// the same platform item.
func (r *AnalysisPostgres) Upsert(ctx context.Context, a *entity.Analysis) error {
	query := `
		INSERT INTO post_analyses (id, platform_item_id, sentiment, relevance_label,
		                           risk_categories, severity, suggestion, analyzed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (platform_item_id) DO UPDATE
		SET sentiment = EXCLUDED.sentiment,
		    relevance_label = EXCLUDED.relevance_label,
		    risk_categories = EXCLUDED.risk_categories,
		    severity = EXCLUDED.severity,
		    suggestion = EXCLUDED.suggestion,
		    analyzed_at = EXCLUDED.analyzed_at
	`

	risks := a.RiskCategories
	if risks == nil {
		risks = []string{}
	}

	_, err := r.pool.Exec(ctx, query,
		a.ID,
		a.PlatformItemID,
		nullableString(string(a.Sentiment)),
		nullableString(a.RelevanceLabel),
		risks,
		nullableString(string(a.Severity)),
		nullableString(a.Suggestion),
		a.AnalyzedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting analysis: %w", err)
	}

	return nil
}

// GetByItemID retrieves the analysis for one platform item
func (r *AnalysisPostgres) GetByItemID(ctx context.Context, itemID string) (*entity.Analysis, error) {
	query := `
		SELECT id, platform_item_id, sentiment, relevance_label,
		       risk_categories, severity, suggestion, analyzed_at
		FROM post_analyses
		WHERE platform_item_id = $1
	`

	row := r.pool.QueryRow(ctx, query, itemID)
	a, err := scanAnalysis(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning analysis: %w", err)
	}

	return a, nil
}

// ListByItemIDs retrieves analyses for a set of platform items
func (r *AnalysisPostgres) ListByItemIDs(ctx context.Context, itemIDs []string) ([]entity.Analysis, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, platform_item_id, sentiment, relevance_label,
		       risk_categories, severity, suggestion, analyzed_at
		FROM post_analyses
		WHERE platform_item_id = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("querying analyses: %w", err)
	}
	defer rows.Close()

	var analyses []entity.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		analyses = append(analyses, *a)
	}

	return analyses, nil
}

// scanAnalysis scans one analysis row
func scanAnalysis(row pgx.Row) (*entity.Analysis, error) {
	var a entity.Analysis
	var sentiment, relevanceLabel, severity, suggestion *string

	err := row.Scan(
		&a.ID,
		&a.PlatformItemID,
		&sentiment,
		&relevanceLabel,
		&a.RiskCategories,
		&severity,
		&suggestion,
		&a.AnalyzedAt,
	)
	if err != nil {
		return nil, err
	}

	if sentiment != nil {
		a.Sentiment = entity.Sentiment(*sentiment)
	}
	if relevanceLabel != nil {
		a.RelevanceLabel = *relevanceLabel
	}
	if severity != nil {
		a.Severity = entity.Severity(*severity)
	}
	if suggestion != nil {
		a.Suggestion = *suggestion
	}

	return &a, nil
}

// nullableString converts an empty string to a NULL parameter
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
