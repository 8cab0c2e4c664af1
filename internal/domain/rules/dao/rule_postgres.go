package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noir-madlax/GoodGame-sub002/internal/domain/rules/entity"
)

// RulePostgres implements rule storage for PostgreSQL
type RulePostgres struct {
	pool *pgxpool.Pool
}

// NewRulePostgres creates a new PostgreSQL rule repository
func NewRulePostgres(pool *pgxpool.Pool) *RulePostgres {
	return &RulePostgres{pool: pool}
}

// Create inserts a new tagging rule
func (r *RulePostgres) Create(ctx context.Context, rule *entity.Rule) error {
	query := `
		INSERT INTO apu_rules (id, category,
		                       attribute_code, attribute_label,
		                       performance_code, performance_label,
		                       use_code, use_label,
		                       style_code, style_label,
		                       keywords, status, priority, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	attrCode, attrLabel := nodeColumns(rule.Attribute)
	perfCode, perfLabel := nodeColumns(rule.Performance)
	useCode, useLabel := nodeColumns(rule.Use)
	styleCode, styleLabel := nodeColumns(rule.Style)

	keywords := rule.Keywords
	if keywords == nil {
		keywords = []string{}
	}

	_, err := r.pool.Exec(ctx, query,
		rule.ID,
		rule.Category,
		attrCode, attrLabel,
		perfCode, perfLabel,
		useCode, useLabel,
		styleCode, styleLabel,
		keywords,
		rule.Status,
		rule.Priority,
		rule.CreatedAt,
		rule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting rule: %w", err)
	}

	return nil
}

// GetByID retrieves a rule by ID
func (r *RulePostgres) GetByID(ctx context.Context, id string) (*entity.Rule, error) {
	query := `
		SELECT id, category,
		       attribute_code, attribute_label,
		       performance_code, performance_label,
		       use_code, use_label,
		       style_code, style_label,
		       keywords, status, priority, created_at, updated_at
		FROM apu_rules
		WHERE id = $1
	`

	row := r.pool.QueryRow(ctx, query, id)
	rule, err := scanRule(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning rule: %w", err)
	}

	return rule, nil
}

// Update updates an existing rule
func (r *RulePostgres) Update(ctx context.Context, rule *entity.Rule) error {
	query := `
		UPDATE apu_rules
		SET category = $2,
		    attribute_code = $3, attribute_label = $4,
		    performance_code = $5, performance_label = $6,
		    use_code = $7, use_label = $8,
		    style_code = $9, style_label = $10,
		    keywords = $11, status = $12, priority = $13, updated_at = $14
		WHERE id = $1
	`

	attrCode, attrLabel := nodeColumns(rule.Attribute)
	perfCode, perfLabel := nodeColumns(rule.Performance)
	useCode, useLabel := nodeColumns(rule.Use)
	styleCode, styleLabel := nodeColumns(rule.Style)

	keywords := rule.Keywords
	if keywords == nil {
		keywords = []string{}
	}

	_, err := r.pool.Exec(ctx, query,
		rule.ID,
		rule.Category,
		attrCode, attrLabel,
		perfCode, perfLabel,
		useCode, useLabel,
		styleCode, styleLabel,
		keywords,
		rule.Status,
		rule.Priority,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("updating rule: %w", err)
	}

	return nil
}

// Delete removes a rule
func (r *RulePostgres) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM apu_rules WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting rule: %w", err)
	}
	return nil
}

// RuleFilter contains filters for listing rules
type RuleFilter struct {
	Category      string
	Status        *entity.RuleStatus
	AttributeCode string
}

// List retrieves rules with filtering, ordered by priority
func (r *RulePostgres) List(ctx context.Context, filter RuleFilter, limit, offset int) ([]entity.Rule, error) {
	query := `
		SELECT id, category,
		       attribute_code, attribute_label,
		       performance_code, performance_label,
		       use_code, use_label,
		       style_code, style_label,
		       keywords, status, priority, created_at, updated_at
		FROM apu_rules
		WHERE 1=1
	`
	args := []interface{}{}
	argNum := 1

	if filter.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", argNum)
		args = append(args, filter.Category)
		argNum++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, *filter.Status)
		argNum++
	}
	if filter.AttributeCode != "" {
		query += fmt.Sprintf(" AND attribute_code = $%d", argNum)
		args = append(args, filter.AttributeCode)
		argNum++
	}

	query += " ORDER BY priority DESC, created_at DESC"

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, limit)
		argNum++
	}
	if offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argNum)
		args = append(args, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying rules: %w", err)
	}
	defer rows.Close()

	var rules []entity.Rule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		rules = append(rules, *rule)
	}

	return rules, nil
}

// Count returns the total count of rules matching the filter
func (r *RulePostgres) Count(ctx context.Context, filter RuleFilter) (int64, error) {
	query := "SELECT COUNT(*) FROM apu_rules WHERE 1=1"
	args := []interface{}{}
	argNum := 1

	if filter.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", argNum)
		args = append(args, filter.Category)
		argNum++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, *filter.Status)
		argNum++
	}
	if filter.AttributeCode != "" {
		query += fmt.Sprintf(" AND attribute_code = $%d", argNum)
		args = append(args, filter.AttributeCode)
	}

	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting rules: %w", err)
	}

	return count, nil
}

// nodeColumns splits an optional chain node into its column pair
func nodeColumns(node *entity.ChainNode) (*string, *string) {
	if node == nil {
		return nil, nil
	}
	return &node.Code, &node.Label
}

// scanRule scans one rule row
func scanRule(row pgx.Row) (*entity.Rule, error) {
	var rule entity.Rule
	var attrCode, attrLabel, perfCode, perfLabel *string
	var useCode, useLabel, styleCode, styleLabel *string

	err := row.Scan(
		&rule.ID,
		&rule.Category,
		&attrCode, &attrLabel,
		&perfCode, &perfLabel,
		&useCode, &useLabel,
		&styleCode, &styleLabel,
		&rule.Keywords,
		&rule.Status,
		&rule.Priority,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	rule.Attribute = nodeFromColumns(attrCode, attrLabel)
	rule.Performance = nodeFromColumns(perfCode, perfLabel)
	rule.Use = nodeFromColumns(useCode, useLabel)
	rule.Style = nodeFromColumns(styleCode, styleLabel)

	return &rule, nil
}

// nodeFromColumns rebuilds an optional chain node from its column pair
func nodeFromColumns(code, label *string) *entity.ChainNode {
	if code == nil {
		return nil
	}
	node := &entity.ChainNode{Code: *code}
	if label != nil {
		node.Label = *label
	}
	return node
}
