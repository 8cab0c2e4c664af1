package dao

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noir-madlax/GoodGame-sub002/internal/domain/enums/entity"
)

// EnumPostgres implements enumeration storage for PostgreSQL
type EnumPostgres struct {
	pool *pgxpool.Pool
}

// NewEnumPostgres creates a new PostgreSQL enumeration repository
func NewEnumPostgres(pool *pgxpool.Pool) *EnumPostgres {
	return &EnumPostgres{pool: pool}
}

// ListDistinct retrieves the distinct values stored for one enumeration
// kind together with their stored labels.
func (r *EnumPostgres) ListDistinct(ctx context.Context, kind entity.Kind) ([]entity.Value, error) {
	query := `
		SELECT DISTINCT value, COALESCE(label, '')
		FROM filter_enums
		WHERE kind = $1
	`

	rows, err := r.pool.Query(ctx, query, kind)
	if err != nil {
		return nil, fmt.Errorf("querying enum values: %w", err)
	}
	defer rows.Close()

	var values []entity.Value
	for rows.Next() {
		v := entity.Value{Kind: kind}
		if err := rows.Scan(&v.Value, &v.Label); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		values = append(values, v)
	}

	return values, nil
}
