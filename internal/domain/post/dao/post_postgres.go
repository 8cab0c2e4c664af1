package dao

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noir-madlax/GoodGame-sub002/internal/domain/post/entity"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint
const uniqueViolation = "23505"

// PostPostgres implements PostRepository for PostgreSQL
type PostPostgres struct {
	pool *pgxpool.Pool
}

// NewPostPostgres creates a new PostgreSQL post repository
func NewPostPostgres(pool *pgxpool.Pool) *PostPostgres {
	return &PostPostgres{pool: pool}
}

const postColumns = `id, platform, platform_item_id, title, author_name, author_id,
       creator_type, post_type, cover_url, duration_sec,
       like_count, comment_count, share_count, collect_count,
       is_marked, relevant_status, priority, published_at, created_at, updated_at`

// Create inserts a new post
func (r *PostPostgres) Create(ctx context.Context, post *entity.Post) error {
	query := `
		INSERT INTO posts (id, platform, platform_item_id, title, author_name, author_id,
		                   creator_type, post_type, cover_url, duration_sec,
		                   like_count, comment_count, share_count, collect_count,
		                   is_marked, relevant_status, priority, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	_, err := r.pool.Exec(ctx, query,
		post.ID,
		post.Platform,
		post.PlatformItemID,
		post.Title,
		post.AuthorName,
		nullableString(post.AuthorID),
		nullableString(string(post.CreatorType)),
		post.PostType,
		nullableString(post.CoverURL),
		post.DurationSec,
		post.LikeCount,
		post.CommentCount,
		post.ShareCount,
		post.CollectCount,
		post.IsMarked,
		nullableString(string(post.RelevantStatus)),
		nullableString(string(post.Priority)),
		post.PublishedAt,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return entity.ErrDuplicatePost
		}
		return fmt.Errorf("inserting post: %w", err)
	}

	return nil
}

// GetByID retrieves a post by ID
func (r *PostPostgres) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	query := fmt.Sprintf("SELECT %s FROM posts WHERE id = $1", postColumns)

	row := r.pool.QueryRow(ctx, query, id)
	post, err := scanPost(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning post: %w", err)
	}

	return post, nil
}

// GetByPlatformItemID retrieves a post by its platform-assigned item ID
func (r *PostPostgres) GetByPlatformItemID(ctx context.Context, platform entity.Platform, itemID string) (*entity.Post, error) {
	query := fmt.Sprintf("SELECT %s FROM posts WHERE platform = $1 AND platform_item_id = $2", postColumns)

	row := r.pool.QueryRow(ctx, query, platform, itemID)
	post, err := scanPost(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning post: %w", err)
	}

	return post, nil
}

// Update updates an existing post's mutable fields
func (r *PostPostgres) Update(ctx context.Context, post *entity.Post) error {
	query := `
		UPDATE posts
		SET title = $2, author_name = $3, cover_url = $4, duration_sec = $5,
		    like_count = $6, comment_count = $7, share_count = $8, collect_count = $9,
		    priority = $10, published_at = $11, updated_at = $12
		WHERE id = $1
	`

	_, err := r.pool.Exec(ctx, query,
		post.ID,
		post.Title,
		post.AuthorName,
		nullableString(post.CoverURL),
		post.DurationSec,
		post.LikeCount,
		post.CommentCount,
		post.ShareCount,
		post.CollectCount,
		nullableString(string(post.Priority)),
		post.PublishedAt,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("updating post: %w", err)
	}

	return nil
}

// List retrieves posts with filtering
func (r *PostPostgres) List(ctx context.Context, filter PostFilter, opts ListOptions) ([]entity.Post, error) {
	query := fmt.Sprintf("SELECT %s FROM posts WHERE 1=1", postColumns)
	query, args := appendFilter(query, filter)
	argNum := len(args) + 1

	// Sorting: the publish timestamp falls back to the collection
	// timestamp when the platform did not report one.
	sortCol := "COALESCE(published_at, created_at)"
	switch opts.SortBy {
	case "", "published_at":
	case "created_at":
		sortCol = "created_at"
	case "like_count":
		sortCol = "like_count"
	default:
		return nil, fmt.Errorf("unsupported sort column: %s", opts.SortBy)
	}
	order := "DESC"
	if !opts.Desc {
		order = "ASC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s, id %s", sortCol, order, order)

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, opts.Limit)
		argNum++
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argNum)
		args = append(args, opts.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying posts: %w", err)
	}
	defer rows.Close()

	var posts []entity.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		posts = append(posts, *post)
	}

	return posts, nil
}

// Count returns the total count of posts matching the filter
func (r *PostPostgres) Count(ctx context.Context, filter PostFilter) (int64, error) {
	query := "SELECT COUNT(*) FROM posts WHERE 1=1"
	query, args := appendFilter(query, filter)

	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting posts: %w", err)
	}

	return count, nil
}

// SetMarked flips the triage mark on a post
func (r *PostPostgres) SetMarked(ctx context.Context, id string, marked bool) error {
	tag, err := r.pool.Exec(ctx, "UPDATE posts SET is_marked = $2, updated_at = $3 WHERE id = $1", id, marked, time.Now())
	if err != nil {
		return fmt.Errorf("setting marked: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrPostNotFound
	}
	return nil
}

// SetRelevantStatus updates the pre-screening relevance signal
func (r *PostPostgres) SetRelevantStatus(ctx context.Context, id string, status entity.RelevantStatus) error {
	tag, err := r.pool.Exec(ctx, "UPDATE posts SET relevant_status = $2, updated_at = $3 WHERE id = $1", id, status, time.Now())
	if err != nil {
		return fmt.Errorf("setting relevant status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrPostNotFound
	}
	return nil
}

// SetCoverURL updates the mirrored cover image URL
func (r *PostPostgres) SetCoverURL(ctx context.Context, id string, url string) error {
	tag, err := r.pool.Exec(ctx, "UPDATE posts SET cover_url = $2, updated_at = $3 WHERE id = $1", id, url, time.Now())
	if err != nil {
		return fmt.Errorf("setting cover url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrPostNotFound
	}
	return nil
}

// ListUnanalyzed retrieves posts that have no AI analysis row yet
func (r *PostPostgres) ListUnanalyzed(ctx context.Context, limit int) ([]entity.Post, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM posts p
		WHERE NOT EXISTS (
			SELECT 1 FROM post_analyses a
			WHERE a.platform_item_id = p.platform_item_id
		)
		ORDER BY p.created_at DESC
		LIMIT $1
	`, qualifyColumns("p", postColumns))

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying unanalyzed posts: %w", err)
	}
	defer rows.Close()

	var posts []entity.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		posts = append(posts, *post)
	}

	return posts, nil
}

// CountByPlatform returns post counts grouped by platform
func (r *PostPostgres) CountByPlatform(ctx context.Context) (map[entity.Platform]int64, error) {
	rows, err := r.pool.Query(ctx, "SELECT platform, COUNT(*) FROM posts GROUP BY platform")
	if err != nil {
		return nil, fmt.Errorf("counting by platform: %w", err)
	}
	defer rows.Close()

	counts := make(map[entity.Platform]int64)
	for rows.Next() {
		var platform entity.Platform
		var count int64
		if err := rows.Scan(&platform, &count); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		counts[platform] = count
	}

	return counts, nil
}

// CountByRelevance returns post counts grouped by pre-screening status.
// Posts without a status are keyed under the empty string.
func (r *PostPostgres) CountByRelevance(ctx context.Context) (map[entity.RelevantStatus]int64, error) {
	rows, err := r.pool.Query(ctx, "SELECT COALESCE(relevant_status, ''), COUNT(*) FROM posts GROUP BY 1")
	if err != nil {
		return nil, fmt.Errorf("counting by relevance: %w", err)
	}
	defer rows.Close()

	counts := make(map[entity.RelevantStatus]int64)
	for rows.Next() {
		var status entity.RelevantStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		counts[status] = count
	}

	return counts, nil
}

// EngagementTotals returns summed engagement counters since the given
// instant, or across all posts when since is nil.
func (r *PostPostgres) EngagementTotals(ctx context.Context, since *time.Time) (*entity.EngagementTotals, error) {
	query := `
		SELECT COALESCE(SUM(like_count), 0), COALESCE(SUM(comment_count), 0),
		       COALESCE(SUM(share_count), 0), COALESCE(SUM(collect_count), 0), COUNT(*)
		FROM posts
	`
	args := []interface{}{}
	if since != nil {
		query += " WHERE COALESCE(published_at, created_at) >= $1"
		args = append(args, *since)
	}

	var totals entity.EngagementTotals
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&totals.Likes,
		&totals.Comments,
		&totals.Shares,
		&totals.Collects,
		&totals.Posts,
	)
	if err != nil {
		return nil, fmt.Errorf("summing engagement: %w", err)
	}

	return &totals, nil
}

// appendFilter appends WHERE clauses for the filter and returns the
// extended query plus its positional args.
func appendFilter(query string, filter PostFilter) (string, []interface{}) {
	args := []interface{}{}
	argNum := 1

	if len(filter.Platforms) > 0 {
		query += fmt.Sprintf(" AND platform = ANY($%d)", argNum)
		args = append(args, toStrings(filter.Platforms))
		argNum++
	}

	if len(filter.Relevance) > 0 {
		query += fmt.Sprintf(" AND COALESCE(relevant_status, '') = ANY($%d)", argNum)
		args = append(args, toStrings(filter.Relevance))
		argNum++
	}

	if len(filter.Priorities) > 0 {
		query += fmt.Sprintf(" AND COALESCE(priority, '') = ANY($%d)", argNum)
		args = append(args, toStrings(filter.Priorities))
		argNum++
	}

	if len(filter.CreatorTypes) > 0 {
		query += fmt.Sprintf(" AND COALESCE(creator_type, '') = ANY($%d)", argNum)
		args = append(args, toStrings(filter.CreatorTypes))
		argNum++
	}

	if filter.MarkedOnly {
		query += " AND is_marked = TRUE"
	}

	if filter.Since != nil {
		query += fmt.Sprintf(" AND COALESCE(published_at, created_at) >= $%d", argNum)
		args = append(args, *filter.Since)
	}

	return query, args
}

// scanPost scans one post row; works for both QueryRow and Query rows
func scanPost(row pgx.Row) (*entity.Post, error) {
	var post entity.Post
	var authorID, creatorType, coverURL, relevantStatus, priority *string
	var publishedAt *time.Time

	err := row.Scan(
		&post.ID,
		&post.Platform,
		&post.PlatformItemID,
		&post.Title,
		&post.AuthorName,
		&authorID,
		&creatorType,
		&post.PostType,
		&coverURL,
		&post.DurationSec,
		&post.LikeCount,
		&post.CommentCount,
		&post.ShareCount,
		&post.CollectCount,
		&post.IsMarked,
		&relevantStatus,
		&priority,
		&publishedAt,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if authorID != nil {
		post.AuthorID = *authorID
	}
	if creatorType != nil {
		post.CreatorType = entity.CreatorType(*creatorType)
	}
	if coverURL != nil {
		post.CoverURL = *coverURL
	}
	if relevantStatus != nil {
		post.RelevantStatus = entity.RelevantStatus(*relevantStatus)
	}
	if priority != nil {
		post.Priority = entity.Priority(*priority)
	}
	post.PublishedAt = publishedAt

	return &post, nil
}

// toStrings converts a slice of string-typed values for pgx encoding
func toStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// nullableString converts an empty string to a NULL parameter
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// qualifyColumns prefixes every column in a comma-separated list with a
// table alias, for joined queries.
func qualifyColumns(alias, columns string) string {
	cols := strings.Split(columns, ",")
	for i, col := range cols {
		cols[i] = alias + "." + strings.TrimSpace(col)
	}
	return strings.Join(cols, ", ")
}
