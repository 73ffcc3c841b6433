package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/viewtube/backend/internal/db"
	"github.com/viewtube/backend/internal/models"
)

// VideoSort lists the caller-facing sort fields accepted by video listings.
var VideoSort = SortColumns{
	"createdAt": "created_at",
	"views":     "views",
	"duration":  "duration_seconds",
	"title":     "title",
}

// VideoFilter narrows and orders a video listing.
type VideoFilter struct {
	ListOptions
	// Query is a case-insensitive title substring match; empty matches all.
	Query string
	// PublishedOnly hides unpublished videos from the listing.
	PublishedOnly bool
	// OwnerID restricts the listing to a single channel when set.
	OwnerID string
}

// PostgresVideoRepository provides PostgreSQL-backed persistence for videos.
type PostgresVideoRepository struct {
	pool db.Pool
}

// NewPostgresVideoRepository constructs a video repository backed by PostgreSQL.
func NewPostgresVideoRepository(pool db.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

// Create stores a new video record.
func (r *PostgresVideoRepository) Create(ctx context.Context, video models.Video) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO videos (id, owner_id, title, description, video_url, thumbnail_url, duration_seconds, views, is_published, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `, video.ID, video.OwnerID, video.Title, video.Description, video.VideoURL, video.ThumbnailURL,
		video.Duration, video.Views, video.IsPublished, video.CreatedAt, video.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgUniqueViolation:
				return ErrConflict
			case pgForeignKeyViolation:
				return ErrNotFound
			}
		}
		return fmt.Errorf("insert video: %w", err)
	}

	return nil
}

// FindByID fetches a single video with its owner profile.
func (r *PostgresVideoRepository) FindByID(ctx context.Context, id string) (models.Video, error) {
	if !validUUID(id) {
		return models.Video{}, ErrNotFound
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Video{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT v.id, v.owner_id, v.title, v.description, v.video_url, v.thumbnail_url,
               v.duration_seconds, v.views, v.is_published, v.created_at, v.updated_at,
               o.id, o.username, o.full_name, o.avatar_url
        FROM videos v
        JOIN users o ON o.id = v.owner_id
        WHERE v.id = $1
    `, id)

	video, err := scanVideoWithOwner(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Video{}, ErrNotFound
		}
		return models.Video{}, fmt.Errorf("select video: %w", err)
	}
	return video, nil
}

// List returns one page of videos matching the filter, each joined with its
// owner profile, plus the total count for the same filter.
func (r *PostgresVideoRepository) List(ctx context.Context, filter VideoFilter) (Page[models.Video], error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return Page[models.Video]{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	// owner_id is compared as text: $3 is already typed text by the empty-string
	// check, and uuid = text has no operator. A filter value that is not a
	// uuid simply matches nothing.
	where := `WHERE ($1 = '' OR v.title ILIKE '%' || $1 || '%')
          AND (NOT $2 OR v.is_published)
          AND ($3 = '' OR v.owner_id::text = $3)`

	var total int64
	err = conn.QueryRow(ctx, `SELECT COUNT(*) FROM videos v `+where,
		filter.Query, filter.PublishedOnly, filter.OwnerID).Scan(&total)
	if err != nil {
		return Page[models.Video]{}, fmt.Errorf("count videos: %w", err)
	}

	rows, err := conn.Query(ctx, `
        SELECT v.id, v.owner_id, v.title, v.description, v.video_url, v.thumbnail_url,
               v.duration_seconds, v.views, v.is_published, v.created_at, v.updated_at,
               o.id, o.username, o.full_name, o.avatar_url
        FROM videos v
        JOIN users o ON o.id = v.owner_id
        `+where+`
        `+orderClause(filter.ListOptions)+`
        LIMIT $4 OFFSET $5
    `, filter.Query, filter.PublishedOnly, filter.OwnerID, filter.Limit, filter.Offset())
	if err != nil {
		return Page[models.Video]{}, fmt.Errorf("query videos: %w", err)
	}
	defer rows.Close()

	var videos []models.Video
	for rows.Next() {
		video, err := scanVideoWithOwner(rows)
		if err != nil {
			return Page[models.Video]{}, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, video)
	}
	if err := rows.Err(); err != nil {
		return Page[models.Video]{}, fmt.Errorf("iterate videos: %w", err)
	}

	return NewPage(videos, total, filter.ListOptions), nil
}

// Update applies a partial metadata update; blank fields are left unchanged.
func (r *PostgresVideoRepository) Update(ctx context.Context, id, title, description, thumbnailURL string) (models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Video{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE videos
        SET title = COALESCE(NULLIF($2, ''), title),
            description = COALESCE(NULLIF($3, ''), description),
            thumbnail_url = COALESCE(NULLIF($4, ''), thumbnail_url),
            updated_at = now()
        WHERE id = $1
    `, id, title, description, thumbnailURL)
	if err != nil {
		return models.Video{}, fmt.Errorf("update video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.Video{}, ErrNotFound
	}

	return r.FindByID(ctx, id)
}

// SetPublished persists the publish flag.
func (r *PostgresVideoRepository) SetPublished(ctx context.Context, id string, published bool) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE videos SET is_published = $2, updated_at = now() WHERE id = $1
    `, id, published)
	if err != nil {
		return fmt.Errorf("update publish flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementViews bumps the view counter by one.
func (r *PostgresVideoRepository) IncrementViews(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `UPDATE videos SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a video; dependent comments, likes, and watch entries go
// with it via ON DELETE CASCADE.
func (r *PostgresVideoRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanVideoWithOwner(row pgx.Row) (models.Video, error) {
	var (
		video models.Video
		owner models.OwnerProfile
	)
	err := row.Scan(
		&video.ID, &video.OwnerID, &video.Title, &video.Description,
		&video.VideoURL, &video.ThumbnailURL, &video.Duration, &video.Views,
		&video.IsPublished, &video.CreatedAt, &video.UpdatedAt,
		&owner.ID, &owner.Username, &owner.FullName, &owner.AvatarURL,
	)
	if err != nil {
		return models.Video{}, err
	}
	video.Owner = &owner
	return video, nil
}
