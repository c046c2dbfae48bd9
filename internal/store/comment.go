package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/Shegzy-Dev/Music-Player-Backend/types"
)

// CommentRepository handles the append-only comment log.
type CommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment types.Comment) (types.Comment, error) {
	comment.CreatedAt = time.Now()

	const query = `
		INSERT INTO comments (song_id, user_id, body, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		comment.SongID,
		comment.UserID,
		comment.Text,
		comment.CreatedAt,
	).Scan(&comment.ID); err != nil {
		if isForeignKeyViolation(err) {
			return types.Comment{}, ErrNotFound
		}
		return types.Comment{}, err
	}
	return comment, nil
}

func (r *CommentRepository) ListBySong(ctx context.Context, songID int64) ([]types.Comment, error) {
	const query = `
		SELECT id, song_id, user_id, body, created_at
		FROM comments
		WHERE song_id = $1
		ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, songID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]types.Comment, 0)
	for rows.Next() {
		var comment types.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.SongID,
			&comment.UserID,
			&comment.Text,
			&comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}
