package services

import (
	"context"

	"github.com/Shegzy-Dev/Music-Player-Backend/types"
)

// CommentRepository defines persistence operations for the comment log.
type CommentRepository interface {
	Create(ctx context.Context, comment types.Comment) (types.Comment, error)
	ListBySong(ctx context.Context, songID int64) ([]types.Comment, error)
}

// CommentService encapsulates the append-only comment log.
type CommentService struct {
	repo CommentRepository
}

func NewCommentService(repo CommentRepository) *CommentService {
	return &CommentService{repo: repo}
}

func (s *CommentService) Append(ctx context.Context, comment types.Comment) (types.Comment, error) {
	return s.repo.Create(ctx, comment)
}

func (s *CommentService) ListBySong(ctx context.Context, songID int64) ([]types.Comment, error) {
	return s.repo.ListBySong(ctx, songID)
}
