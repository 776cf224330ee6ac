// Package storage provides persistence for the paper corpus and user feedback.
package storage

import (
	"context"

	"github.com/hyperjump/scholar/internal/models"
)

// FeedbackStore persists feedback entries.
type FeedbackStore interface {
	SaveFeedback(ctx context.Context, fb *models.Feedback) error
	GetFeedback(ctx context.Context, id string) (*models.Feedback, error)
	ListFeedback(ctx context.Context, offset, limit int) ([]*models.Feedback, error)
	CountFeedback(ctx context.Context) (int64, error)
	Close() error
}
