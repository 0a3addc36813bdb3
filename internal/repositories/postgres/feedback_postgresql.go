package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/kkadvisory/member-portal-service/internal/models"
	"github.com/kkadvisory/member-portal-service/internal/repositories"
)

type feedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackPostgreSQL(db *gorm.DB) repositories.FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	if err := r.db.WithContext(ctx).Create(feedback).Error; err != nil {
		return handleDBError(err, "create feedback")
	}
	return nil
}

func (r *feedbackRepository) GetByID(ctx context.Context, id uint) (*models.Feedback, error) {
	var feedback models.Feedback
	err := r.db.WithContext(ctx).
		Preload("Author").
		First(&feedback, id).Error
	if err != nil {
		return nil, handleDBError(err, "get feedback by id")
	}
	return &feedback, nil
}

func (r *feedbackRepository) List(ctx context.Context, filters repositories.FeedbackFilters) ([]*models.Feedback, int64, error) {
	var items []*models.Feedback
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Feedback{})

	if filters.AuthorID != nil {
		query = query.Where("author_id = ?", *filters.AuthorID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count feedback")
	}

	query = applyPagination(query, filters.Limit, filters.Offset)
	err := query.Preload("Author").
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, 0, handleDBError(err, "list feedback")
	}

	return items, total, nil
}
