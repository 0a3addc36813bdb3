package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/kkadvisory/member-portal-service/internal/cache"
	"github.com/kkadvisory/member-portal-service/internal/models"
	"github.com/kkadvisory/member-portal-service/internal/repositories"
)

type quickLinkRepository struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewQuickLinkPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.QuickLinkRepository {
	return &quickLinkRepository{db: db, cacheManager: cacheManager}
}

func (r *quickLinkRepository) Create(ctx context.Context, link *models.QuickLink) error {
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		return handleDBError(err, "create quick link")
	}
	r.cacheManager.InvalidateQuickLinks(ctx)
	return nil
}

func (r *quickLinkRepository) Update(ctx context.Context, link *models.QuickLink) error {
	if err := r.db.WithContext(ctx).Save(link).Error; err != nil {
		return handleDBError(err, "update quick link")
	}
	r.cacheManager.InvalidateQuickLinks(ctx)
	return nil
}

func (r *quickLinkRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.QuickLink{}, id)
	if result.Error != nil {
		return handleDBError(result.Error, "delete quick link")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "delete quick link")
	}
	r.cacheManager.InvalidateQuickLinks(ctx)
	return nil
}

func (r *quickLinkRepository) GetByID(ctx context.Context, id uint) (*models.QuickLink, error) {
	var link models.QuickLink
	if err := r.db.WithContext(ctx).First(&link, id).Error; err != nil {
		return nil, handleDBError(err, "get quick link by id")
	}
	return &link, nil
}

// List returns all dashboard links, served from cache when warm.
func (r *quickLinkRepository) List(ctx context.Context) ([]*models.QuickLink, error) {
	var links []*models.QuickLink

	err := r.cacheManager.QuickLink.CacheOrExecute(ctx, "list:all", &links, cache.QuickLinkCacheConfig.TTL, func() (interface{}, error) {
		var fresh []*models.QuickLink
		err := r.db.WithContext(ctx).
			Order("sort_order ASC, title ASC").
			Find(&fresh).Error
		if err != nil {
			return nil, err
		}
		return fresh, nil
	})
	if err != nil {
		return nil, handleDBError(err, "list quick links")
	}

	return links, nil
}
