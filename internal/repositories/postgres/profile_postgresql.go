package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kkadvisory/member-portal-service/internal/models"
	"github.com/kkadvisory/member-portal-service/internal/repositories"
)

type profileRepository struct {
	db *gorm.DB
}

func NewProfilePostgreSQL(db *gorm.DB) repositories.ProfileRepository {
	return &profileRepository{db: db}
}

// ===== BASIC CRUD OPERATIONS =====

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return handleDBError(err, "create profile")
	}
	return nil
}

// Upsert overwrites an existing row keyed on id (last write wins). Used by
// the invitation issuer's eager write, where a concurrent invite for the same
// identity is resolved in favor of the later call.
func (r *profileRepository) Upsert(ctx context.Context, profile *models.Profile) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(profile).Error
	if err != nil {
		return handleDBError(err, "upsert profile")
	}
	return nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		return handleDBError(err, "update profile")
	}
	return nil
}

// ===== QUERY OPERATIONS =====

func (r *profileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, handleDBError(err, "get profile by id")
	}
	return &profile, nil
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "email = ?", email).Error; err != nil {
		return nil, handleDBError(err, "get profile by email")
	}
	return &profile, nil
}

func (r *profileRepository) List(ctx context.Context, filters repositories.ProfileFilters) ([]*models.Profile, int64, error) {
	var profiles []*models.Profile
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Profile{})

	if filters.Query != "" {
		pattern := "%" + filters.Query + "%"
		query = query.Where("full_name ILIKE ? OR email ILIKE ?", pattern, pattern)
	}
	if filters.IsAdmin != nil {
		query = query.Where("is_admin = ?", *filters.IsAdmin)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count profiles")
	}

	query = applyPagination(query, filters.Limit, filters.Offset)
	if err := query.Order("full_name ASC").Find(&profiles).Error; err != nil {
		return nil, 0, handleDBError(err, "list profiles")
	}

	return profiles, total, nil
}

// ===== VALIDATION AND CHECKS =====

func (r *profileRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, handleDBError(err, "check profile existence by id")
	}
	return count > 0, nil
}

func (r *profileRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("email = ?", email).
		Count(&count).Error
	if err != nil {
		return false, handleDBError(err, "check profile existence by email")
	}
	return count > 0, nil
}

func (r *profileRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Profile{}).Count(&count).Error; err != nil {
		return 0, handleDBError(err, "count profiles")
	}
	return count, nil
}
