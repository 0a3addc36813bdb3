package postgres

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/kkadvisory/member-portal-service/internal/repositories"
)

// handleDBError maps gorm errors onto repository sentinels, wrapping the
// original for context.
func handleDBError(err error, operation string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", operation, repositories.ErrNotFound)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key") {
		return fmt.Errorf("%s: %w", operation, repositories.ErrDuplicateKey)
	}
	return fmt.Errorf("%s: %w", operation, err)
}

// applyPagination applies limit/offset with sane defaults and a hard cap.
func applyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return query.Limit(limit).Offset(offset)
}
