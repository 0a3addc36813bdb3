package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kkadvisory/member-portal-service/internal/models"
	"github.com/kkadvisory/member-portal-service/internal/repositories"
)

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

const rosterSheet = "Members"

// ExportRoster builds the member directory workbook. Returns the file bytes
// and a dated filename.
func (s *exportService) ExportRoster(ctx context.Context) ([]byte, string, error) {
	profiles, err := s.fetchAllProfiles(ctx)
	if err != nil {
		return nil, "", err
	}

	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", rosterSheet); err != nil {
		return nil, "", fmt.Errorf("failed to rename sheet: %w", err)
	}

	headers := []string{"Full Name", "Email", "Role", "Admin", "Expertise", "Joined"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(rosterSheet, cell, header); err != nil {
			return nil, "", fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, profile := range profiles {
		values := []any{
			profile.FullName,
			profile.Email,
			profile.DisplayRole(),
			profile.IsAdmin,
			strings.Join(profile.Expertise, ", "),
			profile.CreatedAt.Format("2006-01-02"),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := file.SetCellValue(rosterSheet, cell, value); err != nil {
				return nil, "", fmt.Errorf("failed to write roster row: %w", err)
			}
		}
	}

	buffer, err := file.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to serialize workbook: %w", err)
	}

	filename := fmt.Sprintf("member-roster-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	return buffer.Bytes(), filename, nil
}

// fetchAllProfiles pages through the directory; the repository caps a single
// page at 100 rows.
func (s *exportService) fetchAllProfiles(ctx context.Context) ([]*models.Profile, error) {
	const pageSize = 100
	var all []*models.Profile

	for offset := 0; ; offset += pageSize {
		page, total, err := s.repo.Profile().List(ctx, repositories.ProfileFilters{
			Limit:  pageSize,
			Offset: offset,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch profiles for export: %w", err)
		}

		all = append(all, page...)
		if int64(len(all)) >= total || len(page) == 0 {
			break
		}
	}

	return all, nil
}
