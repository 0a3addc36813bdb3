package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kkadvisory/member-portal-service/internal/services"
	"github.com/kkadvisory/member-portal-service/internal/utils"
)

type AdminHandler struct {
	BaseHandler
	exportService services.ExportService
}

func NewAdminHandler(exportService services.ExportService, logger utils.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler:   NewBaseHandler(logger),
		exportService: exportService,
	}
}

// ===== ADMIN ENDPOINTS =====

// ExportRoster downloads the member roster as an Excel workbook
// @Summary Export member roster
// @Description Download the full member directory as an .xlsx workbook (administrators only)
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary "Roster workbook"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /admin/roster/export [get]
func (h *AdminHandler) ExportRoster(c *gin.Context) {
	h.LogRequest(c, "Exporting member roster")

	content, filename, err := h.exportService.ExportRoster(c.Request.Context())
	if err != nil {
		h.LogError(c, err, "Failed to export roster")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to export roster",
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}
