package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/bizbooks/bizbooks_backend/internal/core/ports/services"
	"github.com/bizbooks/bizbooks_backend/internal/dto"
	"github.com/bizbooks/bizbooks_backend/internal/middleware"
	"github.com/bizbooks/bizbooks_backend/internal/utils/export"
	"github.com/gin-gonic/gin"
)

// reportHandler handles HTTP requests for financial reports.
type reportHandler struct {
	reportingService portssvc.ReportingService
}

func newReportHandler(rs portssvc.ReportingService) *reportHandler {
	return &reportHandler{reportingService: rs}
}

// registerReportRoutes registers routes related to reports.
func registerReportRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.trialBalance)
		reports.GET("/trial-balance/export", h.exportTrialBalance)
		reports.GET("/reconciliation-summary", h.reconciliationSummary)
	}
}

// trialBalance godoc
// @Summary Trial balance report
// @Description Returns per-account debit/credit totals over posted journals as of a date (defaults to today)
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportHandler) trialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asOf, ok := h.bindAsOf(c, logger)
	if !ok {
		return
	}

	resp, err := h.reportingService.TrialBalance(c.Request.Context(), asOf)
	if err != nil {
		logger.Error("Failed to generate trial balance", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// exportTrialBalance godoc
// @Summary Export trial balance as CSV
// @Description Streams the trial balance report as a CSV download
// @Tags reports
// @Produce text/csv
// @Param asOf query string false "Report date (YYYY-MM-DD)"
// @Success 200 {string} string "CSV content"
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/trial-balance/export [get]
func (h *reportHandler) exportTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asOf, ok := h.bindAsOf(c, logger)
	if !ok {
		return
	}

	resp, err := h.reportingService.TrialBalance(c.Request.Context(), asOf)
	if err != nil {
		logger.Error("Failed to generate trial balance for export", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
		return
	}

	rows := make([][]string, 0, len(resp.Rows)+1)
	for _, row := range resp.Rows {
		rows = append(rows, []string{
			row.AccountID,
			row.AccountName,
			string(row.AccountType),
			row.Debit.StringFixed(2),
			row.Credit.StringFixed(2),
		})
	}
	rows = append(rows, []string{
		"", "TOTAL", "",
		resp.TotalDebits.StringFixed(2),
		resp.TotalCredits.StringFixed(2),
	})

	filename := fmt.Sprintf("trial-balance-%s.csv", asOf.Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", export.ContentDisposition(filename))

	header := []string{"Account ID", "Account Name", "Account Type", "Debit", "Credit"}
	if err := export.WriteCSV(c.Writer, header, rows); err != nil {
		logger.Error("Failed to write CSV export", slog.String("error", err.Error()))
	}
}

// reconciliationSummary godoc
// @Summary Reconciliation summary report
// @Description Returns, per bank account, the book balance and the count and net total of unreconciled transactions
// @Tags reports
// @Produce json
// @Success 200 {object} dto.ReconciliationSummaryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/reconciliation-summary [get]
func (h *reportHandler) reconciliationSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	resp, err := h.reportingService.ReconciliationSummary(c.Request.Context())
	if err != nil {
		logger.Error("Failed to generate reconciliation summary", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// bindAsOf parses the optional asOf query param, defaulting to now.
func (h *reportHandler) bindAsOf(c *gin.Context, logger *slog.Logger) (time.Time, bool) {
	var params dto.TrialBalanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for TrialBalance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return time.Time{}, false
	}
	if params.AsOf != nil {
		return *params.AsOf, true
	}
	return time.Now().UTC(), true
}
