package ginserver

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"rentdesk/internal/app/dto"
	"rentdesk/internal/app/handlers/reports"
	"rentdesk/internal/app/queries"
	"rentdesk/internal/infra/export"
)

type ReportHandler struct {
	Queries queries.Bus
	Logger  *slog.Logger
}

func (h ReportHandler) Summary(c *gin.Context) {
	from, to, ok := h.period(c)
	if !ok {
		return
	}
	result, err := queries.Ask[reports.SummaryQuery, dto.Report](c.Request.Context(), h.Queries, reports.SummaryQuery{From: from, To: to})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Export renders the report as ?format=xlsx (default) or csv.
func (h ReportHandler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	from, to, ok := h.period(c)
	if !ok {
		return
	}
	data, err := queries.Ask[reports.ExportQuery, dto.ReportExport](c.Request.Context(), h.Queries, reports.ExportQuery{From: from, To: to})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	body, err := export.Render(format, data)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename(data.Report)))
	c.Data(http.StatusOK, format.ContentType(), body)
}

func (h ReportHandler) period(c *gin.Context) (from, to time.Time, ok bool) {
	var err error
	if from, err = requiredDate(c, "from"); err == nil {
		to, err = requiredDate(c, "to")
	}
	if err != nil {
		respondError(c, h.Logger, err)
		return from, to, false
	}
	return from, to, true
}

var _ ReportHTTP = ReportHandler{}
