package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/rotorops/fleetboard/internal/db"
	"github.com/rotorops/fleetboard/internal/duesheet"
	"github.com/rotorops/fleetboard/internal/models"
	"github.com/rotorops/fleetboard/internal/service"
)

// Handler owns the HTTP surface. Archive is nil when no database is
// configured, in which case the run endpoints answer 503.
type Handler struct {
	Refresher *service.Refresher
	Archive   *db.Store
	Logger    zerolog.Logger
}

// AircraftSummary is the list view of one airframe.
type AircraftSummary struct {
	Tail          string   `json:"tail"`
	AirframeHours *float64 `json:"airframe_hours"`
	ReportDate    *string  `json:"report_date"`
	Items         int      `json:"items"`
	Overdue       int      `json:"overdue"`
	Critical      int      `json:"critical"`
	ComingDue     int      `json:"coming_due"`
	AvgDaily      *float64 `json:"avg_daily"`
}

// @Summary Service health
// @Tags ops
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 503 {object} map[string]any
// @Router /healthz [get]
func (h *Handler) Healthz(c *gin.Context) {
	if h.Archive != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := h.Archive.Ping(ctx); err != nil {
			writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
			return
		}
	}
	status := gin.H{"status": "ok"}
	if builtAt, ok := h.Refresher.BuiltAt(); ok {
		status["report_built_at"] = builtAt.UTC().Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, status)
}

// @Summary Full dashboard report
// @Description The same payload the build writes to disk
// @Tags report
// @Produce json
// @Success 200 {object} models.Report
// @Failure 503 {object} map[string]any
// @Router /api/dashboard [get]
func (h *Handler) Dashboard(c *gin.Context) {
	rep, ok := h.currentReport(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rep)
}

// @Summary List aircraft with due item counts
// @Tags aircraft
// @Produce json
// @Success 200 {array} AircraftSummary
// @Failure 503 {object} map[string]any
// @Router /api/aircraft [get]
func (h *Handler) AircraftList(c *gin.Context) {
	rep, ok := h.currentReport(c)
	if !ok {
		return
	}
	out := make([]AircraftSummary, 0, len(rep.Aircraft))
	for _, a := range rep.Aircraft {
		out = append(out, summarize(a))
	}
	c.JSON(http.StatusOK, out)
}

// @Summary One aircraft's full block
// @Tags aircraft
// @Produce json
// @Param tail path string true "Registration number"
// @Success 200 {object} models.Aircraft
// @Failure 404 {object} map[string]any
// @Failure 503 {object} map[string]any
// @Router /api/aircraft/{tail} [get]
func (h *Handler) AircraftDetails(c *gin.Context) {
	rep, ok := h.currentReport(c)
	if !ok {
		return
	}
	tail := c.Param("tail")
	for i := range rep.Aircraft {
		if strings.EqualFold(rep.Aircraft[i].Tail, tail) {
			c.JSON(http.StatusOK, rep.Aircraft[i])
			return
		}
	}
	writeError(c, http.StatusNotFound, "NOT_FOUND", "Unknown aircraft", tail)
}

// @Summary Archived utilization trend for one aircraft
// @Tags aircraft
// @Produce json
// @Param tail path string true "Registration number"
// @Param limit query int false "Max points, newest runs"
// @Success 200 {array} db.TrendPoint
// @Failure 503 {object} map[string]any
// @Router /api/aircraft/{tail}/trend [get]
func (h *Handler) AircraftTrend(c *gin.Context) {
	if !h.requireArchive(c) {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	points, err := h.Archive.UtilizationTrend(c.Request.Context(), c.Param("tail"), limit)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load trend", err.Error())
		return
	}
	if points == nil {
		points = []db.TrendPoint{}
	}
	c.JSON(http.StatusOK, points)
}

// @Summary Components inside the watch window
// @Tags report
// @Produce json
// @Success 200 {array} models.Component
// @Failure 503 {object} map[string]any
// @Router /api/components [get]
func (h *Handler) Components(c *gin.Context) {
	rep, ok := h.currentReport(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rep.Components)
}

// @Summary Printable due sheet
// @Tags report
// @Produce application/pdf
// @Success 200 {file} binary
// @Failure 503 {object} map[string]any
// @Router /api/due-sheet [get]
func (h *Handler) DueSheet(c *gin.Context) {
	rep, ok := h.currentReport(c)
	if !ok {
		return
	}
	raw, err := duesheet.Render(rep)
	if err != nil {
		h.Logger.Error().Err(err).Msg("due sheet render failed")
		writeError(c, http.StatusInternalServerError, "RENDER_FAILED", "Failed to render due sheet", err.Error())
		return
	}
	c.Header("Content-Disposition", `attachment; filename="due_sheet.pdf"`)
	c.Data(http.StatusOK, "application/pdf", raw)
}

// @Summary Run the ingest and rebuild the report
// @Tags ops
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /api/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	rep, err := h.Refresher.Refresh(c.Request.Context())
	if err != nil {
		h.Logger.Error().Err(err).Msg("manual refresh failed")
		writeError(c, http.StatusInternalServerError, "BUILD_FAILED", "Report build failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"run_id":         rep.Meta.RunID,
		"aircraft_count": rep.Meta.AircraftCount,
		"generated_utc":  rep.Meta.GeneratedUTC,
	})
}

// @Summary Latest archived run with its full report
// @Tags runs
// @Produce json
// @Success 200 {object} models.RunRecord
// @Failure 404 {object} map[string]any
// @Failure 503 {object} map[string]any
// @Router /api/runs/latest [get]
func (h *Handler) RunsLatest(c *gin.Context) {
	if !h.requireArchive(c) {
		return
	}
	run, err := h.Archive.LatestRun(c.Request.Context())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "No runs archived yet", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load latest run", err.Error())
		return
	}
	c.JSON(http.StatusOK, run)
}

// @Summary List archived runs, newest first
// @Tags runs
// @Produce json
// @Param limit query int false "Max runs"
// @Success 200 {array} models.RunRecord
// @Failure 503 {object} map[string]any
// @Router /api/runs [get]
func (h *Handler) RunsList(c *gin.Context) {
	if !h.requireArchive(c) {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	runs, err := h.Archive.ListRuns(c.Request.Context(), limit)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list runs", err.Error())
		return
	}
	if runs == nil {
		runs = []models.RunRecord{}
	}
	c.JSON(http.StatusOK, runs)
}

func (h *Handler) currentReport(c *gin.Context) (*models.Report, bool) {
	rep, err := h.Refresher.Current()
	if err != nil {
		writeError(c, http.StatusServiceUnavailable, "REPORT_NOT_READY", "No report has been built yet", nil)
		return nil, false
	}
	return rep, true
}

func (h *Handler) requireArchive(c *gin.Context) bool {
	if h.Archive == nil {
		writeError(c, http.StatusServiceUnavailable, "ARCHIVE_DISABLED", "Run archive is not configured", nil)
		return false
	}
	return true
}

func summarize(a models.Aircraft) AircraftSummary {
	s := AircraftSummary{
		Tail:          a.Tail,
		AirframeHours: a.AirframeHours,
		ReportDate:    a.AirframeReportDate,
		Items:         len(a.Items),
		AvgDaily:      a.AvgDaily,
	}
	for _, it := range a.Items {
		switch it.Status {
		case models.UrgencyOverdue:
			s.Overdue++
		case models.UrgencyCritical:
			s.Critical++
		case models.UrgencyComingDue:
			s.ComingDue++
		}
	}
	return s
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
