package api

import (
	"strings"
	"time"

	"CryptoRadar/internal/domain/models"
	drepo "CryptoRadar/internal/domain/repository"
	"CryptoRadar/internal/usecase"
	xhttp "CryptoRadar/pkg/http"
	xlogger "CryptoRadar/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Handler exposes the signals, chart and markets endpoints over Echo.
type Handler struct {
	logger    *xlogger.Logger
	scheduler *usecase.Scheduler
	chart     *usecase.ChartService
	provider  drepo.MarketDataProvider
}

func NewHandler(logger *xlogger.Logger, scheduler *usecase.Scheduler, chart *usecase.ChartService, provider drepo.MarketDataProvider) *Handler {
	return &Handler{logger: logger, scheduler: scheduler, chart: chart, provider: provider}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/signals", h.Signals)
	g.GET("/chart", h.Chart)
	g.GET("/markets", h.Markets)
}

// signalsPayload wraps the ranked list with its cycle timestamp.
type signalsPayload struct {
	GeneratedAt string          `json:"generatedAt"`
	Count       int             `json:"count"`
	Signals     []models.Signal `json:"signals"`
}

// Signals serves the latest ranked list, optionally narrowed by the caller's
// limit and confidence floor. The list is precomputed per cycle; this
// endpoint never triggers evaluation.
func (h *Handler) Signals(c echo.Context) error {
	req := &models.SignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	signals, lastRun := h.scheduler.Latest()

	filtered := make([]models.Signal, 0, len(signals))
	for _, sig := range signals {
		if sig.Confidence < req.MinConfidence {
			continue
		}
		filtered = append(filtered, sig)
		if len(filtered) == req.Limit {
			break
		}
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=30")
	return xhttp.SuccessResponse(c, signalsPayload{
		GeneratedAt: lastRun.UTC().Format(time.RFC3339),
		Count:       len(filtered),
		Signals:     filtered,
	})
}

// Chart serves the raw price series plus indicator overlays for one asset.
func (h *Handler) Chart(c echo.Context) error {
	req := &models.ChartRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	series, err := h.chart.GetChart(c.Request().Context(), strings.ToLower(req.ID), req.Days)
	if err != nil {
		h.logger.Error("chart usecase error", xlogger.String("asset", req.ID), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, series)
}

// Markets serves the current asset universe as the provider sees it.
func (h *Handler) Markets(c echo.Context) error {
	assets, err := h.provider.ListAssets(c.Request().Context())
	if err != nil {
		h.logger.Error("markets provider error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, assets, int64(len(assets)))
}
