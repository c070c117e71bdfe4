package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/civil"
	"github.com/labstack/echo/v4"

	"golang-sentiment-scryper/internal/analyzer/dto"
	"golang-sentiment-scryper/internal/analyzer/service"
	"golang-sentiment-scryper/internal/entity"
	"golang-sentiment-scryper/internal/sentiment"
	"golang-sentiment-scryper/pkg/common"
	"golang-sentiment-scryper/pkg/export"
	"golang-sentiment-scryper/pkg/logger"
	"golang-sentiment-scryper/pkg/utils"
)

// SentimentHandler handles HTTP requests for the sentiment session.
type SentimentHandler struct {
	sentimentService service.SentimentService
	logger           *logger.Logger
	loc              *time.Location
	defaultStart     civil.Date
}

// NewSentimentHandler creates a new SentimentHandler. Date ranges default to
// defaultStart through today in loc.
func NewSentimentHandler(sentimentService service.SentimentService, logger *logger.Logger, loc *time.Location, defaultStart civil.Date) *SentimentHandler {
	return &SentimentHandler{
		sentimentService: sentimentService,
		logger:           logger,
		loc:              loc,
		defaultStart:     defaultStart,
	}
}

// RegisterRoutes registers the sentiment routes to the Echo group.
func (h *SentimentHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/authors", h.AddAuthor)
	g.GET("/authors", h.GetAuthors)
	g.GET("/sentiment/series", h.GetSeries)
	g.GET("/sentiment/distribution", h.GetDistribution)
	g.GET("/sentiment/regimes", h.GetRegimes)
	g.GET("/sentiment/export", h.ExportCSV)
	g.GET("/prices", h.GetPrices)
	g.GET("/dashboard", h.GetDashboard)
}

// AddAuthor godoc
// @Summary Track an author
// @Description Fetch, score and add an author's posts to the session
// @Tags authors
// @Accept  json
// @Produce  json
// @Param   author  body    dto.AddAuthorRequest   true    "Author handle"
// @Success 201 {object} dto.AddAuthorResult
// @Success 200 {object} dto.AddAuthorResult
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /authors [post]
func (h *SentimentHandler) AddAuthor(c echo.Context) error {
	var req dto.AddAuthorRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	result, err := h.sentimentService.AddAuthor(c.Request().Context(), req.Handle)
	if err != nil {
		return c.JSON(statusFor(err), dto.ErrorResponse{Error: err.Error()})
	}

	if result.Added {
		return c.JSON(http.StatusCreated, result)
	}
	return c.JSON(http.StatusOK, result)
}

// GetAuthors godoc
// @Summary List tracked authors
// @Tags authors
// @Produce  json
// @Success 200 {array} dto.AuthorResponse
// @Router /authors [get]
func (h *SentimentHandler) GetAuthors(c echo.Context) error {
	authors := h.sentimentService.Authors()
	resp := make([]dto.AuthorResponse, 0, len(authors))
	for _, a := range authors {
		resp = append(resp, dto.NewAuthorResponse(a))
	}
	return c.JSON(http.StatusOK, resp)
}

// GetSeries godoc
// @Summary Get the sentiment time series
// @Tags sentiment
// @Produce  json
// @Param   start  query  string  false  "Start date (YYYY-MM-DD)"
// @Param   end    query  string  false  "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.SeriesResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /sentiment/series [get]
func (h *SentimentHandler) GetSeries(c echo.Context) error {
	start, end, err := h.dateRange(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}

	series, err := h.sentimentService.Series(start, end)
	if err != nil {
		return c.JSON(statusFor(err), dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto.NewSeriesResponse(series, start, end))
}

// GetDistribution godoc
// @Summary Get the Overall label distribution
// @Tags sentiment
// @Produce  json
// @Success 200 {object} dto.DistributionResponse
// @Router /sentiment/distribution [get]
func (h *SentimentHandler) GetDistribution(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.NewDistributionResponse(h.sentimentService.Distribution()))
}

// GetRegimes godoc
// @Summary Get the sentiment regime bands
// @Tags sentiment
// @Produce  json
// @Success 200 {array} entity.Regime
// @Router /sentiment/regimes [get]
func (h *SentimentHandler) GetRegimes(c echo.Context) error {
	return c.JSON(http.StatusOK, sentiment.Regimes())
}

// ExportCSV godoc
// @Summary Download scored posts as CSV
// @Tags sentiment
// @Produce  text/csv
// @Success 200 {file} file
// @Router /sentiment/export [get]
func (h *SentimentHandler) ExportCSV(c echo.Context) error {
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, h.sentimentService.ExportRows()); err != nil {
		h.logger.ErrorContext(c.Request().Context(), "Failed to write export", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to write export"})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", common.ExportFileName))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// GetPrices godoc
// @Summary Get daily closes of the tracked asset
// @Tags prices
// @Produce  json
// @Param   start  query  string  false  "Start date (YYYY-MM-DD)"
// @Param   end    query  string  false  "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.PriceResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /prices [get]
func (h *SentimentHandler) GetPrices(c echo.Context) error {
	start, end, err := h.dateRange(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}

	prices, err := h.sentimentService.Prices(c.Request().Context(), start, end)
	if err != nil {
		return c.JSON(statusFor(err), dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto.PriceResponse{Start: start, End: end, Prices: prices})
}

// GetDashboard godoc
// @Summary Get everything the dashboard renders
// @Tags dashboard
// @Produce  json
// @Param   start  query  string  false  "Start date (YYYY-MM-DD)"
// @Param   end    query  string  false  "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.DashboardResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /dashboard [get]
func (h *SentimentHandler) GetDashboard(c echo.Context) error {
	start, end, err := h.dateRange(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}

	resp, err := h.sentimentService.Dashboard(c.Request().Context(), start, end)
	if err != nil {
		return c.JSON(statusFor(err), dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *SentimentHandler) dateRange(c echo.Context) (civil.Date, civil.Date, error) {
	start, err := utils.ParseDate(c.QueryParam("start"), h.defaultStart)
	if err != nil {
		return civil.Date{}, civil.Date{}, err
	}
	end, err := utils.ParseDate(c.QueryParam("end"), utils.Today(h.loc))
	if err != nil {
		return civil.Date{}, civil.Date{}, err
	}
	if start.After(end) {
		return civil.Date{}, civil.Date{}, fmt.Errorf("%w: start %s is after end %s", entity.ErrInvalidDateRange, start, end)
	}
	return start, end, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrInvalidHandle), errors.Is(err, entity.ErrInvalidDateRange):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrSymbolNotFound):
		return http.StatusNotFound
	default:
		// Anything else came from a post or price source.
		return http.StatusBadGateway
	}
}
