package handler

import (
	"time"

	appmetrics "github.com/billingkit/backend/internal/application/metrics"
	"github.com/billingkit/backend/internal/domain/metrics"
	"github.com/gin-gonic/gin"
)

// MetricHandler serves aggregated metric series
type MetricHandler struct {
	BaseHandler
	service *appmetrics.Service
}

// NewMetricHandler creates a new MetricHandler
func NewMetricHandler(service *appmetrics.Service) *MetricHandler {
	return &MetricHandler{service: service}
}

// RegisterRoutes registers metric routes
func (h *MetricHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/metrics/:name/series", h.Series)
}

// SeriesQuery selects a window and a rollup over one metric
type SeriesQuery struct {
	From        string `form:"from" binding:"required"`
	To          string `form:"to" binding:"required"`
	Granularity string `form:"granularity"`
	Aggregate   string `form:"aggregate"`
}

// SeriesResponse is one rolled-up metric series
type SeriesResponse struct {
	Metric      string                `json:"metric"`
	Granularity string                `json:"granularity"`
	Aggregate   string                `json:"aggregate"`
	Points      []metrics.SeriesPoint `json:"points"`
}

// Series returns the named metric rolled up over a time window
func (h *MetricHandler) Series(c *gin.Context) {
	name := c.Param("name")

	var query SeriesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	from, err := parseTime(query.From)
	if err != nil {
		h.BadRequest(c, "Invalid from time")
		return
	}
	to, err := parseTime(query.To)
	if err != nil {
		h.BadRequest(c, "Invalid to time")
		return
	}

	granularity := metrics.GranularityDay
	if query.Granularity != "" {
		granularity = metrics.Granularity(query.Granularity)
		if !granularity.IsValid() {
			h.BadRequest(c, "Unknown granularity")
			return
		}
	}

	aggregate := metrics.AggregateLastValue
	if query.Aggregate != "" {
		aggregate = metrics.Aggregate(query.Aggregate)
		if !aggregate.IsValid() {
			h.BadRequest(c, "Unknown aggregate")
			return
		}
	}

	points, err := h.service.Series(c.Request.Context(), name, from, to, granularity, aggregate)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, SeriesResponse{
		Metric:      name,
		Granularity: string(granularity),
		Aggregate:   string(aggregate),
		Points:      points,
	})
}

// parseTime accepts RFC 3339 timestamps or bare dates
func parseTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
