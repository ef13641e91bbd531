package handler

import (
	"net/http"
	"strconv"

	"market-mood/internal/domain"
	"market-mood/internal/sentiment"
	"market-mood/internal/service"
	"market-mood/pkg/format"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetDashboard godoc
// @Summary      Get the full sentiment dashboard snapshot
// @Description  Returns the four window-filtered series, latest-value metrics, sentiment labels, and any fetch warnings
// @Tags         dashboard
// @Produce      json
// @Param        days  query  int  false  "Display window in days (7-180)"  default(180)
// @Success      200  {object}  map[string]interface{}
// @Router       /api/dashboard [get]
func (h *Handler) GetDashboard(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-dashboard")
	defer span.End()

	days := parseDays(c.DefaultQuery("days", ""))
	span.SetAttributes(attribute.Int("days", days))

	snapshot := h.dashboard.BuildSnapshot(ctx, days)

	metrics := gin.H{}
	if latest, ok := snapshot.SeriesFor(domain.KindPrice).Latest(); ok {
		metrics["bitcoin_price_eur"] = gin.H{
			"value":   latest.Value,
			"display": format.Thousands(latest.Value),
		}
	}
	if latest, ok := snapshot.SeriesFor(domain.KindEquity).Latest(); ok {
		metrics["equity_proxy_close"] = gin.H{
			"value":  latest.Value,
			"symbol": "VEA",
		}
	}
	if latest, ok := snapshot.SeriesFor(domain.KindVolatility).Latest(); ok {
		metrics["vix"] = gin.H{
			"value":      latest.Value,
			"label":      snapshot.VolLabel,
			"evaluation": sentiment.Describe[sentiment.Label(snapshot.VolLabel)],
		}
	}

	fearGreed := gin.H{
		"label":      snapshot.ScoreLabel,
		"evaluation": sentiment.Describe[sentiment.Label(snapshot.ScoreLabel)],
	}
	if snapshot.Score.OK {
		fearGreed["value"] = snapshot.Score.Value
	} else {
		fearGreed["value"] = "n/a"
	}
	if snapshot.DeltaOK {
		fearGreed["delta"] = format.SignedInt(snapshot.Delta)
	} else {
		fearGreed["delta"] = "n/a"
	}
	metrics["fear_greed"] = fearGreed

	series := gin.H{}
	for kind, result := range snapshot.Results {
		series[string(kind)] = result.Series
	}

	c.JSON(http.StatusOK, gin.H{
		"days":     snapshot.Days,
		"metrics":  metrics,
		"series":   series,
		"warnings": snapshot.Warnings,
	})
}

// GetSeries godoc
// @Summary      Get one window-filtered series
// @Description  Returns a single series by kind (price, volatility, equity, feargreed)
// @Tags         dashboard
// @Produce      json
// @Param        kind  path   string  true   "Series kind"
// @Param        days  query  int     false  "Display window in days (7-180)"  default(180)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /api/series/{kind} [get]
func (h *Handler) GetSeries(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-series")
	defer span.End()

	kind, err := domain.ParseKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":           err.Error(),
			"supported_kinds": domain.Kinds,
		})
		return
	}
	span.SetAttributes(attribute.String("kind", string(kind)))

	days := parseDays(c.DefaultQuery("days", ""))
	snapshot := h.dashboard.BuildSnapshot(ctx, days)
	result := snapshot.Results[kind]

	resp := gin.H{
		"kind":   kind,
		"days":   snapshot.Days,
		"series": result.Series,
	}
	if result.Failed() {
		resp["warning"] = result.Warning()
	}
	c.JSON(http.StatusOK, resp)
}

// GetAdvisor godoc
// @Summary      Get plain-language commentary on the current snapshot
// @Tags         advisor
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/advisor [get]
func (h *Handler) GetAdvisor(c *gin.Context) {
	if h.advisor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "advisor not configured"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-advisor")
	defer span.End()

	snapshot := h.dashboard.BuildSnapshot(ctx, service.DefaultDays)
	comment, err := h.advisor.Comment(ctx, snapshot)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

func parseDays(raw string) int {
	if raw == "" {
		return service.DefaultDays
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return service.DefaultDays
	}
	return service.ClampDays(n)
}
