package handler

import (
	"context"

	"market-mood/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// SnapshotBuilder is the service surface the handlers need.
type SnapshotBuilder interface {
	BuildSnapshot(ctx context.Context, days int) domain.Snapshot
	GetSeries(ctx context.Context, kind domain.SeriesKind) domain.FetchResult
}

// AdvisorQuerier produces optional commentary on a snapshot.
type AdvisorQuerier interface {
	Comment(ctx context.Context, snapshot domain.Snapshot) (string, error)
}

type Handler struct {
	tracer    trace.Tracer
	dashboard SnapshotBuilder
	advisor   AdvisorQuerier
}

func New(tracer trace.Tracer, dashboard SnapshotBuilder, advisor AdvisorQuerier) *Handler {
	return &Handler{
		tracer:    tracer,
		dashboard: dashboard,
		advisor:   advisor,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, apiKey string) {
	r.GET("/health", h.Health)

	api := r.Group("/api", APIKeyAuth(apiKey))
	api.GET("/dashboard", h.GetDashboard)
	api.GET("/series/:kind", h.GetSeries)
	api.GET("/advisor", h.GetAdvisor)
}
