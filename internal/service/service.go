package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"salimco/pos/internal/archive"
	"salimco/pos/internal/domain"
	"salimco/pos/internal/logger"
	"salimco/pos/internal/metrics"
	"salimco/pos/internal/report"
	"salimco/pos/internal/store"
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

type Options struct {
	ShopName   string
	ReportsDir string
	Archiver   archive.Archiver
	Metrics    *metrics.Metrics
	Logger     *zap.Logger
	Clock      func() time.Time
}

type Service struct {
	repo       store.Repository
	reports    report.Builder
	reportsDir string
	archiver   archive.Archiver
	metrics    *metrics.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

func New(repo store.Repository, opts Options) *Service {
	if opts.ReportsDir == "" {
		opts.ReportsDir = "reports"
	}
	if opts.Archiver == nil {
		opts.Archiver = archive.Noop{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	return &Service{
		repo:       repo,
		reports:    report.NewBuilder(opts.ShopName),
		reportsDir: opts.ReportsDir,
		archiver:   opts.Archiver,
		metrics:    opts.Metrics,
		logger:     opts.Logger,
		now:        opts.Clock,
	}
}

func requireAdmin(ctx context.Context) (domain.Actor, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || !actor.IsAdmin() {
		return domain.Actor{}, ErrAccessDenied
	}
	return actor, nil
}

func (s *Service) log(ctx context.Context) *zap.Logger {
	if id := logger.RequestID(ctx); id != "" {
		return s.logger.With(zap.String("request_id", id))
	}
	return s.logger
}
