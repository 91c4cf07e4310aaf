package dashboardService

import (
	"context"
	"errors"
	"log/slog"

	"github.com/KotFed0t/invest_dashboard/internal/model"
	"github.com/KotFed0t/invest_dashboard/utils"
)

type PortfolioStore interface {
	RefreshAll(ctx context.Context) error
	RefreshCryptoPrices(ctx context.Context) error
	Snapshot() model.Snapshot
}

type SnapshotCache interface {
	SetSnapshot(ctx context.Context, snapshot model.Snapshot) error
}

// DashboardService обновляет стор и публикует его снапшот для внешних читателей.
// cache может быть nil, тогда публикации нет.
type DashboardService struct {
	store PortfolioStore
	cache SnapshotCache
}

func New(store PortfolioStore, cache SnapshotCache) *DashboardService {
	return &DashboardService{store: store, cache: cache}
}

func (s *DashboardService) RefreshAll(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardService.RefreshAll"

	slog.Debug("RefreshAll start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("RefreshAll finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	refreshErr := s.store.RefreshAll(ctx)
	if refreshErr != nil {
		slog.Warn("store refreshed partially", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", refreshErr.Error()))
	}

	// публикуем даже при частичной ошибке, стор при этом консистентен
	return errors.Join(refreshErr, s.publish(ctx))
}

func (s *DashboardService) RefreshCryptoPrices(ctx context.Context) error {
	err := s.store.RefreshCryptoPrices(ctx)
	if err != nil {
		return err
	}
	return s.publish(ctx)
}

func (s *DashboardService) publish(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}

	err := s.cache.SetSnapshot(ctx, s.store.Snapshot())
	if err != nil {
		slog.Error("got error from cache.SetSnapshot", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("err", err.Error()))
		return err
	}

	return nil
}
