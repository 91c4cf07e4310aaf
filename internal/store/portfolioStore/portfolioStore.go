package portfolioStore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/KotFed0t/invest_dashboard/config"
	"github.com/KotFed0t/invest_dashboard/data/seed"
	"github.com/KotFed0t/invest_dashboard/internal/converter/tinvestConverter"
	"github.com/KotFed0t/invest_dashboard/internal/model"
	"github.com/KotFed0t/invest_dashboard/internal/model/binanceModel"
	"github.com/KotFed0t/invest_dashboard/internal/model/tinvestModel"
	"github.com/KotFed0t/invest_dashboard/internal/reconciler"
	"github.com/KotFed0t/invest_dashboard/utils"
	"github.com/shopspring/decimal"
)

var ErrActionPanicked = errors.New("store action panicked")

type Broker interface {
	GetPortfolio(ctx context.Context) ([]tinvestModel.Position, error)
	GetShares(ctx context.Context) ([]tinvestModel.Instrument, error)
	GetEtfs(ctx context.Context) ([]tinvestModel.Instrument, error)
	GetCurrencies(ctx context.Context) ([]tinvestModel.Instrument, error)
	GetMarketValues(ctx context.Context, uids []string) ([]tinvestModel.InstrumentValues, error)
}

type Exchange interface {
	GetTickerPrices(ctx context.Context, symbols []string) ([]binanceModel.TickerPrice, error)
}

// PortfolioStore держит объединённое состояние портфеля.
// Сетевые запросы выполняются без блокировки, результат каждого действия применяется под мьютексом:
// holdings заменяются целиком, справочник только дописывается или обогащается на месте.
// Действия не отменяют друг друга и могут выполняться конкурентно.
type PortfolioStore struct {
	broker   Broker
	exchange Exchange

	seedHoldings       []model.Holding
	seedCrypto         []model.Holding
	cryptoTickers      []string
	blockedShareTicker string
	busyMinVisible     time.Duration

	mu               sync.RWMutex
	isLoading        bool
	holdings         []model.Holding
	referenceEntries []model.ReferenceEntry
	knownTickers     model.KnownTickerSet
	usdRate          decimal.Decimal
}

func New(cfg *config.Config, broker Broker, exchange Exchange, seeds seed.Data) *PortfolioStore {
	s := &PortfolioStore{
		broker:             broker,
		exchange:           exchange,
		seedHoldings:       seeds.Holdings,
		seedCrypto:         seeds.Crypto,
		cryptoTickers:      seeds.CryptoTickers(),
		blockedShareTicker: cfg.Store.BlockedShareTicker,
		busyMinVisible:     cfg.Store.BusyMinVisible,
		knownTickers:       seeds.KnownTickers(),
	}

	s.referenceEntries = make([]model.ReferenceEntry, 0, len(seeds.References)+len(seeds.Crypto))
	s.referenceEntries = append(s.referenceEntries, seeds.References...)

	// крипта обогащается по тикеру, поэтому ей нужны записи в справочнике
	for _, h := range seeds.Crypto {
		if hasTicker(s.referenceEntries, h.Ticker) {
			continue
		}
		name := h.Name
		if name == "" {
			name = h.Ticker
		}
		s.referenceEntries = append(s.referenceEntries, model.ReferenceEntry{Ticker: h.Ticker, Name: name, Currency: h.Currency})
	}

	return s
}

// RefreshHoldings заменяет holdings на сиды + крипто-сиды + живые позиции брокера
func (s *PortfolioStore) RefreshHoldings(ctx context.Context) error {
	return s.run(ctx, "PortfolioStore.RefreshHoldings", func(ctx context.Context) error {
		positions, err := s.broker.GetPortfolio(ctx)
		if err != nil {
			return err
		}

		usdRate, err := tinvestConverter.ExtractUsdRate(positions)
		if err != nil {
			return err
		}

		live, err := tinvestConverter.NormalizePositions(positions, usdRate)
		if err != nil {
			return err
		}

		holdings := make([]model.Holding, 0, len(s.seedHoldings)+len(s.seedCrypto)+len(live))
		holdings = append(holdings, s.seedHoldings...)
		holdings = append(holdings, s.seedCrypto...)
		holdings = append(holdings, live...)

		s.mu.Lock()
		defer s.mu.Unlock()

		s.holdings = holdings
		s.usdRate = usdRate
		for _, h := range holdings {
			s.knownTickers.Add(h.Ticker)
		}

		slog.Debug("holdings replaced", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.Int("live", len(live)), slog.Int("total", len(holdings)))

		return nil
	})
}

// RefreshShareReferences дописывает акции из каталога и затем подтягивает цены по uid.
// Заблокированный тикер пропускается, у него своё название в сидах.
func (s *PortfolioStore) RefreshShareReferences(ctx context.Context) error {
	return s.run(ctx, "PortfolioStore.RefreshShareReferences", func(ctx context.Context) error {
		var excluded []string
		if s.blockedShareTicker != "" {
			excluded = append(excluded, s.blockedShareTicker)
		}

		if err := s.mergeCatalog(ctx, s.broker.GetShares, excluded...); err != nil {
			return err
		}

		return s.RefreshUnresolvedPrices(ctx)
	})
}

func (s *PortfolioStore) RefreshEtfReferences(ctx context.Context) error {
	return s.run(ctx, "PortfolioStore.RefreshEtfReferences", func(ctx context.Context) error {
		return s.mergeCatalog(ctx, s.broker.GetEtfs)
	})
}

func (s *PortfolioStore) RefreshCurrencyReferences(ctx context.Context) error {
	return s.run(ctx, "PortfolioStore.RefreshCurrencyReferences", func(ctx context.Context) error {
		return s.mergeCatalog(ctx, s.broker.GetCurrencies)
	})
}

// RefreshUnresolvedPrices обогащает записи справочника с uid последней ценой и дневной разницей
func (s *PortfolioStore) RefreshUnresolvedPrices(ctx context.Context) error {
	op := "PortfolioStore.RefreshUnresolvedPrices"
	return s.run(ctx, op, func(ctx context.Context) error {
		s.mu.RLock()
		uids := reconciler.UIDs(s.referenceEntries)
		s.mu.RUnlock()

		values, err := s.broker.GetMarketValues(ctx, uids)
		if err != nil {
			return err
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		updated := reconciler.EnrichByUID(s.referenceEntries, values, s.logSkip(ctx, op))
		slog.Debug("entries enriched by uid", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.Int("requested", len(uids)), slog.Int("updated", updated))

		return nil
	})
}

// RefreshCryptoPrices ставит спотовые цены крипты из сидов, цены уже в нужной валюте
func (s *PortfolioStore) RefreshCryptoPrices(ctx context.Context) error {
	op := "PortfolioStore.RefreshCryptoPrices"
	return s.run(ctx, op, func(ctx context.Context) error {
		prices, err := s.exchange.GetTickerPrices(ctx, reconciler.CryptoSymbols(s.cryptoTickers))
		if err != nil {
			return err
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		updated := reconciler.EnrichBySymbol(s.referenceEntries, prices, s.logSkip(ctx, op))
		slog.Debug("entries enriched by symbol", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.Int("updated", updated))

		return nil
	})
}

// RefreshAll последовательно выполняет все действия, ошибки не прерывают цепочку
func (s *PortfolioStore) RefreshAll(ctx context.Context) error {
	actions := []func(context.Context) error{
		s.RefreshHoldings,
		s.RefreshShareReferences,
		s.RefreshEtfReferences,
		s.RefreshCurrencyReferences,
		s.RefreshCryptoPrices,
	}

	errs := make([]error, 0, len(actions))
	for _, action := range actions {
		errs = append(errs, action(ctx))
	}

	return errors.Join(errs...)
}

func (s *PortfolioStore) Holdings() []model.Holding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Holding(nil), s.holdings...)
}

func (s *PortfolioStore) ReferenceEntries() []model.ReferenceEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.ReferenceEntry(nil), s.referenceEntries...)
}

func (s *PortfolioStore) UsdRate() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usdRate
}

func (s *PortfolioStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLoading
}

func (s *PortfolioStore) KnownTickers() model.KnownTickerSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.knownTickers.Clone()
}

func (s *PortfolioStore) Snapshot() model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.Snapshot{
		Holdings:         append([]model.Holding(nil), s.holdings...),
		ReferenceEntries: append([]model.ReferenceEntry(nil), s.referenceEntries...),
		UsdRate:          s.usdRate,
		IsLoading:        s.isLoading,
		TakenAt:          time.Now(),
	}
}

func (s *PortfolioStore) mergeCatalog(
	ctx context.Context,
	fetch func(ctx context.Context) ([]tinvestModel.Instrument, error),
	excluded ...string,
) error {
	catalog, err := fetch(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.referenceEntries)
	s.referenceEntries = reconciler.MergeCatalog(s.referenceEntries, catalog, s.knownTickers, excluded...)

	slog.Debug(
		"catalog merged",
		slog.String("rqID", utils.GetRequestIDFromCtx(ctx)),
		slog.Int("catalogSize", len(catalog)),
		slog.Int("appended", len(s.referenceEntries)-before),
	)

	return nil
}

// run - граница действия: флаг загрузки, логирование, паника не выходит наружу
func (s *PortfolioStore) run(ctx context.Context, op string, fn func(ctx context.Context) error) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	started := s.startLoading()

	slog.Debug("action start", slog.String("rqID", rqID), slog.String("op", op))

	defer func() {
		if r := recover(); r != nil {
			slog.Error(
				"panic recovered in store action",
				slog.String("rqID", rqID),
				slog.String("op", op),
				slog.Any("panic", r),
				slog.String("stacktrace", string(debug.Stack())),
			)
			err = fmt.Errorf("%s: %w: %v", op, ErrActionPanicked, r)
		}

		if err != nil {
			slog.Error("action failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("action finished", slog.String("rqID", rqID), slog.String("op", op))
		}

		s.finishLoading(started)
	}()

	return fn(ctx)
}

func (s *PortfolioStore) startLoading() time.Time {
	s.setLoading(true)
	return time.Now()
}

// finishLoading сбрасывает флаг не раньше, чем через busyMinVisible от старта.
// Флаг общий: последний сброс побеждает.
func (s *PortfolioStore) finishLoading(started time.Time) {
	delay := s.busyMinVisible - time.Since(started)
	if delay <= 0 {
		s.setLoading(false)
		return
	}
	time.AfterFunc(delay, func() { s.setLoading(false) })
}

func (s *PortfolioStore) setLoading(v bool) {
	s.mu.Lock()
	s.isLoading = v
	s.mu.Unlock()
}

func (s *PortfolioStore) logSkip(ctx context.Context, op string) reconciler.SkipFn {
	rqID := utils.GetRequestIDFromCtx(ctx)
	return func(key string, err error) {
		slog.Warn("instrument skipped", slog.String("rqID", rqID), slog.String("op", op), slog.String("key", key), slog.String("err", err.Error()))
	}
}

func hasTicker(entries []model.ReferenceEntry, ticker string) bool {
	for _, e := range entries {
		if e.Ticker == ticker {
			return true
		}
	}
	return false
}
