package telegram

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/KotFed0t/invest_dashboard/internal/converter/telebotConverter"
	"github.com/KotFed0t/invest_dashboard/internal/model"
	"github.com/KotFed0t/invest_dashboard/internal/model/tg"
	"github.com/KotFed0t/invest_dashboard/internal/reconciler"
	"github.com/KotFed0t/invest_dashboard/utils"
	"github.com/shopspring/decimal"
	tele "gopkg.in/telebot.v4"
)

const internalErrMsg = "что-то пошло не так..."

type PortfolioStore interface {
	Holdings() []model.Holding
	ReferenceEntries() []model.ReferenceEntry
	UsdRate() decimal.Decimal
	IsLoading() bool
	Snapshot() model.Snapshot
	RefreshHoldings(ctx context.Context) error
	RefreshShareReferences(ctx context.Context) error
	RefreshEtfReferences(ctx context.Context) error
	RefreshCurrencyReferences(ctx context.Context) error
	RefreshCryptoPrices(ctx context.Context) error
}

type Dashboard interface {
	RefreshAll(ctx context.Context) error
}

type ReportGenerator interface {
	Generate(ctx context.Context, snapshot model.Snapshot) (fileBytes []byte, fileExtension string, err error)
}

type Controller struct {
	store           PortfolioStore
	dashboard       Dashboard
	reportGenerator ReportGenerator
}

func NewController(store PortfolioStore, dashboard Dashboard, reportGenerator ReportGenerator) *Controller {
	return &Controller{
		store:           store,
		dashboard:       dashboard,
		reportGenerator: reportGenerator,
	}
}

func (ctrl *Controller) Start(c tele.Context) error {
	return c.Send("Привет! /holdings - портфель, /references - справочник, /refresh - обновить, /report - выгрузка в xlsx")
}

func (ctrl *Controller) Holdings(c tele.Context) error {
	return ctrl.sendHoldings(c, ctrl.store.IsLoading())
}

func (ctrl *Controller) sendHoldings(c tele.Context, isLoading bool) error {
	holdings := reconciler.PriceHoldings(ctrl.store.Holdings(), ctrl.store.ReferenceEntries())
	return c.Send(telebotConverter.HoldingsResponse(holdings, ctrl.store.UsdRate(), isLoading))
}

func (ctrl *Controller) References(c tele.Context) error {
	return c.Send(telebotConverter.ReferencesResponse(ctrl.store.ReferenceEntries()))
}

func (ctrl *Controller) Refresh(c tele.Context) error {
	return ctrl.refresh(c, tg.RefreshAll)
}

// RefreshCallback обрабатывает инлайн-кнопки обновления
func (ctrl *Controller) RefreshCallback(action string) tele.HandlerFunc {
	return func(c tele.Context) error {
		_ = c.Respond(&tele.CallbackResponse{Text: "обновляю..."})
		return ctrl.refresh(c, action)
	}
}

func (ctrl *Controller) refresh(c tele.Context, action string) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	refreshFn, ok := ctrl.refreshFn(action)
	if !ok {
		slog.Error("unknown refresh action", slog.String("rqID", rqID), slog.String("action", action))
		return c.Send(internalErrMsg)
	}

	err := refreshFn(ctx)
	if err != nil {
		// данные частично могли обновиться, поэтому всё равно показываем портфель
		slog.Error("refresh failed", slog.String("rqID", rqID), slog.String("action", action), slog.String("err", err.Error()))
		_ = c.Send("не всё удалось обновить, показываю что есть")
	}

	// своё обновление уже завершено, флаг занятости ещё держится до busyMinVisible
	return ctrl.sendHoldings(c, false)
}

func (ctrl *Controller) refreshFn(action string) (func(ctx context.Context) error, bool) {
	switch action {
	case tg.RefreshAll:
		return ctrl.dashboard.RefreshAll, true
	case tg.RefreshHoldings:
		return ctrl.store.RefreshHoldings, true
	case tg.RefreshShares:
		return ctrl.store.RefreshShareReferences, true
	case tg.RefreshEtfs:
		return ctrl.store.RefreshEtfReferences, true
	case tg.RefreshCurrencies:
		return ctrl.store.RefreshCurrencyReferences, true
	case tg.RefreshCrypto:
		return ctrl.store.RefreshCryptoPrices, true
	default:
		return nil, false
	}
}

func (ctrl *Controller) Report(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	fileBytes, ext, err := ctrl.reportGenerator.Generate(ctx, ctrl.store.Snapshot())
	if err != nil {
		slog.Error("got error from reportGenerator.Generate", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send("нечего выгружать, сначала обновите данные")
	}

	doc := &tele.Document{
		File:     tele.FromReader(bytes.NewReader(fileBytes)),
		FileName: fmt.Sprintf("portfolio_%s%s", time.Now().Format("2006-01-02"), ext),
	}

	return c.Send(doc)
}
