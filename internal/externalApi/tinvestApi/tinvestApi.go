package tinvestApi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/invest_dashboard/config"
	"github.com/KotFed0t/invest_dashboard/internal/externalApi"
	"github.com/KotFed0t/invest_dashboard/internal/model/tinvestModel"
	"github.com/KotFed0t/invest_dashboard/utils"
	"github.com/go-resty/resty/v2"
)

const (
	contractPrefix  = "/tinkoff.public.invest.api.contract.v1."
	portfolioURL    = contractPrefix + "OperationsService/GetPortfolio"
	sharesURL       = contractPrefix + "InstrumentsService/Shares"
	etfsURL         = contractPrefix + "InstrumentsService/Etfs"
	currenciesURL   = contractPrefix + "InstrumentsService/Currencies"
	marketValuesURL = contractPrefix + "MarketDataService/GetMarketValues"
)

type TInvestApi struct {
	client    *resty.Client
	accountID string
	currency  string
}

func New(cfg *config.Config) *TInvestApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.TInvestApi.Url).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	// без токена заголовок Authorization не отправляем
	if cfg.API.TInvestApi.Token != "" {
		client.SetAuthToken(cfg.API.TInvestApi.Token)
	}

	return &TInvestApi{
		client:    client,
		accountID: cfg.API.TInvestApi.AccountID,
		currency:  cfg.API.TInvestApi.Currency,
	}
}

func (a *TInvestApi) GetPortfolio(ctx context.Context) ([]tinvestModel.Position, error) {
	body := tinvestModel.PortfolioRequest{AccountID: a.accountID, Currency: a.currency}

	res := tinvestModel.PortfolioResponse{}
	if err := a.post(ctx, "TInvestApi.GetPortfolio", portfolioURL, body, &res); err != nil {
		return nil, err
	}

	return res.Positions, nil
}

func (a *TInvestApi) GetShares(ctx context.Context) ([]tinvestModel.Instrument, error) {
	return a.getInstruments(ctx, "TInvestApi.GetShares", sharesURL)
}

func (a *TInvestApi) GetEtfs(ctx context.Context) ([]tinvestModel.Instrument, error) {
	return a.getInstruments(ctx, "TInvestApi.GetEtfs", etfsURL)
}

func (a *TInvestApi) GetCurrencies(ctx context.Context) ([]tinvestModel.Instrument, error) {
	return a.getInstruments(ctx, "TInvestApi.GetCurrencies", currenciesURL)
}

func (a *TInvestApi) GetMarketValues(ctx context.Context, uids []string) ([]tinvestModel.InstrumentValues, error) {
	body := tinvestModel.MarketValuesRequest{
		InstrumentID: uids,
		Values:       []string{tinvestModel.InstrumentValueUnspecified},
	}
	if body.InstrumentID == nil {
		body.InstrumentID = []string{}
	}

	res := tinvestModel.MarketValuesResponse{}
	if err := a.post(ctx, "TInvestApi.GetMarketValues", marketValuesURL, body, &res); err != nil {
		return nil, err
	}

	return res.Instruments, nil
}

func (a *TInvestApi) getInstruments(ctx context.Context, op, url string) ([]tinvestModel.Instrument, error) {
	body := tinvestModel.InstrumentsRequest{
		InstrumentStatus:   tinvestModel.InstrumentStatusUnspecified,
		InstrumentExchange: tinvestModel.InstrumentExchangeUnspecified,
	}

	res := tinvestModel.InstrumentsResponse{}
	if err := a.post(ctx, op, url, body, &res); err != nil {
		return nil, err
	}

	return res.Instruments, nil
}

func (a *TInvestApi) post(ctx context.Context, op, url string, body, dest any) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	slog.Debug("start request", slog.String("rqID", rqID), slog.String("op", op))

	resp, err := a.client.R().
		SetContext(ctx).
		SetBody(body).
		Post(url)

	if err != nil {
		slog.Error("error while dialing TInvestApi", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return fmt.Errorf("%s: %w: %v", op, externalApi.ErrTransport, err)
	}

	if !resp.IsSuccess() {
		slog.Error("TInvestApi responded with non-OK status", slog.String("rqID", rqID), slog.String("op", op), slog.Int("status", resp.StatusCode()))
		return fmt.Errorf("%s: %w: %d", op, externalApi.ErrUnexpectedStatus, resp.StatusCode())
	}

	err = json.Unmarshal(resp.Body(), dest)
	if err != nil {
		slog.Error("can't unmarshall TInvestApi response", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return fmt.Errorf("%s: %w: %v", op, externalApi.ErrMalformedResponse, err)
	}

	slog.Debug("request complete", slog.String("rqID", rqID), slog.String("op", op))

	return nil
}
