package binanceApi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/invest_dashboard/config"
	"github.com/KotFed0t/invest_dashboard/internal/externalApi"
	"github.com/KotFed0t/invest_dashboard/internal/model/binanceModel"
	"github.com/KotFed0t/invest_dashboard/utils"
	"github.com/go-resty/resty/v2"
)

type BinanceApi struct {
	client *resty.Client
}

func New(cfg *config.Config) *BinanceApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.BinanceApi.Url)
	return &BinanceApi{client: client}
}

// GetTickerPrices запрашивает спотовые цены пачкой: symbols=["BTCUSDT","ETHUSDT"]
func (a *BinanceApi) GetTickerPrices(ctx context.Context, symbols []string) ([]binanceModel.TickerPrice, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "BinanceApi.GetTickerPrices"
	url := "/api/v3/ticker/price"

	if len(symbols) == 0 {
		return nil, nil
	}

	rawSymbols, err := json.Marshal(symbols)
	if err != nil {
		return nil, err
	}

	slog.Debug("start BinanceApi.GetTickerPrices request", slog.String("rqID", rqID), slog.String("op", op), slog.Any("symbols", symbols))

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParam("symbols", string(rawSymbols)).
		Get(url)

	if err != nil {
		slog.Error("error while dialing BinanceApi", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, fmt.Errorf("%s: %w: %v", op, externalApi.ErrTransport, err)
	}

	if !resp.IsSuccess() {
		slog.Error("BinanceApi responded with non-OK status", slog.String("rqID", rqID), slog.String("op", op), slog.Int("status", resp.StatusCode()))
		return nil, fmt.Errorf("%s: %w: %d", op, externalApi.ErrUnexpectedStatus, resp.StatusCode())
	}

	prices := make([]binanceModel.TickerPrice, 0, len(symbols))
	err = json.Unmarshal(resp.Body(), &prices)
	if err != nil {
		slog.Error("can't unmarshall response into []binanceModel.TickerPrice", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, fmt.Errorf("%s: %w: %v", op, externalApi.ErrMalformedResponse, err)
	}

	slog.Debug("BinanceApi.GetTickerPrices request complete", slog.String("rqID", rqID), slog.String("op", op))

	return prices, nil
}
