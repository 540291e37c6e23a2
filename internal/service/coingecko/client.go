// Package coingecko implements the market data provider against the
// CoinGecko REST API.
package coingecko

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"CryptoRadar/internal/domain/models"
	drepo "CryptoRadar/internal/domain/repository"
	"CryptoRadar/internal/service/ratelimit"
	httpclient "CryptoRadar/pkg/http"
)

const rateLimitKey = "coingecko"

// Config holds the provider knobs.
type Config struct {
	BaseURL      string
	Timeout      time.Duration
	PerPage      int
	MinMarketCap float64
	RateLimitRPS float64
}

// Client is a MarketDataProvider backed by the CoinGecko markets and
// market_chart endpoints. Calls are paced through a token bucket to stay
// under the public API quota.
type Client struct {
	cfg     Config
	http    *httpclient.Client
	limiter *ratelimit.Limiter
}

// New creates a CoinGecko-backed provider.
func New(cfg Config, limiter *ratelimit.Limiter) drepo.MarketDataProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if cfg.PerPage <= 0 {
		cfg.PerPage = 250
	}
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = 0.5
	}
	return &Client{
		cfg:     cfg,
		http:    httpclient.NewClient(httpclient.WithTimeout(cfg.Timeout)),
		limiter: limiter,
	}
}

type marketRow struct {
	ID           string  `json:"id"`
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	CurrentPrice float64 `json:"current_price"`
	MarketCap    float64 `json:"market_cap"`
	TotalVolume  float64 `json:"total_volume"`
	Change24h    float64 `json:"price_change_percentage_24h"`
}

// ListAssets returns the asset universe ordered by market cap, filtered to
// the configured minimum cap.
func (c *Client) ListAssets(ctx context.Context) ([]models.AssetSnapshot, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	var rows []marketRow
	err := c.http.SendAndParse(ctx, &httpclient.RequestOptions{
		Method: httpclient.MethodGet,
		URL:    c.cfg.BaseURL + "/coins/markets",
		QueryParams: map[string][]string{
			"vs_currency": {"usd"},
			"order":       {"market_cap_desc"},
			"per_page":    {strconv.Itoa(c.cfg.PerPage)},
			"page":        {"1"},
			"sparkline":   {"false"},
		},
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("coingecko markets: %w", err)
	}

	assets := make([]models.AssetSnapshot, 0, len(rows))
	for _, row := range rows {
		if row.MarketCap <= c.cfg.MinMarketCap {
			continue
		}
		assets = append(assets, models.AssetSnapshot{
			ID:        row.ID,
			Symbol:    strings.ToUpper(row.Symbol),
			Name:      row.Name,
			Price:     row.CurrentPrice,
			Change24h: row.Change24h,
			MarketCap: row.MarketCap,
			Volume24h: row.TotalVolume,
		})
	}
	return assets, nil
}

type marketChart struct {
	Prices       [][2]float64 `json:"prices"`
	TotalVolumes [][2]float64 `json:"total_volumes"`
}

// GetHistory fetches the price/volume lookback series for one asset.
func (c *Client) GetHistory(ctx context.Context, assetID string, days int) (models.MarketHistory, error) {
	if err := c.wait(ctx); err != nil {
		return models.MarketHistory{}, err
	}

	var chart marketChart
	err := c.http.SendAndParse(ctx, &httpclient.RequestOptions{
		Method: httpclient.MethodGet,
		URL:    c.cfg.BaseURL + "/coins/" + strings.ToLower(assetID) + "/market_chart",
		QueryParams: map[string][]string{
			"vs_currency": {"usd"},
			"days":        {strconv.Itoa(days)},
		},
	}, &chart)
	if err != nil {
		return models.MarketHistory{}, fmt.Errorf("coingecko market_chart %s: %w", assetID, err)
	}

	history := models.MarketHistory{
		Prices:  make([]float64, 0, len(chart.Prices)),
		Volumes: make([]float64, 0, len(chart.TotalVolumes)),
	}
	for _, point := range chart.Prices {
		history.Prices = append(history.Prices, point[1])
	}
	for _, point := range chart.TotalVolumes {
		history.Volumes = append(history.Volumes, point[1])
	}
	return history, nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx, rateLimitKey, c.cfg.RateLimitRPS*2, c.cfg.RateLimitRPS)
}
