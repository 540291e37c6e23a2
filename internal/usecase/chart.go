package usecase

import (
	"context"
	"errors"
	"time"

	"CryptoRadar/internal/domain/models"
	drepo "CryptoRadar/internal/domain/repository"
	"CryptoRadar/internal/indicators"
	"CryptoRadar/pkg/cache"
	"CryptoRadar/pkg/logger"
)

// ChartService serves the read-only chart projection: raw prices plus the
// indicator overlay series for one asset. No synthesis logic lives here.
type ChartService struct {
	provider drepo.MarketDataProvider
	cache    cache.Service
	log      *logger.Logger
	ttl      time.Duration
}

func NewChartService(provider drepo.MarketDataProvider, c cache.Service, log *logger.Logger, ttl time.Duration) *ChartService {
	return &ChartService{provider: provider, cache: c, log: log, ttl: ttl}
}

// GetChart returns the price series and indicator bundle for an asset over
// the requested lookback. Results are cached per (asset, days).
func (s *ChartService) GetChart(ctx context.Context, assetID string, days int) (models.ChartSeries, error) {
	key := chartCacheKey(assetID, days)

	var cached models.ChartSeries
	if s.cache != nil {
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Debug("chart cache read failed", logger.String("asset", assetID), logger.Error(err))
		}
	}

	history, err := s.provider.GetHistory(ctx, assetID, days)
	if err != nil {
		return models.ChartSeries{}, err
	}

	series := models.ChartSeries{
		AssetID:    assetID,
		Prices:     history.Prices,
		Indicators: buildIndicatorBundle(history.Prices),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, series, s.ttl); err != nil {
			s.log.Debug("chart cache write failed", logger.String("asset", assetID), logger.Error(err))
		}
	}
	return series, nil
}

func buildIndicatorBundle(prices []float64) models.IndicatorBundle {
	macd := indicators.MACD(prices, 12, 26, 9)
	bands := indicators.Bollinger(prices, 20, 2)
	return models.IndicatorBundle{
		SMA20:    indicators.SMA(prices, 20),
		EMA20:    indicators.EMA(prices, 20),
		EMA50:    indicators.EMA(prices, 50),
		RSI:      indicators.RSISeries(prices, 14),
		MACDLine: macd.Line,
		MACDSig:  macd.Signal,
		MACDHist: macd.Histogram,
		BBUpper:  bands.Upper,
		BBMiddle: bands.Middle,
		BBLower:  bands.Lower,
	}
}

func chartCacheKey(assetID string, days int) string {
	return cache.GenerateKeyWithParams("chart", assetID, days)
}
