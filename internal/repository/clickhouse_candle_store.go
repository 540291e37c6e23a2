package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"CryptoRadar/internal/domain/models"
	pkgch "CryptoRadar/pkg/clickhouse"
	applogger "CryptoRadar/pkg/logger"
)

// CHCandleStore implements MarketDataProvider backed by ClickHouse candle
// tables. Used when the ranking pipeline runs against locally collected
// OHLCV data instead of the public REST provider.
type CHCandleStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHCandleStore(ch *pkgch.Client) *CHCandleStore {
	return &CHCandleStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHCandleStore) SetLogger(l *applogger.Logger) { s.l = l }

// Schema returns the DDL the store expects, for InitSchema at startup.
func Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS assets (
            asset_id String,
            symbol String,
            name String,
            price Float64,
            change_24h Float64,
            market_cap Float64,
            volume_24h Float64,
            updated_at DateTime
        ) ENGINE = ReplacingMergeTree(updated_at)
        ORDER BY asset_id`,
		`CREATE TABLE IF NOT EXISTS candles_1d (
            bucket DateTime,
            asset_id String,
            symbol String,
            open Float64,
            high Float64,
            low Float64,
            close Float64,
            vol Float64
        ) ENGINE = MergeTree
        ORDER BY (asset_id, bucket)`,
	}
}

// ListAssets returns the latest stored snapshot per asset.
func (s *CHCandleStore) ListAssets(ctx context.Context) ([]models.AssetSnapshot, error) {
	start := time.Now()
	const q = `
        SELECT asset_id, symbol, name, price, change_24h, market_cap, volume_24h
        FROM assets FINAL
        ORDER BY market_cap DESC
    `
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse list_assets query error", applogger.Error(err))
		}
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	out := make([]models.AssetSnapshot, 0, 256)
	for rows.Next() {
		var a models.AssetSnapshot
		if err := rows.Scan(&a.ID, &a.Symbol, &a.Name, &a.Price, &a.Change24h, &a.MarketCap, &a.Volume24h); err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse list_assets ok",
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

// GetHistory returns the close/volume series for one asset over the lookback
// window, oldest first.
func (s *CHCandleStore) GetHistory(ctx context.Context, assetID string, days int) (models.MarketHistory, error) {
	start := time.Now()
	from := time.Now().AddDate(0, 0, -days)
	const q = `
        SELECT close, vol
        FROM candles_1d
        WHERE asset_id = ? AND bucket >= ?
        ORDER BY bucket ASC
    `
	rows, err := s.db.QueryContext(ctx, q, assetID, from)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse get_history query error",
				applogger.String("asset", assetID),
				applogger.Error(err),
			)
		}
		return models.MarketHistory{}, fmt.Errorf("get history: %w", err)
	}
	defer rows.Close()

	history := models.MarketHistory{
		Prices:  make([]float64, 0, days),
		Volumes: make([]float64, 0, days),
	}
	for rows.Next() {
		var closePrice, volume float64
		if err := rows.Scan(&closePrice, &volume); err != nil {
			return models.MarketHistory{}, fmt.Errorf("scan candle: %w", err)
		}
		history.Prices = append(history.Prices, closePrice)
		history.Volumes = append(history.Volumes, volume)
	}
	if err := rows.Err(); err != nil {
		return models.MarketHistory{}, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse get_history ok",
			applogger.String("asset", assetID),
			applogger.Int("rows", len(history.Prices)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return history, nil
}

// UpsertAssets stores the latest snapshot universe, so a REST-fed deployment
// can also serve as the candle store's snapshot source.
func (s *CHCandleStore) UpsertAssets(ctx context.Context, assets []models.AssetSnapshot) error {
	if len(assets) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
        INSERT INTO assets (asset_id, symbol, name, price, change_24h, market_cap, volume_24h, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, a := range assets {
		if _, err := stmt.ExecContext(ctx, a.ID, a.Symbol, a.Name, a.Price, a.Change24h, a.MarketCap, a.Volume24h, now); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert asset %s: %w", a.ID, err)
		}
	}
	return tx.Commit()
}
