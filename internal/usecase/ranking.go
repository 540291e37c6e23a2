package usecase

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"CryptoRadar/internal/domain/models"
	drepo "CryptoRadar/internal/domain/repository"
	"CryptoRadar/pkg/logger"
)

// RankingConfig bounds one ranking cycle.
type RankingConfig struct {
	Workers       int
	MinConfidence int
	MinGainPct    float64
	MaxSignals    int
	LookbackDays  int
}

// RankingPipeline evaluates every asset in the universe independently and
// merges the results into a ranked signal list. Per-asset work shares no
// mutable state; the merge/sort/truncate is a single-threaded barrier after
// all evaluations finish.
type RankingPipeline struct {
	provider drepo.MarketDataProvider
	synth    *Synthesizer
	pricer   *PriceEngine
	metrics  drepo.Metrics
	log      *logger.Logger
	cfg      RankingConfig
}

func NewRankingPipeline(
	provider drepo.MarketDataProvider,
	synth *Synthesizer,
	pricer *PriceEngine,
	metrics drepo.Metrics,
	log *logger.Logger,
	cfg RankingConfig,
) *RankingPipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.MaxSignals <= 0 {
		cfg.MaxSignals = 20
	}
	return &RankingPipeline{
		provider: provider,
		synth:    synth,
		pricer:   pricer,
		metrics:  metrics,
		log:      log,
		cfg:      cfg,
	}
}

// Run executes one full cycle: list the universe, evaluate each asset on the
// worker pool, then filter, rank and truncate. A failed or cancelled asset
// never blocks the others; signals finished before a cancellation are still
// ranked and returned.
func (p *RankingPipeline) Run(ctx context.Context) ([]models.Signal, error) {
	start := time.Now()

	assets, err := p.provider.ListAssets(ctx)
	if err != nil {
		p.metrics.RecordError("list_assets")
		return nil, err
	}

	results := make([]models.Signal, len(assets))
	evaluated := make([]bool, len(assets))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < p.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if sig, ok := p.evaluate(ctx, assets[i]); ok {
					results[i] = sig
					evaluated[i] = true
				}
			}
		}()
	}

dispatch:
	for i := range assets {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	ranked := p.rank(results, evaluated)
	for _, sig := range ranked {
		p.metrics.RecordSignal(string(sig.Type))
		p.metrics.RecordConfidence(sig.ID, float64(sig.Confidence))
	}
	p.metrics.RecordLatency("ranking_cycle", time.Since(start).Seconds())
	p.log.Info("ranking cycle complete",
		logger.Int("universe", len(assets)),
		logger.Int("signals", len(ranked)),
		logger.Duration("elapsed", time.Since(start)))

	return ranked, nil
}

// evaluate runs the ladder for one asset. Provider failures and panics skip
// the asset; they never abort the cycle.
func (p *RankingPipeline) evaluate(ctx context.Context, asset models.AssetSnapshot) (sig models.Signal, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			p.metrics.RecordSkipped("panic")
			p.log.Error("asset evaluation panicked",
				logger.String("asset", asset.ID),
				logger.Any("cause", r))
			ok = false
		}
	}()

	history, err := p.provider.GetHistory(ctx, asset.ID, p.cfg.LookbackDays)
	if err != nil {
		// Retrieval failure means data unavailable for this asset: skip it.
		// The fallback ladder handles short series, not fetch errors.
		p.metrics.RecordSkipped("history_unavailable")
		p.log.Debug("history unavailable, skipping asset",
			logger.String("asset", asset.ID),
			logger.Error(err))
		return models.Signal{}, false
	}

	ev := p.synth.Evaluate(asset, history)
	return p.pricer.Price(asset, ev), true
}

// rank filters out NEUTRAL and below-threshold signals, sorts by confidence
// with |potential gain| and then asset ID as tiebreaks, and truncates. The
// tiebreaks keep the output deterministic for identical input.
func (p *RankingPipeline) rank(results []models.Signal, evaluated []bool) []models.Signal {
	ranked := make([]models.Signal, 0, len(results))
	for i, sig := range results {
		if !evaluated[i] {
			continue
		}
		if sig.Type == models.SignalNeutral {
			p.metrics.RecordSkipped("neutral")
			continue
		}
		if sig.Confidence <= p.cfg.MinConfidence || math.Abs(sig.GainValue) <= p.cfg.MinGainPct {
			p.metrics.RecordSkipped("below_threshold")
			continue
		}
		ranked = append(ranked, sig)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Confidence != ranked[j].Confidence {
			return ranked[i].Confidence > ranked[j].Confidence
		}
		gi, gj := math.Abs(ranked[i].GainValue), math.Abs(ranked[j].GainValue)
		if gi != gj {
			return gi > gj
		}
		return ranked[i].ID < ranked[j].ID
	})

	if len(ranked) > p.cfg.MaxSignals {
		ranked = ranked[:p.cfg.MaxSignals]
	}
	return ranked
}
