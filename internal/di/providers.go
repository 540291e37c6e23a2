package di

import (
	"context"
	"fmt"
	"time"

	"CryptoRadar/internal/analysis"
	"CryptoRadar/internal/domain/repository"
	"CryptoRadar/internal/handler/api"
	mid "CryptoRadar/internal/middleware"
	internalrepo "CryptoRadar/internal/repository"
	"CryptoRadar/internal/service/binance"
	"CryptoRadar/internal/service/coingecko"
	"CryptoRadar/internal/service/ratelimit"
	"CryptoRadar/internal/usecase"
	"CryptoRadar/pkg/cache"
	pkgch "CryptoRadar/pkg/clickhouse"
	"CryptoRadar/pkg/config"
	pkgkafka "CryptoRadar/pkg/kafka"
	applogger "CryptoRadar/pkg/logger"
	"CryptoRadar/pkg/metrics"
	"CryptoRadar/pkg/server"
)

// ProvideLogger creates the application logger. Production runs JSON,
// everything else console.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "console"
	if cfg.Environment == "production" {
		format = "json"
	}
	return applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideLimiter creates the shared token-bucket limiter used to pace
// outbound REST calls.
func ProvideLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideClickHouseClient creates a ClickHouse client when the candle-store
// provider is selected. Returns nil otherwise so REST-only deployments do not
// need a database.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.Provider.Type != "clickhouse" {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, internalrepo.Schema()); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer, or nil when publishing is
// disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideSignalPublisher wraps the producer as a signal publisher, or nil
// when Kafka is disabled.
func ProvideSignalPublisher(producer *pkgkafka.Producer, cfg *config.Config, l *applogger.Logger) repository.SignalPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaSignalPublisher(producer, cfg.Kafka.Topic, l)
}

// ProvideCache creates the cache service: layered Redis when configured,
// in-process memory otherwise.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if cfg.Cache.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
			cache.WithRedisPrefix("cryptoradar"),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return cache.NewLayeredCache(redisCache, cache.WithLayeredMemorySize(cfg.Cache.ChartEntries)), nil
	}
	return cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.ChartEntries)), nil
}

// ProvidePriceBook creates the live price book shared between the tick
// pipeline and the market data provider.
func ProvidePriceBook() *usecase.PriceBook {
	return usecase.NewPriceBook()
}

// ProvideMarketDataProvider selects the snapshot/history source and overlays
// live prices from the price book.
func ProvideMarketDataProvider(
	cfg *config.Config,
	chClient *pkgch.Client,
	book *usecase.PriceBook,
	limiter *ratelimit.Limiter,
	l *applogger.Logger,
) (repository.MarketDataProvider, error) {
	var base repository.MarketDataProvider
	switch cfg.Provider.Type {
	case "clickhouse":
		store := internalrepo.NewCHCandleStore(chClient)
		store.SetLogger(l)
		base = store
	case "coingecko":
		base = coingecko.New(coingecko.Config{
			BaseURL:      cfg.Provider.BaseURL,
			Timeout:      cfg.Provider.Timeout,
			PerPage:      cfg.Provider.PerPage,
			MinMarketCap: cfg.Provider.MinMarketCap,
			RateLimitRPS: cfg.Provider.RateLimitRPS,
		}, limiter)
	default:
		return nil, fmt.Errorf("unknown provider type %q", cfg.Provider.Type)
	}
	return usecase.NewLiveProvider(base, book), nil
}

// ProvideTickStream creates the Binance miniTicker WebSocket stream.
func ProvideTickStream(cfg *config.Config, l *applogger.Logger) repository.TickStream {
	return binance.New(
		cfg.Stream.WebSocketURL,
		cfg.Stream.Symbols,
		cfg.Stream.ReconnectDelay,
		cfg.Stream.PingInterval,
		l,
	)
}

// ProvideTickPipeline builds the validation/throttle/buffer stage between the
// stream and the price book.
func ProvideTickPipeline(book *usecase.PriceBook, m repository.Metrics, cfg *config.Config) *mid.TickPipeline {
	opts := []mid.PipelineOption{}
	if cfg.Stream.MaxRPS > 0 {
		opts = append(opts, mid.WithMaxRPS(cfg.Stream.MaxRPS))
	}
	return mid.NewTickPipeline(book, m, opts...)
}

// ProvideTickCollector creates the stream collector, or nil when the live
// stream is disabled.
func ProvideTickCollector(
	stream repository.TickStream,
	pipe *mid.TickPipeline,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.TickCollector {
	if !cfg.Stream.Enabled {
		return nil
	}
	return usecase.NewTickCollector(stream, pipe, m)
}

// ProvideAnalyzer creates the structural analyzer.
func ProvideAnalyzer() *analysis.Analyzer {
	return analysis.NewAnalyzer()
}

// ProvideSynthesizer creates the signal synthesizer.
func ProvideSynthesizer(analyzer *analysis.Analyzer, m repository.Metrics) *usecase.Synthesizer {
	return usecase.NewSynthesizer(analyzer, m)
}

// ProvidePriceEngine creates the target/stop/level calculator.
func ProvidePriceEngine() *usecase.PriceEngine {
	return usecase.NewPriceEngine()
}

// ProvideRankingPipeline creates the per-cycle evaluation pipeline.
func ProvideRankingPipeline(
	provider repository.MarketDataProvider,
	synth *usecase.Synthesizer,
	pricer *usecase.PriceEngine,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.RankingPipeline {
	return usecase.NewRankingPipeline(provider, synth, pricer, m, l, usecase.RankingConfig{
		Workers:       cfg.Ranking.Workers,
		MinConfidence: cfg.Ranking.MinConfidence,
		MinGainPct:    cfg.Ranking.MinGainPct,
		MaxSignals:    cfg.Ranking.MaxSignals,
		LookbackDays:  cfg.Provider.LookbackDays,
	})
}

// ProvideChartService creates the chart/indicator read service.
func ProvideChartService(
	provider repository.MarketDataProvider,
	c cache.Service,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.ChartService {
	return usecase.NewChartService(provider, c, l, cfg.Cache.ChartTTL)
}

// ProvideScheduler creates the periodic ranking scheduler.
func ProvideScheduler(
	pipeline *usecase.RankingPipeline,
	publisher repository.SignalPublisher,
	c cache.Service,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.Scheduler {
	return usecase.NewScheduler(pipeline, publisher, c, l, cfg.Ranking.Interval, cfg.Cache.SignalsTTL)
}

// ProvideHandler creates the Echo HTTP handler.
func ProvideHandler(
	l *applogger.Logger,
	scheduler *usecase.Scheduler,
	chart *usecase.ChartService,
	provider repository.MarketDataProvider,
) *api.Handler {
	return api.NewHandler(l, scheduler, chart, provider)
}

// kafkaLogSink adapts the Kafka producer to the logger's aggregated-log
// publisher interface.
type kafkaLogSink struct {
	producer *pkgkafka.Producer
}

func (s kafkaLogSink) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return s.producer.Publish(ctx, topic, []byte("logs"), payload)
}

// ProvideApp creates the application server. When a logs topic is configured
// alongside Kafka, aggregated error logs are shipped there too.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	scheduler *usecase.Scheduler,
	collector *usecase.TickCollector,
	handler *api.Handler,
	publisher repository.SignalPublisher,
	producer *pkgkafka.Producer,
	chClient *pkgch.Client,
) *server.App {
	if producer != nil && cfg.Kafka.LogsTopic != "" {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Kafka.LogsTopic,
			Publisher:      kafkaLogSink{producer: producer},
		})
	}
	return server.New(cfg, l, scheduler, collector, handler, publisher, chClient)
}
