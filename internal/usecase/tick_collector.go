package usecase

import (
	"context"

	"CryptoRadar/internal/domain/models"
	drepo "CryptoRadar/internal/domain/repository"
	mid "CryptoRadar/internal/middleware"
)

// TickCollector consumes the live ticker stream and feeds the price book
// through the tick pipeline, so ranking cycles see fresher prices than the
// snapshot feed provides.
type TickCollector struct {
	stream  drepo.TickStream
	pipe    *mid.TickPipeline
	metrics drepo.Metrics
}

func NewTickCollector(stream drepo.TickStream, pipe *mid.TickPipeline, metrics drepo.Metrics) *TickCollector {
	return &TickCollector{stream: stream, pipe: pipe, metrics: metrics}
}

// IsConnected reports whether the underlying stream is connected.
func (c *TickCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *TickCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	c.pipe.Start(ctx)

	tickCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, tickCh, errCh)
	return nil
}

func (c *TickCollector) consume(ctx context.Context, tickCh <-chan *models.Tick, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("stream")
				_ = c.stream.Reconnect(ctx)
			}
		case t := <-tickCh:
			if t == nil {
				continue
			}
			_ = c.pipe.Process(ctx, t)
		}
	}
}

// Shutdown stops the pipeline and closes the stream.
func (c *TickCollector) Shutdown(ctx context.Context) error {
	c.pipe.Stop()
	return c.stream.Close()
}
