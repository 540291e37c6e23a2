package binance

import (
	"context"
	"sync"
	"testing"
	"time"

	"CryptoRadar/pkg/logger"
)

func TestToTick(t *testing.T) {
	tests := []struct {
		name    string
		in      miniTicker
		price   float64
		volume  float64
		ts      int64
		wantErr bool
	}{
		{
			name:   "valid frame",
			in:     miniTicker{Symbol: "BTCUSDT", Close: "64250.5", Volume: "1234.75", EventTime: 1700000000123},
			price:  64250.5,
			volume: 1234.75,
			ts:     1700000000,
		},
		{
			name:    "bad price",
			in:      miniTicker{Symbol: "BTCUSDT", Close: "n/a", Volume: "1"},
			wantErr: true,
		},
		{
			name:    "bad volume",
			in:      miniTicker{Symbol: "BTCUSDT", Close: "1", Volume: ""},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tick, err := tt.in.toTick()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("toTick: %v", err)
			}
			if tick.Symbol != tt.in.Symbol {
				t.Errorf("symbol = %q, want %q", tick.Symbol, tt.in.Symbol)
			}
			if tick.Price != tt.price || tick.Volume != tt.volume {
				t.Errorf("price/volume = %v/%v, want %v/%v", tick.Price, tick.Volume, tt.price, tt.volume)
			}
			if tick.Timestamp != tt.ts {
				t.Errorf("timestamp = %d, want %d", tick.Timestamp, tt.ts)
			}
		})
	}
}

func TestCloseBeforeConnect(t *testing.T) {
	s := newTestStream()
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if s.IsConnected() {
		t.Error("stream reports connected after close")
	}
}

func TestSubscribeRequiresConnection(t *testing.T) {
	s := newTestStream()
	if err := s.Subscribe(context.Background()); err == nil {
		t.Fatal("expected error while disconnected")
	}
}

// Exercises the connection state from several goroutines at once; run with
// -race to catch unsynchronized access.
func TestConcurrentStateAccess(t *testing.T) {
	s := newTestStream()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = s.IsConnected()
				_ = s.current()
				_ = s.Close()
			}
		}()
	}
	wg.Wait()

	if s.IsConnected() {
		t.Error("stream reports connected")
	}
}

func newTestStream() *Stream {
	l, _ := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stderr"})
	return &Stream{
		websocketURL:   "wss://example.invalid",
		symbols:        []string{"BTCUSDT"},
		reconnectDelay: time.Millisecond,
		pingInterval:   time.Second,
		log:            l,
	}
}
