// Package binance implements the live TickStream against the Binance
// combined-stream WebSocket endpoint.
package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"CryptoRadar/internal/domain/models"
	drepo "CryptoRadar/internal/domain/repository"
	"CryptoRadar/pkg/logger"

	"github.com/gorilla/websocket"
)

// Stream implements a TickStream backed by Binance miniTicker frames.
type Stream struct {
	websocketURL   string
	symbols        []string
	reconnectDelay time.Duration
	pingInterval   time.Duration
	log            *logger.Logger

	mu        sync.Mutex // guards conn and connected across the read/ping goroutines
	conn      *websocket.Conn
	connected bool
}

// New creates a Binance TickStream for the given symbols (e.g. BTCUSDT).
func New(websocketURL string, symbols []string, reconnectDelay, pingInterval time.Duration, log *logger.Logger) drepo.TickStream {
	return &Stream{
		websocketURL:   websocketURL,
		symbols:        symbols,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		log:            log,
	}
}

// Connect establishes the combined-stream WebSocket connection with all
// configured symbols in the path.
func (s *Stream) Connect(ctx context.Context) error {
	streams := make([]string, 0, len(s.symbols))
	for _, sym := range s.symbols {
		streams = append(streams, strings.ToLower(sym)+"@miniTicker")
	}
	u := fmt.Sprintf("%s/stream?streams=%s", s.websocketURL, strings.Join(streams, "/"))

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("binance connect: %w", err)
	}
	s.mu.Lock()
	s.conn = conn
	s.connected = true
	s.mu.Unlock()
	s.log.Info("binance stream connected", logger.Int("symbols", len(s.symbols)))
	return nil
}

// current returns the connection under the lock.
func (s *Stream) current() *websocket.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

// Subscribe is a no-op: combined streams subscribe through the URL path.
func (s *Stream) Subscribe(_ context.Context) error {
	if !s.IsConnected() {
		return fmt.Errorf("binance not connected")
	}
	return nil
}

type miniTicker struct {
	Symbol    string `json:"s"`
	Close     string `json:"c"`
	Volume    string `json:"v"`
	EventTime int64  `json:"E"` // ms
}

type streamFrame struct {
	Stream string     `json:"stream"`
	Data   miniTicker `json:"data"`
}

// Read streams Tick events and errors until the context is done or the
// connection drops. Ticks are dropped on backpressure rather than blocking
// the read loop.
func (s *Stream) Read(ctx context.Context) (<-chan *models.Tick, <-chan error) {
	ticks := make(chan *models.Tick, 1024)
	errs := make(chan error, 1)

	go func() {
		ticker := time.NewTicker(s.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if conn := s.current(); conn != nil {
					_ = conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	go func() {
		defer close(ticks)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				conn := s.current()
				if conn == nil {
					errs <- fmt.Errorf("binance conn nil")
					return
				}
				_, b, err := conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("binance read: %w", err)
					return
				}
				var frame streamFrame
				if err := json.Unmarshal(b, &frame); err != nil {
					// ignore non-ticker frames
					continue
				}
				if frame.Data.Symbol == "" {
					continue
				}
				tick, err := frame.Data.toTick()
				if err != nil {
					continue
				}
				select {
				case ticks <- tick:
				default:
					// drop on backpressure
				}
			}
		}
	}()

	return ticks, errs
}

func (m miniTicker) toTick() (*models.Tick, error) {
	price, err := strconv.ParseFloat(m.Close, 64)
	if err != nil {
		return nil, fmt.Errorf("parse price: %w", err)
	}
	volume, err := strconv.ParseFloat(m.Volume, 64)
	if err != nil {
		return nil, fmt.Errorf("parse volume: %w", err)
	}
	return &models.Tick{
		Symbol:    m.Symbol,
		Price:     price,
		Volume:    volume,
		Timestamp: m.EventTime / 1000,
	}, nil
}

// Reconnect closes and re-establishes the connection.
func (s *Stream) Reconnect(ctx context.Context) error {
	_ = s.Close()
	time.Sleep(s.reconnectDelay)
	if err := s.Connect(ctx); err != nil {
		return err
	}
	return s.Subscribe(ctx)
}

// Close closes the WS connection.
func (s *Stream) Close() error {
	s.mu.Lock()
	s.connected = false
	conn := s.conn
	s.mu.Unlock()
	if conn != nil {
		return conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (s *Stream) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}
