// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"nhooyr.io/websocket"
)

// Handler receives each record observed on the stream. It is invoked
// from the read goroutine, so implementations must hand off to the UI
// loop (e.g. via tea.Program.Send) rather than mutate view state.
type Handler func(Record)

// StreamConfig configures a connection to the gateway's run-events
// socket.
type StreamConfig struct {
	// URL is the websocket endpoint, e.g. wss://gateway/runs/{id}/events.
	URL string

	// Token is the bearer token for the gateway, if any.
	Token string

	// MaxMessageBytes bounds a single frame. Zero means 512 KiB.
	MaxMessageBytes int64
}

// Stream reads run events from the gateway over a websocket and feeds
// them to a Handler. Reconnection is caller-initiated: after the socket
// drops, Connected reports false and the stream stays down until the
// caller connects again.
type Stream struct {
	cfg     StreamConfig
	handler Handler

	mu        sync.Mutex
	conn      *websocket.Conn
	cancel    context.CancelFunc
	connected bool
}

// NewStream creates a stream for the given endpoint and handler.
func NewStream(cfg StreamConfig, handler Handler) *Stream {
	if cfg.MaxMessageBytes <= 0 {
		cfg.MaxMessageBytes = 512 * 1024
	}
	return &Stream{cfg: cfg, handler: handler}
}

// Connect dials the endpoint and starts the read loop. It returns an
// error if the stream is already connected or the dial fails.
func (s *Stream) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		return errors.New("stream already connected")
	}

	opts := &websocket.DialOptions{}
	if s.cfg.Token != "" {
		opts.HTTPHeader = map[string][]string{
			"Authorization": {"Bearer " + s.cfg.Token},
		}
	}

	conn, _, err := websocket.Dial(ctx, s.cfg.URL, opts)
	if err != nil {
		return fmt.Errorf("failed to dial event stream: %w", err)
	}
	conn.SetReadLimit(s.cfg.MaxMessageBytes)

	readCtx, cancel := context.WithCancel(context.Background())
	s.conn = conn
	s.cancel = cancel
	s.connected = true

	go s.readLoop(readCtx, conn)
	return nil
}

// Disconnect closes the socket. Safe to call repeatedly; this is the
// user-initiated cancellation path in addition to teardown-on-unmount.
func (s *Stream) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked("client disconnect")
}

// Connected reports whether the read loop is live.
func (s *Stream) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// closeLocked tears the connection down. Caller holds s.mu.
func (s *Stream) closeLocked(reason string) {
	if !s.connected {
		return
	}
	s.connected = false
	if s.cancel != nil {
		s.cancel()
	}
	if s.conn != nil {
		s.conn.Close(websocket.StatusNormalClosure, reason)
		s.conn = nil
	}
}

// readLoop decodes frames until the socket drops, then emits a final
// disconnect record so the transcript shows why the stream ended.
func (s *Stream) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			s.mu.Lock()
			wasConnected := s.connected
			s.closeLocked("read failed")
			s.mu.Unlock()

			if wasConnected && s.handler != nil {
				s.handler(Record{
					TS:      time.Now(),
					Type:    TypeDisconnect,
					Payload: map[string]any{"reason": err.Error()},
				})
			}
			return
		}

		rec, err := decodeWire(data)
		if err != nil {
			// Malformed frames are skipped; the stream itself is fine.
			continue
		}
		if s.handler != nil {
			s.handler(rec)
		}
	}
}

// wireEvent is the gateway's JSON frame for one run event.
type wireEvent struct {
	Type         string         `json:"type"`
	AgentID      string         `json:"agentId,omitempty"`
	RequestID    string         `json:"requestId,omitempty"`
	TS           int64          `json:"ts"` // milliseconds since epoch
	Text         string         `json:"text,omitempty"`
	Payload      map[string]any `json:"payload,omitempty"`
	DroppedBytes int            `json:"droppedBytes,omitempty"`
	DroppedLines int            `json:"droppedLines,omitempty"`
}

// decodeWire parses one frame into a Record.
func decodeWire(data []byte) (Record, error) {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return Record{}, fmt.Errorf("failed to decode event frame: %w", err)
	}
	if w.Type == "" {
		return Record{}, errors.New("event frame missing type")
	}

	ts := time.Now()
	if w.TS > 0 {
		ts = time.UnixMilli(w.TS)
	}

	return Record{
		TS:           ts,
		Type:         Type(w.Type),
		AgentID:      w.AgentID,
		RequestID:    w.RequestID,
		Text:         w.Text,
		Payload:      w.Payload,
		DroppedBytes: w.DroppedBytes,
		DroppedLines: w.DroppedLines,
	}, nil
}
