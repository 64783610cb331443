package realtime

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/saforex/saforex-go/internal/logger"
	"github.com/saforex/saforex-go/internal/metrics"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Heartbeat period keeping the channel alive
	heartbeatPeriod = 25 * time.Second

	// Reconnect backoff bounds
	initialBackoff = 1 * time.Second
	maxBackoff     = 30 * time.Second

	// Maximum message size allowed from the feed
	maxMessageSize = 512 * 1024 // 512KB
)

// EventType is the kind of row change a feed notification carries.
type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// ChangeEvent is one insert/update/delete notification for a table.
// Delivery is at-least-once with no ordering guarantee.
type ChangeEvent struct {
	Table string
	Type  EventType
	New   json.RawMessage
	Old   json.RawMessage
}

// Client dials the platform change feed. Each Subscribe call owns exactly
// one connection; cancelling the returned func tears it down.
type Client struct {
	url string
}

// NewClient builds a change-feed client for the given platform URL and key.
func NewClient(platformURL, anonKey string) *Client {
	wsURL := strings.Replace(platformURL, "http", "ws", 1)
	return &Client{
		url: wsURL + "/realtime/v1/websocket?apikey=" + anonKey,
	}
}

// frame is the channel-protocol envelope.
type frame struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     string          `json:"ref"`
}

// changePayload is the body of a row-change frame.
type changePayload struct {
	Record    json.RawMessage `json:"record"`
	OldRecord json.RawMessage `json:"old_record"`
}

// Subscribe opens a feed for one table and invokes handler for every
// notification until the returned cancel func is called. The handler runs
// on the subscription's read goroutine.
func (c *Client) Subscribe(table string, handler func(ChangeEvent)) (func(), error) {
	ctx, cancel := context.WithCancel(context.Background())

	sub := &subscription{
		client:  c,
		table:   table,
		topic:   "realtime:public:" + table,
		handler: handler,
	}
	go sub.run(ctx)

	return cancel, nil
}

type subscription struct {
	client  *Client
	table   string
	topic   string
	handler func(ChangeEvent)
	refSeq  atomic.Int64
}

func (s *subscription) nextRef() string {
	return strconv.FormatInt(s.refSeq.Add(1), 10)
}

// run keeps one connection alive for the lifetime of the subscription,
// reconnecting with doubling backoff after failures.
func (s *subscription) run(ctx context.Context) {
	delay := initialBackoff
	for {
		conn, err := s.dial(ctx)
		if err == nil {
			delay = initialBackoff
			s.consume(ctx, conn)
			conn.Close(websocket.StatusNormalClosure, "resubscribing")
		} else if ctx.Err() == nil {
			logger.Log.Warn("change feed dial failed",
				logger.WithTable(s.table), zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}

		metrics.Get().RealtimeReconnectsTotal.WithLabelValues(s.table).Inc()
		delay *= 2
		if delay > maxBackoff {
			delay = maxBackoff
		}
	}
}

// dial connects and joins the table topic.
func (s *subscription) dial(ctx context.Context) (*websocket.Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, writeWait)
	defer cancel()

	conn, _, err := websocket.Dial(dialCtx, s.client.url, nil)
	if err != nil {
		return nil, err
	}
	conn.SetReadLimit(maxMessageSize)

	join := frame{
		Topic:   s.topic,
		Event:   "phx_join",
		Payload: json.RawMessage(`{}`),
		Ref:     s.nextRef(),
	}

	writeCtx, wcancel := context.WithTimeout(ctx, writeWait)
	defer wcancel()
	if err := wsjson.Write(writeCtx, conn, join); err != nil {
		conn.Close(websocket.StatusInternalError, "join failed")
		return nil, err
	}

	logger.Log.Debug("change feed subscribed", logger.WithTable(s.table))
	return conn, nil
}

// consume reads frames until the connection drops or ctx is cancelled.
func (s *subscription) consume(ctx context.Context, conn *websocket.Conn) {
	heartbeatCtx, stopHeartbeat := context.WithCancel(ctx)
	defer stopHeartbeat()
	go s.heartbeat(heartbeatCtx, conn)

	for {
		var f frame
		if err := wsjson.Read(ctx, conn, &f); err != nil {
			if ctx.Err() == nil && websocket.CloseStatus(err) != websocket.StatusNormalClosure {
				logger.Log.Warn("change feed read error",
					logger.WithTable(s.table), zap.Error(err))
			}
			return
		}

		switch f.Event {
		case string(EventInsert), string(EventUpdate), string(EventDelete):
			ev, ok := decodeChange(s.table, f)
			if !ok {
				continue
			}
			metrics.Get().RealtimeEventsTotal.
				WithLabelValues(s.table, string(ev.Type)).Inc()
			s.handler(ev)
		default:
			// phx_reply, presence and heartbeat acks are not row changes.
		}
	}
}

// heartbeat keeps the channel open per the platform protocol.
func (s *subscription) heartbeat(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(heartbeatPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			hb := frame{
				Topic:   "phoenix",
				Event:   "heartbeat",
				Payload: json.RawMessage(`{}`),
				Ref:     s.nextRef(),
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := wsjson.Write(writeCtx, conn, hb)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

// decodeChange maps a row-change frame onto a ChangeEvent.
func decodeChange(table string, f frame) (ChangeEvent, bool) {
	var body changePayload
	if err := json.Unmarshal(f.Payload, &body); err != nil {
		return ChangeEvent{}, false
	}
	return ChangeEvent{
		Table: table,
		Type:  EventType(f.Event),
		New:   body.Record,
		Old:   body.OldRecord,
	}, true
}
