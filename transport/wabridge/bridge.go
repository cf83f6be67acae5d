// Package wabridge connects the assistant core to an external WhatsApp bridge
// process over a local websocket. The bridge owns the protocol work the core
// deliberately avoids: connection lifecycle, pairing, credential persistence.
// This adapter only translates frames to transport events and calls back.
package wabridge

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/venlabs/majordomo/transport"
)

const (
	defaultRequestTimeout = 15 * time.Second
	defaultReadyTimeout   = 30 * time.Second
	eventBuffer           = 128
)

// Handler consumes one inbound event. Run invokes it from a single dispatch
// goroutine, so events for the whole process are handled serially in arrival
// order.
type Handler func(ctx context.Context, ev transport.Event)

type Options struct {
	URL            string
	Logger         *slog.Logger
	Dialer         *websocket.Dialer
	RequestTimeout time.Duration
}

type Bridge struct {
	logger         *slog.Logger
	requestTimeout time.Duration

	conn    *websocket.Conn
	writeMu sync.Mutex

	pendingMu sync.Mutex
	pending   map[string]chan metadataResult

	selfID     string
	selfChatID string
}

type metadataResult struct {
	subject string
	err     error
}

// Dial connects to the bridge and waits for its ready frame, which announces
// the account's own identifiers. The returned Bridge is not yet reading
// events; call Run.
func Dial(ctx context.Context, opts Options) (*Bridge, error) {
	url := strings.TrimSpace(opts.URL)
	if url == "" {
		return nil, fmt.Errorf("bridge url is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	dialer := opts.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	requestTimeout := opts.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial bridge %s: %w", url, err)
	}

	b := &Bridge{
		logger:         logger,
		requestTimeout: requestTimeout,
		conn:           conn,
		pending:        make(map[string]chan metadataResult),
	}

	_ = conn.SetReadDeadline(time.Now().Add(defaultReadyTimeout))
	var f inboundFrame
	if err := conn.ReadJSON(&f); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("read bridge ready frame: %w", err)
	}
	if f.Type != frameReady {
		_ = conn.Close()
		return nil, fmt.Errorf("unexpected first frame %q, want %q", f.Type, frameReady)
	}
	_ = conn.SetReadDeadline(time.Time{})

	b.selfID = strings.TrimSpace(f.SelfID)
	b.selfChatID = strings.TrimSpace(f.SelfChatID)
	logger.Info("bridge connected", "self_chat_id", b.selfChatID)
	return b, nil
}

// SelfChatID reports the operator's own note-to-self conversation id as
// announced by the bridge.
func (b *Bridge) SelfChatID() string { return b.selfChatID }

// Run reads frames until the socket closes or ctx is cancelled. Message
// frames are queued and handed to the handler one at a time; metadata results
// are routed to their waiting request.
func (b *Bridge) Run(ctx context.Context, handler Handler) error {
	if handler == nil {
		return fmt.Errorf("handler is required")
	}

	events := make(chan transport.Event, eventBuffer)
	dispatchDone := make(chan struct{})
	go func() {
		defer close(dispatchDone)
		for ev := range events {
			handler(ctx, ev)
		}
	}()

	go func() {
		<-ctx.Done()
		_ = b.conn.Close()
	}()

	var readErr error
	for {
		var f inboundFrame
		if err := b.conn.ReadJSON(&f); err != nil {
			if ctx.Err() == nil {
				readErr = fmt.Errorf("read bridge frame: %w", err)
			}
			break
		}
		switch f.Type {
		case frameMessage:
			// Blocks once the buffer fills. A metadata result queued behind
			// that backlog cannot be routed until the enqueue completes, so a
			// dispatch waiting inside GroupMetadata rides out its request
			// timeout; eventBuffer bounds how much backlog it takes.
			events <- eventFromFrame(f)
		case frameGroupMetadataResult:
			b.resolveMetadata(f)
		default:
			b.logger.Debug("ignoring bridge frame", "type", f.Type)
		}
	}

	// Fail outstanding metadata requests first so a dispatch blocked on one
	// does not ride out its full timeout.
	b.failPending(fmt.Errorf("bridge connection closed"))
	close(events)
	<-dispatchDone
	if readErr != nil {
		return readErr
	}
	return ctx.Err()
}

func eventFromFrame(f inboundFrame) transport.Event {
	ts, err := time.Parse(time.RFC3339, f.Timestamp)
	if err != nil {
		ts = time.Now().UTC()
	}
	isGroup := f.IsGroup || transport.IsGroupJID(f.ConversationID)
	return transport.Event{
		ConversationID: f.ConversationID,
		ParticipantID:  f.ParticipantID,
		SenderName:     f.SenderName,
		Text:           f.Text,
		FromMe:         f.FromMe,
		IsGroup:        isGroup,
		Timestamp:      ts,
	}
}

func (b *Bridge) SendMessage(ctx context.Context, conversationID, text string) error {
	return b.writeFrame(outboundFrame{
		Type:           frameSend,
		ConversationID: conversationID,
		Text:           text,
	})
}

func (b *Bridge) SetPresence(ctx context.Context, conversationID string, state transport.Presence) error {
	return b.writeFrame(outboundFrame{
		Type:           framePresence,
		ConversationID: conversationID,
		State:          string(state),
	})
}

// GroupMetadata performs a correlated request/response round trip over the
// socket. Safe to call from the dispatch goroutine: the read loop keeps
// draining frames while the request waits.
func (b *Bridge) GroupMetadata(ctx context.Context, conversationID string) (transport.GroupMetadata, error) {
	id := uuid.NewString()
	resultCh := make(chan metadataResult, 1)

	b.pendingMu.Lock()
	b.pending[id] = resultCh
	b.pendingMu.Unlock()
	defer func() {
		b.pendingMu.Lock()
		delete(b.pending, id)
		b.pendingMu.Unlock()
	}()

	err := b.writeFrame(outboundFrame{
		Type:           frameGroupMetadata,
		ID:             id,
		ConversationID: conversationID,
	})
	if err != nil {
		return transport.GroupMetadata{}, err
	}

	timer := time.NewTimer(b.requestTimeout)
	defer timer.Stop()
	select {
	case res := <-resultCh:
		if res.err != nil {
			return transport.GroupMetadata{}, res.err
		}
		return transport.GroupMetadata{Subject: res.subject}, nil
	case <-timer.C:
		return transport.GroupMetadata{}, fmt.Errorf("group metadata for %s: timed out", conversationID)
	case <-ctx.Done():
		return transport.GroupMetadata{}, ctx.Err()
	}
}

func (b *Bridge) resolveMetadata(f inboundFrame) {
	b.pendingMu.Lock()
	ch, ok := b.pending[f.ID]
	if ok {
		delete(b.pending, f.ID)
	}
	b.pendingMu.Unlock()
	if !ok {
		b.logger.Debug("unmatched metadata result", "id", f.ID)
		return
	}
	res := metadataResult{subject: f.Subject}
	if f.Error != "" {
		res.err = fmt.Errorf("bridge: %s", f.Error)
	}
	ch <- res
}

func (b *Bridge) failPending(err error) {
	b.pendingMu.Lock()
	defer b.pendingMu.Unlock()
	for id, ch := range b.pending {
		delete(b.pending, id)
		ch <- metadataResult{err: err}
	}
}

func (b *Bridge) writeFrame(f outboundFrame) error {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	if err := b.conn.WriteJSON(f); err != nil {
		return fmt.Errorf("write bridge frame %s: %w", f.Type, err)
	}
	return nil
}
