package wabridge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/venlabs/majordomo/transport"
)

// fakeBridge upgrades one websocket connection, sends the ready frame, and
// hands the connection to the test.
type fakeBridge struct {
	srv   *httptest.Server
	conns chan *websocket.Conn
}

func newFakeBridge(t *testing.T) *fakeBridge {
	t.Helper()
	fb := &fakeBridge{conns: make(chan *websocket.Conn, 1)}
	upgrader := websocket.Upgrader{}
	fb.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		if err := conn.WriteJSON(inboundFrame{
			Type:       frameReady,
			SelfID:     "15550001111:2@s.whatsapp.net",
			SelfChatID: "15550001111@s.whatsapp.net",
		}); err != nil {
			t.Errorf("write ready: %v", err)
			return
		}
		fb.conns <- conn
	}))
	t.Cleanup(fb.srv.Close)
	return fb
}

func (fb *fakeBridge) url() string {
	return "ws" + strings.TrimPrefix(fb.srv.URL, "http")
}

func (fb *fakeBridge) conn(t *testing.T) *websocket.Conn {
	t.Helper()
	select {
	case c := <-fb.conns:
		return c
	case <-time.After(5 * time.Second):
		t.Fatalf("no websocket connection arrived")
		return nil
	}
}

func (fb *fakeBridge) readFrame(t *testing.T, conn *websocket.Conn) outboundFrame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var f outboundFrame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read client frame: %v", err)
	}
	return f
}

func dialTestBridge(t *testing.T, fb *fakeBridge) *Bridge {
	t.Helper()
	b, err := Dial(context.Background(), Options{URL: fb.url(), RequestTimeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	return b
}

func TestDialReadsReadyFrame(t *testing.T) {
	t.Parallel()

	fb := newFakeBridge(t)
	b := dialTestBridge(t, fb)
	if got := b.SelfChatID(); got != "15550001111@s.whatsapp.net" {
		t.Fatalf("SelfChatID() = %q", got)
	}
}

func TestRunDeliversMessageEvents(t *testing.T) {
	t.Parallel()

	fb := newFakeBridge(t)
	b := dialTestBridge(t, fb)
	conn := fb.conn(t)

	events := make(chan transport.Event, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runDone := make(chan error, 1)
	go func() {
		runDone <- b.Run(ctx, func(ctx context.Context, ev transport.Event) {
			events <- ev
		})
	}()

	if err := conn.WriteJSON(inboundFrame{
		Type:           frameMessage,
		ConversationID: "group-1@g.us",
		ParticipantID:  "friend@s.whatsapp.net",
		SenderName:     "Trinity",
		Text:           "/wake",
		Timestamp:      "2026-03-01T12:00:00Z",
	}); err != nil {
		t.Fatalf("write message frame: %v", err)
	}

	select {
	case ev := <-events:
		if ev.ConversationID != "group-1@g.us" || ev.Text != "/wake" || ev.SenderName != "Trinity" {
			t.Fatalf("event = %+v", ev)
		}
		if !ev.IsGroup {
			t.Fatalf("IsGroup = false, want inferred from the room id")
		}
		if want := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC); !ev.Timestamp.Equal(want) {
			t.Fatalf("Timestamp = %v, want %v", ev.Timestamp, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no event delivered")
	}

	cancel()
	if err := <-runDone; err != nil && err != context.Canceled {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestSendMessageAndPresenceFrames(t *testing.T) {
	t.Parallel()

	fb := newFakeBridge(t)
	b := dialTestBridge(t, fb)
	conn := fb.conn(t)

	if err := b.SendMessage(context.Background(), "friend@s.whatsapp.net", "hello"); err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	f := fb.readFrame(t, conn)
	if f.Type != frameSend || f.ConversationID != "friend@s.whatsapp.net" || f.Text != "hello" {
		t.Fatalf("send frame = %+v", f)
	}

	if err := b.SetPresence(context.Background(), "friend@s.whatsapp.net", transport.PresenceComposing); err != nil {
		t.Fatalf("SetPresence() error = %v", err)
	}
	f = fb.readFrame(t, conn)
	if f.Type != framePresence || f.State != "composing" {
		t.Fatalf("presence frame = %+v", f)
	}
}

func TestGroupMetadataRoundTrip(t *testing.T) {
	t.Parallel()

	fb := newFakeBridge(t)
	b := dialTestBridge(t, fb)
	conn := fb.conn(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runDone := make(chan error, 1)
	go func() {
		runDone <- b.Run(ctx, func(context.Context, transport.Event) {})
	}()

	// Answer the request from the server side with the correlated id.
	go func() {
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var req outboundFrame
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		_ = conn.WriteJSON(inboundFrame{
			Type:    frameGroupMetadataResult,
			ID:      req.ID,
			Subject: "Neo Control",
		})
	}()

	meta, err := b.GroupMetadata(ctx, "group-1@g.us")
	if err != nil {
		t.Fatalf("GroupMetadata() error = %v", err)
	}
	if meta.Subject != "Neo Control" {
		t.Fatalf("Subject = %q", meta.Subject)
	}

	cancel()
	<-runDone
}

func TestGroupMetadataBridgeError(t *testing.T) {
	t.Parallel()

	fb := newFakeBridge(t)
	b := dialTestBridge(t, fb)
	conn := fb.conn(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runDone := make(chan error, 1)
	go func() {
		runDone <- b.Run(ctx, func(context.Context, transport.Event) {})
	}()

	go func() {
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var req outboundFrame
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		_ = conn.WriteJSON(inboundFrame{
			Type:  frameGroupMetadataResult,
			ID:    req.ID,
			Error: "not a participant",
		})
	}()

	_, err := b.GroupMetadata(ctx, "group-1@g.us")
	if err == nil || !strings.Contains(err.Error(), "not a participant") {
		t.Fatalf("GroupMetadata() error = %v", err)
	}

	cancel()
	<-runDone
}

func TestRunFailsPendingOnDisconnect(t *testing.T) {
	t.Parallel()

	fb := newFakeBridge(t)
	b := dialTestBridge(t, fb)
	conn := fb.conn(t)

	runDone := make(chan error, 1)
	go func() {
		runDone <- b.Run(context.Background(), func(context.Context, transport.Event) {})
	}()

	// Swallow the request, then drop the connection instead of answering.
	go func() {
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var req outboundFrame
		_ = conn.ReadJSON(&req)
		_ = conn.Close()
	}()

	start := time.Now()
	_, err := b.GroupMetadata(context.Background(), "group-1@g.us")
	if err == nil {
		t.Fatalf("GroupMetadata() error = nil after disconnect")
	}
	// Well under the request timeout: the teardown fails the request directly.
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("request took %v to fail", elapsed)
	}
	if runErr := <-runDone; runErr == nil {
		t.Fatalf("Run() error = nil after disconnect")
	}
}

func TestEventFromFrameFallbacks(t *testing.T) {
	t.Parallel()

	ev := eventFromFrame(inboundFrame{
		Type:           frameMessage,
		ConversationID: "friend@s.whatsapp.net",
		Text:           "hi",
		Timestamp:      "not-a-time",
	})
	if ev.IsGroup {
		t.Fatalf("IsGroup = true for a direct chat")
	}
	if ev.Timestamp.IsZero() {
		t.Fatalf("Timestamp zero, want a current-time fallback")
	}
}
