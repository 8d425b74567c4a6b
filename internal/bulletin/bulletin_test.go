// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bulletin

import (
	"context"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/scantegrity/pollcore/internal/ballots"
)

func TestVotePayloadRoundTrip(t *testing.T) {
	vc, err := ballots.ParseVoteCode("12340-56785-00000-00005")
	if err != nil {
		t.Fatal(err)
	}
	payload := EncodeVotePayload(vc)
	got, err := ParseVotePayload(payload)
	if err != nil {
		t.Fatal(err)
	}
	if got != vc {
		t.Fatalf("round trip mismatch: got %v, want %v", got, vc)
	}
}

func TestParseVotePayloadRejectsBadHex(t *testing.T) {
	if _, err := ParseVotePayload("0xzz"); err == nil {
		t.Fatal("expected error for malformed hex payload")
	}
}

func TestParseVotePayloadRejectsBadJSON(t *testing.T) {
	if _, err := ParseVotePayload("0x7b"); err == nil {
		t.Fatal("expected error for truncated json payload")
	}
}

func TestRootNotifierBroadcast(t *testing.T) {
	notifier := NewRootNotifier()
	defer notifier.Close()

	var upgrader websocket.Upgrader
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		notifier.Subscribe(conn)
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var root [32]byte
	for i := range root {
		root[i] = byte(i)
	}

	// Give the server goroutine a moment to register the subscription
	// before broadcasting.
	deadline := time.Now().Add(2 * time.Second)
	var broadcastErr error
	for time.Now().Before(deadline) {
		notifier.mu.Lock()
		n := len(notifier.clients)
		notifier.mu.Unlock()
		if n > 0 {
			broadcastErr = notifier.Broadcast(context.Background(), root)
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if broadcastErr != nil {
		t.Fatalf("Broadcast: %v", broadcastErr)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if got := string(msg); got != hex.EncodeToString(root[:]) {
		t.Fatalf("broadcast payload = %q, want %q", got, hex.EncodeToString(root[:]))
	}
}
