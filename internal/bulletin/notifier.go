// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bulletin

import (
	"context"
	"encoding/hex"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/scantegrity/pollcore/internal/pollerr"
)

// RootNotifier broadcasts published Merkle roots to any number of
// connected websocket observers (e.g. a public audit dashboard
// watching for new commitments in real time). It is an addition
// beyond the bulletin log itself: publication to the external log is
// still authoritative, this only mirrors it to live subscribers.
type RootNotifier struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewRootNotifier returns a RootNotifier with no connected clients.
func NewRootNotifier() *RootNotifier {
	return &RootNotifier{clients: make(map[*websocket.Conn]struct{})}
}

// Subscribe registers an already-upgraded websocket connection to
// receive future root broadcasts. Callers perform the upgrade in their
// own net/http handler before calling it.
func (n *RootNotifier) Subscribe(conn *websocket.Conn) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.clients[conn] = struct{}{}
}

// Broadcast sends root to every currently subscribed client, dropping
// any connection that errors.
func (n *RootNotifier) Broadcast(ctx context.Context, root [32]byte) error {
	payload := []byte(hex.EncodeToString(root[:]))

	n.mu.Lock()
	defer n.mu.Unlock()

	var firstErr error
	for conn := range n.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			delete(n.clients, conn)
			_ = conn.Close()
			if firstErr == nil {
				firstErr = pollerr.New(pollerr.ErrExternalIoError, "broadcast root to subscriber: %v", err)
			}
		}
	}
	return firstErr
}

// Close disconnects every subscribed client.
func (n *RootNotifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for conn := range n.clients {
		_ = conn.Close()
		delete(n.clients, conn)
	}
}
