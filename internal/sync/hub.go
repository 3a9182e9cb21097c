package sync

import (
	"encoding/json"
	"log"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const writeTimeout = 2 * time.Second

// viewer is one connected read-only masterplan viewer.
type viewer interface {
	transport() string
	send(line []byte) error
	close() error
}

type tcpViewer struct{ conn net.Conn }

func (v tcpViewer) transport() string { return "tcp" }
func (v tcpViewer) close() error      { return v.conn.Close() }

func (v tcpViewer) send(line []byte) error {
	_ = v.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	_, err := v.conn.Write(line)
	return err
}

type wsViewer struct{ conn *websocket.Conn }

func (v wsViewer) transport() string { return "websocket" }
func (v wsViewer) close() error      { return v.conn.Close() }

func (v wsViewer) send(line []byte) error {
	_ = v.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return v.conn.WriteMessage(websocket.TextMessage, line)
}

// Hub tells every connected viewer when the plot catalog was saved so it
// can refetch. Viewers are keyed by their connection.
type Hub struct {
	mu      sync.Mutex
	viewers map[any]viewer
}

type Stats struct {
	TCPClients int `json:"tcp_clients"`
	WSClients  int `json:"ws_clients"`
}

func NewHub() *Hub {
	return &Hub{viewers: make(map[any]viewer)}
}

// AddTCP registers a viewer on the line-delimited TCP feed.
func (h *Hub) AddTCP(conn net.Conn) { h.add(conn, tcpViewer{conn: conn}) }

// RemoveTCP drops a TCP viewer and closes its connection.
func (h *Hub) RemoveTCP(conn net.Conn) { h.remove(conn) }

func (h *Hub) AddWS(ws *websocket.Conn) { h.add(ws, wsViewer{conn: ws}) }

func (h *Hub) RemoveWS(ws *websocket.Conn) { h.remove(ws) }

func (h *Hub) add(key any, v viewer) {
	h.mu.Lock()
	h.viewers[key] = v
	h.mu.Unlock()
}

func (h *Hub) remove(key any) {
	h.mu.Lock()
	v, ok := h.viewers[key]
	delete(h.viewers, key)
	h.mu.Unlock()
	if ok {
		_ = v.close()
	}
}

// PlotsUpdated satisfies catalog.Notifier. Delivery happens off the
// request goroutine.
func (h *Hub) PlotsUpdated(revision string, ids []string) {
	ev := PlotsEvent{
		ID:       uuid.NewString(),
		Type:     EventPlotsUpdated,
		Revision: revision,
		PlotIDs:  ids,
		At:       time.Now().UTC(),
	}
	go h.Publish(ev)
}

// Publish sends ev to every viewer as one JSON line. Viewers whose write
// fails are dropped.
func (h *Hub) Publish(ev PlotsEvent) {
	b, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[sync] marshal %s: %v", ev.Type, err)
		return
	}
	b = append(b, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	for key, v := range h.viewers {
		if err := v.send(b); err != nil {
			log.Printf("[sync] dropping %s viewer: %v", v.transport(), err)
			_ = v.close()
			delete(h.viewers, key)
		}
	}
}

func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	var s Stats
	for _, v := range h.viewers {
		if v.transport() == "tcp" {
			s.TCPClients++
		} else {
			s.WSClients++
		}
	}
	return s
}

// welcome is the first line a viewer receives on either transport.
func (h *Hub) welcome(transport string) []byte {
	stats := h.Stats()
	b, _ := json.Marshal(WelcomeEvent{
		Type:      EventWelcome,
		Transport: transport,
		Clients:   stats.TCPClients + stats.WSClients,
	})
	return append(b, '\n')
}
