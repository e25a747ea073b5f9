package devserver

import (
	"sync"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"taskboard-client/domain"
)

// hub fans task events out to every connected feed subscriber. The feed is
// not pre-filtered per subscriber; relevance filtering is the client's job.
type hub struct {
	log *log.Logger

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func newHub(logger *log.Logger) *hub {
	return &hub{log: logger, conns: make(map[*websocket.Conn]struct{})}
}

func (h *hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

func (h *hub) broadcast(eventType string, task domain.Task) {
	data, err := sonic.ConfigStd.Marshal(domain.TaskEvent{Type: eventType, Payload: task})
	if err != nil {
		h.log.WithError(err).Error("devserver: marshal event")
		return
	}

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.WithError(err).Debug("devserver: dropping feed subscriber")
			h.remove(conn)
		}
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	for conn := range h.conns {
		_ = conn.Close()
	}
	h.conns = make(map[*websocket.Conn]struct{})
	h.mu.Unlock()
}
