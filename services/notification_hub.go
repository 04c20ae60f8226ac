package services

import "sync"

// Subscriber receives notifications for one session.
type Subscriber struct {
	SessionID string
	Send      chan Notification
}

// NotificationHub fans admin notifications out to live feed subscribers.
type NotificationHub struct {
	mu   sync.Mutex
	subs map[string]map[*Subscriber]struct{}
}

func NewNotificationHub() *NotificationHub {
	return &NotificationHub{subs: make(map[string]map[*Subscriber]struct{})}
}

func (h *NotificationHub) Subscribe(sessionID string) *Subscriber {
	s := &Subscriber{SessionID: sessionID, Send: make(chan Notification, 16)}
	h.mu.Lock()
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[*Subscriber]struct{})
	}
	h.subs[sessionID][s] = struct{}{}
	h.mu.Unlock()
	return s
}

func (h *NotificationHub) Unsubscribe(s *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[s.SessionID]; ok {
		if _, ok := set[s]; ok {
			delete(set, s)
			close(s.Send)
		}
		if len(set) == 0 {
			delete(h.subs, s.SessionID)
		}
	}
}

// Publish never blocks; a subscriber with a full buffer is dropped.
func (h *NotificationHub) Publish(sessionID string, n Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs[sessionID] {
		select {
		case s.Send <- n:
		default:
			delete(h.subs[sessionID], s)
			close(s.Send)
		}
	}
}

// CloseSession disconnects every subscriber of the session.
func (h *NotificationHub) CloseSession(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs[sessionID] {
		close(s.Send)
	}
	delete(h.subs, sessionID)
}
