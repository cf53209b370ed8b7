// Package connectivity tracks whether the content store is reachable. State
// flips on reachability events (MongoDB server heartbeats in production) and
// is pushed to subscribers; nothing here polls.
package connectivity

import (
	"log/slog"
	"sync"

	"go.mongodb.org/mongo-driver/event"
)

type Monitor struct {
	log *slog.Logger

	mu     sync.RWMutex
	online bool
	nextID int
	subs   map[int]func(online bool)
}

// NewMonitor starts online, matching a browser that loads with a connection.
func NewMonitor(log *slog.Logger) *Monitor {
	return &Monitor{
		log:    log,
		online: true,
		subs:   make(map[int]func(bool)),
	}
}

func (m *Monitor) Online() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

// Set records a reachability event. Subscribers only hear about transitions.
func (m *Monitor) Set(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	subs := make([]func(bool), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	if m.log != nil {
		if online {
			m.log.Info("connectivity: back online")
		} else {
			m.log.Warn("connectivity: offline")
		}
	}
	for _, fn := range subs {
		fn(online)
	}
}

// Subscribe registers fn for transitions. The returned func removes it and is
// safe to call more than once.
func (m *Monitor) Subscribe(fn func(online bool)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
		})
	}
}

// ServerMonitor feeds driver heartbeats into the monitor.
func (m *Monitor) ServerMonitor() *event.ServerMonitor {
	return &event.ServerMonitor{
		ServerHeartbeatSucceeded: func(*event.ServerHeartbeatSucceededEvent) {
			m.Set(true)
		},
		ServerHeartbeatFailed: func(*event.ServerHeartbeatFailedEvent) {
			m.Set(false)
		},
	}
}
