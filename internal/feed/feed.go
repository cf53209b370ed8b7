// Package feed carries "collection changed" signals from writers to live
// mirrors. Messages carry no document data; subscribers re-run their query.
package feed

import (
	"context"
	"sync"
)

type Feed interface {
	Publish(ctx context.Context, topic string) error
	// Subscribe calls fn for every change on topic until the returned func
	// is called or ctx is cancelled.
	Subscribe(ctx context.Context, topic string, fn func()) (func(), error)
}

// Local fans changes out inside one process. Handlers run on the publisher's
// goroutine, so a write is visible to every mirror by the time Publish returns.
type Local struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]func()
}

func NewLocal() *Local {
	return &Local{subs: make(map[string]map[int]func())}
}

func (l *Local) Publish(ctx context.Context, topic string) error {
	l.mu.RLock()
	handlers := make([]func(), 0, len(l.subs[topic]))
	for _, fn := range l.subs[topic] {
		handlers = append(handlers, fn)
	}
	l.mu.RUnlock()

	for _, fn := range handlers {
		fn()
	}
	return nil
}

func (l *Local) Subscribe(ctx context.Context, topic string, fn func()) (func(), error) {
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	if l.subs[topic] == nil {
		l.subs[topic] = make(map[int]func())
	}
	l.subs[topic][id] = fn
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.subs[topic], id)
			l.mu.Unlock()
		})
	}, nil
}
