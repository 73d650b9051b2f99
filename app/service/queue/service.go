// Package queue fans inbound webhook messages out to one mailbox per user.
// A user's messages are handled strictly in arrival order by a dedicated
// worker goroutine; different users never block each other.
package queue

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/do"
)

const (
	mailboxSize = 16
	idleTimeout = 2 * time.Minute
)

var _ do.Shutdownable = (*Service)(nil)

type Message struct {
	UserID string
	Type   string
	Text   string
}

type Handler func(ctx context.Context, msg Message)

type Service struct {
	ctx context.Context

	mu      sync.Mutex
	boxes   map[string]chan Message
	handler Handler
	closed  bool

	wg sync.WaitGroup
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		ctx:   do.MustInvoke[context.Context](di),
		boxes: make(map[string]chan Message),
	}, nil
}

// SetHandler wires the per-message callback. Must be called before Add.
func (s *Service) SetHandler(handler Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.handler = handler
}

// Add enqueues one inbound message into the user's mailbox, creating the
// mailbox and its worker on first use. A full mailbox drops the message
// with a warning rather than blocking the webhook handler.
func (s *Service) Add(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.handler == nil {
		return
	}

	box, ok := s.boxes[msg.UserID]
	if !ok {
		box = make(chan Message, mailboxSize)
		s.boxes[msg.UserID] = box

		s.wg.Add(1)
		go s.runWorker(msg.UserID, box, s.handler)
	}

	select {
	case box <- msg:
	default:
		slog.Warn("user mailbox is full, dropping message",
			"user_id", msg.UserID)
	}
}

func (s *Service) runWorker(userID string, box chan Message, handler Handler) {
	defer s.wg.Done()

	idle := time.NewTimer(idleTimeout)
	defer idle.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return

		case msg := <-box:
			handler(s.ctx, msg)

			if !idle.Stop() {
				select {
				case <-idle.C:
				default:
				}
			}
			idle.Reset(idleTimeout)

		case <-idle.C:
			// Adds happen under the lock, so emptiness here means the
			// mailbox can be retired without losing messages.
			s.mu.Lock()
			if len(box) == 0 {
				delete(s.boxes, userID)
				s.mu.Unlock()
				return
			}
			s.mu.Unlock()

			idle.Reset(idleTimeout)
		}
	}
}

func (s *Service) Shutdown() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.wg.Wait()

	return nil
}
