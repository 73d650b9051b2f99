package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	di := do.New()
	do.ProvideValue(di, ctx)

	svc, err := New(di)
	require.NoError(t, err)
	t.Cleanup(func() { cancel(); _ = svc.Shutdown() })

	return svc
}

type recorder struct {
	mu   sync.Mutex
	seen map[string][]string
}

func newRecorder() *recorder {
	return &recorder{seen: make(map[string][]string)}
}

func (r *recorder) handle(_ context.Context, msg Message) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seen[msg.UserID] = append(r.seen[msg.UserID], msg.Text)
}

func (r *recorder) texts(userID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.seen[userID]...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}

	t.Fatal("condition not reached in time")
}

func TestMessagesForOneUserKeepArrivalOrder(t *testing.T) {
	svc := newTestService(t)
	rec := newRecorder()
	svc.SetHandler(rec.handle)

	var want []string
	for i := 0; i < 50; i++ {
		text := fmt.Sprintf("message-%02d", i)
		want = append(want, text)
		svc.Add(Message{UserID: "user-1", Type: "text", Text: text})
	}

	waitFor(t, func() bool { return len(rec.texts("user-1")) == len(want) })
	assert.Equal(t, want, rec.texts("user-1"))
}

func TestSlowUserDoesNotBlockOthers(t *testing.T) {
	svc := newTestService(t)

	release := make(chan struct{})
	rec := newRecorder()

	svc.SetHandler(func(ctx context.Context, msg Message) {
		if msg.UserID == "slow-user" {
			select {
			case <-release:
			case <-ctx.Done():
			}
		}
		rec.handle(ctx, msg)
	})
	defer close(release)

	svc.Add(Message{UserID: "slow-user", Type: "text", Text: "stuck"})
	svc.Add(Message{UserID: "fast-user", Type: "text", Text: "quick"})

	waitFor(t, func() bool { return len(rec.texts("fast-user")) == 1 })
	assert.Empty(t, rec.texts("slow-user"))
}

func TestAddWithoutHandlerIsDropped(t *testing.T) {
	svc := newTestService(t)

	// Must not panic or spawn anything.
	svc.Add(Message{UserID: "user-1", Type: "text", Text: "hello"})
}

func TestFullMailboxDropsInsteadOfBlocking(t *testing.T) {
	svc := newTestService(t)

	started := make(chan struct{})
	release := make(chan struct{})
	rec := newRecorder()

	svc.SetHandler(func(ctx context.Context, msg Message) {
		if msg.Text == "blocker" {
			close(started)
			select {
			case <-release:
			case <-ctx.Done():
			}
		}
		rec.handle(ctx, msg)
	})

	svc.Add(Message{UserID: "user-1", Type: "text", Text: "blocker"})
	<-started

	// Fill the mailbox past capacity; Add must return immediately each time.
	for i := 0; i < mailboxSize+10; i++ {
		svc.Add(Message{UserID: "user-1", Type: "text", Text: fmt.Sprintf("m-%d", i)})
	}

	close(release)
	waitFor(t, func() bool { return len(rec.texts("user-1")) == mailboxSize+1 })
}
