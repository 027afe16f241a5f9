package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dbu-council/council-system/internal/core/ports"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []ports.Mail
}

func (m *recordingMailer) Send(_ context.Context, mail ports.Mail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, mail)
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
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
	t.Fatalf("condition not met before deadline")
}

func TestDispatcherDelivers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := &recordingMailer{}
	d := NewMailDispatcher(3, mailer, zerolog.Nop())
	d.Start(ctx)

	const n = 20
	for i := 0; i < n; i++ {
		d.Enqueue(ports.Mail{To: fmt.Sprintf("user%d@dbu.edu.et", i), Subject: "hi"})
	}

	waitFor(t, func() bool { return mailer.count() == n })
}

func TestDispatcherPreservesPerRecipientOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := &recordingMailer{}
	d := NewMailDispatcher(4, mailer, zerolog.Nop())
	d.Start(ctx)

	const n = 10
	for i := 0; i < n; i++ {
		d.Enqueue(ports.Mail{To: "same@dbu.edu.et", Subject: fmt.Sprintf("%d", i)})
	}
	waitFor(t, func() bool { return mailer.count() == n })

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	for i, m := range mailer.sent {
		if m.Subject != fmt.Sprintf("%d", i) {
			t.Fatalf("order broken at %d: got subject %s", i, m.Subject)
		}
	}
}

func TestDispatcherShardIsStable(t *testing.T) {
	d := NewMailDispatcher(4, &recordingMailer{}, zerolog.Nop())
	first := d.shardIndex("user@dbu.edu.et")
	for i := 0; i < 10; i++ {
		if d.shardIndex("user@dbu.edu.et") != first {
			t.Fatalf("shard index not deterministic")
		}
	}
}

func TestDispatcherDefaultWorkers(t *testing.T) {
	d := NewMailDispatcher(0, &recordingMailer{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}
