package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/usermgmt/accounts-api/internal/core/domain"
)

type recordingRepo struct {
	mu     sync.Mutex
	events []domain.AuditEvent
	err    error
}

func (r *recordingRepo) Insert(_ context.Context, e *domain.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, *e)
	return nil
}

func (r *recordingRepo) snapshot() []domain.AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AuditEvent(nil), r.events...)
}

func event(kind domain.Kind, username, detail string) domain.AuditEvent {
	return domain.AuditEvent{Action: domain.AuditPrincipalUpdated, Kind: kind, Username: username, Detail: detail}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, &recordingRepo{}, zerolog.Nop())

	first := d.shardIndex(event(domain.KindUser, "alice", ""))
	for i := 0; i < 10; i++ {
		if got := d.shardIndex(event(domain.KindUser, "alice", "x")); got != first {
			t.Fatalf("shard index changed: %d != %d", got, first)
		}
	}
	if first < 0 || first >= 8 {
		t.Fatalf("shard index out of range: %d", first)
	}
}

func TestDispatcher_DefaultWorkers(t *testing.T) {
	d := NewDispatcher(0, &recordingRepo{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}

func TestDispatcher_PreservesPerPrincipalOrder(t *testing.T) {
	repo := &recordingRepo{}
	d := NewDispatcher(4, repo, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	details := []string{"1", "2", "3", "4", "5"}
	for _, s := range details {
		d.Publish(event(domain.KindUser, "alice", s))
		d.Publish(event(domain.KindAdmin, "root", s))
	}

	cancel()
	d.Wait()

	var alice []string
	for _, e := range repo.snapshot() {
		if e.Username == "alice" {
			alice = append(alice, e.Detail)
		}
	}
	if len(alice) != len(details) {
		t.Fatalf("expected %d events for alice, got %d", len(details), len(alice))
	}
	for i := range details {
		if alice[i] != details[i] {
			t.Fatalf("events out of order: %v", alice)
		}
	}
	if got := len(repo.snapshot()); got != 2*len(details) {
		t.Fatalf("expected all events flushed, got %d", got)
	}
}

func TestDispatcher_PublishDropsWhenFull(t *testing.T) {
	d := NewDispatcher(1, &recordingRepo{}, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			d.Publish(event(domain.KindUser, "alice", ""))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Publish blocked on a full queue")
	}
	if len(d.workers[0]) != channelBuffer {
		t.Fatalf("expected buffer to be full, got %d", len(d.workers[0]))
	}
}

func TestDispatcher_WriteErrorDoesNotStopWorker(t *testing.T) {
	repo := &recordingRepo{err: errors.New("mongo down")}
	d := NewDispatcher(1, repo, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	d.Publish(event(domain.KindUser, "alice", "1"))
	d.Publish(event(domain.KindUser, "alice", "2"))
	cancel()
	d.Wait()

	if len(d.workers[0]) != 0 {
		t.Fatalf("expected queue to be drained despite errors")
	}
}
