package cloudsync

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/sensei-learn/backend/internal/models"
)

const (
	DefaultDelay = time.Second
	saveTimeout  = 10 * time.Second
)

// Saver persists one snapshot remotely.
type Saver interface {
	Save(ctx context.Context, rec *models.CloudRecord) error
}

type pending struct {
	latest *models.CloudRecord
	timer  *time.Timer
	gen    uint64
}

type job struct {
	rec *models.CloudRecord
	ack chan error
}

// Syncer debounces profile snapshots per user and pushes them to the remote
// store from a single worker, so saves for a user never overlap and land in
// the order they were taken. Only the newest snapshot scheduled within the
// delay is sent.
type Syncer struct {
	saver Saver
	delay time.Duration

	mu      sync.Mutex
	pending map[int64]*pending
	queue   []job
	closed  bool

	wake chan struct{}
	done chan struct{}
}

// NewSyncer starts the worker. A non-positive delay uses DefaultDelay.
func NewSyncer(saver Saver, delay time.Duration) *Syncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	s := &Syncer{
		saver:   saver,
		delay:   delay,
		pending: make(map[int64]*pending),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

// Schedule replaces the user's pending snapshot with rec and restarts the
// delay.
func (s *Syncer) Schedule(userID int64, rec *models.CloudRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		log.Printf("[cloudsync] dropped snapshot for user %d: syncer stopped", userID)
		return
	}

	p, ok := s.pending[userID]
	if !ok {
		p = &pending{}
		s.pending[userID] = p
	}
	p.latest = rec
	p.gen++
	if p.timer != nil {
		p.timer.Stop()
	}
	gen := p.gen
	p.timer = time.AfterFunc(s.delay, func() { s.fire(userID, gen) })
}

func (s *Syncer) fire(userID int64, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pending[userID]
	if !ok || p.gen != gen {
		return
	}
	delete(s.pending, userID)
	s.enqueue(job{rec: p.latest})
}

// enqueue appends to the FIFO. Caller holds s.mu.
func (s *Syncer) enqueue(j job) {
	s.queue = append(s.queue, j)
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Flush cancels the user's delay and saves rec, or the pending snapshot
// when rec is nil, right away. It waits for the save and returns its error.
func (s *Syncer) Flush(ctx context.Context, userID int64, rec *models.CloudRecord) error {
	s.mu.Lock()
	if p, ok := s.pending[userID]; ok {
		p.timer.Stop()
		delete(s.pending, userID)
		if rec == nil {
			rec = p.latest
		}
	}
	if rec == nil {
		s.mu.Unlock()
		return nil
	}
	if s.closed {
		s.mu.Unlock()
		return ErrSyncerStopped
	}
	ack := make(chan error, 1)
	s.enqueue(job{rec: rec, ack: ack})
	s.mu.Unlock()

	select {
	case err := <-ack:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending returns how many users have a snapshot waiting on its delay.
func (s *Syncer) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Shutdown sends every pending snapshot immediately, then waits for the
// worker to drain the queue or for ctx to end.
func (s *Syncer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		for id, p := range s.pending {
			p.timer.Stop()
			s.enqueue(job{rec: p.latest})
			delete(s.pending, id)
		}
		select {
		case s.wake <- struct{}{}:
		default:
		}
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Syncer) run() {
	defer close(s.done)
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.mu.Unlock()
			<-s.wake
			s.mu.Lock()
		}
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return
		}
		j := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		err := s.save(j.rec)
		if j.ack != nil {
			j.ack <- err
		}
	}
}

func (s *Syncer) save(rec *models.CloudRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := s.saver.Save(ctx, rec); err != nil {
		log.Printf("[cloudsync] save for user %d failed: %v", rec.UserID, err)
		return err
	}
	return nil
}
