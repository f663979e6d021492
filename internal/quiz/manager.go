package quiz

import (
	"log"
	"sync"
	"time"
)

// ExpireFunc grades a question whose countdown ran out. It is called with
// the session's lock held.
type ExpireFunc func(s *Session)

type slot struct {
	mu      sync.Mutex
	session *Session
	timer   *time.Timer
	armedAt time.Time // QuestionStarted of the question the timer belongs to
	touched time.Time
}

// Manager keeps one quiz session per learner and runs the per-question
// countdown.
type Manager struct {
	mu    sync.Mutex
	slots map[int64]*slot
	ttl   time.Duration

	onExpire ExpireFunc
}

// NewManager returns a registry whose idle sessions are dropped by Sweep
// after ttl.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{slots: make(map[int64]*slot), ttl: ttl}
}

// OnExpire sets the handler for questions that time out.
func (m *Manager) OnExpire(fn ExpireFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onExpire = fn
}

func (m *Manager) slot(userID int64, create bool) *slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	sl, ok := m.slots[userID]
	if !ok && create {
		sl = &slot{session: NewSession(userID), touched: time.Now()}
		m.slots[userID] = sl
	}
	return sl
}

// With runs fn on the learner's session under its lock. When create is
// false and the learner has no session, fn is not called and ErrNoSession
// is returned. The countdown is re-armed or stopped to match the state fn
// leaves behind.
func (m *Manager) With(userID int64, create bool, fn func(s *Session) error) error {
	sl := m.slot(userID, create)
	if sl == nil {
		return ErrNoSession
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()

	err := fn(sl.session)
	sl.touched = time.Now()
	m.arm(userID, sl)
	return err
}

// arm keeps the timer in step with the session. Caller holds sl.mu.
func (m *Manager) arm(userID int64, sl *slot) {
	s := sl.session
	if s.State != StateActive || s.TimerSeconds <= 0 {
		m.disarm(sl)
		return
	}
	if sl.timer != nil && sl.armedAt.Equal(s.QuestionStarted) {
		return
	}
	m.disarm(sl)

	started := s.QuestionStarted
	sl.armedAt = started
	d := time.Duration(s.TimerSeconds * float64(time.Second))
	sl.timer = time.AfterFunc(d, func() { m.expire(userID, sl, started) })
}

func (m *Manager) disarm(sl *slot) {
	if sl.timer != nil {
		sl.timer.Stop()
		sl.timer = nil
	}
	sl.armedAt = time.Time{}
}

func (m *Manager) expire(userID int64, sl *slot, started time.Time) {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	s := sl.session
	// The learner may have answered, moved on or quit before the lock was free.
	if s.State != StateActive || !s.QuestionStarted.Equal(started) {
		return
	}
	sl.timer = nil
	sl.armedAt = time.Time{}

	m.mu.Lock()
	fn := m.onExpire
	m.mu.Unlock()

	if fn != nil {
		fn(s)
	} else if _, err := s.Answer("", s.TimerSeconds, time.Now()); err != nil {
		log.Printf("[quiz] user %d: timeout answer: %v", userID, err)
	}
	log.Printf("[quiz] user %d: question %d timed out", userID, s.Index+1)
}

// Remove stops the countdown and forgets the learner's session.
func (m *Manager) Remove(userID int64) {
	m.mu.Lock()
	sl, ok := m.slots[userID]
	delete(m.slots, userID)
	m.mu.Unlock()
	if !ok {
		return
	}

	sl.mu.Lock()
	m.disarm(sl)
	sl.mu.Unlock()
}

// Sweep drops sessions untouched since now minus the ttl and returns how
// many it removed. Sessions busy with a request are skipped.
func (m *Manager) Sweep(now time.Time) int {
	cutoff := now.Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, sl := range m.slots {
		if !sl.mu.TryLock() {
			continue
		}
		if sl.touched.Before(cutoff) {
			m.disarm(sl)
			delete(m.slots, id)
			removed++
		}
		sl.mu.Unlock()
	}
	return removed
}

// Len returns the number of tracked sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.slots)
}
