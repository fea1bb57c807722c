package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/kirinyoku/courtgo/internal/domain"
)

// Store is the in-process registry. Courts and users are fixed at construction;
// sessions are the only mutable state and change only inside RunTx.
type Store struct {
	mu sync.RWMutex

	courts []domain.Court
	users  []domain.User

	sessions []*domain.Session
	index    map[string]int
	pids     map[string]struct{}

	sessionSeq     int
	participantSeq int
}

func NewStore(seed Seed) *Store {
	s := &Store{
		courts:   append([]domain.Court(nil), seed.Courts...),
		users:    append([]domain.User(nil), seed.Users...),
		sessions: make([]*domain.Session, 0, len(seed.Sessions)),
		index:    make(map[string]int, len(seed.Sessions)),
		pids:     make(map[string]struct{}),
	}

	for i := range seed.Sessions {
		sess := seed.Sessions[i].Clone()
		s.index[sess.ID] = len(s.sessions)
		s.sessions = append(s.sessions, sess)
		for _, p := range sess.Participants {
			s.pids[p.ID] = struct{}{}
		}
	}

	s.sessionSeq = len(s.sessions)
	s.participantSeq = len(s.pids)

	return s
}

// RunTx runs fn while holding the registry write lock. Sessions written through tx
// become visible only if fn returns nil; otherwise every staged change is dropped.
func (s *Store) RunTx(ctx context.Context, fn func(ctx context.Context, tx *Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{
		s:      s,
		staged: make(map[string]*domain.Session),
		pids:   make(map[string]struct{}),
	}

	if err := fn(ctx, tx); err != nil {
		return err
	}

	tx.commit()

	return nil
}

func (s *Store) Sessions() *SessionRepo { return &SessionRepo{s: s} }
func (s *Store) Courts() *CourtRepo     { return &CourtRepo{s: s} }
func (s *Store) Users() *UserRepo       { return &UserRepo{s: s} }

// Tx is a write transaction over the session registry. It is only valid inside
// the RunTx callback that produced it.
type Tx struct {
	s       *Store
	staged  map[string]*domain.Session
	inserts []*domain.Session
	pids    map[string]struct{}
}

// NextSessionID mints a session id that has never been handed out by this store.
func (tx *Tx) NextSessionID() string {
	for {
		tx.s.sessionSeq++
		id := fmt.Sprintf("session%d", tx.s.sessionSeq)
		if _, ok := tx.s.index[id]; ok {
			continue
		}
		if tx.inserted(id) != nil {
			continue
		}
		return id
	}
}

// NextParticipantID mints a participant id unique across all sessions.
func (tx *Tx) NextParticipantID() string {
	for {
		tx.s.participantSeq++
		id := fmt.Sprintf("participant%d", tx.s.participantSeq)
		if _, ok := tx.s.pids[id]; ok {
			continue
		}
		if _, ok := tx.pids[id]; ok {
			continue
		}
		tx.pids[id] = struct{}{}
		return id
	}
}

func (tx *Tx) inserted(id string) *domain.Session {
	for _, sess := range tx.inserts {
		if sess.ID == id {
			return sess
		}
	}
	return nil
}

// lookup returns the transaction's view of a session: staged, inserted or committed.
func (tx *Tx) lookup(id string) *domain.Session {
	if sess, ok := tx.staged[id]; ok {
		return sess
	}
	if sess := tx.inserted(id); sess != nil {
		return sess
	}
	if i, ok := tx.s.index[id]; ok {
		return tx.s.sessions[i]
	}
	return nil
}

// each walks the transaction's view in insertion order.
func (tx *Tx) each(fn func(*domain.Session) bool) {
	for _, sess := range tx.s.sessions {
		if st, ok := tx.staged[sess.ID]; ok {
			sess = st
		}
		if !fn(sess) {
			return
		}
	}
	for _, sess := range tx.inserts {
		if st, ok := tx.staged[sess.ID]; ok {
			sess = st
		}
		if !fn(sess) {
			return
		}
	}
}

func (tx *Tx) commit() {
	s := tx.s

	for _, sess := range tx.inserts {
		if st, ok := tx.staged[sess.ID]; ok {
			sess = st
			delete(tx.staged, sess.ID)
		}
		s.index[sess.ID] = len(s.sessions)
		s.sessions = append(s.sessions, sess)
		for _, p := range sess.Participants {
			s.pids[p.ID] = struct{}{}
		}
	}

	for id, sess := range tx.staged {
		s.sessions[s.index[id]] = sess
		for _, p := range sess.Participants {
			s.pids[p.ID] = struct{}{}
		}
	}
}
