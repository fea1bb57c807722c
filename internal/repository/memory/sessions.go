package memory

import (
	"context"
	"fmt"

	"github.com/kirinyoku/courtgo/internal/domain"
	"github.com/kirinyoku/courtgo/internal/repository"
)

type SessionRepo struct {
	s  *Store
	tx *Tx
}

func (r *SessionRepo) With(tx *Tx) *SessionRepo {
	cp := *r
	cp.tx = tx
	return &cp
}

// view is a read-only window on the registry.
type view interface {
	each(fn func(*domain.Session) bool)
	lookup(id string) *domain.Session
}

// committed reads published state; callers must hold the read lock.
type committed struct {
	s *Store
}

func (c committed) each(fn func(*domain.Session) bool) {
	for _, sess := range c.s.sessions {
		if !fn(sess) {
			return
		}
	}
}

func (c committed) lookup(id string) *domain.Session {
	if i, ok := c.s.index[id]; ok {
		return c.s.sessions[i]
	}
	return nil
}

// read runs fn against the transaction view when bound to a Tx, otherwise
// against committed state under the read lock.
func (r *SessionRepo) read(fn func(v view)) {
	if r.tx != nil {
		fn(r.tx)
		return
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	fn(committed{s: r.s})
}

// List returns snapshots of every session in insertion order.
func (r *SessionRepo) List(ctx context.Context) ([]domain.Session, error) {
	const op = "memory.SessionRepo.List"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	var out []domain.Session
	r.read(func(v view) {
		out = make([]domain.Session, 0, len(r.s.sessions))
		v.each(func(sess *domain.Session) bool {
			out = append(out, *sess.Clone())
			return true
		})
	})

	return out, nil
}

// ByID returns a snapshot of the session.
//
// Returns:
//   - error: repository.ErrNotFound if no session has that id.
func (r *SessionRepo) ByID(ctx context.Context, id string) (*domain.Session, error) {
	const op = "memory.SessionRepo.ByID"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	var found *domain.Session
	r.read(func(v view) {
		found = v.lookup(id).Clone()
	})

	if found == nil {
		return nil, fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return found, nil
}

// ByParticipant scans every session for the participant id and returns a
// snapshot of the owning session.
//
// Returns:
//   - error: repository.ErrNotFound if no session holds that participant.
func (r *SessionRepo) ByParticipant(ctx context.Context, participantID string) (*domain.Session, error) {
	const op = "memory.SessionRepo.ByParticipant"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	var found *domain.Session
	r.read(func(v view) {
		v.each(func(sess *domain.Session) bool {
			if sess.ParticipantIndex(participantID) >= 0 {
				found = sess.Clone()
				return false
			}
			return true
		})
	})

	if found == nil {
		return nil, fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return found, nil
}

// Insert appends a new session. Must be bound to a Tx.
//
// Returns:
//   - error: repository.ErrConflict if the id is taken.
func (r *SessionRepo) Insert(ctx context.Context, sess *domain.Session) error {
	const op = "memory.SessionRepo.Insert"

	if r.tx == nil {
		return fmt.Errorf("%s:%w", op, repository.ErrNoTx)
	}

	if r.tx.lookup(sess.ID) != nil {
		return fmt.Errorf("%s:%w", op, repository.ErrConflict)
	}

	r.tx.inserts = append(r.tx.inserts, sess.Clone())

	return nil
}

// Save stages a new version of an existing session. Must be bound to a Tx.
//
// Returns:
//   - error: repository.ErrNotFound if the session does not exist.
func (r *SessionRepo) Save(ctx context.Context, sess *domain.Session) error {
	const op = "memory.SessionRepo.Save"

	if r.tx == nil {
		return fmt.Errorf("%s:%w", op, repository.ErrNoTx)
	}

	if r.tx.lookup(sess.ID) == nil {
		return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	r.tx.staged[sess.ID] = sess.Clone()

	return nil
}
