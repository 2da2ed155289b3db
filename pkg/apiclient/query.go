package apiclient

import (
	"context"
	"sync"

	"github.com/tutorhub/tutorhub-backend/types"
)

// QueryState is the lifecycle of a ListQuery.
type QueryState string

const (
	QueryIdle    QueryState = "idle"
	QueryLoading QueryState = "loading"
	QuerySuccess QueryState = "success"
	QueryError   QueryState = "error"
)

// ListSnapshot is a consistent view of a ListQuery. Data keeps the last
// successful result while a refetch is loading or after it failed.
type ListSnapshot struct {
	State QueryState
	Data  []types.Testimonial
	Err   error
}

// ListQuery holds the testimonial list for a view. It starts idle and only
// talks to the server when Refetch is called; there is no shared cache, so
// after a Create or Delete the caller decides whether to refetch.
type ListQuery struct {
	lister interface {
		List(ctx context.Context) ([]types.Testimonial, error)
	}

	mu        sync.Mutex
	snapshot  ListSnapshot
	listeners []func(ListSnapshot)
}

func NewListQuery(c ClientInterface) *ListQuery {
	return &ListQuery{
		lister:   c,
		snapshot: ListSnapshot{State: QueryIdle},
	}
}

// OnChange registers fn to be called after every state transition.
func (q *ListQuery) OnChange(fn func(ListSnapshot)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.listeners = append(q.listeners, fn)
}

// Snapshot returns the current state.
func (q *ListQuery) Snapshot() ListSnapshot {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snapshot
}

// Refetch moves the query to loading, reads the list, and settles in success
// or error. The returned error is the same one stored in the snapshot.
func (q *ListQuery) Refetch(ctx context.Context) error {
	q.transition(func(s *ListSnapshot) {
		s.State = QueryLoading
		s.Err = nil
	})

	data, err := q.lister.List(ctx)

	q.transition(func(s *ListSnapshot) {
		if err != nil {
			s.State = QueryError
			s.Err = err
			return
		}
		s.State = QuerySuccess
		s.Data = data
	})
	return err
}

func (q *ListQuery) transition(apply func(*ListSnapshot)) {
	q.mu.Lock()
	apply(&q.snapshot)
	snap := q.snapshot
	listeners := append([]func(ListSnapshot){}, q.listeners...)
	q.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}
