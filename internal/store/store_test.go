package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eldtechnologies/agentdesk/internal/models"
)

// fakeClock advances by one second on every read.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

// frozenClock never advances.
func frozenClock() time.Time {
	return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
}

type storeFactory func(t *testing.T, opts ...Option) AgentStore

func factories() map[string]storeFactory {
	return map[string]storeFactory{
		"memory": func(t *testing.T, opts ...Option) AgentStore {
			return NewMemoryStore(opts...)
		},
		"sqlite": func(t *testing.T, opts ...Option) AgentStore {
			s, err := NewSQLiteStore(context.Background(), "", opts...)
			require.NoError(t, err)
			t.Cleanup(func() { s.Close() })
			return s
		},
	}
}

// forEachStore runs fn against every backend.
func forEachStore(t *testing.T, fn func(t *testing.T, newStore storeFactory)) {
	for name, f := range factories() {
		t.Run(name, func(t *testing.T) {
			fn(t, f)
		})
	}
}

func jane() models.AgentFields {
	return models.AgentFields{
		FirstName:    "Jane",
		LastName:     "Doe",
		Email:        "jane@doe.com",
		MobileNumber: "+1 555-1234",
	}
}

func fieldsFor(i int) models.AgentFields {
	return models.AgentFields{
		FirstName:    fmt.Sprintf("First%d", i),
		LastName:     fmt.Sprintf("Last%d", i),
		Email:        fmt.Sprintf("agent%d@example.com", i),
		MobileNumber: "0400 000 000",
	}
}

func strPtr(s string) *string { return &s }

func TestCreateThenGet(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore storeFactory) {
		ctx := context.Background()
		s := newStore(t, WithClock(newFakeClock().Now))

		created, err := s.Create(ctx, jane())
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "Jane", created.FirstName)
		assert.Equal(t, "jane@doe.com", created.Email)
		assert.Equal(t, created.CreatedAt, created.UpdatedAt)

		got, err := s.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, got)
	})
}

func TestCreate_DuplicateEmail(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore storeFactory) {
		ctx := context.Background()
		s := newStore(t)

		_, err := s.Create(ctx, jane())
		require.NoError(t, err)

		dup := fieldsFor(1)
		dup.Email = "jane@doe.com"
		_, err = s.Create(ctx, dup)
		assert.ErrorIs(t, err, ErrConflict)

		n, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

func TestCreate_EmailMatchIsCaseSensitive(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore storeFactory) {
		ctx := context.Background()
		s := newStore(t)

		_, err := s.Create(ctx, jane())
		require.NoError(t, err)

		upper := jane()
		upper.Email = "Jane@Doe.com"
		_, err = s.Create(ctx, upper)
		assert.NoError(t, err)
	})
}

func TestCreate_UsesIDGenerator(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore storeFactory) {
		n := 0
		s := newStore(t, WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("agent-%d", n)
		}))

		a, err := s.Create(context.Background(), fieldsFor(1))
		require.NoError(t, err)
		b, err := s.Create(context.Background(), fieldsFor(2))
		require.NoError(t, err)

		assert.Equal(t, "agent-1", a.ID)
		assert.Equal(t, "agent-2", b.ID)
	})
}

func TestList_InsertionOrder(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore storeFactory) {
		ctx := context.Background()
		s := newStore(t)

		empty, err := s.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)

		var want []string
		for i := 0; i < 5; i++ {
			a, err := s.Create(ctx, fieldsFor(i))
			require.NoError(t, err)
			want = append(want, a.ID)
		}

		list, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 5)
		for i, a := range list {
			assert.Equal(t, want[i], a.ID)
		}
	})
}

func TestList_ReturnsCopies(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore storeFactory) {
		ctx := context.Background()
		s := newStore(t)

		a, err := s.Create(ctx, jane())
		require.NoError(t, err)

		list, err := s.List(ctx)
		require.NoError(t, err)
		list[0].FirstName = "Mutated"
		a.LastName = "Mutated"

		got, err := s.Get(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, "Jane", got.FirstName)
		assert.Equal(t, "Doe", got.LastName)
	})
}

func TestGet_NotFound(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore storeFactory) {
		_, err := newStore(t).Get(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUpdate_PartialFields(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore storeFactory) {
		ctx := context.Background()
		s := newStore(t, WithClock(newFakeClock().Now))

		created, err := s.Create(ctx, jane())
		require.NoError(t, err)

		updated, err := s.Update(ctx, created.ID, models.AgentPatch{LastName: strPtr("Smith")})
		require.NoError(t, err)

		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "Jane", updated.FirstName)
		assert.Equal(t, "Smith", updated.LastName)
		assert.Equal(t, created.Email, updated.Email)
		assert.Equal(t, created.MobileNumber, updated.MobileNumber)
		assert.Equal(t, created.CreatedAt, updated.CreatedAt)
		assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

		got, err := s.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, got)
	})
}

func TestUpdate_EmptyPatchRefreshesUpdatedAt(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore storeFactory) {
		ctx := context.Background()
		s := newStore(t, WithClock(newFakeClock().Now))

		created, err := s.Create(ctx, jane())
		require.NoError(t, err)

		updated, err := s.Update(ctx, created.ID, models.AgentPatch{})
		require.NoError(t, err)
		assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
		assert.Equal(t, created.FirstName, updated.FirstName)
	})
}

func TestUpdate_StrictlyLaterWithFrozenClock(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore storeFactory) {
		ctx := context.Background()
		s := newStore(t, WithClock(frozenClock))

		created, err := s.Create(ctx, jane())
		require.NoError(t, err)

		prev := created.UpdatedAt
		for i := 0; i < 3; i++ {
			updated, err := s.Update(ctx, created.ID, models.AgentPatch{})
			require.NoError(t, err)
			assert.True(t, updated.UpdatedAt.After(prev))
			assert.False(t, updated.CreatedAt.After(updated.UpdatedAt))
			prev = updated.UpdatedAt
		}
	})
}

func TestUpdate_DoesNotRecheckEmail(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore storeFactory) {
		ctx := context.Background()
		s := newStore(t)

		_, err := s.Create(ctx, jane())
		require.NoError(t, err)
		other, err := s.Create(ctx, fieldsFor(1))
		require.NoError(t, err)

		updated, err := s.Update(ctx, other.ID, models.AgentPatch{
			Email:        strPtr("jane@doe.com"),
			MobileNumber: strPtr("not validated"),
		})
		require.NoError(t, err)
		assert.Equal(t, "jane@doe.com", updated.Email)
		assert.Equal(t, "not validated", updated.MobileNumber)
	})
}

func TestUpdate_NotFound(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore storeFactory) {
		_, err := newStore(t).Update(context.Background(), "missing", models.AgentPatch{FirstName: strPtr("x")})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDelete(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore storeFactory) {
		ctx := context.Background()
		s := newStore(t)

		var created []*models.PropertyAgent
		for i := 0; i < 3; i++ {
			a, err := s.Create(ctx, fieldsFor(i))
			require.NoError(t, err)
			created = append(created, a)
		}

		deleted, err := s.Delete(ctx, created[1].ID)
		require.NoError(t, err)
		assert.Equal(t, created[1], deleted)

		_, err = s.Get(ctx, created[1].ID)
		assert.ErrorIs(t, err, ErrNotFound)

		list, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, created[0].ID, list[0].ID)
		assert.Equal(t, created[2].ID, list[1].ID)

		_, err = s.Delete(ctx, created[1].ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDelete_FreesEmail(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore storeFactory) {
		ctx := context.Background()
		s := newStore(t)

		a, err := s.Create(ctx, jane())
		require.NoError(t, err)
		_, err = s.Delete(ctx, a.ID)
		require.NoError(t, err)

		_, err = s.Create(ctx, jane())
		assert.NoError(t, err)
	})
}

func TestScenario(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore storeFactory) {
		ctx := context.Background()
		s := newStore(t, WithClock(newFakeClock().Now))

		created, err := s.Create(ctx, jane())
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)
		assert.Equal(t, created.CreatedAt, created.UpdatedAt)

		_, err = s.Create(ctx, jane())
		require.ErrorIs(t, err, ErrConflict)

		updated, err := s.Update(ctx, created.ID, models.AgentPatch{LastName: strPtr("Smith")})
		require.NoError(t, err)
		assert.Equal(t, "Jane", updated.FirstName)
		assert.Equal(t, "Smith", updated.LastName)
		assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

		deleted, err := s.Delete(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, deleted)

		_, err = s.Get(ctx, created.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestConcurrentCreateSameEmail(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore storeFactory) {
		ctx := context.Background()
		s := newStore(t)

		const workers = 16
		var wg sync.WaitGroup
		errs := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.Create(ctx, jane())
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		var ok, conflicts int
		for err := range errs {
			switch {
			case err == nil:
				ok++
			case assert.ErrorIs(t, err, ErrConflict):
				conflicts++
			}
		}
		assert.Equal(t, 1, ok)
		assert.Equal(t, workers-1, conflicts)
	})
}

func TestPing(t *testing.T) {
	forEachStore(t, func(t *testing.T, newStore storeFactory) {
		assert.NoError(t, newStore(t).Ping(context.Background()))
	})
}

func TestNextUpdate(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, base.Add(time.Second), nextUpdate(base.Add(time.Second), base))
	assert.Equal(t, base.Add(time.Nanosecond), nextUpdate(base, base))
	assert.Equal(t, base.Add(time.Nanosecond), nextUpdate(base.Add(-time.Hour), base))
}
