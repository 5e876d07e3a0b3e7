package voter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"votegate/pkg/platform/sentinel"
)

func TestInMemoryStoreFind(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	_, err := store.Insert(ctx, Voter{Name: "A", Phone: "1234567890", VoterID: "ABC123"})
	require.NoError(t, err)

	t.Run("hit", func(t *testing.T) {
		v, err := store.FindByVoterID(ctx, "ABC123")
		require.NoError(t, err)
		assert.Equal(t, "A", v.Name)
	})

	t.Run("miss returns sentinel", func(t *testing.T) {
		_, err := store.FindByVoterID(ctx, "ZZZ999")
		assert.True(t, errors.Is(err, sentinel.ErrNotFound))
	})
}

func TestInMemoryStoreCounterConcurrency(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	const n = 64
	var g errgroup.Group
	for range n {
		g.Go(func() error {
			return store.IncrementVerificationCount(ctx)
		})
	}
	require.NoError(t, g.Wait())

	count, err := store.VerificationCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(n), count)
}
