package production

import (
	"testing"
	"time"

	"github.com/brewdash/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestBatch(t *testing.T) *Batch {
	t.Helper()
	batch, err := NewBatch(uuid.New(), 1, time.Now())
	require.NoError(t, err)
	batch.ClearDomainEvents()
	return batch
}

func TestParseStatus(t *testing.T) {
	cases := map[string]BatchStatus{
		"PENDING":     StatusPending,
		"pending":     StatusPending,
		"Pending":     StatusPending,
		"IN_PROGRESS": StatusInProgress,
		"In Progress": StatusInProgress,
		"in progress": StatusInProgress,
		"in-progress": StatusInProgress,
		"Completed":   StatusCompleted,
		"completed":   StatusCompleted,
		" COMPLETED ": StatusCompleted,
	}
	for raw, want := range cases {
		got, err := ParseStatus(raw)
		require.NoError(t, err, "parsing %q", raw)
		assert.Equal(t, want, got, "parsing %q", raw)
	}

	_, err := ParseStatus("cancelled")
	require.Error(t, err)
}

func TestBatchStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusInProgress))
	assert.True(t, StatusInProgress.CanTransitionTo(StatusCompleted))

	assert.False(t, StatusPending.CanTransitionTo(StatusCompleted))
	assert.False(t, StatusPending.CanTransitionTo(StatusPending))
	assert.False(t, StatusInProgress.CanTransitionTo(StatusPending))
	assert.False(t, StatusCompleted.CanTransitionTo(StatusPending))
	assert.False(t, StatusCompleted.CanTransitionTo(StatusInProgress))
	assert.False(t, StatusCompleted.CanTransitionTo(StatusCompleted))
}

func TestNewBatch(t *testing.T) {
	t.Run("starts pending", func(t *testing.T) {
		batch, err := NewBatch(uuid.New(), 7, time.Now())

		require.NoError(t, err)
		assert.Equal(t, StatusPending, batch.Status)
		assert.Equal(t, int64(7), batch.BatchNumber)
		assert.True(t, batch.HoldsReservations())
	})

	t.Run("rejects non-positive batch number", func(t *testing.T) {
		_, err := NewBatch(uuid.New(), -1, time.Now())
		require.Error(t, err)
	})
}

func TestBatch_AddItem(t *testing.T) {
	t.Run("adds item while pending", func(t *testing.T) {
		batch := createTestBatch(t)

		item, err := batch.AddItem(uuid.New(), "Coffee", "g", decimal.NewFromInt(18))

		require.NoError(t, err)
		assert.Equal(t, batch.ID, item.BatchID)
		require.Len(t, batch.Items, 1)
	})

	t.Run("rejects items after the batch has started", func(t *testing.T) {
		batch := createTestBatch(t)
		require.NoError(t, batch.TransitionTo(StatusInProgress))

		_, err := batch.AddItem(uuid.New(), "Coffee", "g", decimal.NewFromInt(18))

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		batch := createTestBatch(t)

		_, err := batch.AddItem(uuid.New(), "Coffee", "g", decimal.Zero)
		require.Error(t, err)
	})
}

func TestBatch_TransitionTo(t *testing.T) {
	t.Run("walks the full lifecycle", func(t *testing.T) {
		batch := createTestBatch(t)

		require.NoError(t, batch.TransitionTo(StatusInProgress))
		assert.Equal(t, StatusInProgress, batch.Status)

		require.NoError(t, batch.TransitionTo(StatusCompleted))
		assert.Equal(t, StatusCompleted, batch.Status)
		assert.False(t, batch.HoldsReservations())
	})

	t.Run("rejects skipping a state", func(t *testing.T) {
		batch := createTestBatch(t)

		err := batch.TransitionTo(StatusCompleted)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)
		assert.Equal(t, StatusPending, batch.Status)
	})

	t.Run("rejects regression from completed", func(t *testing.T) {
		batch := createTestBatch(t)
		require.NoError(t, batch.TransitionTo(StatusInProgress))
		require.NoError(t, batch.TransitionTo(StatusCompleted))

		for _, back := range []BatchStatus{StatusPending, StatusInProgress} {
			err := batch.TransitionTo(back)
			require.Error(t, err)
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)
		}
	})

	t.Run("emits status changed event", func(t *testing.T) {
		batch := createTestBatch(t)

		require.NoError(t, batch.TransitionTo(StatusInProgress))

		events := batch.GetDomainEvents()
		require.Len(t, events, 1)
		changed, ok := events[0].(*BatchStatusChangedEvent)
		require.True(t, ok)
		assert.Equal(t, StatusPending, changed.FromStatus)
		assert.Equal(t, StatusInProgress, changed.ToStatus)
	})
}

func TestBatch_Complete(t *testing.T) {
	t.Run("records output data", func(t *testing.T) {
		batch := createTestBatch(t)
		require.NoError(t, batch.TransitionTo(StatusInProgress))

		err := batch.Complete(&Output{
			ProductName:    "Cold Brew Concentrate",
			OutputQuantity: decimal.NewFromInt(5),
			OutputUnit:     "l",
		})

		require.NoError(t, err)
		assert.True(t, batch.IsCompleted())
		assert.Equal(t, "Cold Brew Concentrate", batch.Output.ProductName)
	})

	t.Run("output is optional", func(t *testing.T) {
		batch := createTestBatch(t)
		require.NoError(t, batch.TransitionTo(StatusInProgress))

		require.NoError(t, batch.Complete(nil))
		assert.True(t, batch.IsCompleted())
		assert.Empty(t, batch.Output.ProductName)
	})

	t.Run("rejects completion straight from pending", func(t *testing.T) {
		batch := createTestBatch(t)

		err := batch.Complete(nil)

		require.Error(t, err)
		assert.Equal(t, StatusPending, batch.Status)
	})

	t.Run("rejects negative output quantity", func(t *testing.T) {
		batch := createTestBatch(t)
		require.NoError(t, batch.TransitionTo(StatusInProgress))

		err := batch.Complete(&Output{OutputQuantity: decimal.NewFromInt(-1)})

		require.Error(t, err)
		assert.Equal(t, StatusInProgress, batch.Status)
	})
}
