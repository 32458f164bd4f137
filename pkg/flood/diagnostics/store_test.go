package diagnostics_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/randalmurphal/eventflood/pkg/flood/diagnostics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeFactory creates a store instance for testing.
type storeFactory func(t *testing.T) diagnostics.Store

func sampleRecord(runID string) diagnostics.Record {
	t0 := time.Date(2024, 3, 1, 12, 0, 0, 123, time.UTC)
	return diagnostics.Record{
		RunID:          runID,
		FirstStart:     t0,
		FirstDuration:  15 * time.Second,
		FirstData:      json.RawMessage(`{"type":"a"}`),
		SecondStart:    t0.Add(10 * time.Second),
		SecondDuration: 10 * time.Second,
		SecondData:     json.RawMessage(`{"type":"b"}`),
		Overlap:        5 * time.Second,
	}
}

// storeContractTest runs contract tests against any Store implementation.
func storeContractTest(t *testing.T, name string, factory storeFactory) {
	t.Run(name+"/Save_and_List", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		rec := sampleRecord("run-1")
		require.NoError(t, store.Save(rec))

		recs, err := store.List("run-1")
		require.NoError(t, err)
		require.Len(t, recs, 1)

		got := recs[0]
		assert.Equal(t, "run-1", got.RunID)
		assert.Equal(t, 1, got.Sequence)
		assert.True(t, rec.FirstStart.Equal(got.FirstStart))
		assert.Equal(t, rec.FirstDuration, got.FirstDuration)
		assert.JSONEq(t, string(rec.FirstData), string(got.FirstData))
		assert.True(t, rec.SecondStart.Equal(got.SecondStart))
		assert.Equal(t, rec.SecondDuration, got.SecondDuration)
		assert.JSONEq(t, string(rec.SecondData), string(got.SecondData))
		assert.Equal(t, rec.Overlap, got.Overlap)
		assert.False(t, got.RecordedAt.IsZero())
	})

	t.Run(name+"/List_Empty", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		recs, err := store.List("run-nonexistent")
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run(name+"/Sequence_Order", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		for i := 0; i < 3; i++ {
			rec := sampleRecord("run-seq")
			rec.Overlap = time.Duration(i+1) * time.Second
			require.NoError(t, store.Save(rec))
		}

		recs, err := store.List("run-seq")
		require.NoError(t, err)
		require.Len(t, recs, 3)
		for i, rec := range recs {
			assert.Equal(t, i+1, rec.Sequence)
			assert.Equal(t, time.Duration(i+1)*time.Second, rec.Overlap)
		}
	})

	t.Run(name+"/Runs_Isolated", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		require.NoError(t, store.Save(sampleRecord("run-a")))
		require.NoError(t, store.Save(sampleRecord("run-a")))
		require.NoError(t, store.Save(sampleRecord("run-b")))

		n, err := store.Count("run-a")
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		n, err = store.Count("run-b")
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		recs, err := store.List("run-b")
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, 1, recs[0].Sequence)
	})

	t.Run(name+"/DeleteRun", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		require.NoError(t, store.Save(sampleRecord("run-del")))
		require.NoError(t, store.Save(sampleRecord("run-keep")))

		require.NoError(t, store.DeleteRun("run-del"))
		require.NoError(t, store.DeleteRun("run-nonexistent"))

		n, err := store.Count("run-del")
		require.NoError(t, err)
		assert.Zero(t, n)

		n, err = store.Count("run-keep")
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run(name+"/RunID_Required", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		err := store.Save(sampleRecord(""))
		assert.ErrorIs(t, err, diagnostics.ErrRunIDRequired)
	})

	t.Run(name+"/Closed", func(t *testing.T) {
		store := factory(t)
		require.NoError(t, store.Close())

		assert.ErrorIs(t, store.Save(sampleRecord("run-1")), diagnostics.ErrStoreClosed)

		_, err := store.List("run-1")
		assert.ErrorIs(t, err, diagnostics.ErrStoreClosed)

		_, err = store.Count("run-1")
		assert.ErrorIs(t, err, diagnostics.ErrStoreClosed)

		assert.ErrorIs(t, store.DeleteRun("run-1"), diagnostics.ErrStoreClosed)
	})
}

func TestStoreContract(t *testing.T) {
	storeContractTest(t, "Memory", func(t *testing.T) diagnostics.Store {
		return diagnostics.NewMemoryStore()
	})

	storeContractTest(t, "SQLite", func(t *testing.T) diagnostics.Store {
		store, err := diagnostics.NewSQLiteStore(":memory:")
		require.NoError(t, err)
		return store
	})
}

func TestMemoryStore_CopiesPayload(t *testing.T) {
	store := diagnostics.NewMemoryStore()
	defer store.Close()

	rec := sampleRecord("run-copy")
	require.NoError(t, store.Save(rec))
	rec.FirstData[2] = 'X'

	recs, err := store.List("run-copy")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.JSONEq(t, `{"type":"a"}`, string(recs[0].FirstData))
}
