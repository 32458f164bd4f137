package benchmarks

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/randalmurphal/eventflood/pkg/flood"
	"github.com/randalmurphal/eventflood/pkg/flood/diagnostics"
)

var t0 = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

// buildEvents returns n shuffled events with mixed gaps, overlaps, and
// payloads drawn from a handful of apps.
func buildEvents(n int) []flood.Event[flood.Data] {
	rng := rand.New(rand.NewSource(1))
	apps := []string{"editor", "browser", "terminal", "chat"}

	events := make([]flood.Event[flood.Data], n)
	cursor := t0
	for i := range events {
		d := time.Duration(1+rng.Intn(30)) * time.Second
		events[i] = flood.Event[flood.Data]{
			Timestamp: cursor,
			Duration:  d,
			Data:      flood.Data{"app": apps[rng.Intn(len(apps))]},
		}
		cursor = cursor.Add(d + time.Duration(rng.Intn(12)-4)*time.Second)
	}
	rng.Shuffle(len(events), func(i, j int) { events[i], events[j] = events[j], events[i] })
	return events
}

// BenchmarkFlood runs the pure flood over growing inputs.
func BenchmarkFlood(b *testing.B) {
	for _, n := range []int{10, 100, 1000, 10000} {
		events := buildEvents(n)
		b.Run(fmt.Sprintf("events_%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _ = flood.FloodData(events, 5*time.Second)
			}
		})
	}
}

// BenchmarkReduce measures a single pair reduction per outcome.
func BenchmarkReduce(b *testing.B) {
	ev := func(offset, d time.Duration, app string) flood.Event[flood.Data] {
		return flood.Event[flood.Data]{Timestamp: t0.Add(offset), Duration: d, Data: flood.Data{"app": app}}
	}
	cases := map[string][2]flood.Event[flood.Data]{
		"filled":    {ev(0, 8*time.Second, "a"), ev(10*time.Second, time.Second, "b")},
		"merged":    {ev(0, 15*time.Second, "a"), ev(10*time.Second, 10*time.Second, "a")},
		"conflict":  {ev(0, 15*time.Second, "a"), ev(10*time.Second, 10*time.Second, "b")},
		"unchanged": {ev(0, time.Second, "a"), ev(time.Minute, time.Second, "b")},
	}
	dummy := flood.DummyData()
	for name, pair := range cases {
		b.Run(name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = flood.Reduce(pair[0], pair[1], 5*time.Second, dummy)
			}
		})
	}
}

// BenchmarkFlooder_NoObservability measures Flooder overhead without reporting.
func BenchmarkFlooder_NoObservability(b *testing.B) {
	f, err := flood.NewData()
	if err != nil {
		b.Fatal(err)
	}
	events := buildEvents(1000)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = f.Flood(ctx, events, flood.WithRunID("bench"))
	}
}

// BenchmarkFlooder_MemoryStore measures a run that records every diagnostic.
func BenchmarkFlooder_MemoryStore(b *testing.B) {
	store := diagnostics.NewMemoryStore()
	defer store.Close()
	f, err := flood.NewData(flood.WithDiagnosticStore(store))
	if err != nil {
		b.Fatal(err)
	}
	events := buildEvents(1000)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = f.Flood(ctx, events)
	}
}

// BenchmarkFlooder_SQLiteStore measures a run persisting diagnostics to SQLite.
func BenchmarkFlooder_SQLiteStore(b *testing.B) {
	store, err := diagnostics.NewSQLiteStore(b.TempDir() + "/bench.db")
	if err != nil {
		b.Fatal(err)
	}
	defer store.Close()
	f, err := flood.NewData(flood.WithDiagnosticStore(store))
	if err != nil {
		b.Fatal(err)
	}
	events := buildEvents(100)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = f.Flood(ctx, events)
	}
}
