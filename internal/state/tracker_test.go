package state

import (
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func newTestTracker() *Tracker {
	return NewTracker(slog.New(slog.DiscardHandler))
}

func TestTracker_Counters(t *testing.T) {
	tr := newTestTracker()

	tr.JobStarted("a")
	tr.JobStarted("b")
	tr.JobFinished("a", nil)

	snap := tr.Snapshot()
	if snap.StartedJobs != 2 {
		t.Errorf("expected started=2, got %d", snap.StartedJobs)
	}
	if snap.FinishedJobs != 1 {
		t.Errorf("expected finished=1, got %d", snap.FinishedJobs)
	}
}

func TestTracker_FailureCountsAsFinished(t *testing.T) {
	tr := newTestTracker()

	tr.JobStarted("a")
	tr.JobFinished("a", errors.New("separation failed: exit 1"))

	snap := tr.Snapshot()
	if snap.FinishedJobs != 1 {
		t.Errorf("failed job should increment finished, got %d", snap.FinishedJobs)
	}

	// Сбой виден только через журнал.
	found := false
	for _, line := range snap.Logs {
		if strings.Contains(line, "job.failed") && strings.Contains(line, "separation failed") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected job.failed log entry, logs: %v", snap.Logs)
	}
}

func TestTracker_LogFormatsKeyValuePairs(t *testing.T) {
	tr := newTestTracker()

	tr.Log("pipeline.download", "job_id", "j1", "source", "gs://bucket/in.mp3")

	snap := tr.Snapshot()
	if len(snap.Logs) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(snap.Logs))
	}
	want := "pipeline.download job_id=j1 source=gs://bucket/in.mp3"
	if snap.Logs[0] != want {
		t.Errorf("expected %q, got %q", want, snap.Logs[0])
	}
}

func TestTracker_SnapshotIsCopy(t *testing.T) {
	tr := newTestTracker()
	tr.Log("first")

	snap := tr.Snapshot()
	tr.Log("second")

	if len(snap.Logs) != 1 {
		t.Errorf("snapshot should not observe later mutations, got %v", snap.Logs)
	}
}

func TestTracker_ConcurrentMutation(t *testing.T) {
	tr := newTestTracker()

	const n = 50
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := string(rune('a' + i%26))
			tr.JobStarted(id)
			tr.Log("pipeline.stage", "job_id", id)
			tr.JobFinished(id, nil)
		}()
	}

	// Конкурентные чтения во время мутаций: инвариант finished <= started
	// обязан выполняться в каждом snapshot.
	for range 20 {
		snap := tr.Snapshot()
		if snap.FinishedJobs > snap.StartedJobs {
			t.Fatalf("invariant violated: finished=%d > started=%d",
				snap.FinishedJobs, snap.StartedJobs)
		}
	}

	wg.Wait()

	snap := tr.Snapshot()
	if snap.StartedJobs != n || snap.FinishedJobs != n {
		t.Errorf("expected %d/%d, got %d/%d", n, n, snap.StartedJobs, snap.FinishedJobs)
	}
}
