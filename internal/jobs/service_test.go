package jobs

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/angelmondragon/flipradar-backend/pkg/logger"
)

type stubLock struct {
	acquired bool
	err      error
	releases int
}

func (l *stubLock) Acquire(context.Context) (bool, error) { return l.acquired, l.err }
func (l *stubLock) Release(context.Context) error         { l.releases++; return nil }

type countingJob struct {
	name string
	runs int
	err  error
}

func (j *countingJob) Name() string             { return j.name }
func (j *countingJob) Run(context.Context) error { j.runs++; return j.err }

func newJobsLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestRunCycleExecutesJobsInOrder(t *testing.T) {
	t.Parallel()

	order := []string{}
	first := &orderJob{name: "first", order: &order}
	second := &orderJob{name: "second", order: &order}

	svc, err := NewService(ServiceParams{
		Logger:   newJobsLogger(),
		Registry: NewRegistry(first, second),
		Lock:     &stubLock{acquired: true},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("jobs ran out of order: %v", order)
	}
}

type orderJob struct {
	name  string
	order *[]string
}

func (j *orderJob) Name() string { return j.name }
func (j *orderJob) Run(context.Context) error {
	*j.order = append(*j.order, j.name)
	return nil
}

func TestRunCycleSkipsWhenLockHeldElsewhere(t *testing.T) {
	t.Parallel()

	job := &countingJob{name: "scan"}
	svc, err := NewService(ServiceParams{
		Logger:   newJobsLogger(),
		Registry: NewRegistry(job),
		Lock:     &stubLock{acquired: false},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("job ran %d times without the lock", job.runs)
	}
}

func TestRunCycleReleasesLockAfterFailedJob(t *testing.T) {
	t.Parallel()

	lock := &stubLock{acquired: true}
	job := &countingJob{name: "scan", err: errors.New("boom")}
	svc, err := NewService(ServiceParams{
		Logger:   newJobsLogger(),
		Registry: NewRegistry(job),
		Lock:     lock,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.runs != 1 {
		t.Fatalf("job runs = %d, want 1", job.runs)
	}
	if lock.releases != 1 {
		t.Fatalf("lock releases = %d, want 1", lock.releases)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	svc, err := NewService(ServiceParams{
		Logger:   newJobsLogger(),
		Registry: NewRegistry(),
		Lock:     &stubLock{acquired: true},
		Interval: time.Hour,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestRegistryIgnoresNilJobs(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(nil, &countingJob{name: "a"})
	registry.Register(nil)
	registry.Register(&countingJob{name: "b"})

	jobs := registry.Jobs()
	if len(jobs) != 2 {
		t.Fatalf("registered %d jobs, want 2", len(jobs))
	}
}
