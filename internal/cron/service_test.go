package cron

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/spinwin/prizewheel-backend/pkg/logger"
)

type fakeLock struct {
	held    bool
	refuse  bool
	acquire int
	release int
}

func (f *fakeLock) Acquire(context.Context) (bool, error) {
	f.acquire++
	if f.refuse || f.held {
		return false, nil
	}
	f.held = true
	return true, nil
}

func (f *fakeLock) Release(context.Context) error {
	f.release++
	f.held = false
	return nil
}

type testJob struct {
	name string
	err  error
	runs int
}

func (t *testJob) Name() string { return t.name }

func (t *testJob) Run(context.Context) error {
	t.runs++
	return t.err
}

func newTestLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "cron-test", Output: io.Discard})
}

func TestRunCycleRunsAllJobsEvenOnFailure(t *testing.T) {
	failing := &testJob{name: "fail", err: errors.New("boom")}
	trailing := &testJob{name: "after-fail"}
	registry := NewRegistry(failing, trailing)
	lock := &fakeLock{}
	service, err := NewService(ServiceParams{
		Logger:   newTestLogger(),
		Registry: registry,
		Lock:     lock,
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	if err := service.runCycle(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if failing.runs != 1 || trailing.runs != 1 {
		t.Fatalf("expected both jobs to run once, got %d and %d", failing.runs, trailing.runs)
	}
	if lock.release != 1 {
		t.Fatalf("expected lock released once, got %d", lock.release)
	}
}

func TestRunCycleSkipsWhenLockHeld(t *testing.T) {
	job := &testJob{name: "sweep"}
	service, err := NewService(ServiceParams{
		Logger:   newTestLogger(),
		Registry: NewRegistry(job),
		Lock:     &fakeLock{refuse: true},
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	if err := service.runCycle(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("expected job skipped while lock held, ran %d times", job.runs)
	}
}

func TestRegistryIgnoresNilJobs(t *testing.T) {
	registry := NewRegistry(nil, &testJob{name: "only"})
	registry.Register(nil)
	if got := len(registry.Jobs()); got != 1 {
		t.Fatalf("expected 1 job, got %d", got)
	}
}
