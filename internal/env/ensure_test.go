// SPDX-License-Identifier: MPL-2.0

package env

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// countingProvider is a Provider stub that tracks build invocations.
type countingProvider struct {
	kind   Kind
	name   string
	mu     sync.Mutex
	built  bool
	builds int
	delay  time.Duration
}

func (p *countingProvider) Kind() Kind               { return p.kind }
func (p *countingProvider) EnvName() (string, error) { return p.name, nil }

func (p *countingProvider) IsBuilt(context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.built, nil
}

func (p *countingProvider) Build(context.Context, io.Writer) error {
	time.Sleep(p.delay)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.builds++
	p.built = true
	return nil
}

func (p *countingProvider) CommandPrefix() (string, error) { return "", nil }

func TestEnsureBuiltIdempotent(t *testing.T) {
	t.Parallel()

	e := NewEnsurer()
	p := &countingProvider{kind: KindVenv, name: "nodeforge-venv-abc"}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := e.EnsureBuilt(ctx, p, io.Discard, nil); err != nil {
			t.Fatalf("EnsureBuilt() error = %v", err)
		}
	}
	if p.builds != 1 {
		t.Errorf("builds = %d, want exactly 1 across repeated ensures", p.builds)
	}
}

func TestEnsureBuiltSkipsExisting(t *testing.T) {
	t.Parallel()

	e := NewEnsurer()
	p := &countingProvider{kind: KindConda, name: "nodeforge-conda-abc", built: true}

	var notified int32
	err := e.EnsureBuilt(context.Background(), p, io.Discard, func() {
		atomic.AddInt32(&notified, 1)
	})
	if err != nil {
		t.Fatalf("EnsureBuilt() error = %v", err)
	}
	if p.builds != 0 {
		t.Errorf("builds = %d, want 0 for an existing environment", p.builds)
	}
	if notified != 0 {
		t.Error("onBuild fired although no build started")
	}
}

func TestEnsureBuiltSerializesConcurrentCallers(t *testing.T) {
	t.Parallel()

	e := NewEnsurer()
	p := &countingProvider{kind: KindVenv, name: "nodeforge-venv-shared", delay: 20 * time.Millisecond}

	var notified int32
	onBuild := func() { atomic.AddInt32(&notified, 1) }

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = e.EnsureBuilt(context.Background(), p, io.Discard, onBuild)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("caller %d: EnsureBuilt() error = %v", i, err)
		}
	}
	if p.builds != 1 {
		t.Errorf("builds = %d, want a single shared build", p.builds)
	}
	if notified != 1 {
		t.Errorf("onBuild fired %d times, want once", notified)
	}
}

func TestEnsureBuiltIndependentEnvironments(t *testing.T) {
	t.Parallel()

	e := NewEnsurer()
	a := &countingProvider{kind: KindVenv, name: "nodeforge-venv-a"}
	b := &countingProvider{kind: KindVenv, name: "nodeforge-venv-b"}

	ctx := context.Background()
	if err := e.EnsureBuilt(ctx, a, io.Discard, nil); err != nil {
		t.Fatalf("EnsureBuilt(a) error = %v", err)
	}
	if err := e.EnsureBuilt(ctx, b, io.Discard, nil); err != nil {
		t.Fatalf("EnsureBuilt(b) error = %v", err)
	}
	if a.builds != 1 || b.builds != 1 {
		t.Errorf("builds = (%d, %d), want one each", a.builds, b.builds)
	}
}
