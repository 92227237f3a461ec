package providers

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestShared_BuildsOnce(t *testing.T) {
	builds := 0
	mock := &mockGenerator{name: "mock", generations: []Generation{{Text: "ok"}}, valid: true}
	shared := NewShared(func() (Generator, error) {
		builds++
		return mock, nil
	})

	if builds != 0 {
		t.Fatal("generator must not be built before first use")
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = shared.Get()
		}()
	}
	wg.Wait()

	if _, err := shared.Generate(context.Background(), "p", Options{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shared.Name() != "mock" {
		t.Errorf("expected name mock, got %s", shared.Name())
	}
	if err := shared.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
	if builds != 1 {
		t.Errorf("expected one build, got %d", builds)
	}
	if mock.calls != 1 {
		t.Errorf("expected one generate call, got %d", mock.calls)
	}
}

func TestShared_CachesError(t *testing.T) {
	builds := 0
	buildErr := errors.New("no api key")
	shared := NewShared(func() (Generator, error) {
		builds++
		return nil, buildErr
	})

	for i := 0; i < 3; i++ {
		if _, err := shared.Generate(context.Background(), "p", Options{}); !errors.Is(err, buildErr) {
			t.Errorf("expected build error, got %v", err)
		}
	}
	if shared.Name() != "unavailable" {
		t.Errorf("expected unavailable name, got %s", shared.Name())
	}
	if builds != 1 {
		t.Errorf("expected one build, got %d", builds)
	}
}
