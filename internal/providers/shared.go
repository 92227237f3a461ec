package providers

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
)

// Shared is a process-wide generator handle. The wrapped constructor runs on
// first use only; its result, including a construction error, is reused for
// the life of the process.
type Shared struct {
	get func() (Generator, error)
}

func NewShared(build func() (Generator, error)) *Shared {
	return &Shared{
		get: sync.OnceValues(func() (Generator, error) {
			log.Debug("Initializing generator")
			return build()
		}),
	}
}

// Get returns the generator, building it on the first call.
func (s *Shared) Get() (Generator, error) {
	return s.get()
}

func (s *Shared) Generate(ctx context.Context, prompt string, opts Options) ([]Generation, error) {
	gen, err := s.get()
	if err != nil {
		return nil, err
	}
	return gen.Generate(ctx, prompt, opts)
}

func (s *Shared) Name() string {
	gen, err := s.get()
	if err != nil {
		return "unavailable"
	}
	return gen.Name()
}

func (s *Shared) Validate() error {
	gen, err := s.get()
	if err != nil {
		return err
	}
	return gen.Validate()
}
