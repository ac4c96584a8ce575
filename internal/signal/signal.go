// Package signal provides independent, side-effect-free analyzers that
// inspect one inbound message and emit normalized scores plus candidate
// intelligence entities.
package signal

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/decoynet/decoy/internal/domain"
	"github.com/decoynet/decoy/internal/intel"
)

// Bundle maps signal names to scores in [0,1]. It lives for one turn and
// is discarded after the risk scorer consumes it.
type Bundle map[string]float64

// Fragment is the output of a single extractor for one message.
type Fragment struct {
	Scores   map[string]float64
	Entities []intel.Entity
}

// Extractor inspects a message plus prior turn texts (read-only) and
// returns a fragment. Extractors must not depend on each other's output
// within a turn; an extractor that finds nothing returns zero scores and
// no entities, never an error. Empty input is a zero-signal case.
type Extractor interface {
	Name() string
	Extract(message string, history []domain.Turn) Fragment
}

// Runner evaluates a fixed set of extractors concurrently against the same
// read-only inputs and merges their fragments deterministically.
type Runner struct {
	extractors []Extractor
}

// NewRunner creates a runner over the default extractor set.
func NewRunner() *Runner {
	return &Runner{
		extractors: []Extractor{
			NewKeywordExtractor(),
			NewUrgencyExtractor(),
			NewActionExtractor(),
			NewEntityExtractor(),
		},
	}
}

// Run fans out all extractors and merges the results. On duplicate score
// names the maximum wins, so the merge is order-independent.
func (r *Runner) Run(ctx context.Context, message string, history []domain.Turn) (Bundle, []intel.Entity) {
	var mu sync.Mutex
	fragments := make([]Fragment, 0, len(r.extractors))

	g, ctx := errgroup.WithContext(ctx)
	for _, ex := range r.extractors {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			frag := ex.Extract(message, history)
			mu.Lock()
			fragments = append(fragments, frag)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // extractors never return errors

	bundle := make(Bundle)
	var entities []intel.Entity
	for _, frag := range fragments {
		for name, score := range frag.Scores {
			if score > bundle[name] {
				bundle[name] = score
			}
		}
		entities = append(entities, frag.Entities...)
	}

	// Stable entity order regardless of extractor completion order.
	sort.Slice(entities, func(i, j int) bool {
		if entities[i].Type != entities[j].Type {
			return entities[i].Type < entities[j].Type
		}
		return entities[i].Value < entities[j].Value
	})

	return bundle, entities
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
