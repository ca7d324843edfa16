// Package batch runs many independent extractions through a fixed number of
// workers fed by a bounded queue.
package batch

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"vidresolve/internal/extract"
	"vidresolve/internal/media"
)

// Outcome is the result of one input line.
type Outcome struct {
	Index  int
	Input  string
	Result *media.Result
	Err    error
}

// Pool dispatches share texts to an Extractor.
type Pool struct {
	ext     extract.Extractor
	workers int
	log     logrus.FieldLogger

	// OnDone, if set, is called from worker goroutines after each input
	// finishes. It must be safe for concurrent use.
	OnDone func(Outcome)
}

type job struct {
	index int
	input string
}

// NewPool returns a Pool with the given number of workers (minimum 1).
func NewPool(ext extract.Extractor, workers int, log logrus.FieldLogger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Pool{ext: ext, workers: workers, log: log}
}

// Run extracts every input and returns outcomes in input order. The job queue
// holds at most one pending item per worker, so the producer blocks instead
// of buffering the whole input. Inputs not dispatched before ctx is done are
// reported with ctx.Err().
func (p *Pool) Run(ctx context.Context, inputs []string) []Outcome {
	out := make([]Outcome, len(inputs))
	for i, in := range inputs {
		out[i] = Outcome{Index: i, Input: in}
	}

	jobs := make(chan job, p.workers)

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := range jobs {
				res, err := p.ext.Extract(ctx, j.input)
				o := Outcome{Index: j.index, Input: j.input, Result: res, Err: err}
				out[j.index] = o

				entry := p.log.WithFields(logrus.Fields{"worker": worker, "index": j.index})
				if err != nil {
					entry.WithError(err).Debug("batch item failed")
				} else {
					entry.Debug("batch item resolved")
				}
				if p.OnDone != nil {
					p.OnDone(o)
				}
			}
		}(w)
	}

	dispatched := 0
dispatch:
	for i, in := range inputs {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- job{index: i, input: in}:
			dispatched++
		}
	}
	close(jobs)
	wg.Wait()

	for i := dispatched; i < len(inputs); i++ {
		out[i].Err = ctx.Err()
		if p.OnDone != nil {
			p.OnDone(out[i])
		}
	}

	return out
}
