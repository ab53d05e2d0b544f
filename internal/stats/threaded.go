// Copyright 2024 The gpcirculation Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package stats

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ShardFn is the per-worker unit of work handed to Engine.Run: it updates
// the shard Dict for worker index i however the caller sees fit (it owns
// the full slice range it was assigned) and returns an error to abort the
// whole pass.
type ShardFn func(ctx context.Context, i int, shard *Dict) error

// Engine runs a statistics pass across NumWorkers goroutines, each
// updating its own Dict shard with no shared mutable state, then reduces
// the shards into one master dictionary (spec.md §4.G "threaded update").
type Engine struct {
	cfg        DictConfig
	numWorkers int
}

// NewEngine allocates an Engine that will run numWorkers shards of cfg's
// shape. numWorkers is clamped to at least 1.
func NewEngine(cfg DictConfig, numWorkers int) *Engine {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Engine{cfg: cfg, numWorkers: numWorkers}
}

// Run executes fn once per worker against a freshly allocated shard, waits
// for all workers, and reduces the shards into a single unfinalised
// master Dict. Run does not call Finalise: callers decide when a pass is
// done accumulating (e.g. after several successive Run calls feeding the
// same master via reduction).
func (e *Engine) Run(ctx context.Context, fn ShardFn) (*Dict, error) {
	shards := make([]*Dict, e.numWorkers)
	for i := range shards {
		shards[i] = NewDict(e.cfg)
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range shards {
		i := i
		g.Go(func() error {
			return fn(gctx, i, shards[i])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Reduce(shards)
}
