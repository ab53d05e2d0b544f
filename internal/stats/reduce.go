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

import "github.com/jpolanco/gpcirculation/internal/errs"

// Reduce folds a slice of per-thread shards into a fresh master
// dictionary. The fold is addition of running sums and bin counts, which
// is associative and commutative, so shards may be combined in any order
// or any grouping (spec.md §4.G "reduce").
func Reduce(shards []*Dict) (*Dict, error) {
	if len(shards) == 0 {
		return nil, errs.New(errs.DimensionMismatch, "stats: reduce: no shards")
	}
	master := NewDict(shards[0].cfg)
	for _, s := range shards {
		if err := master.reduceInto(s); err != nil {
			return nil, err
		}
	}
	return master, nil
}
