// Copyright 2025 go-highway Authors
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

package npuir

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// EquivalenceToken is an opaque handle identifying semantically identical
// tensors — notably LUTs built from the same 256-byte table content.
// Tokens support equality only; callers must not assume anything about
// their numeric value (Design Note: "Equivalence ids").
type EquivalenceToken int64

// NoToken is the zero-ish sentinel meaning "never interned".
const NoToken EquivalenceToken = -1

// Interner is a caller-keyed, no-eviction memoization of equivalence keys
// to opaque tokens — the re-implementation spec.md §9 calls for in place of
// the source's uuid4-per-key lru_cache. Each Subgraph owns one (see
// Subgraph.Intern), so tokens compare equal only within the subgraph that
// issued them. It is safe to share across concurrent callers: a singleflight.Group collapses
// concurrent first-requests for the same key onto one token allocation,
// so two callers racing to intern "tanh-256" never get two different
// tokens for what must be the same LUT.
type Interner struct {
	mu     sync.RWMutex
	tokens map[string]EquivalenceToken
	next   int64
	group  singleflight.Group
}

// NewInterner returns an empty Interner.
func NewInterner() *Interner {
	return &Interner{tokens: make(map[string]EquivalenceToken)}
}

// Intern returns the token for key, allocating a fresh one on first use.
// Repeat calls with the same key always return the same token; there is no
// eviction, matching spec.md §5's "Memoization of equivalence identities is
// process-wide... with no eviction".
func (in *Interner) Intern(key string) EquivalenceToken {
	in.mu.RLock()
	if tok, ok := in.tokens[key]; ok {
		in.mu.RUnlock()
		return tok
	}
	in.mu.RUnlock()

	v, _, _ := in.group.Do(key, func() (any, error) {
		in.mu.Lock()
		defer in.mu.Unlock()
		if tok, ok := in.tokens[key]; ok {
			return tok, nil
		}
		tok := EquivalenceToken(atomic.AddInt64(&in.next, 1))
		in.tokens[key] = tok
		return tok, nil
	})
	return v.(EquivalenceToken)
}

// Lookup returns the token already assigned to key without allocating one,
// and whether key has ever been interned.
func (in *Interner) Lookup(key string) (EquivalenceToken, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	tok, ok := in.tokens[key]
	return tok, ok
}
