// Copyright 2026 Poiesic Systems
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


package session

import (
	"math"
	"sync"
	"time"
)

const (
	// DefaultMaxTokens is the default bucket capacity.
	DefaultMaxTokens = 10
	// DefaultRefillWindow is the default interval at which the bucket
	// refills to capacity.
	DefaultRefillWindow = time.Minute
)

// TokenBucket gates session creation. The bucket refills in whole windows:
// once at least one refill window has elapsed, the bucket returns to
// capacity (it does not trickle). Tokens always stay in [0, maxTokens].
//
// Denial is surfaced to the caller as core.ErrRateLimited by the manager;
// no retry is scheduled here.
type TokenBucket struct {
	mu           sync.Mutex
	tokens       float64
	maxTokens    float64
	refillWindow time.Duration
	lastRefill   time.Time

	now func() time.Time
}

// NewTokenBucket creates a full bucket. Non-positive arguments fall back to
// the defaults.
func NewTokenBucket(maxTokens float64, refillWindow time.Duration) *TokenBucket {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if refillWindow <= 0 {
		refillWindow = DefaultRefillWindow
	}
	b := &TokenBucket{
		tokens:       maxTokens,
		maxTokens:    maxTokens,
		refillWindow: refillWindow,
		now:          time.Now,
	}
	b.lastRefill = b.now()
	return b
}

// TryAcquire refills the bucket for any whole windows elapsed since the last
// refill, then takes one token if available. Returns false when the bucket
// is empty.
func (b *TokenBucket) TryAcquire() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	if elapsed := now.Sub(b.lastRefill); elapsed >= b.refillWindow {
		windows := math.Floor(float64(elapsed) / float64(b.refillWindow))
		b.tokens = math.Min(b.maxTokens, b.tokens+windows*b.maxTokens)
		b.lastRefill = now
	}

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// Tokens returns the current token count without refilling.
func (b *TokenBucket) Tokens() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tokens
}
