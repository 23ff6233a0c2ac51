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


package core

import "errors"

// Engine-level error taxonomy. A text with no recognized vocabulary tokens
// is an embedding miss, not an error, and cancellation is a terminal session
// state, not an error; neither appears here.
var (
	// ErrInvalidQuery indicates a query that is empty or too short after
	// sanitization. The session never starts and no rate-limit token is
	// consumed.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrQueryTooShort indicates the sanitized query is below the minimum length.
	ErrQueryTooShort = errors.New("query too short")

	// ErrRateLimited indicates admission control denied the query.
	// The engine schedules no retry.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrResourceUnavailable indicates the vocabulary/embedding resource
	// failed to load or did not match the configured dimensions. Fatal to
	// the engine instance until reinitialized.
	ErrResourceUnavailable = errors.New("embedding resource unavailable")

	// ErrEngineClosed indicates a search was issued against a closed engine.
	ErrEngineClosed = errors.New("engine closed")

	// ErrInternal indicates an unexpected fault during batch processing.
	// The session transitions to Failed and partial highlights are cleared.
	ErrInternal = errors.New("internal search failure")

	// ErrUnknownMode indicates an unrecognized search mode name.
	ErrUnknownMode = errors.New("unknown search mode")
)
