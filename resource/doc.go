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


// Package resource loads the engine's embedding resource: a single JSON
// payload of the form
//
//	{"vocabulary": {"word": index, ...}, "embeddings": [[...], ...]}
//
// fetched once at initialization. Configured dimensions must match the
// payload or loading fails with core.ErrResourceUnavailable.
//
// Store provides an optional BadgerDB cache of the decoded model, keyed by
// the BLAKE2b digest of the raw payload, so repeated startups skip JSON
// decoding. Search state is never persisted.
package resource
