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


// Package search provides the three interchangeable matching strategies
// applied over document chunks:
//
//   - semantic: embedding cosine similarity plus lexical relevance
//     heuristics, gated on both the base similarity and the composite score
//   - exact: case-insensitive substring containment, narrowed to the text
//     units responsible for the hit
//   - fuzzy: approximate word-window alignment under Jaro-Winkler
//
// Each matcher declares its own ordering policy: document order for
// semantic and exact, score order for fuzzy.
package search
