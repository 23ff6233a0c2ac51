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


// Package core defines the domain model shared by all semfind packages:
// text units and anchors supplied by the host document, chunks and matches,
// search modes, session states, query validation, the tokenizer and the
// engine-level error taxonomy.
//
// Anchors are opaque. The engine carries them from the document supplier to
// the highlighter without ever owning or inspecting document structure.
package core
