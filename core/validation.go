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

import (
	"fmt"
	"strings"
)

// MinQueryLength is the minimum number of characters a sanitized query must
// have before a session is started. Shorter queries are rejected without
// consuming a rate-limit token.
const MinQueryLength = 2

// SanitizeQuery trims surrounding whitespace and strips angle brackets from
// a raw query. Sanitization happens before length validation, so a query
// that is only markup collapses to an invalid one.
func SanitizeQuery(raw string) string {
	cleaned := strings.NewReplacer("<", "", ">", "").Replace(raw)
	return strings.TrimSpace(cleaned)
}

// ValidateQuery sanitizes the raw query and validates it against domain
// rules. Returns the sanitized query on success.
//
// Validation rules:
//   - must not be empty after sanitization
//   - must be at least MinQueryLength characters
func ValidateQuery(raw string) (string, error) {
	query := SanitizeQuery(raw)
	if query == "" {
		return "", fmt.Errorf("%w: empty after sanitization", ErrInvalidQuery)
	}
	if len(query) < MinQueryLength {
		return "", fmt.Errorf("%w: %w: %d < %d", ErrInvalidQuery, ErrQueryTooShort, len(query), MinQueryLength)
	}
	return query, nil
}
