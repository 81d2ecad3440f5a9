// Copyright 2025 Poiesic Systems
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
	"time"
)

// ValidateCaseRecord validates a CaseRecord according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//   - Year, when set, must be plausible (1900..2100)
//   - Theory labels must not be blank strings
//
// NOT validated (populated by processors):
//   - Vector (can be empty until the embedding processor runs)
//   - ID (0 is valid; storage derives it from the natural key)
func ValidateCaseRecord(record *CaseRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidCaseRecord)
	}

	if record.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCaseRecord, ErrEmptyCaseName)
	}

	if record.Year != 0 && (record.Year < 1900 || record.Year > 2100) {
		return fmt.Errorf("%w: %w: %d", ErrInvalidCaseRecord, ErrInvalidYear, record.Year)
	}

	for _, theory := range record.Theories {
		if strings.TrimSpace(theory) == "" {
			return fmt.Errorf("%w: %w", ErrInvalidCaseRecord, ErrBlankTheoryName)
		}
	}

	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
