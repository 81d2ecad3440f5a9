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

import "errors"

// Domain validation errors
var (
	// ErrInvalidCaseRecord indicates a CaseRecord failed validation.
	ErrInvalidCaseRecord = errors.New("invalid case record")

	// ErrEmptyCaseName indicates the case Name field is empty.
	ErrEmptyCaseName = errors.New("case name cannot be empty")

	// ErrInvalidYear indicates the case year is outside the accepted range.
	ErrInvalidYear = errors.New("case year out of range")

	// ErrBlankTheoryName indicates a theory label consists only of whitespace.
	ErrBlankTheoryName = errors.New("theory name cannot be blank")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")
)
