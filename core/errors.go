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

var (
	// ErrMalformedRecord indicates a vector or relation line could not be parsed.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrDimensionMismatch indicates vectors of inconsistent length were combined.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrMissingFile indicates an input path could not be opened for reading.
	ErrMissingFile = errors.New("missing file")

	// ErrInvalidArgument indicates a caller supplied an unusable argument,
	// such as a negative iteration count or an empty vector table.
	ErrInvalidArgument = errors.New("invalid argument")
)
