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

// Package vectorfile reads and writes vector tables in the whitespace
// separated text format used by word embedding distributions:
//
//	<token> <float> <float> ... <float>
//
// Tokens are lowercased on read but are not mapped to the lexicon sentinel
// tokens. Every vector read is scaled to unit length with core.NormEpsilon
// under the square root unless WithoutNormalization is given. Paths ending in
// .gz or .zst are decompressed (and compressed on write) transparently.
package vectorfile
