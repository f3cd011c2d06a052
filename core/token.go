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
	"strings"
	"unicode"
)

// Sentinel tokens shared by every raw token of the same category.
const (
	NumberToken      = "---num---"
	PunctuationToken = "---punc---"
)

// NormalizeToken maps a raw lexicon token to its key.
//
// Rules, applied in order:
//   - lowercased token contains a decimal digit: NumberToken
//   - token contains no word character (letter, number, underscore): PunctuationToken
//   - otherwise the lowercased token
func NormalizeToken(token string) string {
	lower := strings.ToLower(token)
	if strings.IndexFunc(lower, unicode.IsDigit) >= 0 {
		return NumberToken
	}
	if strings.IndexFunc(token, isWordRune) < 0 {
		return PunctuationToken
	}
	return lower
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
