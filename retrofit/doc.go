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

// Package retrofit adjusts word vectors towards their neighbors in a
// relation graph.
//
// Each round visits every token that has both a vector and a graph entry and
// replaces its vector with the weighted average
//
//	(k*original + sum of current neighbor vectors) / (2k)
//
// where k is the number of neighbors that have a vector in the original
// table. The original vector is the data term of every round; neighbor
// vectors are read from the working table, which is updated in place as
// tokens are visited. Because of that in-place update the result depends on
// the visiting order chosen by Config.Order.
package retrofit
