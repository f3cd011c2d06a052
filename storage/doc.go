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

// Package storage provides the persistence abstraction for vector tables.
//
// A TableRepository keeps one normalized vector table so that repeated
// retrofitting runs can skip parsing large text embedding files. The
// badger subpackage provides the BadgerDB implementation.
//
// # Serialization
//
// Records are encoded with mus-go: a VectorRecord is the token followed by
// the vector length and the raw float64 components; TableInfo carries the
// dimension, the record count and the table fingerprint used to detect
// incomplete or corrupted stores.
//
// # Context Support
//
// Repository methods accept context.Context for cancellation. Pass
// context.Background() for operations without specific timeout requirements.
package storage
