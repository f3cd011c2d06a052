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

package badger

import "encoding/binary"

// Key prefixes for different data types
const (
	vectorRecordPrefix = "vecrec:"
	tableInfoKey       = "tblinfo"
)

// makeVectorRecordKey generates a key for the record at a table position.
// Format: prefix + big-endian position, so prefix iteration yields table order.
func makeVectorRecordKey(position int) []byte {
	buf := make([]byte, len(vectorRecordPrefix)+8)
	offset := copy(buf, vectorRecordPrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(position))
	return buf
}
