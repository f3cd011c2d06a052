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

package storage

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// float64Size is the raw encoding width of one vector component.
const float64Size = 8

var (
	vectorRecordSer = vectorRecordMUS{}
	tableInfoSer    = tableInfoMUS{}
)

// vectorRecordMUS encodes a VectorRecord as token, length, raw components.
type vectorRecordMUS struct{}

func (s vectorRecordMUS) Marshal(v VectorRecord, bs []byte) (n int) {
	n = ord.String.Marshal(v.Token, bs)
	n += varint.Int.Marshal(len(v.Values), bs[n:])
	for _, x := range v.Values {
		n += raw.Float64.Marshal(x, bs[n:])
	}
	return
}

func (s vectorRecordMUS) Unmarshal(bs []byte) (v VectorRecord, n int, err error) {
	v.Token, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	length, n1, err := varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if length < 0 || length > (len(bs)-n)/float64Size {
		err = fmt.Errorf("%w: %d components declared, %d bytes left", ErrTruncatedData, length, len(bs)-n)
		return
	}
	v.Values = make([]float64, length)
	for i := range v.Values {
		v.Values[i], n1, err = raw.Float64.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (s vectorRecordMUS) Size(v VectorRecord) (size int) {
	size = ord.String.Size(v.Token)
	size += varint.Int.Size(len(v.Values))
	return size + len(v.Values)*float64Size
}

// tableInfoMUS encodes TableInfo as three varints.
type tableInfoMUS struct{}

func (s tableInfoMUS) Marshal(v TableInfo, bs []byte) (n int) {
	n = varint.Int.Marshal(v.Dim, bs)
	n += varint.Int.Marshal(v.Count, bs[n:])
	n += varint.Uint64.Marshal(v.Fingerprint, bs[n:])
	return
}

func (s tableInfoMUS) Unmarshal(bs []byte) (v TableInfo, n int, err error) {
	v.Dim, n, err = varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Count, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Fingerprint, n1, err = varint.Uint64.Unmarshal(bs[n:])
	n += n1
	return
}

func (s tableInfoMUS) Size(v TableInfo) (size int) {
	size = varint.Int.Size(v.Dim)
	size += varint.Int.Size(v.Count)
	return size + varint.Uint64.Size(v.Fingerprint)
}

// MarshalVectorRecord serializes a VectorRecord to bytes.
func MarshalVectorRecord(record *VectorRecord) []byte {
	buf := make([]byte, vectorRecordSer.Size(*record))
	vectorRecordSer.Marshal(*record, buf)
	return buf
}

// UnmarshalVectorRecord deserializes a VectorRecord from bytes.
func UnmarshalVectorRecord(data []byte) (*VectorRecord, error) {
	record, _, err := vectorRecordSer.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: vector record: %w", ErrSerializationFailed, err)
	}
	return &record, nil
}

// MarshalTableInfo serializes a TableInfo to bytes.
func MarshalTableInfo(info *TableInfo) []byte {
	buf := make([]byte, tableInfoSer.Size(*info))
	tableInfoSer.Marshal(*info, buf)
	return buf
}

// UnmarshalTableInfo deserializes a TableInfo from bytes.
func UnmarshalTableInfo(data []byte) (*TableInfo, error) {
	info, _, err := tableInfoSer.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: table info: %w", ErrSerializationFailed, err)
	}
	return &info, nil
}
