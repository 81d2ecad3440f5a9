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
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/theoria/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(id)))
	varint.Uint64.Marshal(uint64(id), buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	v, _, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: id: %v", ErrSerializationFailed, err)
	}
	return core.ID(v), nil
}

// MarshalCaseRecord serializes a CaseRecord to bytes.
func MarshalCaseRecord(record *core.CaseRecord) []byte {
	buf := make([]byte, sizeCaseRecord(record))
	n := varint.Uint64.Marshal(uint64(record.Id), buf)
	n += ord.String.Marshal(record.Name, buf[n:])
	n += ord.String.Marshal(record.Code, buf[n:])
	n += varint.Int.Marshal(record.Year, buf[n:])
	n += ord.String.Marshal(record.Subject, buf[n:])
	n += ord.String.Marshal(record.Industry, buf[n:])
	n += ord.String.Marshal(record.Keywords, buf[n:])
	n += marshalStrings(record.Theories, buf[n:])
	n += ord.String.Marshal(record.Summary, buf[n:])
	n += marshalVector(record.Vector, buf[n:])
	n += varint.Int64.Marshal(record.InsertedAt.UnixMicro(), buf[n:])
	varint.Int64.Marshal(record.UpdatedAt.UnixMicro(), buf[n:])
	return buf
}

// UnmarshalCaseRecord deserializes a CaseRecord from bytes.
func UnmarshalCaseRecord(data []byte) (*core.CaseRecord, error) {
	record, err := unmarshalCaseRecord(data)
	if err != nil {
		return nil, fmt.Errorf("%w: case record: %v", ErrSerializationFailed, err)
	}
	return record, nil
}

func unmarshalCaseRecord(data []byte) (*core.CaseRecord, error) {
	var record core.CaseRecord

	id, n, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	record.Id = core.ID(id)
	data = data[n:]

	for _, field := range []*string{
		&record.Name, &record.Code,
	} {
		*field, n, err = ord.String.Unmarshal(data)
		if err != nil {
			return nil, err
		}
		data = data[n:]
	}

	record.Year, n, err = varint.Int.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	data = data[n:]

	for _, field := range []*string{
		&record.Subject, &record.Industry, &record.Keywords,
	} {
		*field, n, err = ord.String.Unmarshal(data)
		if err != nil {
			return nil, err
		}
		data = data[n:]
	}

	record.Theories, n, err = unmarshalStrings(data)
	if err != nil {
		return nil, err
	}
	data = data[n:]

	record.Summary, n, err = ord.String.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	data = data[n:]

	record.Vector, n, err = unmarshalVector(data)
	if err != nil {
		return nil, err
	}
	data = data[n:]

	inserted, n, err := varint.Int64.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	data = data[n:]

	updated, _, err := varint.Int64.Unmarshal(data)
	if err != nil {
		return nil, err
	}

	record.InsertedAt = time.UnixMicro(inserted).UTC()
	record.UpdatedAt = time.UnixMicro(updated).UTC()
	return &record, nil
}

func sizeCaseRecord(record *core.CaseRecord) int {
	size := varint.Uint64.Size(uint64(record.Id))
	size += ord.String.Size(record.Name)
	size += ord.String.Size(record.Code)
	size += varint.Int.Size(record.Year)
	size += ord.String.Size(record.Subject)
	size += ord.String.Size(record.Industry)
	size += ord.String.Size(record.Keywords)
	size += varint.Int.Size(len(record.Theories))
	for _, theory := range record.Theories {
		size += ord.String.Size(theory)
	}
	size += ord.String.Size(record.Summary)
	size += varint.Int.Size(len(record.Vector))
	for _, v := range record.Vector {
		size += varint.Float32.Size(v)
	}
	size += varint.Int64.Size(record.InsertedAt.UnixMicro())
	size += varint.Int64.Size(record.UpdatedAt.UnixMicro())
	return size
}

func marshalStrings(values []string, buf []byte) int {
	n := varint.Int.Marshal(len(values), buf)
	for _, v := range values {
		n += ord.String.Marshal(v, buf[n:])
	}
	return n
}

func unmarshalStrings(data []byte) ([]string, int, error) {
	count, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, 0, err
	}
	if count < 0 {
		return nil, 0, ErrTruncatedData
	}
	if count == 0 {
		return nil, n, nil
	}
	values := make([]string, count)
	for i := range values {
		var m int
		values[i], m, err = ord.String.Unmarshal(data[n:])
		if err != nil {
			return nil, 0, err
		}
		n += m
	}
	return values, n, nil
}

func marshalVector(vector []float32, buf []byte) int {
	n := varint.Int.Marshal(len(vector), buf)
	for _, v := range vector {
		n += varint.Float32.Marshal(v, buf[n:])
	}
	return n
}

func unmarshalVector(data []byte) ([]float32, int, error) {
	count, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, 0, err
	}
	if count < 0 {
		return nil, 0, ErrTruncatedData
	}
	if count == 0 {
		return nil, n, nil
	}
	vector := make([]float32, count)
	for i := range vector {
		var m int
		vector[i], m, err = varint.Float32.Unmarshal(data[n:])
		if err != nil {
			return nil, 0, err
		}
		n += m
	}
	return vector, n, nil
}
