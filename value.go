// Copyright 2026 Montoux Limited
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package athena

import (
	"bufio"
	"io"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"google.golang.org/api/iterator"
)

// Value stores the contents of a single cell from a query result. Cells are
// decoded from the delimited result object into Go values according to the
// inferred column type: bool, int64, float64, string or time.Time. A NULL
// cell is a nil Value.
type Value interface{}

// A RowIterator provides access to the result rows of a completed query.
// Rows are decoded on demand from the result object; the underlying reader
// is released once the iterator is exhausted.
type RowIterator struct {
	body io.ReadCloser
	rdr  *csv.Reader

	rec    arrow.Record
	row    int
	schema *arrow.Schema
	err    error
}

const resultChunkRows = 1024

func newRowIterator(body io.ReadCloser) *RowIterator {
	it := &RowIterator{body: body}
	// The inferring reader requires at least one data row to establish a
	// schema, so a header-only object (a query matching zero rows) is
	// detected before the reader is built and yields an exhausted iterator
	// with a nil schema.
	br := bufio.NewReader(body)
	header, err := br.ReadString('\n')
	if err == nil {
		_, err = br.Peek(1)
	}
	if err != nil {
		if err == io.EOF {
			it.err = iterator.Done
		} else {
			it.err = err
		}
		body.Close()
		return it
	}
	it.rdr = csv.NewInferringReader(io.MultiReader(strings.NewReader(header), br),
		csv.WithAllocator(memory.DefaultAllocator),
		csv.WithHeader(true),
		csv.WithChunk(resultChunkRows),
		csv.WithNullReader(true, ""),
	)
	return it
}

// Next loads the next row into dst. Its return value is iterator.Done if
// there are no more results. Once Next returns iterator.Done, all subsequent
// calls will return iterator.Done.
func (it *RowIterator) Next(dst *[]Value) error {
	if it.err != nil {
		return it.err
	}
	for it.rec == nil || it.row >= int(it.rec.NumRows()) {
		if !it.advance() {
			return it.err
		}
	}
	row := make([]Value, it.rec.NumCols())
	for i := range row {
		row[i] = valueAt(it.rec.Column(i), it.row)
	}
	it.row++
	*dst = row
	return nil
}

// advance reads the next record batch, reporting whether one is available.
func (it *RowIterator) advance() bool {
	if it.rec != nil {
		it.rec.Release()
		it.rec = nil
	}
	if !it.rdr.Next() {
		if err := it.rdr.Err(); err != nil && err != io.EOF {
			it.err = err
		} else {
			it.err = iterator.Done
		}
		it.rdr.Release()
		it.body.Close()
		return false
	}
	it.rec = it.rdr.Record()
	it.rec.Retain()
	it.row = 0
	it.schema = it.rdr.Schema()
	return true
}

// Schema returns the inferred schema of the result. It is nil until the
// first call to Next.
func (it *RowIterator) Schema() *arrow.Schema {
	return it.schema
}

// Close releases the iterator's resources early. It is not necessary to
// call Close on an iterator that has been drained.
func (it *RowIterator) Close() error {
	if it.err == nil {
		it.err = iterator.Done
		if it.rec != nil {
			it.rec.Release()
			it.rec = nil
		}
		it.rdr.Release()
		return it.body.Close()
	}
	return nil
}

func valueAt(col arrow.Array, i int) Value {
	if col.IsNull(i) {
		return nil
	}
	switch col := col.(type) {
	case *array.Boolean:
		return col.Value(i)
	case *array.Int8:
		return int64(col.Value(i))
	case *array.Int16:
		return int64(col.Value(i))
	case *array.Int32:
		return int64(col.Value(i))
	case *array.Int64:
		return col.Value(i)
	case *array.Float32:
		return float64(col.Value(i))
	case *array.Float64:
		return col.Value(i)
	case *array.String:
		return col.Value(i)
	case *array.LargeString:
		return col.Value(i)
	case *array.Date32:
		return col.Value(i).ToTime()
	case *array.Date64:
		return col.Value(i).ToTime()
	case *array.Timestamp:
		if dt, ok := col.DataType().(*arrow.TimestampType); ok {
			return col.Value(i).ToTime(dt.Unit)
		}
		return col.ValueStr(i)
	default:
		// Uncommon inferred types are surfaced in their string form.
		return col.ValueStr(i)
	}
}
