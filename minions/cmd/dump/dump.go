// Copyright © 2020-2021 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package dump reads and writes counts of sketch values in a flat binary
// format: records of a little-endian uint64 value and a little-endian
// uint16 count, with no header.
package dump

import (
	"encoding/binary"
	"errors"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/twotwotwo/sorts/sortutil"
)

// MaxCount is the largest count, counts saturate at it.
const MaxCount uint16 = 65534

// RecordSize is the number of bytes of a record.
const RecordSize = 10

// ErrBrokenFile means the file size is not a multiple of RecordSize.
var ErrBrokenFile = errors.New("minions: broken counts dump file")

var le = binary.LittleEndian

// Record is a sketch value and its count.
type Record struct {
	Hash  uint64
	Count uint16
}

// ------------------------------------------------------------------------

// Counter counts sketch values.
type Counter struct {
	m map[uint64]uint16
	n uint64 // number of added values
}

// NewCounter creates a Counter.
func NewCounter(size int) *Counter {
	return &Counter{m: make(map[uint64]uint16, size)}
}

// Add counts a value.
func (c *Counter) Add(h uint64) {
	if v := c.m[h]; v < MaxCount {
		c.m[h] = v + 1
	}
	c.n++
}

// AddN counts a value n times.
func (c *Counter) AddN(h uint64, n uint16) {
	v := uint32(c.m[h]) + uint32(n)
	if v > uint32(MaxCount) {
		v = uint32(MaxCount)
	}
	c.m[h] = uint16(v)
	c.n += uint64(n)
}

// Merge adds all counts of another Counter.
func (c *Counter) Merge(b *Counter) {
	for h, n := range b.m {
		c.AddN(h, n)
	}
}

// Count returns the count of a value.
func (c *Counter) Count(h uint64) uint16 { return c.m[h] }

// Len returns the number of distinct values.
func (c *Counter) Len() int { return len(c.m) }

// Total returns the number of added values.
func (c *Counter) Total() uint64 { return c.n }

// Hashes returns sorted distinct values.
func (c *Counter) Hashes() []uint64 {
	hashes := make([]uint64, 0, len(c.m))
	for h := range c.m {
		hashes = append(hashes, h)
	}
	sortutil.Uint64s(hashes)
	return hashes
}

// Records returns records sorted by values.
func (c *Counter) Records() []Record {
	hashes := c.Hashes()
	records := make([]Record, len(hashes))
	for i, h := range hashes {
		records[i] = Record{Hash: h, Count: c.m[h]}
	}
	return records
}

// ------------------------------------------------------------------------

// Writer writes records.
type Writer struct {
	w   io.Writer
	buf [RecordSize]byte
	n   uint64
}

// NewWriter creates a Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write writes one record.
func (writer *Writer) Write(r Record) error {
	le.PutUint64(writer.buf[:8], r.Hash)
	le.PutUint16(writer.buf[8:], r.Count)
	_, err := writer.w.Write(writer.buf[:])
	if err != nil {
		return err
	}
	writer.n++
	return nil
}

// WriteCounter writes all records of a Counter, sorted by values.
func (writer *Writer) WriteCounter(c *Counter) error {
	for _, h := range c.Hashes() {
		if err := writer.Write(Record{Hash: h, Count: c.m[h]}); err != nil {
			return err
		}
	}
	return nil
}

// N returns the number of written records.
func (writer *Writer) N() uint64 { return writer.n }

// ------------------------------------------------------------------------

// Reader reads records.
type Reader struct {
	r   io.Reader
	buf [RecordSize]byte
}

// NewReader creates a Reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Read reads one record, io.EOF is returned at the end.
func (reader *Reader) Read() (Record, error) {
	n, err := io.ReadFull(reader.r, reader.buf[:])
	if err != nil {
		if err == io.EOF {
			return Record{}, io.EOF
		}
		if err == io.ErrUnexpectedEOF && n > 0 {
			return Record{}, ErrBrokenFile
		}
		return Record{}, err
	}
	return Record{Hash: le.Uint64(reader.buf[:8]), Count: le.Uint16(reader.buf[8:])}, nil
}

// ReadFile reads all records of a file with mmap.
func ReadFile(file string) ([]Record, error) {
	fh, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	info, err := fh.Stat()
	if err != nil {
		return nil, err
	}
	size := info.Size()
	if size%RecordSize != 0 {
		return nil, ErrBrokenFile
	}
	if size == 0 {
		return []Record{}, nil
	}

	data, err := mmap.Map(fh, mmap.RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer data.Unmap()

	records := make([]Record, 0, size/RecordSize)
	for i := 0; i+RecordSize <= len(data); i += RecordSize {
		records = append(records, Record{
			Hash:  le.Uint64(data[i : i+8]),
			Count: le.Uint16(data[i+8 : i+RecordSize]),
		})
	}
	return records, nil
}
