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

package sketch

import "testing"

func TestSyncmerHash(t *testing.T) {
	tests := []struct {
		s      []byte
		smer   int
		kmer   int
		closed []uint64
		open   []uint64
	}{
		{text, 2, 5, []uint64{105, 422, 609, 111, 447, 764, 1010}, []uint64{105, 422, 111, 447, 764}},
		{text, 1, 4, []uint64{26, 105, 152, 27, 111, 191, 252}, []uint64{26, 105, 27, 111, 191}},
		{text2, 2, 5, []uint64{109, 438, 865, 111, 447, 764, 1010}, []uint64{109, 438, 111, 447, 764}},
		{text[:9], 2, 5, []uint64{105, 422, 609}, []uint64{105, 422}},
		{text[6:], 2, 5, []uint64{111, 447, 764, 1010}, []uint64{111, 447, 764}},
		{text[:9], 1, 4, []uint64{26, 105, 152}, []uint64{26, 105}},
		{text[6:], 1, 4, []uint64{27, 111, 191, 252}, []uint64{27, 111, 191}},
		{[]byte("AAAAAA"), 2, 5, []uint64{0, 0}, []uint64{0, 0}},
		{[]byte("ACG"), 2, 5, []uint64{}, []uint64{}},
	}
	for i, test := range tests {
		closed, err := NewSyncmerHash(test.s, test.smer, test.kmer, 0)
		if err != nil {
			t.Error(err)
			return
		}
		if values := Collect(closed); !equalUint64s(values, test.closed) {
			t.Errorf("[#%d] unexpected closed syncmers: %v, expected: %v", i, values, test.closed)
		}

		open, err := NewOpenSyncmerHash(test.s, test.smer, test.kmer, 0)
		if err != nil {
			t.Error(err)
			return
		}
		if values := Collect(open); !equalUint64s(values, test.open) {
			t.Errorf("[#%d] unexpected open syncmers: %v, expected: %v", i, values, test.open)
		}
	}
}

func TestSyncmerPositions(t *testing.T) {
	tests := []struct {
		positions []int
		expected  []uint64
		indexes   []int
	}{
		{[]int{1}, []uint64{539}, []int{5}},
		{[]int{1, 2}, []uint64{664, 390, 539}, []int{2, 4, 5}},
		{[]int{0, 3}, []uint64{105, 422, 609, 111, 447, 764, 1010}, []int{0, 1, 3, 6, 7, 8, 9}},
	}
	shapeS, _ := Ungapped(2)
	shapeK, _ := Ungapped(5)
	for i, test := range tests {
		iter, err := NewSyncmer(NewSliceSource(KmerHashes(text, shapeS, 0)),
			NewSliceSource(KmerHashes(text, shapeK, 0)), 4, test.positions)
		if err != nil {
			t.Error(err)
			return
		}
		values := make([]uint64, 0, len(test.expected))
		for {
			v, ok := iter.Next()
			if !ok {
				break
			}
			if len(values) < len(test.indexes) && iter.Index() != test.indexes[len(values)] {
				t.Errorf("[#%d] unexpected position: %d, expected: %d", i, iter.Index(), test.indexes[len(values)])
			}
			values = append(values, v)
		}
		if !equalUint64s(values, test.expected) {
			t.Errorf("[#%d] unexpected syncmers: %v, expected: %v", i, values, test.expected)
		}
	}

	// distances of open syncmers
	open, err := NewOpenSyncmer(NewSliceSource(KmerHashes(text, shapeS, 0)),
		NewSliceSource(KmerHashes(text, shapeK, 0)), 4)
	if err != nil {
		t.Error(err)
		return
	}
	expected := []uint64{0, 0, 4, 0, 0}
	if values := Collect(NewGaps(open)); !equalUint64s(values, expected) {
		t.Errorf("unexpected distances of open syncmers: %v, expected: %v", values, expected)
	}
}

func TestCanonicalSyncmerHash(t *testing.T) {
	tests := []struct {
		smer     int
		kmer     int
		open     bool
		expected []uint64
		indexes  []int
	}{
		{2, 5, false, []uint64{105, 664, 609, 109, 27, 6}, []int{0, 2, 3, 5, 6, 7}},
		{2, 5, true, []uint64{105, 664, 109, 27, 6}, []int{0, 2, 5, 6, 7}},
		{1, 4, false, []uint64{26, 105, 101, 152, 27, 6, 1, 192}, []int{0, 1, 2, 3, 6, 7, 8, 9}},
		{1, 4, true, []uint64{26, 105, 101, 27, 6, 1, 192}, []int{0, 1, 2, 6, 7, 8, 9}},
	}
	for i, test := range tests {
		width := test.kmer - test.smer + 1
		positions := ClosedPositions(width)
		if test.open {
			positions = OpenPositions(width)
		}
		iter, err := NewCanonicalSyncmerHash(text, test.smer, test.kmer, positions, 0)
		if err != nil {
			t.Error(err)
			return
		}
		var j int
		for {
			v, ok := iter.Next()
			if !ok {
				break
			}
			if j >= len(test.expected) {
				t.Errorf("[#%d] unexpected extra syncmer: %d", i, v)
				break
			}
			if v != test.expected[j] || iter.Index() != test.indexes[j] {
				t.Errorf("[#%d] unexpected syncmer: %d at %d, expected: %d at %d",
					i, v, iter.Index(), test.expected[j], test.indexes[j])
			}
			j++
		}
		if j != len(test.expected) {
			t.Errorf("[#%d] unexpected number of syncmers: %d, expected: %d", i, j, len(test.expected))
		}
	}
}

func TestCanonicalSyncmerHashStrandSymmetry(t *testing.T) {
	rc := revcomp(longText)
	for _, p := range [][2]int{{2, 5}, {1, 4}, {3, 6}, {2, 3}} {
		width := p[1] - p[0] + 1
		for _, positions := range [][]int{ClosedPositions(width), OpenPositions(width)} {
			for _, seed := range []uint64{0, DefaultSeed} {
				a, err := NewCanonicalSyncmerHash(longText, p[0], p[1], positions, seed)
				if err != nil {
					t.Error(err)
					return
				}
				b, err := NewCanonicalSyncmerHash(rc, p[0], p[1], positions, seed)
				if err != nil {
					t.Error(err)
					return
				}
				va, vb := Collect(a), Collect(b)
				Reverse(va)
				if !equalUint64s(va, vb) {
					t.Errorf("s: %d, k: %d, positions: %v: syncmers of two strands differ", p[0], p[1], positions)
				}
			}
		}
	}
}

func TestSyncmerErrors(t *testing.T) {
	tests := []struct {
		smer, kmer int
		positions  []int
		err        error
	}{
		{0, 5, []int{0}, ErrSmerSize},
		{5, 5, []int{0}, ErrSmerSize},
		{6, 5, []int{0}, ErrSmerSize},
		{2, 33, []int{0}, ErrKOverflow},
		{2, 5, []int{}, ErrPositions},
		{2, 5, []int{4}, ErrPositions},
		{2, 5, []int{-1}, ErrPositions},
	}
	for i, test := range tests {
		if _, err := NewSyncmerHashWithPositions(text, test.smer, test.kmer, test.positions, 0); err != test.err {
			t.Errorf("[#%d] unexpected error: %v, expected: %v", i, err, test.err)
		}
		if _, err := NewCanonicalSyncmerHash(text, test.smer, test.kmer, test.positions, 0); err != test.err {
			t.Errorf("[#%d] unexpected error of canonical syncmers: %v, expected: %v", i, err, test.err)
		}
	}

	_, err := NewClosedSyncmer(NewSliceSource(make([]uint64, 10)), NewSliceSource(make([]uint64, 5)), 4)
	if err != ErrUnequalStreams {
		t.Errorf("inconsistent streams should fail")
	}
}
