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

func TestModmer(t *testing.T) {
	ungapped := KmerHashes(text, mustShape(t, "1111"), 0)
	gapped := KmerHashes(text, mustShape(t, "1001"), 0)

	tests := []struct {
		hashes    []uint64
		mod       uint64
		expected  []uint64
		distances []uint64
	}{
		{ungapped, 2, []uint64{26, 166, 152, 134, 252, 242}, []uint64{0, 1, 0, 1, 3, 0}},
		{gapped, 2, []uint64{2, 10, 8, 10, 12, 14}, []uint64{0, 1, 0, 1, 3, 0}},
		{ungapped[6:], 2, []uint64{252, 242}, []uint64{3, 0}},
		{ungapped[:6], 2, []uint64{26, 166, 152, 134}, []uint64{0, 1, 0, 1}},
		{gapped[:6], 2, []uint64{2, 10, 8, 10}, []uint64{0, 1, 0, 1}},
		{KmerHashes(text2, mustShape(t, "1111"), 0), 2, []uint64{182, 216, 134, 252, 242}, nil},
		{KmerHashes(text2, mustShape(t, "1001"), 0), 2, []uint64{10, 12, 10, 12, 14}, nil},
		{nil, 2, []uint64{}, []uint64{}},
	}
	for i, test := range tests {
		iter, err := NewModmer(NewSliceSource(test.hashes), test.mod)
		if err != nil {
			t.Error(err)
			return
		}
		if values := Collect(iter); !equalUint64s(values, test.expected) {
			t.Errorf("[#%d] unexpected modmers: %v, expected: %v", i, values, test.expected)
		}

		if test.distances == nil {
			continue
		}
		dist, err := NewModmerDistance(NewSliceSource(test.hashes), test.mod)
		if err != nil {
			t.Error(err)
			return
		}
		if values := Collect(dist); !equalUint64s(values, test.distances) {
			t.Errorf("[#%d] unexpected modmer distances: %v, expected: %v", i, values, test.distances)
		}
	}

	for _, mod := range []uint64{0, 1} {
		if _, err := NewModmer(NewSliceSource(ungapped), mod); err != ErrModulus {
			t.Errorf("modulus %d should fail", mod)
		}
		if _, err := NewModmerHash(text, mustShape(t, "1111"), mod, 0, nil); err != ErrModulus {
			t.Errorf("modulus %d should fail", mod)
		}
	}
}

func TestModmerHash(t *testing.T) {
	tests := []struct {
		shape     string
		mod       uint64
		expected  []uint64
		distances []uint64
	}{
		{"1111", 2, []uint64{26, 152, 6, 192, 112}, []uint64{0, 2, 3, 1, 0}},
		{"1001", 2, []uint64{2, 8, 2, 12, 4}, []uint64{0, 2, 3, 1, 0}},
		{"1111", 3, []uint64{105, 27, 6, 192}, []uint64{1, 4, 0, 1}},
	}
	for i, test := range tests {
		shape := mustShape(t, test.shape)
		iter, err := NewModmerHash(text, shape, test.mod, 0, nil)
		if err != nil {
			t.Error(err)
			return
		}
		if values := Collect(iter); !equalUint64s(values, test.expected) {
			t.Errorf("[#%d] unexpected modmers: %v, expected: %v", i, values, test.expected)
		}

		dist, err := NewModmerHashDistance(text, shape, test.mod, 0, nil)
		if err != nil {
			t.Error(err)
			return
		}
		if values := Collect(dist); !equalUint64s(values, test.distances) {
			t.Errorf("[#%d] unexpected modmer distances: %v, expected: %v", i, values, test.distances)
		}

		// two streams
		iter2, err := NewModmer2(NewHashIterator(text, shape, 0),
			NewSliceSource(AlignedRevCompHashes(text, shape, 0)), test.mod, 0, nil)
		if err != nil {
			t.Error(err)
			return
		}
		if values := Collect(iter2); !equalUint64s(values, test.expected) {
			t.Errorf("[#%d] unexpected modmers of two streams: %v, expected: %v", i, values, test.expected)
		}
	}

	// seeded
	iter, err := NewModmerHash(text, mustShape(t, "1111"), 2, DefaultSeed, nil)
	if err != nil {
		t.Error(err)
		return
	}
	expected := []uint64{10322096095657499256, 10322096095657499143, 10322096095657499233}
	positions := []int{2, 3, 8}
	for i, e := range expected {
		v, ok := iter.Next()
		if !ok || v != e || iter.Index() != positions[i] {
			t.Errorf("[#%d] unexpected seeded modmer: %d at %d, expected: %d at %d", i, v, iter.Index(), e, positions[i])
		}
	}

	// other mixers
	shape := mustShape(t, "1111")
	for name, mix := range Mixers {
		iter, err := NewModmerHash(longText, shape, 3, DefaultSeed, mix)
		if err != nil {
			t.Error(err)
			return
		}
		fwd := KmerHashes(longText, shape, DefaultSeed)
		rev := AlignedRevCompHashes(longText, shape, DefaultSeed)
		for {
			v, ok := iter.Next()
			if !ok {
				break
			}
			i := iter.Index()
			if v != min64(fwd[i], rev[i]) || mix(v, DefaultSeed)%3 != 0 {
				t.Errorf("%s: unexpected modmer %d at %d", name, v, i)
			}
		}
	}

	_, err = NewModmer2(NewSliceSource([]uint64{1, 2, 3}), NewSliceSource([]uint64{1, 2}), 2, 0, nil)
	if err != ErrUnequalStreams {
		t.Errorf("unequal streams should fail")
	}
}

func TestModmerHashStrandSymmetry(t *testing.T) {
	rc := revcomp(longText)
	for _, shape := range []string{"1111", "1001", "11011"} {
		for _, mod := range []uint64{2, 3, 5} {
			a, err := NewModmerHash(longText, mustShape(t, shape), mod, DefaultSeed, nil)
			if err != nil {
				t.Error(err)
				return
			}
			b, err := NewModmerHash(rc, mustShape(t, shape), mod, DefaultSeed, nil)
			if err != nil {
				t.Error(err)
				return
			}
			va, vb := Collect(a), Collect(b)
			Reverse(va)
			if !equalUint64s(va, vb) {
				t.Errorf("shape %s mod %d: modmers of two strands differ", shape, mod)
			}
		}
	}
}
