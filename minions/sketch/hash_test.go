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

import (
	"testing"

	"github.com/shenwei356/kmers"
)

var text = []byte("ACGGCGACGTTTAG")

func mustShape(t testing.TB, s string) Shape {
	shape, err := ParseShape(s)
	if err != nil {
		t.Fatalf("parse shape %s: %s", s, err)
	}
	return shape
}

func equalUint64s(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func revcomp(s []byte) []byte {
	c := make([]byte, len(s))
	comp := map[byte]byte{'A': 'T', 'C': 'G', 'G': 'C', 'T': 'A'}
	for i, b := range s {
		c[len(s)-1-i] = comp[b]
	}
	return c
}

func TestShape(t *testing.T) {
	tests := []struct {
		mask  uint64
		str   string
		size  int
		count int
	}{
		{0b1, "1", 1, 1},
		{0b1111, "1111", 4, 4},
		{0b1001, "1001", 4, 2},
		{0b1101011, "1101011", 7, 5},
	}
	for i, test := range tests {
		shape, err := NewShape(test.mask)
		if err != nil {
			t.Error(err)
			return
		}
		if shape.String() != test.str || shape.Size() != test.size || shape.Count() != test.count {
			t.Errorf("[#%d] unexpected shape: %s, size: %d, count: %d", i, shape, shape.Size(), shape.Count())
		}
		if shape.Mask() != test.mask {
			t.Errorf("[#%d] unexpected mask: %b, expected: %b", i, shape.Mask(), test.mask)
		}

		shape2, err := ParseShape(test.str)
		if err != nil {
			t.Error(err)
			return
		}
		if shape2.String() != test.str {
			t.Errorf("[#%d] unexpected parsed shape: %s, expected: %s", i, shape2, test.str)
		}
	}

	for _, s := range []string{"", "0110", "1110", "1a1", "0"} {
		if _, err := ParseShape(s); err != ErrInvalidShape {
			t.Errorf("invalid shape %q should fail, got: %v", s, err)
		}
	}

	if _, err := Ungapped(33); err != ErrKOverflow {
		t.Errorf("shape of 33 positions should fail")
	}
	if shape, _ := Ungapped(5); !shape.IsUngapped() || shape.String() != "11111" {
		t.Errorf("unexpected ungapped shape: %s", shape)
	}
}

func TestKmerHashes(t *testing.T) {
	tests := []struct {
		shape    string
		expected []uint64
		revcomp  []uint64 // aligned
	}{
		{"1111",
			[]uint64{26, 105, 166, 152, 97, 134, 27, 111, 191, 252, 242},
			[]uint64{91, 150, 101, 217, 182, 109, 27, 6, 1, 192, 112}},
		{"1001",
			[]uint64{2, 5, 10, 8, 5, 10, 3, 7, 11, 12, 14},
			[]uint64{7, 10, 5, 13, 10, 5, 3, 2, 1, 12, 4}},
	}
	for i, test := range tests {
		shape := mustShape(t, test.shape)
		hashes := KmerHashes(text, shape, 0)
		if !equalUint64s(hashes, test.expected) {
			t.Errorf("[#%d] unexpected hashes: %v, expected: %v", i, hashes, test.expected)
		}
		rc := AlignedRevCompHashes(text, shape, 0)
		if !equalUint64s(rc, test.revcomp) {
			t.Errorf("[#%d] unexpected reverse complement hashes: %v, expected: %v", i, rc, test.revcomp)
		}
		// in the order of the reverse complement sequence
		if !equalUint64s(RevCompHashes(text, shape, 0), KmerHashes(revcomp(text), shape, 0)) {
			t.Errorf("[#%d] reverse complement hashes mismatch", i)
		}
	}

	// the same as 2-bit k-mer codes
	shape, _ := Ungapped(4)
	for i, h := range KmerHashes(text, shape, 0) {
		code, err := kmers.Encode(text[i : i+4])
		if err != nil {
			t.Error(err)
			return
		}
		if code != h {
			t.Errorf("[#%d] hash %d differs from k-mer code %d", i, h, code)
		}
	}

	// seeds
	for i, h := range KmerHashes(text, shape, DefaultSeed) {
		if h^DefaultSeed != KmerHashes(text, shape, 0)[i] {
			t.Errorf("[#%d] unexpected seeded hash: %d", i, h)
		}
	}

	// lower case and other bases
	if !equalUint64s(KmerHashes([]byte("acggNCGA"), shape, 0), KmerHashes([]byte("ACGGACGA"), shape, 0)) {
		t.Errorf("lower case bases or N not handled")
	}

	// short sequence
	if hashes := KmerHashes([]byte("ACG"), shape, 0); len(hashes) != 0 {
		t.Errorf("unexpected hashes of a short sequence: %v", hashes)
	}
}

func TestHashIterator(t *testing.T) {
	shape, _ := Ungapped(4)
	iter := NewHashIterator(text, shape, 0)
	if iter.Len() != 11 {
		t.Errorf("unexpected number of k-mers: %d", iter.Len())
	}
	var n int
	for {
		_, ok := iter.Next()
		if !ok {
			break
		}
		if iter.Index() != n {
			t.Errorf("unexpected index: %d, expected: %d", iter.Index(), n)
		}
		n++
	}
	iter.Reset()
	if v, _ := iter.Next(); v != 26 {
		t.Errorf("unexpected value after reset: %d", v)
	}
}

func TestMix(t *testing.T) {
	tests := []struct {
		v, seed, h uint64
	}{
		{26, DefaultSeed, 24851161815905186},
		{0, DefaultSeed, 48},
		{12345, 7, 8586808071044080262},
		{12345, 0, 12345},
	}
	for i, test := range tests {
		if h := Mix(test.v, test.seed); h != test.h {
			t.Errorf("[#%d] unexpected mix(%d, %d): %d, expected: %d", i, test.v, test.seed, h, test.h)
		}
	}

	for name, mix := range Mixers {
		for _, v := range []uint64{0, 1, 26, 1 << 63} {
			if mix(v, 0) != v {
				t.Errorf("%s: seed 0 should keep the value %d", name, v)
			}
			if mix(v, DefaultSeed) != mix(v, DefaultSeed) {
				t.Errorf("%s: not deterministic", name)
			}
		}
	}

	if _, err := MixerByName("md5"); err != ErrMixer {
		t.Errorf("unknown mixer should fail")
	}
}

func TestAdjustSeed(t *testing.T) {
	if s := AdjustSeed(4, DefaultSeed); s != 0x8F {
		t.Errorf("unexpected adjusted seed: %x", s)
	}
	if s := AdjustSeed(32, DefaultSeed); s != DefaultSeed {
		t.Errorf("unexpected adjusted seed: %x", s)
	}
}
