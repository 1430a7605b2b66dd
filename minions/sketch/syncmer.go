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

// Syncmer selects k-mers whose smallest s-mer (the leftmost one for ties)
// sits at one of the given offsets in the k-mer.
type Syncmer struct {
	smers Iterator
	kmers Iterator
	krev  []uint64 // aligned k-mers of the opposite strand, for canonical syncmers

	width  int // number of s-mers in a k-mer
	accept []bool
	q      *minQueue
	qr     *minQueue // rightmost minimum, for canonical syncmers

	j   int // index of the next k-mer
	idx int
}

// ClosedPositions returns the offsets of closed syncmers: the first and the last s-mer.
func ClosedPositions(width int) []int {
	return []int{0, width - 1}
}

// OpenPositions returns the offset of open syncmers: the first s-mer.
func OpenPositions(width int) []int {
	return []int{0}
}

func checkSmer(smer, kmer int) error {
	if smer < 1 || kmer <= smer {
		return ErrSmerSize
	}
	if kmer > 32 {
		return ErrKOverflow
	}
	return nil
}

func acceptedPositions(width int, positions []int) ([]bool, error) {
	if len(positions) == 0 {
		return nil, ErrPositions
	}
	accept := make([]bool, width)
	for _, p := range positions {
		if p < 0 || p >= width {
			return nil, ErrPositions
		}
		accept[p] = true
	}
	return accept, nil
}

func newSyncmer(smers, kmers Source, krev []uint64, width int, positions []int) (*Syncmer, error) {
	if width < 2 {
		return nil, ErrSmerSize
	}
	accept, err := acceptedPositions(width, positions)
	if err != nil {
		return nil, err
	}
	if n := kmers.Len(); n > 0 && smers.Len() != n+width-1 {
		return nil, ErrUnequalStreams
	}
	if krev != nil && len(krev) != kmers.Len() {
		return nil, ErrUnequalStreams
	}
	sm := &Syncmer{
		smers:  smers,
		kmers:  kmers,
		krev:   krev,
		width:  width,
		accept: accept,
		q:      newMinQueue(width+1, false),
		idx:    -1,
	}
	if krev != nil {
		sm.qr = newMinQueue(width+1, true)
	}
	return sm, nil
}

// NewSyncmer returns syncmers from a stream of s-mer hashes and a stream
// of k-mer hashes of the same sequence, width is k-s+1.
func NewSyncmer(smers, kmers Source, width int, positions []int) (*Syncmer, error) {
	return newSyncmer(smers, kmers, nil, width, positions)
}

// NewClosedSyncmer returns closed syncmers of two streams.
func NewClosedSyncmer(smers, kmers Source, width int) (*Syncmer, error) {
	return newSyncmer(smers, kmers, nil, width, ClosedPositions(width))
}

// NewOpenSyncmer returns open syncmers of two streams.
func NewOpenSyncmer(smers, kmers Source, width int) (*Syncmer, error) {
	return newSyncmer(smers, kmers, nil, width, OpenPositions(width))
}

// NewSyncmerHashWithPositions returns syncmers of the forward strand of a
// sequence, with hashes of s-mers and k-mers XORed with seed.
func NewSyncmerHashWithPositions(s []byte, smer, kmer int, positions []int, seed uint64) (*Syncmer, error) {
	if err := checkSmer(smer, kmer); err != nil {
		return nil, err
	}
	shapeS, _ := Ungapped(smer)
	shapeK, _ := Ungapped(kmer)
	return newSyncmer(NewHashIterator(s, shapeS, seed), NewHashIterator(s, shapeK, seed),
		nil, kmer-smer+1, positions)
}

// NewSyncmerHash returns closed syncmers of the forward strand of a sequence.
func NewSyncmerHash(s []byte, smer, kmer int, seed uint64) (*Syncmer, error) {
	return NewSyncmerHashWithPositions(s, smer, kmer, ClosedPositions(kmer-smer+1), seed)
}

// NewOpenSyncmerHash returns open syncmers of the forward strand of a sequence.
func NewOpenSyncmerHash(s []byte, smer, kmer int, seed uint64) (*Syncmer, error) {
	return NewSyncmerHashWithPositions(s, smer, kmer, OpenPositions(kmer-smer+1), seed)
}

// NewCanonicalSyncmerHash returns strand-independent syncmers. S-mers and
// k-mers are the smaller ones of the two strands. When the reverse complement
// k-mer is the smaller one, the rightmost smallest s-mer is taken and its
// offset is counted from the other end, which equals reading the k-mer on
// the opposite strand.
func NewCanonicalSyncmerHash(s []byte, smer, kmer int, positions []int, seed uint64) (*Syncmer, error) {
	if err := checkSmer(smer, kmer); err != nil {
		return nil, err
	}
	shapeS, _ := Ungapped(smer)
	shapeK, _ := Ungapped(kmer)

	smers := KmerHashes(s, shapeS, seed)
	for i, v := range AlignedRevCompHashes(s, shapeS, seed) {
		if v < smers[i] {
			smers[i] = v
		}
	}
	return newSyncmer(NewSliceSource(smers), NewHashIterator(s, shapeK, seed),
		AlignedRevCompHashes(s, shapeK, seed), kmer-smer+1, positions)
}

// Next returns the next syncmer.
func (s *Syncmer) Next() (uint64, bool) {
	var kv, v uint64
	var ok bool
	var j, p int
	for {
		kv, ok = s.kmers.Next()
		if !ok {
			return 0, false
		}
		j = s.j
		s.j++

		if j == 0 {
			for p = 0; p < s.width; p++ {
				if v, ok = s.smers.Next(); !ok {
					return 0, false
				}
				s.push(p, v)
			}
		} else {
			if v, ok = s.smers.Next(); !ok {
				return 0, false
			}
			s.push(j+s.width-1, v)
		}
		s.q.expire(j)

		if s.krev != nil && kv > s.krev[j] {
			p, _ = s.qr.front()
			kv = s.krev[j]
			p = s.width - 1 - (p - j)
		} else {
			p, _ = s.q.front()
			p -= j
		}
		if s.accept[p] {
			s.idx = j
			return kv, true
		}
	}
}

func (s *Syncmer) push(p int, v uint64) {
	s.q.push(p, v)
	if s.qr != nil {
		s.qr.push(p, v)
		s.qr.expire(p - s.width + 1)
	}
}

// Index returns the position of the last syncmer.
func (s *Syncmer) Index() int { return s.idx }
