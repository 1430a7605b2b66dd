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
	"encoding/binary"
	"strconv"

	"github.com/zeebo/wyhash"
	"github.com/zeebo/xxh3"
)

// Mixer remixes a hash value with a seed. A seed of 0 leaves the value unchanged.
type Mixer func(v, seed uint64) uint64

const fnvPrime uint64 = 0x100000001b3

// Mix is an FNV-style remix: starting from v, every decimal digit of v is
// multiplied and XORed in.
func Mix(v, seed uint64) uint64 {
	if seed == 0 {
		return v
	}
	var buf [20]byte
	h := v
	for _, c := range strconv.AppendUint(buf[:0], v, 10) {
		h *= fnvPrime
		h ^= uint64(c)
	}
	return h
}

// WyMix remixes v with wyhash.
func WyMix(v, seed uint64) uint64 {
	if seed == 0 {
		return v
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return wyhash.Hash(buf[:], seed)
}

// XXH3Mix remixes v with xxh3, hashing v and the seed together.
func XXH3Mix(v, seed uint64) uint64 {
	if seed == 0 {
		return v
	}
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], v)
	binary.LittleEndian.PutUint64(buf[8:], seed)
	return xxh3.Hash(buf[:])
}

// WangMix remixes v with Thomas Wang's 64-bit integer hash.
func WangMix(v, seed uint64) uint64 {
	if seed == 0 {
		return v
	}
	return hash64(v ^ seed)
}

// https://gist.github.com/badboy/6267743 .
func hash64(key uint64) uint64 {
	key = (^key) + (key << 21) // key = (key << 21) - key - 1
	key = key ^ (key >> 24)
	key = (key + (key << 3)) + (key << 8) // key * 265
	key = key ^ (key >> 14)
	key = (key + (key << 2)) + (key << 4) // key * 21
	key = key ^ (key >> 28)
	key = key + (key << 31)
	return key
}

// Mixers are the supported mixing functions.
var Mixers = map[string]Mixer{
	"fnv":    Mix,
	"wyhash": WyMix,
	"xxh3":   XXH3Mix,
	"wang":   WangMix,
}

// MixerByName returns a mixing function by its name.
func MixerByName(name string) (Mixer, error) {
	if mix, ok := Mixers[name]; ok {
		return mix, nil
	}
	return nil, ErrMixer
}
