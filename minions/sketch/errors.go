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

import "errors"

// ErrShortSeq means the sequence is shorter than one sketch span.
var ErrShortSeq = errors.New("minions: sequence too short")

// ErrInvalidShape means the shape pattern is empty, or not starting and ending with an informative position.
var ErrInvalidShape = errors.New("minions: invalid shape")

// ErrKOverflow means the number of informative positions is out of range (1-32).
var ErrKOverflow = errors.New("minions: k-mer size (1-32) overflow")

// ErrWindowRange means window_max is not larger than window_min.
var ErrWindowRange = errors.New("minions: window_max should be larger than window_min")

// ErrWindowMin means window_min or the distance to the next strobe window is not positive.
var ErrWindowMin = errors.New("minions: window_min should be positive")

// ErrWindowSize means the strobe window can not hold one k-mer.
var ErrWindowSize = errors.New("minions: strobe window too small")

// ErrHybridWindow means the window can not be split into three parts of roughly equal size.
var ErrHybridWindow = errors.New("minions: window size not divisible into three parts for hybridstrobes")

// ErrSelector means no strobe selector is given.
var ErrSelector = errors.New("minions: strobe selector missing")

// ErrStrategy means an unknown strobe selection strategy.
var ErrStrategy = errors.New("minions: unknown strobe strategy")

// ErrOrder means an unsupported strobemer order.
var ErrOrder = errors.New("minions: strobemer order should be 2 or 3")

// ErrModulus means the modulus of modmers is not larger than 1.
var ErrModulus = errors.New("minions: modulus should be larger than 1")

// ErrSmerSize means invalid s-mer size for syncmers.
var ErrSmerSize = errors.New("minions: s-mer size should be positive and smaller than k")

// ErrPositions means the syncmer position set is empty or out of the s-mer window.
var ErrPositions = errors.New("minions: invalid syncmer positions")

// ErrUnequalStreams means two position-aligned streams have different lengths.
var ErrUnequalStreams = errors.New("minions: unequal lengths of aligned streams")

// ErrShapeWindow means the shape does not fit in the minimizer window.
var ErrShapeWindow = errors.New("minions: shape larger than window size")

// ErrMinimizerWindow means the minimizer window is too small.
var ErrMinimizerWindow = errors.New("minions: minimizer window too small")

// ErrMixer means an unknown name of mixing function.
var ErrMixer = errors.New("minions: unknown mixing function")
