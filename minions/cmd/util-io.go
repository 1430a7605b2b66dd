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

package cmd

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	gzip "github.com/klauspost/pgzip"
	"github.com/pkg/errors"
)

// BufferSize is size of buffer
var BufferSize = 65536

// outStream creates a buffered writer, the gzip writer (if gzipped) and
// the file handler, which should be flushed and closed in this order.
func outStream(file string, gzipped bool, level int) (*bufio.Writer, io.WriteCloser, *os.File, error) {
	var w *os.File
	if isStdout(file) {
		w = os.Stdout
	} else {
		dir := filepath.Dir(file)
		fi, err := os.Stat(dir)
		if err == nil && !fi.IsDir() {
			return nil, nil, nil, errors.Errorf("can not write file into a non-directory path: %s", dir)
		}
		if os.IsNotExist(err) {
			os.MkdirAll(dir, 0755)
		}

		w, err = os.Create(file)
		if err != nil {
			return nil, nil, nil, errors.Wrapf(err, "fail to write %s", file)
		}
	}

	if gzipped {
		gw, err := gzip.NewWriterLevel(w, level)
		if err != nil {
			return nil, nil, nil, errors.Wrapf(err, "fail to write %s", file)
		}
		return bufio.NewWriterSize(gw, BufferSize), gw, w, nil
	}
	return bufio.NewWriterSize(w, BufferSize), nil, w, nil
}

func closeOutStream(outfh *bufio.Writer, gw io.WriteCloser, w *os.File) {
	checkError(outfh.Flush())
	if gw != nil {
		checkError(gw.Close())
	}
	if w != os.Stdout {
		checkError(w.Close())
	}
}

// inStream opens a plain or gzipped file, "-" for stdin.
func inStream(file string) (*bufio.Reader, *os.File, bool, error) {
	var err error
	var r *os.File
	var gzipped bool
	if isStdin(file) {
		if !detectStdin() {
			return nil, nil, gzipped, errors.New("stdin not detected")
		}
		r = os.Stdin
	} else {
		r, err = os.Open(file)
		if err != nil {
			return nil, nil, gzipped, errors.Wrapf(err, "fail to read %s", file)
		}
	}

	br := bufio.NewReaderSize(r, BufferSize)

	if gzipped, err = isGzip(br); err != nil {
		if err == io.EOF { // empty file
			return br, r, false, nil
		}
		return nil, nil, gzipped, errors.Wrapf(err, "fail to check is file (%s) gzipped", file)
	} else if gzipped {
		gr, err := gzip.NewReaderN(br, 65536, 8)
		if err != nil {
			return nil, r, gzipped, errors.Wrapf(err, "fail to create gzip reader for %s", file)
		}
		br = bufio.NewReaderSize(gr, BufferSize)
	}
	return br, r, gzipped, nil
}

func isGzip(b *bufio.Reader) (bool, error) {
	return checkBytes(b, []byte{0x1f, 0x8b})
}

func checkBytes(b *bufio.Reader, buf []byte) (bool, error) {
	m, err := b.Peek(len(buf))
	if err != nil {
		if len(m) == 0 {
			return false, io.EOF
		}
		return false, nil
	}
	for i := range buf {
		if m[i] != buf[i] {
			return false, nil
		}
	}
	return true, nil
}

func detectStdin() bool {
	// http://stackoverflow.com/a/26567513
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
