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
	"io"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// eachRecord calls fn for every sequence of a file, stopping at the
// first error.
func eachRecord(file string, fn func(record *fastx.Record) error) error {
	fastxReader, err := fastx.NewReader(nil, file, "")
	if err != nil {
		return errors.Wrapf(err, "failed to read seq file: %s", file)
	}
	defer fastxReader.Close()

	var record *fastx.Record
	var i int
	for {
		record, err = fastxReader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return errors.Wrapf(err, "read seq %d in %s", i, file)
		}
		i++

		if err = fn(record); err != nil {
			return errors.Wrapf(err, "seq: %s", record.Name)
		}
	}
	return nil
}

// processFiles calls fn for every file concurrently, with at most
// opt.NumCPUs files at the same time.
func processFiles(opt *Options, files []string, name string, fn func(i int, file string)) {
	// process bar
	var pbs *mpb.Progress
	var bar *mpb.Bar
	var chDuration chan time.Duration
	var doneDuration chan int
	showProgressBar := opt.Verbose && len(files) > 1
	if showProgressBar {
		pbs = mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
		bar = pbs.AddBar(int64(len(files)),
			mpb.PrependDecorators(
				decor.Name(name, decor.WC{W: len(name), C: decor.DindentRight}),
				decor.Name("", decor.WCSyncSpaceR),
				decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
			),
			mpb.AppendDecorators(
				decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
				decor.EwmaETA(decor.ET_STYLE_GO, 10),
				decor.OnComplete(decor.Name(""), ". done"),
			),
		)

		chDuration = make(chan time.Duration, opt.NumCPUs)
		doneDuration = make(chan int)
		go func() {
			for t := range chDuration {
				bar.EwmaIncrBy(1, t)
			}
			doneDuration <- 1
		}()
	}

	var wg sync.WaitGroup                 // ensure all jobs done
	tokens := make(chan int, opt.NumCPUs) // control the max concurrency number
	for i, file := range files {
		tokens <- 1
		wg.Add(1)

		go func(i int, file string) {
			startTime := time.Now()
			defer func() {
				wg.Done()
				<-tokens
				if showProgressBar {
					chDuration <- time.Since(startTime)
				}
			}()

			fn(i, file)
		}(i, file)
	}
	wg.Wait()

	if showProgressBar {
		close(chDuration)
		<-doneDuration
		pbs.Wait()
	}
}
