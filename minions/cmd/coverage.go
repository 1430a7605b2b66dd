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
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/spf13/cobra"
)

var coverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Sequence coverage of sketch values",
	Long: `Sequence coverage of sketch values

For every sequence, the bases covered by the windows of all selected
values are counted. Results of every input file are saved to
<out-dir>/<method>_<file stem>.coverage.gz (or .coverage with
--no-compress), with columns:

    id\tlength\tvalues\tcovered\tcoverage

where coverage is the percentage of covered bases.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		seq.ValidateSeq = false

		var fhLog *os.File
		if opt.Log2File {
			fhLog = addLog(opt.LogFile, opt.Verbose)
		}
		outputLog := opt.Verbose || opt.Log2File

		timeStart := time.Now()
		defer func() {
			if outputLog {
				log.Infof("elapsed time: %s", time.Since(timeStart))
			}
			if opt.Log2File {
				fhLog.Close()
			}
		}()

		method := getMethod(cmd)
		if method.BioSketches {
			checkError(fmt.Errorf("flag --bio-sketches is not supported in this command"))
		}

		outDir := getFlagString(cmd, "out-dir")
		if outDir == "" {
			checkError(fmt.Errorf("flag -O/--out-dir is needed"))
		}
		outDir = expandPath(outDir)
		force := getFlagBool(cmd, "force")
		if getFlagBool(cmd, "no-compress") {
			opt.Compress = false
		}
		opt.CompressionLevel = getFlagInt(cmd, "compression-level")

		files := getInputFiles(cmd, args, opt)
		if outputLog {
			log.Infof("%d input file(s) given", len(files))
			method.logParameters()
		}
		stems, err := outputStems(files)
		checkError(err)

		makeOutDir(outDir, force, "out-dir", outputLog)

		suffix := ".coverage"
		if opt.Compress {
			suffix += ".gz"
		}
		name := method.Name()

		processFiles(opt, files, "processed files: ", func(i int, file string) {
			outFile := filepath.Join(outDir, fmt.Sprintf("%s_%s%s", name, stems[i], suffix))
			checkError(coverageFile(method, file, outFile, opt))
		})

		if outputLog {
			log.Infof("%d coverage files saved to %s", len(files), outDir)
		}
	},
}

func coverageFile(method *Method, file, outFile string, opt *Options) error {
	outfh, gw, w, err := outStream(outFile, opt.Compress, opt.CompressionLevel)
	if err != nil {
		return err
	}
	defer closeOutStream(outfh, gw, w)

	fmt.Fprintf(outfh, "id\tlength\tvalues\tcovered\tcoverage\n")

	span := method.Span()
	return eachRecord(file, func(record *fastx.Record) error {
		s := record.Seq.Seq
		var n int
		c := newCoverage(span, len(s))

		sk, err := method.Sketch(s)
		if err != nil {
			if !isShortSeq(err) {
				return err
			}
		} else {
			for {
				if _, ok := sk.Next(); !ok {
					break
				}
				n++
				c.Add(sk.Index())
			}
		}

		var pct float64
		if len(s) > 0 {
			pct = float64(c.Covered()) / float64(len(s)) * 100
		}
		fmt.Fprintf(outfh, "%s\t%d\t%d\t%d\t%s\n", record.ID, len(s), n, c.Covered(), formatFloat(pct))
		return nil
	})
}

func init() {
	RootCmd.AddCommand(coverageCmd)

	addMethodFlags(coverageCmd)
	coverageCmd.Flags().StringP("in-dir", "I", "", `directory containing sequence files`)
	coverageCmd.Flags().StringP("file-regexp", "r", `\.(f[aq]|fast[aq]|fna)(\.gz)?$`, `regular expression for matching sequence files in -I/--in-dir, case ignored`)
	coverageCmd.Flags().StringP("out-dir", "O", "", `output directory`)
	coverageCmd.Flags().BoolP("force", "", false, `overwrite output directory`)
	coverageCmd.Flags().BoolP("no-compress", "", false, `do not gzip output files`)
	coverageCmd.Flags().IntP("compression-level", "", -1, `gzip compression level, -1 for the default level`)

	coverageCmd.SetUsageTemplate(usageTemplate("[flags] {[-I <seqs dir>] | <seq files> | -i <file list>} -O <out dir>"))
}
