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
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/minions/minions/cmd/dump"
	"github.com/spf13/cobra"
	"github.com/tatsushid/go-prettytable"
)

var countsCmd = &cobra.Command{
	Use:   "counts",
	Short: "Count sketch values of sequence files",
	Long: `Count sketch values of sequence files

For every input file, all sketch values of all sequences are counted,
and stored in <out-dir>/<method>_<file stem>.out, a flat binary file of
records of a little-endian uint64 value and a little-endian uint16 count,
sorted by values. Counts saturate at 65534.

Method parameters are also saved to <out-dir>/<method>.yaml.

Method names:
  kmer_hash_<k>
  minimiser_hash_<k>_<w>
  modmer_hash_<k>_<w>
  <min|rand|hybrid>strobemers_<k>_<order>_<w-min>_<w-max>
  syncmer_hash_<s>_<k>
  opensyncmer_hash_<s>_<k>

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

		// ---------------------------------------------------------------

		cfg := getMethodConfig(cmd)
		method, err := NewMethod(cfg)
		checkError(err)

		outDir := getFlagString(cmd, "out-dir")
		if outDir == "" {
			checkError(fmt.Errorf("flag -O/--out-dir is needed"))
		}
		outDir = expandPath(outDir)
		force := getFlagBool(cmd, "force")
		summary := getFlagBool(cmd, "summary")

		files := getInputFiles(cmd, args, opt)
		if outputLog {
			if len(files) == 1 && isStdin(files[0]) {
				log.Info("no files given, reading from stdin")
			} else {
				log.Infof("%d input file(s) given", len(files))
			}
			method.logParameters()
		}

		stems, err := outputStems(files)
		checkError(err)

		makeOutDir(outDir, force, "out-dir", outputLog)
		checkError(WriteMethodConfig(filepath.Join(outDir, method.Name()+".yaml"), cfg))

		// ---------------------------------------------------------------

		infos := make([]countsInfo, len(files))
		name := method.Name()

		processFiles(opt, files, "processed files: ", func(i int, file string) {
			outFile := filepath.Join(outDir, fmt.Sprintf("%s_%s.out", name, stems[i]))

			info, err := countFile(method, file, outFile)
			checkError(err)
			infos[i] = info
		})

		if outputLog {
			log.Infof("%d dump files saved to %s", len(files), outDir)
		}

		if !summary {
			return
		}

		tbl, err := prettytable.NewTable([]prettytable.Column{
			{Header: "file"},
			{Header: "seqs", AlignRight: true},
			{Header: "short", AlignRight: true},
			{Header: "values", AlignRight: true},
			{Header: "distinct", AlignRight: true},
		}...)
		checkError(err)
		tbl.Separator = "  "
		for _, info := range infos {
			tbl.AddRow(
				info.file,
				humanize.Comma(int64(info.seqs)),
				humanize.Comma(int64(info.short)),
				humanize.Comma(int64(info.values)),
				humanize.Comma(int64(info.distinct)),
			)
		}
		for _, line := range bytes.Split(bytes.TrimRight(tbl.Bytes(), "\n"), []byte{'\n'}) {
			log.Info(string(line))
		}
	},
}

type countsInfo struct {
	file     string
	seqs     int
	short    int // sequences too short to be sketched
	values   uint64
	distinct int
}

// countFile counts sketch values of all sequences in a file and writes
// them to a dump file.
func countFile(method *Method, file string, outFile string) (countsInfo, error) {
	info := countsInfo{file: file}
	counter := dump.NewCounter(mapInitSize)
	values := make([]uint64, 0, 1024)

	err := eachRecord(file, func(record *fastx.Record) error {
		var err error
		info.seqs++
		values, err = method.AppendValues(record.Seq, values[:0])
		if err != nil {
			if isShortSeq(err) {
				info.short++
				return nil
			}
			return err
		}
		for _, v := range values {
			counter.Add(v)
		}
		return nil
	})
	if err != nil {
		return info, err
	}
	info.values = counter.Total()
	info.distinct = counter.Len()

	outfh, gw, w, err := outStream(outFile, false, -1)
	if err != nil {
		return info, err
	}
	writer := dump.NewWriter(outfh)
	if err = writer.WriteCounter(counter); err != nil {
		return info, errors.Wrap(err, outFile)
	}
	closeOutStream(outfh, gw, w)
	return info, nil
}

func init() {
	RootCmd.AddCommand(countsCmd)

	addMethodFlags(countsCmd)
	countsCmd.Flags().StringP("in-dir", "I", "", `directory containing sequence files`)
	countsCmd.Flags().StringP("file-regexp", "r", `\.(f[aq]|fast[aq]|fna)(\.gz)?$`, `regular expression for matching sequence files in -I/--in-dir, case ignored`)
	countsCmd.Flags().StringP("out-dir", "O", "", `output directory`)
	countsCmd.Flags().BoolP("force", "", false, `overwrite output directory`)
	countsCmd.Flags().BoolP("summary", "", false, `log a table of numbers of sequences and values`)

	countsCmd.SetUsageTemplate(usageTemplate("[flags] {[-I <seqs dir>] | <seq files> | -i <file list>} -O <out dir>"))
}
