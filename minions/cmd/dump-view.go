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
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/shenwei356/kmers"
	"github.com/shenwei356/minions/minions/cmd/dump"
	"github.com/shenwei356/minions/minions/sketch"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "View a dump file of sketch value counts",
	Long: `View a dump file of sketch value counts

Records are output in plain text:

    value\tcount

Values in dumps of ungapped k-mers (methods kmer, minimiser, modmer,
syncmer and opensyncmer without --bio-sketches) can be decoded into
k-mers with --decode, the same -k/--kmer-len and --seed are needed.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)

		var fhLog *os.File
		if opt.Log2File {
			fhLog = addLog(opt.LogFile, opt.Verbose)
		}
		defer func() {
			if opt.Log2File {
				fhLog.Close()
			}
		}()

		outFile := getFlagString(cmd, "out-file")
		decode := getFlagBool(cmd, "decode")
		k := getFlagPositiveInt(cmd, "kmer-len")
		seed := getFlagUint64(cmd, "seed")
		if decode && k > 32 {
			checkError(errors.Wrapf(sketch.ErrKOverflow, "k: %d", k))
		}
		seed = sketch.AdjustSeed(k, seed)

		files := getFileListFromArgsAndFile(cmd, args, true, "infile-list", true)

		outfh, err := xopen.Wopen(outFile)
		checkError(err)
		defer outfh.Close()

		write := func(r dump.Record) {
			if decode {
				fmt.Fprintf(outfh, "%s\t%d\n", kmers.MustDecode(r.Hash^seed, k), r.Count)
				return
			}
			outfh.WriteString(strconv.FormatUint(r.Hash, 10))
			outfh.WriteString("\t")
			outfh.WriteString(strconv.Itoa(int(r.Count)))
			outfh.WriteString("\n")
		}

		for _, file := range files {
			if !isStdin(file) {
				records, err := dump.ReadFile(file)
				checkError(errors.Wrap(err, file))
				for _, r := range records {
					write(r)
				}
				continue
			}

			br, fh, _, err := inStream(file)
			checkError(err)
			reader := dump.NewReader(br)
			for {
				r, err := reader.Read()
				if err != nil {
					if err == io.EOF {
						break
					}
					checkError(errors.Wrap(err, file))
				}
				write(r)
			}
			fh.Close()
		}
	},
}

func init() {
	RootCmd.AddCommand(dumpCmd)

	dumpCmd.Flags().StringP("out-file", "o", "-", `out file ("-" for stdout, suffix .gz for gzipped out)`)
	dumpCmd.Flags().BoolP("decode", "", false, `decode values into k-mers`)
	dumpCmd.Flags().IntP("kmer-len", "k", 15, `k-mer size, for --decode`)
	dumpCmd.Flags().StringP("seed", "", "0x8F3F73B5CF1C9ADE", `seed used in "minions counts", for --decode`)

	dumpCmd.SetUsageTemplate(usageTemplate("[flags] <dump files>"))
}
