// Command profiledump prints a human-readable line for each record in a
// file of concatenated 64-byte profiling records, such as one produced by
// piping a profiler.Sink straight to a file.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/qqzhong/foundation-lib/recordio"
)

func main() {
	var path string
	var showContinuations bool
	flag.StringVar(&path, "file", "", "path to a file of concatenated profile records (required)")
	flag.BoolVar(&showContinuations, "continuations", false, "also print continuation-segment records")
	flag.Parse()

	if path == "" {
		fmt.Fprintln(os.Stderr, "profiledump: -file is required")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(path, showContinuations); err != nil {
		fmt.Fprintln(os.Stderr, "profiledump:", err)
		os.Exit(1)
	}
}

func run(path string, showContinuations bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, recordio.RecordSize*256)
	buf := make([]byte, recordio.RecordSize)
	index := 0

	for {
		_, err := io.ReadFull(r, buf)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading record %d: %w", index, err)
		}

		rec, err := recordio.Decode(buf)
		if err != nil {
			return fmt.Errorf("decoding record %d: %w", index, err)
		}
		index++

		if rec.ID == recordio.IDEndOfStream {
			fmt.Println("-- end of stream --")
			return nil
		}
		if !showContinuations && recordio.IsContinuation(rec.ID) {
			continue
		}

		fmt.Printf("%6d  id=%-4d parent=%-6d proc=%-4d thread=%-8d start=%-12d end=%-12d name=%q\n",
			index, rec.ID, rec.ParentID, rec.Processor, rec.Thread, rec.Start, rec.End, rec.Name)
	}
}
