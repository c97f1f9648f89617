package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/zoobzio/remap"
	"github.com/zoobzio/remap/json"
)

var (
	deleted  = color.New(color.FgRed)
	inserted = color.New(color.FgGreen)
)

// compare decodes want and got with codec and reports whether they hold
// the same tree. On mismatch a line diff of their indented JSON renderings
// is written to w.
func compare(w io.Writer, codec remap.Codec, want, got []byte) (bool, error) {
	wantText, err := render(codec, want)
	if err != nil {
		return false, fmt.Errorf("decode expected: %w", err)
	}
	gotText, err := render(codec, got)
	if err != nil {
		return false, fmt.Errorf("decode output: %w", err)
	}
	if wantText == gotText {
		return true, nil
	}

	writeDiff(w, wantText, gotText)
	return false, nil
}

// render re-encodes a document as indented JSON with sorted keys.
func render(codec remap.Codec, data []byte) (string, error) {
	var v any
	if err := codec.Unmarshal(data, &v); err != nil {
		return "", err
	}
	out, err := json.New(json.WithIndent("  ")).Marshal(remap.Clone(v))
	if err != nil {
		return "", err
	}
	return string(out) + "\n", nil
}

func writeDiff(w io.Writer, want, got string) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(want, got)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	fmt.Fprintln(w, "--- expected")
	fmt.Fprintln(w, "+++ actual")
	for _, d := range diffs {
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			line = strings.TrimSuffix(line, "\n")
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				deleted.Fprintln(w, "-"+line)
			case diffmatchpatch.DiffInsert:
				inserted.Fprintln(w, "+"+line)
			default:
				fmt.Fprintln(w, " "+line)
			}
		}
	}
}
