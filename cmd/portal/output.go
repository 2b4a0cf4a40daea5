package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/drake/portal/api"
)

// isTerminal reports whether w is a character device.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

// writeJSON pretty-prints v, colouring it on a terminal.
func writeJSON(w io.Writer, v any) error {
	var data []byte
	switch v := v.(type) {
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		var err error
		if data, err = json.Marshal(v); err != nil {
			return err
		}
	}

	out := pretty.Pretty(data)
	if isTerminal(w) {
		out = pretty.Color(out, nil)
	}
	_, err := w.Write(out)
	return err
}

// assignment is one path=value argument of "item set".
type assignment struct {
	Path  string
	Value string
}

func parseAssignments(args []string) ([]assignment, error) {
	out := make([]assignment, 0, len(args))
	for _, arg := range args {
		path, value, ok := strings.Cut(arg, "=")
		if !ok || path == "" {
			return nil, fmt.Errorf("invalid assignment %q, want path=value", arg)
		}
		out = append(out, assignment{Path: path, Value: value})
	}
	return out, nil
}

// apply writes each assignment into item. Values that parse as JSON are
// stored as raw JSON, anything else as a string.
func apply(item *api.Item, sets []assignment) error {
	for _, s := range sets {
		var err error
		if s.Value != "" && gjson.Valid(s.Value) {
			err = item.SetRaw(s.Path, []byte(s.Value))
		} else {
			err = item.Set(s.Path, s.Value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// diffOptions keeps every array element on its own line so diffs stay
// line-oriented.
var diffOptions = &pretty.Options{Width: -1, Indent: "  "}

// lineDiff renders a line-based diff of two JSON documents with "+" and "-"
// markers. Unchanged lines are indented by two spaces.
func lineDiff(before, after []byte) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(
		string(pretty.PrettyOptions(before, diffOptions)),
		string(pretty.PrettyOptions(after, diffOptions)),
	)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
		}
	}
	return sb.String()
}
