package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"newsCaster/batch"
)

func TestPrintReport(t *testing.T) {
	report := batch.Report{
		Total:     2,
		Succeeded: 1,
		Results: []batch.Result{
			{Stem: "1", Background: "picture/resized/harbour.png", Output: "out/1.png"},
			{Stem: "12", Background: "picture/resized/a.png", Output: "out/12.png", Err: errors.New("decode failed")},
		},
	}

	var buf bytes.Buffer
	printReport(&buf, report)

	want := strings.Join([]string{
		"Segment  State   Background   Output",
		"-------  ------  -----------  ------",
		"1        OK      harbour.png  out/1.png",
		"12       Failed  a.png        decode failed",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Fatalf("printReport() =\n%s\nwant\n%s", got, want)
	}
}
