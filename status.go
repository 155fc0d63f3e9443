package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"newsCaster/batch"
)

type segmentStatus struct {
	Segment    string
	State      string
	Background string
	Detail     string
}

func buildSegmentStatuses(report batch.Report) []segmentStatus {
	statuses := make([]segmentStatus, 0, len(report.Results))
	for _, result := range report.Results {
		status := segmentStatus{
			Segment:    result.Stem,
			State:      "OK",
			Background: filepath.Base(result.Background),
			Detail:     result.Output,
		}
		if result.Err != nil {
			status.State = "Failed"
			status.Detail = result.Err.Error()
		}
		statuses = append(statuses, status)
	}
	return statuses
}

func printReport(w io.Writer, report batch.Report) {
	statuses := buildSegmentStatuses(report)

	segmentColumnWidth := len("Segment")
	stateColumnWidth := len("State")
	backgroundColumnWidth := len("Background")
	for _, status := range statuses {
		if len(status.Segment) > segmentColumnWidth {
			segmentColumnWidth = len(status.Segment)
		}
		if len(status.State) > stateColumnWidth {
			stateColumnWidth = len(status.State)
		}
		if len(status.Background) > backgroundColumnWidth {
			backgroundColumnWidth = len(status.Background)
		}
	}

	fmt.Fprintf(w, "%-*s  %-*s  %-*s  %s\n", segmentColumnWidth, "Segment", stateColumnWidth, "State", backgroundColumnWidth, "Background", "Output")
	fmt.Fprintf(w, "%s  %s  %s  %s\n", strings.Repeat("-", segmentColumnWidth), strings.Repeat("-", stateColumnWidth), strings.Repeat("-", backgroundColumnWidth), strings.Repeat("-", len("Output")))
	for _, status := range statuses {
		fmt.Fprintf(w, "%-*s  %-*s  %-*s  %s\n", segmentColumnWidth, status.Segment, stateColumnWidth, status.State, backgroundColumnWidth, status.Background, status.Detail)
	}
}
