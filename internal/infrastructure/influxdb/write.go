package influxdb

import (
	"sort"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurements written per import run.
const (
	// MeasurementImport holds one point per import.
	MeasurementImport = "dxf_import"

	// MeasurementWarning holds one point per warning code seen in an import.
	MeasurementWarning = "dxf_import_warning"
)

// ImportStats summarises one import for time-series storage.
type ImportStats struct {
	ImportID   string
	Model      string
	SourceFile string
	Failed     bool

	Segments          int
	AnnotatedElements int
	PlainElements     int
	SkippedSegments   int
	Nodes             int
	PointCommands     int
	SkippedPoints     int
	Warnings          int

	// WarningCodes counts warnings by code.
	WarningCodes map[string]int

	Duration  time.Duration
	Timestamp time.Time
}

// ImportPoint builds the dxf_import point for s.
//
// Model, source file and status are tags; the import ID is a field because
// it is unique per run.
func ImportPoint(s ImportStats) *write.Point {
	status := "ok"
	if s.Failed {
		status = "failed"
	}
	ts := s.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	return write.NewPoint(
		MeasurementImport,
		map[string]string{
			"model":       s.Model,
			"source_file": s.SourceFile,
			"status":      status,
		},
		map[string]interface{}{
			"import_id":          s.ImportID,
			"segments":           s.Segments,
			"annotated_elements": s.AnnotatedElements,
			"plain_elements":     s.PlainElements,
			"skipped_segments":   s.SkippedSegments,
			"nodes":              s.Nodes,
			"point_commands":     s.PointCommands,
			"skipped_points":     s.SkippedPoints,
			"warnings":           s.Warnings,
			"duration_ms":        s.Duration.Milliseconds(),
		},
		ts,
	)
}

// WarningPoints builds one dxf_import_warning point per code in
// s.WarningCodes, ordered by code.
func WarningPoints(s ImportStats) []*write.Point {
	codes := make([]string, 0, len(s.WarningCodes))
	for code := range s.WarningCodes {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	ts := s.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	points := make([]*write.Point, 0, len(codes))
	for _, code := range codes {
		points = append(points, write.NewPoint(
			MeasurementWarning,
			map[string]string{
				"model": s.Model,
				"code":  code,
			},
			map[string]interface{}{
				"import_id": s.ImportID,
				"count":     s.WarningCodes[code],
			},
			ts,
		))
	}
	return points
}

// WriteImport queues the statistics of one import and its warning breakdown.
// The write is non-blocking; Close or Flush sends it.
func (c *Client) WriteImport(s ImportStats) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(ImportPoint(s))
	for _, p := range WarningPoints(s) {
		c.writeAPI.WritePoint(p)
	}
}
