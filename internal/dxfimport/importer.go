package dxfimport

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/nerrad567/structdxf/internal/geometry"
)

// DefaultThresholdFactor is the multiple of the text height within which an
// annotation is associated with a line or node.
const DefaultThresholdFactor = 2.0

const importIDBytes = 8

// Logger defines the logging interface used by the Importer.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Options configures an Importer.
type Options struct {
	// ThresholdFactor scales the text height into a matching distance.
	// Zero means DefaultThresholdFactor.
	ThresholdFactor float64
}

// Importer applies annotated drawings to a model in two passes: element
// commands first, then support and load commands on the resulting nodes.
//
// An Importer holds no per-import state and may be reused.
type Importer struct {
	factor float64
	logger Logger
}

// NewImporter creates an importer.
func NewImporter(opts Options) *Importer {
	factor := opts.ThresholdFactor
	if factor <= 0 {
		factor = DefaultThresholdFactor
	}
	return &Importer{factor: factor, logger: noopLogger{}}
}

// SetLogger sets the logger. A nil logger disables logging.
func (imp *Importer) SetLogger(l Logger) {
	if l == nil {
		l = noopLogger{}
	}
	imp.logger = l
}

// Import reads the drawing at path and applies it to m.
//
// Nothing is applied when the file is missing or unreadable. Otherwise the
// import runs to completion; per-entity problems are returned as warnings.
// ErrNodeNotFound aborts the point pass, leaving earlier changes applied.
func (imp *Importer) Import(path string, m Model) (*Result, error) {
	d, err := ReadDrawing(path)
	if err != nil {
		return nil, err
	}
	res, err := imp.Apply(d, m)
	if res != nil {
		res.SourceFile = filepath.Base(path)
	}
	return res, err
}

// Apply runs both passes over an already classified drawing.
// The partial result is returned alongside any error.
func (imp *Importer) Apply(d *Drawing, m Model) (*Result, error) {
	res := &Result{
		ImportID:   generateImportID(),
		ImportedAt: time.Now().UTC(),
	}
	res.Statistics.Segments = len(d.Segments)
	res.Statistics.ElementAnnotations = len(d.ElementAnnotations)
	res.Statistics.PointAnnotations = len(d.PointAnnotations)
	res.Statistics.IgnoredTexts = d.IgnoredTexts

	imp.logger.Info("importing drawing",
		"import_id", res.ImportID,
		"segments", len(d.Segments),
		"element_annotations", len(d.ElementAnnotations),
		"point_annotations", len(d.PointAnnotations),
	)

	added := imp.RunElementPass(d.Segments, d.ElementAnnotations, m, res)

	nodes := UniqueEndpoints(added)
	res.Statistics.Nodes = len(nodes)
	if err := imp.RunPointPass(nodes, d.PointAnnotations, m, res); err != nil {
		imp.logger.Error("point pass aborted", "import_id", res.ImportID, "error", err)
		return res, err
	}

	imp.logger.Info("drawing imported",
		"import_id", res.ImportID,
		"annotated_elements", res.Statistics.AnnotatedElements,
		"plain_elements", res.Statistics.PlainElements,
		"point_commands", res.Statistics.PointCommands,
		"warnings", len(res.Warnings),
	)
	return res, nil
}

// RunElementPass adds one or more elements for every segment and returns
// the segments that made it into the model, in drawing order.
//
// A segment with a matching element annotation is added by that command.
// If the command text is invalid or the model rejects it, a warning is
// recorded and a plain element is added instead.
func (imp *Importer) RunElementPass(segments []geometry.Segment, annotations []Annotation, m Model, res *Result) []geometry.Segment {
	added := make([]geometry.Segment, 0, len(segments))
	for _, seg := range segments {
		entity := "line " + seg.String()

		ann, ok, err := NearestToSegment(seg, annotations, imp.factor)
		if err != nil {
			res.warn(WarnDegenerateGeometry, entity, "", err)
			res.Statistics.SkippedSegments++
			imp.logger.Warn("skipping degenerate line", "line", seg.String())
			continue
		}

		if ok {
			err := imp.applyElementCommand(seg, ann.Text, m)
			if err == nil {
				res.Statistics.AnnotatedElements++
				added = append(added, seg)
				continue
			}
			res.warn(warningCode(err), entity, ann.Text, err)
			imp.logger.Warn("element annotation not applied, adding plain element",
				"line", seg.String(), "text", ann.Text, "error", err)
		}

		if _, err := m.AddElement(seg, nil); err != nil {
			res.warn(WarnCommandRejected, entity, "", err)
			res.Statistics.SkippedSegments++
			imp.logger.Warn("line not added", "line", seg.String(), "error", err)
			continue
		}
		res.Statistics.PlainElements++
		added = append(added, seg)
	}
	return added
}

func (imp *Importer) applyElementCommand(seg geometry.Segment, text string, m Model) error {
	cmd, err := ParseCommand(text)
	if err != nil {
		return err
	}
	if cmd.Category() != CategoryElement {
		return fmt.Errorf("%w: %s is not an element command", ErrInvalidCommandText, cmd.Name)
	}
	cmd, err = cmd.BindLocation(seg)
	if err != nil {
		return err
	}
	imp.logger.Debug("applying element command", "command", cmd.String())
	return Dispatch(m, cmd)
}

// RunPointPass applies the nearest point annotation, if any, to each node.
//
// The nodes must already exist in m: a node the model does not know about
// returns ErrNodeNotFound and stops the pass. Invalid or rejected commands
// are recorded as warnings and skipped.
func (imp *Importer) RunPointPass(nodes []geometry.Point, annotations []Annotation, m Model, res *Result) error {
	for _, p := range nodes {
		ann, ok := NearestToPoint(p, annotations, imp.factor)
		if !ok {
			continue
		}
		entity := "node " + p.String()

		cmd, err := ParseCommand(ann.Text)
		if err == nil && cmd.Category() != CategoryPoint {
			err = fmt.Errorf("%w: %s is not a point command", ErrInvalidCommandText, cmd.Name)
		}
		if err != nil {
			res.warn(WarnInvalidCommandText, entity, ann.Text, err)
			res.Statistics.SkippedPoints++
			imp.logger.Warn("point annotation not applied", "node", p.String(), "text", ann.Text, "error", err)
			continue
		}

		id, err := m.FindNodeID(p)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrNodeNotFound, p, err)
		}

		cmd, err = cmd.BindNode(id)
		if err == nil {
			imp.logger.Debug("applying point command", "command", cmd.String())
			err = Dispatch(m, cmd)
		}
		if err != nil {
			res.warn(warningCode(err), entity, ann.Text, err)
			res.Statistics.SkippedPoints++
			imp.logger.Warn("point annotation not applied", "node", p.String(), "text", ann.Text, "error", err)
			continue
		}
		res.Statistics.PointCommands++
	}
	return nil
}

func warningCode(err error) string {
	if errors.Is(err, ErrInvalidCommandText) {
		return WarnInvalidCommandText
	}
	return WarnCommandRejected
}

func generateImportID() string {
	b := make([]byte, importIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "imp_" + hex.EncodeToString([]byte(time.Now().Format("20060102150405")))
	}
	return "imp_" + hex.EncodeToString(b)
}
