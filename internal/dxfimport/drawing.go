package dxfimport

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/nerrad567/structdxf/internal/geometry"
)

// ReadDrawing reads LINE and TEXT entities from a DXF file and classifies
// them. Other entity types are ignored. Only X and Y are used.
//
// A file without a closed ENTITIES section is rejected with ErrParse before
// it reaches the DXF decoder, which accepts empty or unrelated input.
func ReadDrawing(path string) (*Drawing, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	err = checkSections(f)
	f.Close() //nolint:errcheck // Read-only
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}

	src, err := dxf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}
	return FromEntities(src.Entities()), nil
}

// FromEntities classifies already-decoded DXF entities.
func FromEntities(entities entity.Entities) *Drawing {
	d := &Drawing{}
	for _, e := range entities {
		switch v := e.(type) {
		case *entity.Line:
			d.AddLine(xy(v.Start), xy(v.End))
		case *entity.Text:
			d.AddText(Annotation{
				Insert: xy(v.Coord1),
				Height: v.Height,
				Text:   v.Value,
			})
		}
	}
	return d
}

// checkSections scans the group code/value pairs of an ASCII DXF stream and
// fails unless an ENTITIES section is opened and closed.
func checkSections(r io.Reader) error {
	sc := bufio.NewScanner(r)

	var (
		code     string
		sections int
		entities bool
	)
	for line := 0; sc.Scan(); line++ {
		value := strings.TrimSpace(sc.Text())
		if line%2 == 0 {
			code = value
			continue
		}
		switch {
		case code == "0" && value == "SECTION":
			sections++
		case code == "2" && value == "ENTITIES" && sections > 0:
			entities = true
		case code == "0" && value == "ENDSEC" && entities:
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}

	switch {
	case sections == 0:
		return errors.New("no SECTION group")
	case !entities:
		return errors.New("no ENTITIES section")
	default:
		return errors.New("ENTITIES section not closed")
	}
}

func xy(coord []float64) geometry.Point {
	var p geometry.Point
	if len(coord) > 0 {
		p.X = coord[0]
	}
	if len(coord) > 1 {
		p.Y = coord[1]
	}
	return p
}
