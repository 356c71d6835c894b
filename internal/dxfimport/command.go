package dxfimport

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/nerrad567/structdxf/internal/geometry"
	"github.com/nerrad567/structdxf/internal/structure"
)

// Command names understood by the importer.
const (
	CmdAddElement          = "add_element"
	CmdAddMultipleElements = "add_multiple_elements"
	CmdAddTrussElement     = "add_truss_element"

	CmdAddSupport       = "add_support"
	CmdAddSupportHinged = "add_support_hinged"
	CmdAddSupportFixed  = "add_support_fixed"
	CmdAddSupportRoll   = "add_support_roll"
	CmdAddSupportSpring = "add_support_spring"
	CmdPointLoad        = "point_load"
	CmdMomentLoad       = "moment_load"
)

// Keywords inserted by the importer ahead of the drawn arguments.
const (
	KeyLocation = "location"
	KeyNodeID   = "node_id"
)

var commandCategories = map[string]Category{
	CmdAddElement:          CategoryElement,
	CmdAddMultipleElements: CategoryElement,
	CmdAddTrussElement:     CategoryElement,
	CmdAddSupport:          CategoryPoint,
	CmdAddSupportHinged:    CategoryPoint,
	CmdAddSupportFixed:     CategoryPoint,
	CmdAddSupportRoll:      CategoryPoint,
	CmdAddSupportSpring:    CategoryPoint,
	CmdPointLoad:           CategoryPoint,
	CmdMomentLoad:          CategoryPoint,
}

// Command is a parsed annotation: a command name and its keyword arguments
// in the order they were written.
type Command struct {
	Name string
	Args structure.Properties
}

// Category reports whether the command acts on an element or a node.
func (c Command) Category() Category {
	return commandCategories[c.Name]
}

// BindLocation returns a copy of c with location=seg as the first keyword.
func (c Command) BindLocation(seg geometry.Segment) (Command, error) {
	return c.bind(KeyLocation, seg)
}

// BindNode returns a copy of c with node_id=id as the first keyword.
func (c Command) BindNode(id int) (Command, error) {
	return c.bind(KeyNodeID, id)
}

func (c Command) bind(key string, value any) (Command, error) {
	if c.Args.Has(key) {
		return Command{}, fmt.Errorf("%w: %s already has keyword %q", ErrInvalidCommandText, c.Name, key)
	}
	return Command{Name: c.Name, Args: c.Args.Prepend(key, value)}, nil
}

// String formats the command in the same syntax ParseCommand accepts.
func (c Command) String() string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteByte('(')
	for i, arg := range c.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(arg.Key)
		b.WriteByte('=')
		b.WriteString(formatValue(arg.Value))
	}
	b.WriteByte(')')
	return b.String()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case bool:
		if x {
			return "True"
		}
		return "False"
	case int:
		return strconv.Itoa(x)
	case float64:
		s := strconv.FormatFloat(x, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEnN") {
			s += ".0"
		}
		return s
	case string:
		return strconv.Quote(x)
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = formatValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case geometry.Segment:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}

// ParseCommand parses annotation text of the form name(key=value, ...).
//
// Values may be quoted strings, True/False/None, integers, floats, bare
// words (taken as strings), and lists or tuples of values. The name must be
// one of the known commands. All failures wrap ErrInvalidCommandText.
func ParseCommand(text string) (Command, error) {
	p := &parser{src: text}

	p.skipSpace()
	name := p.ident()
	if name == "" {
		return Command{}, p.errorf("expected command name")
	}
	if _, ok := commandCategories[name]; !ok {
		return Command{}, fmt.Errorf("%w: unknown command %q", ErrInvalidCommandText, name)
	}

	p.skipSpace()
	if !p.consume('(') {
		return Command{}, p.errorf("expected '(' after %s", name)
	}

	var args structure.Properties
	for {
		p.skipSpace()
		if p.consume(')') {
			break
		}
		if len(args) > 0 {
			if !p.consume(',') {
				return Command{}, p.errorf("expected ',' or ')'")
			}
			p.skipSpace()
			// Trailing comma.
			if p.consume(')') {
				break
			}
		}

		arg, err := p.keyword()
		if err != nil {
			return Command{}, err
		}
		if args.Has(arg.Key) {
			return Command{}, fmt.Errorf("%w: duplicate keyword %q", ErrInvalidCommandText, arg.Key)
		}
		args = append(args, arg)
	}

	p.skipSpace()
	if !p.eof() {
		return Command{}, p.errorf("unexpected trailing text %q", p.src[p.pos:])
	}
	return Command{Name: name, Args: args}, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s at offset %d", ErrInvalidCommandText, fmt.Sprintf(format, args...), p.pos)
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) consume(c byte) bool {
	if p.peek() == c && !p.eof() {
		p.pos++
		return true
	}
	return false
}

func (p *parser) skipSpace() {
	for !p.eof() {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func isIdentByte(c byte, first bool) bool {
	switch {
	case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return !first
	}
	return false
}

func (p *parser) ident() string {
	start := p.pos
	for !p.eof() && isIdentByte(p.src[p.pos], p.pos == start) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) keyword() (structure.Property, error) {
	start := p.pos
	key := p.ident()
	p.skipSpace()
	if !p.consume('=') {
		p.pos = start
		return structure.Property{}, p.errorf("positional argument not allowed")
	}
	if key == "" {
		return structure.Property{}, p.errorf("empty keyword")
	}
	p.skipSpace()
	v, err := p.value()
	if err != nil {
		return structure.Property{}, err
	}
	return structure.Property{Key: key, Value: v}, nil
}

func (p *parser) value() (any, error) {
	switch c := p.peek(); {
	case p.eof():
		return nil, p.errorf("expected value")
	case c == '\'' || c == '"':
		return p.quoted(c)
	case c == '[':
		p.pos++
		return p.sequence(']')
	case c == '(':
		p.pos++
		return p.sequence(')')
	default:
		return p.scalar()
	}
}

func (p *parser) quoted(quote byte) (string, error) {
	start := p.pos
	p.pos++
	var b strings.Builder
	for !p.eof() {
		c := p.src[p.pos]
		p.pos++
		switch c {
		case quote:
			return b.String(), nil
		case '\\':
			if p.eof() {
				p.pos = start
				return "", p.errorf("unterminated string")
			}
			e := p.src[p.pos]
			p.pos++
			switch e {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(e)
			}
		default:
			b.WriteByte(c)
		}
	}
	p.pos = start
	return "", p.errorf("unterminated string")
}

func (p *parser) sequence(end byte) ([]any, error) {
	items := []any{}
	for {
		p.skipSpace()
		if p.consume(end) {
			return items, nil
		}
		if len(items) > 0 {
			if !p.consume(',') {
				return nil, p.errorf("expected ',' or '%c'", end)
			}
			p.skipSpace()
			if p.consume(end) {
				return items, nil
			}
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
}

func (p *parser) scalar() (any, error) {
	start := p.pos
	for !p.eof() && !strings.ContainsRune(",()[]='\" \t\r\n", rune(p.src[p.pos])) {
		p.pos++
	}
	tok := p.src[start:p.pos]
	if tok == "" {
		return nil, p.errorf("unexpected %q", p.peek())
	}

	switch tok {
	case "True":
		return true, nil
	case "False":
		return false, nil
	case "None":
		return nil, nil
	}
	if i, err := strconv.ParseInt(tok, 10, 0); err == nil {
		return int(i), nil
	}
	if strings.ContainsRune("0123456789+-.", rune(tok[0])) {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			p.pos = start
			return nil, p.errorf("invalid number %q", tok)
		}
		return f, nil
	}
	return tok, nil
}
