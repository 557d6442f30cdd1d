// Package argtable implements SATIRE's name=value command-line
// argument style, grounded in the original engine's table-driven
// arg_parser: each binary declares a table of named arguments with
// types and defaults, and the parser fills pointers from positional
// "name=value" tokens rather than GNU-style "--flag value" pairs.
package argtable

import (
	"fmt"
	"strconv"
	"strings"
)

// Type identifies how a Arg's raw string value is parsed.
type Type int

const (
	// AString stores the raw string unmodified.
	AString Type = iota
	// ABool accepts "true"/"false"/"1"/"0".
	ABool
	// AInt parses a base-10 integer.
	AInt
	// AFloat parses a float64.
	AFloat
)

// Arg describes one name=value argument.
type Arg struct {
	Name     string
	Type     Type
	Target   any // *string, *bool, *int, or *float64
	Explan   string
	Required bool
	seen     bool
}

// Table is an ordered set of argument declarations for one binary.
type Table struct {
	args []*Arg
}

// NewTable creates an empty argument table.
func NewTable() *Table {
	return &Table{}
}

// String registers a string argument with a default value and
// returns a pointer the parser will populate.
func (t *Table) String(name, def, explan string, required bool) *string {
	v := def
	t.args = append(t.args, &Arg{Name: name, Type: AString, Target: &v, Explan: explan, Required: required})
	return &v
}

// Bool registers a boolean argument.
func (t *Table) Bool(name string, def bool, explan string) *bool {
	v := def
	t.args = append(t.args, &Arg{Name: name, Type: ABool, Target: &v, Explan: explan})
	return &v
}

// Int registers an integer argument.
func (t *Table) Int(name string, def int, explan string, required bool) *int {
	v := def
	t.args = append(t.args, &Arg{Name: name, Type: AInt, Target: &v, Explan: explan, Required: required})
	return &v
}

// Float registers a float64 argument.
func (t *Table) Float(name string, def float64, explan string) *float64 {
	v := def
	t.args = append(t.args, &Arg{Name: name, Type: AFloat, Target: &v, Explan: explan})
	return &v
}

// Parse consumes a slice of "name=value" tokens, filling the
// registered targets. Unknown argument names and malformed values are
// reported as errors; Parse stops at the first error. After a
// successful Parse, call CheckRequired to confirm every required
// argument was supplied.
func (t *Table) Parse(tokens []string) error {
	byName := make(map[string]*Arg, len(t.args))
	for _, a := range t.args {
		byName[a.Name] = a
	}

	for _, tok := range tokens {
		eq := strings.IndexByte(tok, '=')
		if eq < 0 {
			return fmt.Errorf("argument %q is not in name=value form", tok)
		}
		name, value := tok[:eq], tok[eq+1:]

		a, ok := byName[name]
		if !ok {
			return fmt.Errorf("unknown argument %q", name)
		}
		if err := setValue(a, value); err != nil {
			return fmt.Errorf("argument %s: %w", name, err)
		}
		a.seen = true
	}
	return nil
}

// CheckRequired reports the first required argument that was never
// supplied, naming it in the returned error.
func (t *Table) CheckRequired() error {
	for _, a := range t.args {
		if a.Required && !a.seen {
			return fmt.Errorf("missing required argument %q", a.Name)
		}
	}
	return nil
}

// Usage renders a table as a human-readable usage block, one
// argument per line, in declaration order: its name, its type and its
// help text. Default values are not shown.
func (t *Table) Usage() string {
	var b strings.Builder
	for _, a := range t.args {
		fmt.Fprintf(&b, "  %s=%s\t%s\n", a.Name, typeName(a.Type), a.Explan)
	}
	return b.String()
}

func typeName(ty Type) string {
	switch ty {
	case AString:
		return "<string>"
	case ABool:
		return "<bool>"
	case AInt:
		return "<int>"
	case AFloat:
		return "<float>"
	default:
		return "<?>"
	}
}

func setValue(a *Arg, value string) error {
	switch a.Type {
	case AString:
		*(a.Target.(*string)) = value
	case ABool:
		switch strings.ToLower(value) {
		case "true", "1":
			*(a.Target.(*bool)) = true
		case "false", "0":
			*(a.Target.(*bool)) = false
		default:
			return fmt.Errorf("invalid bool value %q", value)
		}
	case AInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid int value %q", value)
		}
		*(a.Target.(*int)) = n
	case AFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid float value %q", value)
		}
		*(a.Target.(*float64)) = f
	default:
		return fmt.Errorf("unsupported argument type")
	}
	return nil
}
