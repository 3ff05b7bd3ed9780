package filtergraph

import (
	"strconv"
	"strings"
)

type argKind int

const (
	argString argKind = iota
	argInt
	argFloat
)

// Arg is one filter option. An empty key renders a positional value.
type Arg struct {
	Key  string
	kind argKind
	s    string
	i    int64
	f    float64
}

// Str returns a string option.
func Str(key, value string) Arg {
	return Arg{Key: key, kind: argString, s: value}
}

// Int returns an integer option.
func Int(key string, value int) Arg {
	return Arg{Key: key, kind: argInt, i: int64(value)}
}

// Float returns a floating point option rendered with the shortest
// representation that round-trips.
func Float(key string, value float64) Arg {
	return Arg{Key: key, kind: argFloat, f: value}
}

// Value renders the option value, escaped for use inside a filter chain.
func (a Arg) Value() string {
	switch a.kind {
	case argInt:
		return strconv.FormatInt(a.i, 10)
	case argFloat:
		return FormatFloat(a.f)
	default:
		return escape(a.s)
	}
}

func (a Arg) String() string {
	if a.Key == "" {
		return a.Value()
	}
	return a.Key + "=" + a.Value()
}

// Filter is a single filter invocation.
type Filter struct {
	Name string
	Args []Arg
}

// New builds a filter.
func New(name string, args ...Arg) Filter {
	return Filter{Name: name, Args: args}
}

func (f Filter) String() string {
	if len(f.Args) == 0 {
		return f.Name
	}
	parts := make([]string, len(f.Args))
	for i, a := range f.Args {
		parts[i] = a.String()
	}
	return f.Name + "=" + strings.Join(parts, ":")
}

// Chain is a sequence of filters applied one after the other.
type Chain []Filter

func (c Chain) String() string {
	parts := make([]string, len(c))
	for i, f := range c {
		parts[i] = f.String()
	}
	return strings.Join(parts, ",")
}

// Statement binds a chain to its input and output labels.
type Statement struct {
	Inputs  []Handle
	Chain   Chain
	Outputs []Handle
}

func (s Statement) String() string {
	var b strings.Builder
	for _, h := range s.Inputs {
		b.WriteString(h.Ref())
	}
	b.WriteString(s.Chain.String())
	for _, h := range s.Outputs {
		b.WriteString(h.Ref())
	}
	return b.String()
}

// FormatFloat renders a float without trailing zeros.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var valueEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`:`, `\:`,
	`,`, `\,`,
	`;`, `\;`,
	`[`, `\[`,
	`]`, `\]`,
)

func escape(value string) string {
	return valueEscaper.Replace(value)
}
