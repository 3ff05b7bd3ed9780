package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// consoleHandler renders one human-readable line per record:
//
//	2026-01-02T15:04:05Z INFO production[demo#1]: segment produced output=...
//
// component, capsule_id and segment are lifted out of the attributes into
// the prefix. Handler attributes are rendered once, in WithAttrs.
type consoleHandler struct {
	out    *lockedWriter
	level  slog.Leveler
	source bool

	scope  scope
	group  string // dotted prefix for nested attrs, e.g. "job."
	preset string // pre-rendered " k=v" pairs from WithAttrs
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) write(line string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err := io.WriteString(l.w, line)
	return err
}

func newConsoleHandler(w io.Writer, level slog.Leveler, addSource bool) slog.Handler {
	return &consoleHandler{out: &lockedWriter{w: w}, level: level, source: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	sc := h.scope
	var attrs strings.Builder
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&attrs, h.group, a, &sc)
		return true
	})

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	var line strings.Builder
	line.WriteString(ts.UTC().Format(time.RFC3339))
	line.WriteString(" " + r.Level.String() + " ")
	if label := sc.label(); label != "" {
		line.WriteString(label + ": ")
	}
	msg := strings.TrimSpace(r.Message)
	if msg == "" {
		msg = "(no message)"
	}
	line.WriteString(msg)
	if h.source {
		if src := r.Source(); src != nil && src.File != "" {
			fmt.Fprintf(&line, " [%s:%d]", filepath.Base(src.File), src.Line)
		}
	}
	line.WriteString(h.preset)
	line.WriteString(attrs.String())
	line.WriteByte('\n')
	return h.out.write(line.String())
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	next := *h
	var b strings.Builder
	for _, a := range attrs {
		appendAttr(&b, next.group, a, &next.scope)
	}
	next.preset += b.String()
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.group += name + "."
	return &next
}

// scope holds the identity fields shown in the line prefix. The first value
// seen for each field wins.
type scope struct {
	component, capsule, segment string
}

func (s *scope) claim(a slog.Attr) bool {
	var slot *string
	switch a.Key {
	case FieldComponent:
		slot = &s.component
	case FieldCapsuleID:
		slot = &s.capsule
	case FieldSegment:
		slot = &s.segment
	default:
		return false
	}
	if *slot == "" {
		*slot = a.Value.String()
	}
	return true
}

// label renders "component[capsule#segment]", dropping empty parts.
func (s scope) label() string {
	id := s.capsule
	if s.segment != "" {
		id += "#" + s.segment
	}
	if id == "" {
		return s.component
	}
	return s.component + "[" + id + "]"
}

func appendAttr(b *strings.Builder, group string, a slog.Attr, sc *scope) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		inner := group
		if a.Key != "" {
			inner += a.Key + "."
		}
		for _, child := range a.Value.Group() {
			appendAttr(b, inner, child, sc)
		}
		return
	}
	if group == "" && sc.claim(a) {
		return
	}
	b.WriteString(" " + group + a.Key + "=" + formatValue(a.Value))
}

func formatValue(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindDuration:
		return v.Duration().Round(time.Millisecond).String()
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			s = err.Error()
		} else {
			s = fmt.Sprint(v.Any())
		}
	default:
		s = v.String()
	}
	if s == "" || strings.ContainsFunc(s, func(r rune) bool { return r <= ' ' || r == '=' || r == '"' }) {
		return strconv.Quote(s)
	}
	return s
}
