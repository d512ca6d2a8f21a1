package logging

import (
	"context"
	"log/slog"
	"strings"
	"testing"
)

// NewTB returns a logger that writes every record through tb.Log. The test
// framework buffers the output per test, so server logs only surface for
// failing tests (or with -v) and are attributed to the right test.
func NewTB(tb testing.TB) *slog.Logger {
	return slog.New(&tbHandler{tb: tb})
}

// tbHandler formats records the same way slog's text handler does, minus
// the timestamp: the test framework prefixes its own file:line and tests
// rarely care when within the test a line was logged.
//
// attrs and groups are fixed at construction; WithAttrs and WithGroup
// return new handlers, so Handle needs no locking of its own.
type tbHandler struct {
	tb     testing.TB
	attrs  []slog.Attr
	groups []string
}

func (h *tbHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

func (h *tbHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(r.Level.String())
	sb.WriteString(" ")
	sb.WriteString(r.Message)

	for _, a := range h.attrs {
		writeAttr(&sb, h.groups, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&sb, h.groups, a)
		return true
	})

	h.tb.Log(sb.String())
	return nil
}

func writeAttr(sb *strings.Builder, groups []string, a slog.Attr) {
	sb.WriteString(" ")
	for _, g := range groups {
		sb.WriteString(g)
		sb.WriteString(".")
	}
	sb.WriteString(a.Key)
	sb.WriteString("=")
	sb.WriteString(a.Value.String())
}

func (h *tbHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &tbHandler{
		tb:     h.tb,
		attrs:  append(append([]slog.Attr{}, h.attrs...), attrs...),
		groups: h.groups,
	}
}

func (h *tbHandler) WithGroup(name string) slog.Handler {
	return &tbHandler{
		tb:     h.tb,
		attrs:  h.attrs,
		groups: append(append([]string{}, h.groups...), name),
	}
}
