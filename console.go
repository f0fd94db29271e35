package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// consoleHandler narrates agent logs as one colored line per record:
//
//	[tool start] tool=add_two_numbers args=map[a:10 b:20]
type consoleHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Leveler
	color  bool
	attrs  []slog.Attr
	groups string
}

var _ slog.Handler = (*consoleHandler)(nil)

func newConsoleHandler(w io.Writer, level slog.Leveler, useColor bool) *consoleHandler {
	return &consoleHandler{mu: &sync.Mutex{}, w: w, level: level, color: useColor}
}

var messageColors = map[string]color.Attribute{
	"agent run start":            color.FgWhite,
	"iteration":                  color.FgCyan,
	"model response":             color.FgYellow,
	"tool start":                 color.FgMagenta,
	"tool end":                   color.FgGreen,
	"tool error":                 color.FgRed,
	"argument coerced":           color.FgBlue,
	"coercion failed":            color.FgRed,
	"malformed tool call":        color.FgRed,
	"final answer":               color.FgGreen,
	"plain text response":        color.FgGreen,
	"max iterations reached":     color.FgRed,
	"conversation history reset": color.FgGreen,
	"mcp server connected":       color.FgCyan,
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(h.paint(r.Level, r.Message, "["+r.Message+"]"))

	for _, a := range h.attrs {
		writeAttr(&sb, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&sb, h.groups, a)
		return true
	})
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, sb.String())
	return err
}

func (h *consoleHandler) paint(level slog.Level, msg, text string) string {
	if !h.color {
		return text
	}
	c := color.New(color.FgWhite)
	if attr, ok := messageColors[msg]; ok {
		c = color.New(attr)
	} else if level >= slog.LevelWarn {
		c = color.New(color.FgRed)
	}
	if level >= slog.LevelWarn {
		c.Add(color.Bold)
	}
	c.EnableColor()
	return c.Sprint(text)
}

func writeAttr(sb *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			writeAttr(sb, p, ga)
		}
		return
	}
	if a.Key == "run_id" {
		return
	}
	val := a.Value.String()
	if strings.ContainsAny(val, " \n") {
		val = fmt.Sprintf("%q", val)
	}
	fmt.Fprintf(sb, " %s%s=%s", prefix, a.Key, val)
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		if h.groups != "" {
			a = slog.Attr{Key: strings.TrimSuffix(h.groups, "."), Value: slog.GroupValue(a)}
		}
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = h.groups + name + "."
	return &clone
}
