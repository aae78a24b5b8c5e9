// Package diag collects structured diagnostics produced while scanning,
// parsing and generating code for annotated Dart classes.
package diag

import (
	"fmt"
	"sync"
)

type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return "unknown"
}

// Diagnostic is a single warning or error tied to a source location.
// Fix optionally carries suggested replacement text.
type Diagnostic struct {
	Severity Severity
	Message  string
	File     string
	Line     int
	Column   int
	Fix      string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.File, d.Line, d.Column, d.Severity, d.Message)
}

// Collector accumulates diagnostics from concurrent producers. Ordering is
// preserved per file; files appear in the order they were registered, with
// unregistered files appended in first-report order.
type Collector struct {
	mu     sync.Mutex
	byFile map[string][]Diagnostic
	order  []string
}

func NewCollector() *Collector {
	return &Collector{byFile: make(map[string][]Diagnostic)}
}

// Register reserves a slot for file so its diagnostics sort in submission
// order regardless of which worker reports first.
func (c *Collector) Register(file string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.byFile[file]; !ok {
		c.byFile[file] = nil
		c.order = append(c.order, file)
	}
}

func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.byFile[d.File]; !ok {
		c.order = append(c.order, d.File)
	}
	c.byFile[d.File] = append(c.byFile[d.File], d)
}

func (c *Collector) Errorf(file string, line, column int, format string, args ...interface{}) {
	c.Report(Diagnostic{
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
		File:     file,
		Line:     line,
		Column:   column,
	})
}

func (c *Collector) Warnf(file string, line, column int, format string, args ...interface{}) {
	c.Report(Diagnostic{
		Severity: SeverityWarning,
		Message:  fmt.Sprintf(format, args...),
		File:     file,
		Line:     line,
		Column:   column,
	})
}

// All returns every collected diagnostic, grouped by file in registration
// order. The returned slice is a copy.
func (c *Collector) All() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Diagnostic
	for _, file := range c.order {
		out = append(out, c.byFile[file]...)
	}
	return out
}

// ForFile returns the diagnostics reported against one file, in report order.
func (c *Collector) ForFile(file string) []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	ds := c.byFile[file]
	out := make([]Diagnostic, len(ds))
	copy(out, ds)
	return out
}

// ErrorCount reports how many error-severity diagnostics one file has.
func (c *Collector) ErrorCount(file string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, d := range c.byFile[file] {
		if d.Severity == SeverityError {
			n++
		}
	}
	return n
}

// HasErrors reports whether any error-severity diagnostic was collected.
func (c *Collector) HasErrors() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ds := range c.byFile {
		for _, d := range ds {
			if d.Severity == SeverityError {
				return true
			}
		}
	}
	return false
}
