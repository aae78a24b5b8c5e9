package diag

import (
	"sync"
	"testing"
)

func TestCollectorOrdering(t *testing.T) {
	col := NewCollector()
	col.Register("a.dart")
	col.Register("b.dart")

	// Report in reverse of registration order.
	col.Warnf("b.dart", 1, 1, "second file")
	col.Errorf("a.dart", 2, 3, "first file")

	ds := col.All()
	if len(ds) != 2 {
		t.Fatalf("got %d diagnostics, want 2", len(ds))
	}
	if ds[0].File != "a.dart" || ds[1].File != "b.dart" {
		t.Errorf("order = %s, %s; want a.dart, b.dart", ds[0].File, ds[1].File)
	}
}

func TestCollectorUnregisteredFileAppended(t *testing.T) {
	col := NewCollector()
	col.Register("a.dart")
	col.Warnf("stray.dart", 1, 1, "no registration")
	col.Warnf("a.dart", 1, 1, "registered")

	ds := col.All()
	if len(ds) != 2 {
		t.Fatalf("got %d diagnostics, want 2", len(ds))
	}
	if ds[0].File != "a.dart" {
		t.Errorf("registered file should sort first, got %s", ds[0].File)
	}
}

func TestCollectorHasErrors(t *testing.T) {
	col := NewCollector()
	col.Warnf("a.dart", 1, 1, "just a warning")
	if col.HasErrors() {
		t.Error("HasErrors() = true with only warnings")
	}
	col.Errorf("a.dart", 1, 1, "an error")
	if !col.HasErrors() {
		t.Error("HasErrors() = false after an error")
	}
}

func TestCollectorString(t *testing.T) {
	d := Diagnostic{
		Severity: SeverityError,
		Message:  "boom",
		File:     "x.dart",
		Line:     3,
		Column:   7,
	}
	want := "x.dart:3:7: error: boom"
	if got := d.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestCollectorConcurrent(t *testing.T) {
	col := NewCollector()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				col.Warnf("f.dart", j, 1, "w")
			}
		}()
	}
	wg.Wait()

	if got := len(col.ForFile("f.dart")); got != 800 {
		t.Errorf("got %d diagnostics, want 800", got)
	}
}
