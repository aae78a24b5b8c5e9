// Package codebase tracks open Dart documents for the language server and
// reruns the analysis pipeline over them to produce diagnostics.
package codebase

import (
	"sort"
	"sync"

	"github.com/Apeiron-Software/faster-freezed/dart"
	"github.com/Apeiron-Software/faster-freezed/diag"
)

type Document struct {
	Path    string
	Content []byte
}

// Codebase is the set of documents the editor currently has open. All
// methods are safe for concurrent use.
type Codebase struct {
	mu              sync.RWMutex
	docs            map[string]*Document
	extraPrimitives []string
}

func New(extraPrimitives []string) *Codebase {
	return &Codebase{
		docs:            make(map[string]*Document),
		extraPrimitives: extraPrimitives,
	}
}

func (cb *Codebase) UpdateFile(path string, content []byte) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.docs[path] = &Document{Path: path, Content: content}
}

func (cb *Codebase) RemoveFile(path string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	delete(cb.docs, path)
}

func (cb *Codebase) GetFile(path string) *Document {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.docs[path]
}

// Check reanalyzes every tracked document and returns the diagnostics for
// one of them. Cross-file references resolve against all open documents, so
// a class defined in another tab is not flagged as unknown.
func (cb *Codebase) Check(path string) []diag.Diagnostic {
	cb.mu.RLock()
	docs := make([]*Document, 0, len(cb.docs))
	for _, d := range cb.docs {
		docs = append(docs, d)
	}
	cb.mu.RUnlock()
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })

	col := diag.NewCollector()
	var models []*dart.ClassModel
	for _, d := range docs {
		col.Register(d.Path)
		models = append(models, dart.ClassModelsFromSource(d.Content, d.Path, col)...)
	}
	table := dart.BuildNameTable(models, col)
	dart.ResolveBatch(models, table, cb.extraPrimitives, col)
	return col.ForFile(path)
}
