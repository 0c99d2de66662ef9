// Package page provides file-backed mount points addressed by element id.
package page

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"dbmonitor/internal/platform/chart"
)

// Element is a mount point backed by a PNG file in the page directory.
type Element struct {
	id   string
	path string
}

func (e *Element) ID() string { return e.id }

// Path returns the file the element renders into.
func (e *Element) Path() string { return e.path }

// Open creates (or truncates) the element's file.
func (e *Element) Open() (io.WriteCloser, error) {
	return os.Create(e.path)
}

// Page is a set of elements living in one output directory.
type Page struct {
	dir string

	mu       sync.RWMutex
	elements map[string]*Element
}

// New returns a page that places its elements in dir.
func New(dir string) *Page {
	return &Page{dir: dir, elements: map[string]*Element{}}
}

// Prepare creates the output directory.
func (p *Page) Prepare() error {
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return fmt.Errorf("create page dir: %w", err)
	}
	return nil
}

// Add registers an element. Adding an existing id returns the existing element.
func (p *Page) Add(id string) *Element {
	p.mu.Lock()
	defer p.mu.Unlock()

	if e, ok := p.elements[id]; ok {
		return e
	}
	e := &Element{id: id, path: filepath.Join(p.dir, fileName(id))}
	p.elements[id] = e
	return e
}

// fileName escapes id so every id maps to its own file inside the page directory.
func fileName(id string) string {
	return url.PathEscape(id) + ".png"
}

// ElementByID returns the registered element, or nil if there is none.
func (p *Page) ElementByID(id string) chart.Mount {
	p.mu.RLock()
	defer p.mu.RUnlock()

	e, ok := p.elements[id]
	if !ok {
		return nil
	}
	return e
}

// IDs returns the registered element ids in sorted order.
func (p *Page) IDs() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	ids := make([]string, 0, len(p.elements))
	for id := range p.elements {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
