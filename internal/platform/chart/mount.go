package chart

import (
	"bytes"
	"io"
)

// BufferMount is an in-memory mount point.
type BufferMount struct {
	id  string
	buf bytes.Buffer
}

// NewBufferMount returns an empty in-memory mount point.
func NewBufferMount(id string) *BufferMount {
	return &BufferMount{id: id}
}

func (m *BufferMount) ID() string { return m.id }

// Open discards previous content; every render replaces the image.
func (m *BufferMount) Open() (io.WriteCloser, error) {
	m.buf.Reset()
	return nopCloser{&m.buf}, nil
}

// Bytes returns the last rendered image.
func (m *BufferMount) Bytes() []byte { return m.buf.Bytes() }

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
