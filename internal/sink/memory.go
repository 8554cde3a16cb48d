package sink

import (
	"context"
	"fmt"
	"sync"
)

// Object is one artifact held by the memory sink.
type Object struct {
	ContentType string
	Data        []byte
}

// Memory keeps written artifacts in a map. Used in tests.
type Memory struct {
	mu      sync.Mutex
	objects map[string]Object
}

// NewMemory creates an empty memory sink.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string]Object)}
}

// Put stores the artifact under its path and returns a mem:// URI.
func (s *Memory) Put(_ context.Context, path string, contentType string, data []byte) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[path] = Object{ContentType: contentType, Data: append([]byte(nil), data...)}
	return "mem://" + path, nil
}

// Load returns a stored artifact's bytes.
func (s *Memory) Load(_ context.Context, path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[path]
	if !ok {
		return nil, fmt.Errorf("no object at %q", path)
	}
	return append([]byte(nil), obj.Data...), nil
}

// Get returns a stored artifact.
func (s *Memory) Get(path string) (Object, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[path]
	return obj, ok
}

// Paths returns all stored paths.
func (s *Memory) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	paths := make([]string, 0, len(s.objects))
	for p := range s.objects {
		paths = append(paths, p)
	}
	return paths
}
