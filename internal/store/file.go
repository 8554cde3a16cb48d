// Package store implements the content store backends: article metadata plus
// the append-only used-topics log. Backends are selected by configuration;
// `file` is the default and matches the site's posts.json layout.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/nichtagentur/blogforge/internal/blog"
)

const (
	postsFile  = "posts.json"
	topicsFile = "topics-used.json"
)

// FileStore persists records as JSON arrays in a data directory. All writes
// go through a temp file followed by rename, so a crashed run never leaves a
// half-written file behind.
type FileStore struct {
	mu      sync.Mutex
	dataDir string
}

// NewFileStore creates the data directory if needed.
func NewFileStore(dataDir string) (*FileStore, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data directory is required")
	}
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileStore{dataDir: dataDir}, nil
}

// ReadAll returns the persisted articles in append order.
func (s *FileStore) ReadAll(_ context.Context) ([]blog.ArticleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readArticles()
}

// AppendArticle adds one record to posts.json.
func (s *FileStore) AppendArticle(_ context.Context, record blog.ArticleRecord) error {
	if record.Slug == "" {
		return fmt.Errorf("record slug is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readArticles()
	if err != nil {
		return err
	}
	records = append(records, record)
	return s.writeJSON(postsFile, records)
}

// ReadUsedTopics returns the raw used-topic strings in append order.
func (s *FileStore) ReadUsedTopics(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readTopics()
}

// AppendUsedTopic adds one topic string. Duplicates are tolerated; the log is
// only advisory context for future topic research.
func (s *FileStore) AppendUsedTopic(_ context.Context, topic string) error {
	if topic == "" {
		return fmt.Errorf("topic is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	topics, err := s.readTopics()
	if err != nil {
		return err
	}
	topics = append(topics, topic)
	return s.writeJSON(topicsFile, topics)
}

// Close is a no-op for the file backend.
func (s *FileStore) Close() {}

func (s *FileStore) readArticles() ([]blog.ArticleRecord, error) {
	data, err := os.ReadFile(filepath.Join(s.dataDir, postsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", postsFile, err)
	}
	var records []blog.ArticleRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", postsFile, err)
	}
	return records, nil
}

func (s *FileStore) readTopics() ([]string, error) {
	data, err := os.ReadFile(filepath.Join(s.dataDir, topicsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", topicsFile, err)
	}
	var topics []string
	if err := json.Unmarshal(data, &topics); err != nil {
		return nil, fmt.Errorf("parse %s: %w", topicsFile, err)
	}
	return topics, nil
}

func (s *FileStore) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	tmp, err := os.CreateTemp(s.dataDir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dataDir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s into place: %w", name, err)
	}
	return nil
}
