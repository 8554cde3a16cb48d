package store

import (
	"context"
	"sync"

	"github.com/nichtagentur/blogforge/internal/blog"
)

// MemoryStore keeps records in memory. Used in tests and dry runs.
type MemoryStore struct {
	mu       sync.Mutex
	articles []blog.ArticleRecord
	topics   []string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// ReadAll returns a copy of the stored articles in append order.
func (s *MemoryStore) ReadAll(_ context.Context) ([]blog.ArticleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]blog.ArticleRecord(nil), s.articles...), nil
}

// AppendArticle adds one record.
func (s *MemoryStore) AppendArticle(_ context.Context, record blog.ArticleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles = append(s.articles, record)
	return nil
}

// ReadUsedTopics returns a copy of the used-topic log.
func (s *MemoryStore) ReadUsedTopics(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.topics...), nil
}

// AppendUsedTopic adds one topic string.
func (s *MemoryStore) AppendUsedTopic(_ context.Context, topic string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topics = append(s.topics, topic)
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() {}
