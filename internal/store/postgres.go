package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nichtagentur/blogforge/internal/blog"
)

// PostgresConfig controls the Postgres connection pool.
type PostgresConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

// PostgresStore persists articles and used topics in Postgres.
//
// Expected schema:
//
//	CREATE TABLE articles (
//		slug TEXT PRIMARY KEY,
//		title TEXT NOT NULL,
//		meta_description TEXT NOT NULL,
//		category TEXT NOT NULL,
//		keywords JSONB NOT NULL DEFAULT '[]',
//		date_iso TEXT NOT NULL,
//		date_display TEXT NOT NULL,
//		read_time INT NOT NULL,
//		image_alt TEXT NOT NULL DEFAULT '',
//		content_type TEXT NOT NULL DEFAULT '',
//		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
//
//	CREATE TABLE used_topics (
//		id BIGSERIAL PRIMARY KEY,
//		topic TEXT NOT NULL,
//		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
type PostgresStore struct {
	pool pgxPool
}

// NewPostgresStore connects a pool using the provided config.
func NewPostgresStore(ctx context.Context, cfg PostgresConfig) (*PostgresStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("store.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresStoreWithPool constructs a store from an existing pool (primarily
// for testing).
func NewPostgresStoreWithPool(pool pgxPool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &PostgresStore{pool: pool}, nil
}

// Close releases the underlying pool resources.
func (s *PostgresStore) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// ReadAll returns articles ordered by insertion time, oldest first.
func (s *PostgresStore) ReadAll(ctx context.Context) ([]blog.ArticleRecord, error) {
	rows, err := s.pool.Query(ctx, `
SELECT slug, title, meta_description, category, keywords,
       date_iso, date_display, read_time, image_alt, content_type
FROM articles
ORDER BY created_at, slug`)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	var records []blog.ArticleRecord
	for rows.Next() {
		var rec blog.ArticleRecord
		var keywordsJSON []byte
		if err := rows.Scan(
			&rec.Slug,
			&rec.Title,
			&rec.MetaDescription,
			&rec.Category,
			&keywordsJSON,
			&rec.DateISO,
			&rec.DateDisplay,
			&rec.ReadTime,
			&rec.ImageAlt,
			&rec.ContentType,
		); err != nil {
			return nil, fmt.Errorf("scan article row: %w", err)
		}
		if len(keywordsJSON) > 0 {
			if err := json.Unmarshal(keywordsJSON, &rec.Keywords); err != nil {
				return nil, fmt.Errorf("parse keywords for %s: %w", rec.Slug, err)
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate articles: %w", err)
	}
	return records, nil
}

// AppendArticle inserts one record. The slug primary key rejects duplicates.
func (s *PostgresStore) AppendArticle(ctx context.Context, record blog.ArticleRecord) error {
	if record.Slug == "" {
		return fmt.Errorf("record slug is required")
	}
	keywordsJSON, err := json.Marshal(record.Keywords)
	if err != nil {
		return fmt.Errorf("marshal keywords: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
INSERT INTO articles (
	slug, title, meta_description, category, keywords,
	date_iso, date_display, read_time, image_alt, content_type
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		record.Slug,
		record.Title,
		record.MetaDescription,
		record.Category,
		keywordsJSON,
		record.DateISO,
		record.DateDisplay,
		record.ReadTime,
		record.ImageAlt,
		record.ContentType,
	)
	if err != nil {
		return fmt.Errorf("insert article: %w", err)
	}
	return nil
}

// ReadUsedTopics returns the topic log ordered oldest first.
func (s *PostgresStore) ReadUsedTopics(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT topic FROM used_topics ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query used topics: %w", err)
	}
	defer rows.Close()

	var topics []string
	for rows.Next() {
		var topic string
		if err := rows.Scan(&topic); err != nil {
			return nil, fmt.Errorf("scan topic row: %w", err)
		}
		topics = append(topics, topic)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate used topics: %w", err)
	}
	return topics, nil
}

// AppendUsedTopic inserts one topic string. Duplicates are allowed.
func (s *PostgresStore) AppendUsedTopic(ctx context.Context, topic string) error {
	if topic == "" {
		return fmt.Errorf("topic is required")
	}
	if _, err := s.pool.Exec(ctx, `INSERT INTO used_topics (topic) VALUES ($1)`, topic); err != nil {
		return fmt.Errorf("insert used topic: %w", err)
	}
	return nil
}
