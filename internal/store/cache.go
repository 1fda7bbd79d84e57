package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type cacheRepo struct {
	db *sql.DB
}

func (r *cacheRepo) Put(ctx context.Context, e CacheEntry) error {
	storedAt := e.StoredAt
	if storedAt.IsZero() {
		storedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO cache_entries
		(generation, url, content_type, body, sha256, stored_at_ms)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (generation, url) DO UPDATE SET
			content_type = excluded.content_type,
			body = excluded.body,
			sha256 = excluded.sha256,
			stored_at_ms = excluded.stored_at_ms`,
		e.Generation, e.URL, e.ContentType, e.Body, e.SHA256, storedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put cache entry %s: %w", e.URL, err)
	}
	return nil
}

func (r *cacheRepo) Get(ctx context.Context, generation, url string) (*CacheEntry, error) {
	e := CacheEntry{Generation: generation, URL: url}
	var ms int64
	err := r.db.QueryRowContext(ctx,
		`SELECT content_type, body, sha256, stored_at_ms FROM cache_entries
		 WHERE generation = ? AND url = ?`, generation, url,
	).Scan(&e.ContentType, &e.Body, &e.SHA256, &ms)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cache entry %s: %w", url, err)
	}
	e.StoredAt = time.UnixMilli(ms)
	return &e, nil
}

func (r *cacheRepo) DeleteGeneration(ctx context.Context, generation string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE generation = ?`, generation)
	if err != nil {
		return 0, fmt.Errorf("delete generation %s: %w", generation, err)
	}
	return res.RowsAffected()
}

func (r *cacheRepo) Generations(ctx context.Context) ([]GenerationInfo, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT generation, COUNT(*), COALESCE(SUM(LENGTH(body)), 0)
		FROM cache_entries GROUP BY generation ORDER BY generation`)
	if err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}
	defer rows.Close()

	var out []GenerationInfo
	for rows.Next() {
		var g GenerationInfo
		if err := rows.Scan(&g.Name, &g.Entries, &g.Bytes); err != nil {
			return nil, fmt.Errorf("scan generation: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
