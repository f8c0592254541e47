package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/platefinder/internal/db"
)

// mgetBatch bounds the number of GETs pipelined in one DoMulti call.
const mgetBatch = 100

// Get retrieves a value by key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	cmd := s.b().Get().Key(key).Build()
	data, err := s.do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	return data, nil
}

// MGet fetches many keys via pipelined GETs. Keys that vanished between
// listing and fetching come back as nil entries.
func (s *Store) MGet(ctx context.Context, keys []string) ([][]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	out := make([][]byte, 0, len(keys))
	for start := 0; start < len(keys); start += mgetBatch {
		end := min(start+mgetBatch, len(keys))

		cmds := make([]rueidis.Completed, 0, end-start)
		for _, key := range keys[start:end] {
			cmds = append(cmds, s.b().Get().Key(key).Build())
		}

		results := s.client.DoMulti(ctx, cmds...)
		for i, res := range results {
			data, err := res.AsBytes()
			if err != nil {
				if rueidis.IsRedisNil(err) {
					out = append(out, nil)
					continue
				}
				return nil, &db.Error{Op: db.OpMGet, Err: fmt.Errorf("key %s: %w", keys[start+i], err)}
			}
			out = append(out, data)
		}
	}
	return out, nil
}

// Scan iterates keys matching a pattern.
func (s *Store) Scan(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	var cursor uint64

	for {
		cmd := s.b().Scan().Cursor(cursor).Match(pattern).Count(100).Build()
		res, err := s.do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, &db.Error{Op: db.OpScan, Err: err}
		}
		keys = append(keys, res.Elements...)
		cursor = res.Cursor
		if cursor == 0 {
			break
		}
	}

	return keys, nil
}
