package store

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"edoura-server-go/db"
)

// loadCollection reads the JSON array stored at key.
//
// A value that is not a JSON array is logged, deleted and treated as an
// empty collection. Within a valid array every record is decoded and
// validated on its own; bad records are dropped and the cleaned collection
// is written back. Only storage failures are returned as errors.
func loadCollection[T any](s *DataStore, key string) ([]T, error) {
	raw, ok, err := s.kv.Get(key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok {
		return []T{}, nil
	}

	var records []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		s.log.Error("malformed collection, resetting", zap.String("key", key), zap.Error(err))
		if err := s.kv.Del(key); err != nil {
			return nil, fmt.Errorf("failed to reset %s: %w", key, err)
		}
		return []T{}, nil
	}

	items := make([]T, 0, len(records))
	dropped := 0
	for i, rec := range records {
		var item T
		if err := json.Unmarshal(rec, &item); err != nil {
			s.log.Warn("dropping undecodable record", zap.String("key", key), zap.Int("index", i), zap.Error(err))
			dropped++
			continue
		}
		if err := s.validate.Struct(item); err != nil {
			s.log.Warn("dropping invalid record", zap.String("key", key), zap.Int("index", i), zap.Error(err))
			dropped++
			continue
		}
		items = append(items, item)
	}

	if dropped > 0 {
		if err := saveCollection(s.kv, key, items); err != nil {
			return nil, err
		}
		s.log.Info("collection migrated", zap.String("key", key), zap.Int("dropped", dropped), zap.Int("kept", len(items)))
	}
	return items, nil
}

func saveCollection[T any](kv db.KV, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := kv.Set(key, string(data)); err != nil {
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	return nil
}
