package redis

import (
	"context"
	"fmt"
	"sort"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/catalogsearch/internal/db"
)

// HSet writes one hash.
func (s *Store) HSet(ctx context.Context, item db.HashSetItem) error {
	if err := s.do(ctx, s.hsetCmd(item)).Error(); err != nil {
		return &db.Error{Op: db.OpHSet, Err: fmt.Errorf("key %s: %w", item.Key, err)}
	}
	return nil
}

// HSetMulti replaces multiple hashes in a single DoMulti round-trip. Each key is
// deleted before it is written, so fields missing from the new item do not survive.
func (s *Store) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if len(items) == 0 {
		return nil
	}

	cmds := make([]rueidis.Completed, 0, 2*len(items))
	for _, item := range items {
		cmds = append(cmds, s.b().Del().Key(item.Key).Build(), s.hsetCmd(item))
	}

	results := s.client.DoMulti(ctx, cmds...)
	for i, res := range results {
		if err := res.Error(); err != nil {
			op := db.OpHSet
			if i%2 == 0 {
				op = db.OpDel
			}
			return &db.Error{Op: op, Err: fmt.Errorf("key %s: %w", items[i/2].Key, err)}
		}
	}
	return nil
}

// hsetCmd emits fields in sorted order so the command is deterministic.
func (s *Store) hsetCmd(item db.HashSetItem) rueidis.Completed {
	names := make([]string, 0, len(item.Fields)+len(item.Blobs))
	for k := range item.Fields {
		names = append(names, k)
	}
	for k := range item.Blobs {
		if _, dup := item.Fields[k]; !dup {
			names = append(names, k)
		}
	}
	sort.Strings(names)

	cmd := s.b().Hset().Key(item.Key).FieldValue()
	for _, k := range names {
		if blob, ok := item.Blobs[k]; ok {
			cmd = cmd.FieldValue(k, rueidis.BinaryString(blob))
			continue
		}
		cmd = cmd.FieldValue(k, item.Fields[k])
	}
	return cmd.Build()
}

// Del deletes a key.
func (s *Store) Del(ctx context.Context, key string) error {
	cmd := s.b().Del().Key(key).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}
