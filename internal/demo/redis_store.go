package demo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RedisStore keeps items as JSON strings indexed by a sorted set scored by
// an insertion counter.
type RedisStore struct {
	client goredis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewRedisStore stores items under keys starting with prefix.
func NewRedisStore(client goredis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

func (s *RedisStore) indexKey() string        { return s.prefix + "items" }
func (s *RedisStore) seqKey() string          { return s.prefix + "seq" }
func (s *RedisStore) itemKey(id string) string { return s.prefix + "item:" + id }

func (s *RedisStore) List(ctx context.Context, tag string) ([]Item, error) {
	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	if len(ids) == 0 {
		return []Item{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.itemKey(id)
	}
	raw, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}

	out := make([]Item, 0, len(raw))
	for _, v := range raw {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var it Item
		if err := json.Unmarshal([]byte(str), &it); err != nil {
			return nil, fmt.Errorf("decode item: %w", err)
		}
		if hasTag(it, tag) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (Item, error) {
	b, err := s.client.Get(ctx, s.itemKey(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return Item{}, ErrItemNotFound
	}
	if err != nil {
		return Item{}, fmt.Errorf("get item: %w", err)
	}
	var it Item
	if err := json.Unmarshal(b, &it); err != nil {
		return Item{}, fmt.Errorf("decode item: %w", err)
	}
	return it, nil
}

func (s *RedisStore) Add(ctx context.Context, name string, tags []string) (Item, error) {
	it, err := newItem(name, tags, s.now())
	if err != nil {
		return Item{}, err
	}
	b, err := json.Marshal(it)
	if err != nil {
		return Item{}, err
	}
	seq, err := s.client.Incr(ctx, s.seqKey()).Result()
	if err != nil {
		return Item{}, fmt.Errorf("add item: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Set(ctx, s.itemKey(it.ID), b, 0)
		p.ZAdd(ctx, s.indexKey(), goredis.Z{Score: float64(seq), Member: it.ID})
		return nil
	})
	if err != nil {
		return Item{}, fmt.Errorf("add item: %w", err)
	}
	return it, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	var removed *goredis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		removed = p.ZRem(ctx, s.indexKey(), id)
		p.Del(ctx, s.itemKey(id))
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if removed.Val() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (s *RedisStore) Len(ctx context.Context) (int, error) {
	n, err := s.client.ZCard(ctx, s.indexKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return int(n), nil
}
