package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/store"
	"github.com/redis/go-redis/v9"
)

// Store persists the record graph in Redis: one JSON string per entity,
// a set of all entity IDs, and Redis lists for every ordering.
type Store struct {
	client *redis.Client
}

var _ store.Backend = (*Store)(nil)

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

func (s *Store) Name() string { return "redis" }

// Load reads every entity and ordering in one pipeline round trip.
func (s *Store) Load(ctx context.Context) (*store.Records, error) {
	ids, err := s.client.SMembers(ctx, AllEntitiesKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get entity IDs: %w", err)
	}

	pipe := s.client.Pipeline()

	gets := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		gets[i] = pipe.Get(ctx, EntityKey(id))
	}
	lists := make(map[string]*redis.StringSliceCmd, len(ids)+1)
	lists[domain.RootFolderID] = pipe.LRange(ctx, ChildrenKey(domain.RootFolderID), 0, -1)
	for _, id := range ids {
		lists[id] = pipe.LRange(ctx, ChildrenKey(id), 0, -1)
	}
	order := pipe.LRange(ctx, KeyBookmarkOrder, 0, -1)
	favorites := pipe.LRange(ctx, KeyFavorites, 0, -1)

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}

	snap := store.Snapshot{
		Records:   make([]domain.Record, 0, len(ids)),
		Children:  make(map[string][]string, len(lists)),
		Bookmarks: order.Val(),
		Favorites: favorites.Val(),
	}
	for i, cmd := range gets {
		data, err := cmd.Bytes()
		if err != nil {
			// Skip entities that couldn't be retrieved
			continue
		}
		var rec domain.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal entity %s: %w", ids[i], err)
		}
		snap.Records = append(snap.Records, rec)
	}
	for parent, cmd := range lists {
		if children := cmd.Val(); len(children) > 0 {
			snap.Children[parent] = children
		}
	}

	return store.FromSnapshot(snap), nil
}

// Save writes the whole graph in a MULTI/EXEC transaction.
func (s *Store) Save(ctx context.Context, r *store.Records) error {
	snap := r.Snapshot()

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range r.Removed() {
			pipe.Del(ctx, EntityKey(id), ChildrenKey(id))
			pipe.SRem(ctx, AllEntitiesKey(), id)
		}

		for _, rec := range snap.Records {
			data, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("failed to marshal entity %s: %w", rec.ID, err)
			}
			pipe.Set(ctx, EntityKey(rec.ID), data, 0)
			pipe.SAdd(ctx, AllEntitiesKey(), rec.ID)
		}

		for parent, ids := range snap.Children {
			replaceList(ctx, pipe, ChildrenKey(parent), ids)
		}
		replaceList(ctx, pipe, KeyBookmarkOrder, snap.Bookmarks)
		replaceList(ctx, pipe, KeyFavorites, snap.Favorites)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save records: %w", err)
	}

	return nil
}

// Ping reports whether Redis answers.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func replaceList(ctx context.Context, pipe redis.Pipeliner, key string, ids []string) {
	pipe.Del(ctx, key)
	if len(ids) == 0 {
		return
	}
	values := make([]interface{}, len(ids))
	for i, id := range ids {
		values[i] = id
	}
	pipe.RPush(ctx, key, values...)
}
