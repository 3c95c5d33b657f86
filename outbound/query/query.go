package query

import (
	"context"
	"encoding/json"
	"errors"
	"eventdesk/common"
	"eventdesk/common/constant"
	"eventdesk/common/otel"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Key identifies a cached list: the endpoint name plus its filter
// parameters. Name is also the invalidation key.
type Key struct {
	Name   string
	Params url.Values
}

func NewKey(name string, params url.Values) Key {
	return Key{Name: name, Params: params}
}

// String renders the key with sorted parameters so equal filters share an
// entry.
func (k Key) String() string {
	if len(k.Params) == 0 {
		return k.Name
	}
	return k.Name + "?" + k.Params.Encode()
}

// Store caches list queries in redis. Each name has a generation counter;
// invalidating a name bumps it so every entry stored under the old generation
// is ignored and expires on its own. Identical concurrent fetches share one
// upstream call. A nil Cache disables caching but keeps deduplication.
type Store struct {
	Cache         *redis.Client
	TTL           time.Duration
	FlightTimeout time.Duration

	group singleflight.Group
}

func NewStore(cache *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = constant.QueryDefaultTTL
	}
	return &Store{Cache: cache, TTL: ttl}
}

// Fetch returns the cached value for key, calling fetch on a miss.
func Fetch[T any](ctx context.Context, s *Store, key Key, fetch func(context.Context) (T, error)) (T, error) {
	ctx, span := otel.Tracer.Start(ctx, "query.Fetch "+key.Name)
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	keyAttr := slog.String("query_key", key.String())

	if s.Cache == nil {
		return shared(ctx, s, key.String(), fetch)
	}

	generation, err := s.generation(ctx, key.Name)
	if err != nil {
		slog.WarnContext(ctx, "failed to read query generation, bypassing cache", traceIdAttr, keyAttr, slog.Any(constant.LogFieldErr, err))
		return shared(ctx, s, key.String(), fetch)
	}

	entryKey := fmt.Sprintf(constant.QueryEntryKey, key.Name, generation, key.Params.Encode())

	cached, err := s.Cache.Get(ctx, entryKey).Bytes()
	switch {
	case err == nil:
		var value T
		if err := json.Unmarshal(cached, &value); err == nil {
			slog.DebugContext(ctx, "query cache hit", traceIdAttr, keyAttr)
			return value, nil
		}
		slog.WarnContext(ctx, "failed to decode cached query, refetching", traceIdAttr, keyAttr)
	case errors.Is(err, redis.Nil):
	default:
		slog.WarnContext(ctx, "failed to read query cache", traceIdAttr, keyAttr, slog.Any(constant.LogFieldErr, err))
	}

	value, err := shared(ctx, s, entryKey, fetch)
	if err != nil {
		common.UtilSpanError(span, err)
		return value, err
	}

	data, err := json.Marshal(value)
	if err != nil {
		slog.WarnContext(ctx, "failed to encode query result", traceIdAttr, keyAttr, slog.Any(constant.LogFieldErr, err))
		return value, nil
	}

	if err := s.Cache.Set(ctx, entryKey, string(data), s.TTL).Err(); err != nil {
		slog.WarnContext(ctx, "failed to store query result", traceIdAttr, keyAttr, slog.Any(constant.LogFieldErr, err))
	}

	return value, nil
}

// shared runs fetch once per flight key. The flight is detached from any
// single caller and bounded by FlightTimeout; a caller whose own context ends
// stops waiting without failing the others.
func shared[T any](ctx context.Context, s *Store, flightKey string, fetch func(context.Context) (T, error)) (T, error) {
	var zero T

	ch := s.group.DoChan(flightKey, func() (any, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.flightTimeout())
		defer cancel()
		return fetch(flightCtx)
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

func (s *Store) flightTimeout() time.Duration {
	if s.FlightTimeout > 0 {
		return s.FlightTimeout
	}
	return constant.QueryFlightTimeout
}

func (s *Store) generation(ctx context.Context, name string) (int64, error) {
	generation, err := s.Cache.Get(ctx, fmt.Sprintf(constant.QueryGenerationKey, name)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return generation, err
}

// Invalidate drops every cached list stored under the given names.
func (s *Store) Invalidate(ctx context.Context, names ...string) error {
	if s.Cache == nil || len(names) == 0 {
		return nil
	}

	pipe := s.Cache.TxPipeline()
	for _, name := range names {
		pipe.Incr(ctx, fmt.Sprintf(constant.QueryGenerationKey, name))
	}

	if _, err := pipe.Exec(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to invalidate queries", common.ExtractTraceIDFromCtx(ctx), slog.Any("names", names), slog.Any(constant.LogFieldErr, err))
		return fmt.Errorf("invalidate %v: %w", names, err)
	}

	return nil
}
