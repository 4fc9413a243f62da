package middleware

import (
	"context"
	"log/slog"
	"reflect"

	"casacueto/internal/app/commands"
	"casacueto/internal/app/queries"
)

// ResultCache stores encoded query results by key.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}

// CacheableQuery opts a query into read-through caching. ResultPrototype must
// return a pointer to the handler's result type.
type CacheableQuery interface {
	queries.Query
	CacheKey() string
	ResultPrototype() any
}

// CacheInvalidator is implemented by commands whose success makes cached reads stale.
type CacheInvalidator interface {
	InvalidatedCacheKeys() []string
}

// CacheObserver receives hit/miss notifications.
type CacheObserver interface {
	CacheHit(key string)
	CacheMiss(key string)
}

// QueryCache serves CacheableQuery results from cache. Cache failures are
// logged and the query falls through to the handler.
func QueryCache(cache ResultCache, codec ResultCodec, obs CacheObserver, logger *slog.Logger) QueryMiddleware {
	if cache == nil {
		return nil
	}
	if codec == nil {
		codec = JSONResultCodec{}
	}
	return func(next queries.Bus) queries.Bus {
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			cq, ok := q.(CacheableQuery)
			if !ok {
				return next.Ask(ctx, q)
			}
			key := cq.CacheKey()
			if raw, found, err := cache.Get(ctx, key); err != nil {
				warn(logger, "cache read failed", key, err)
			} else if found {
				proto := cq.ResultPrototype()
				if err := codec.Decode(raw, proto); err == nil {
					if obs != nil {
						obs.CacheHit(key)
					}
					return derefPrototype(proto), nil
				}
			}
			if obs != nil {
				obs.CacheMiss(key)
			}

			res, err := next.Ask(ctx, q)
			if err != nil {
				return nil, err
			}
			if payload, err := codec.Encode(res); err == nil {
				if err := cache.Set(ctx, key, payload); err != nil {
					warn(logger, "cache write failed", key, err)
				}
			}
			return res, nil
		})
	}
}

// InvalidateOnCommand drops cache keys named by successful CacheInvalidator commands.
func InvalidateOnCommand(cache ResultCache, logger *slog.Logger) CommandMiddleware {
	if cache == nil {
		return nil
	}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			res, err := next.Dispatch(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if inv, ok := cmd.(CacheInvalidator); ok {
				if keys := inv.InvalidatedCacheKeys(); len(keys) > 0 {
					if err := cache.Delete(ctx, keys...); err != nil {
						warn(logger, "cache invalidation failed", keys[0], err)
					}
				}
			}
			return res, nil
		})
	}
}

func derefPrototype(proto any) any {
	rv := reflect.ValueOf(proto)
	if rv.Kind() == reflect.Ptr && !rv.IsNil() {
		return rv.Elem().Interface()
	}
	return proto
}

func warn(logger *slog.Logger, msg, key string, err error) {
	if logger != nil {
		logger.Warn(msg, "key", key, "error", err)
	}
}
