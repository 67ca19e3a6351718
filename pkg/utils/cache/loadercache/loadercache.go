package loadercache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mpapenbr/f1results/log"
	"github.com/mpapenbr/f1results/pkg/utils/cache"
)

// based on github.com/kittpat1413/go-common/framework/cache/localcache/localcache.go
//
// Entries are loaded at most once per key at a time: concurrent callers of Get
// for a missing key share a single loader call. Reads of present entries take
// no lock.

type (
	Option[K comparable, V any] func(*config[K, V])
	item[T any]                 struct {
		data    T
		err     error
		expires *time.Time
	}
	loaderFunc[K comparable, V any] func(context.Context, K) (V, error)
	config[K comparable, V any]     struct {
		expiration  time.Duration // zero: entries never expire
		loader      loaderFunc[K, V]
		cacheErrors bool
		l           *log.Logger
	}
	loaderCache[K comparable, V any] struct {
		items  sync.Map // K -> item[V]
		group  singleflight.Group
		config *config[K, V]
	}
)

func WithExpiration[K comparable, V any](expiration time.Duration) Option[K, V] {
	return func(c *config[K, V]) {
		c.expiration = expiration
	}
}

func WithLoader[K comparable, V any](lf loaderFunc[K, V]) Option[K, V] {
	return func(c *config[K, V]) {
		c.loader = lf
	}
}

// WithErrorCaching keeps failed loads in the cache.
// Subsequent calls return the same error without calling the loader again.
func WithErrorCaching[K comparable, V any](arg bool) Option[K, V] {
	return func(c *config[K, V]) {
		c.cacheErrors = arg
	}
}

func WithLogger[K comparable, V any](arg *log.Logger) Option[K, V] {
	return func(c *config[K, V]) {
		c.l = arg
	}
}

func New[K comparable, V any](opts ...Option[K, V]) cache.Cache[K, V] {
	c := &config[K, V]{
		l: log.Default().Named("cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return &loaderCache[K, V]{config: c}
}

// Get returns the entry for key, loading it on a miss. The shared load is not
// bound to the caller's ctx: a caller giving up returns ctx.Err() while the load
// continues for the others.
func (c *loaderCache[K, V]) Get(ctx context.Context, key K) (V, error) {
	var zero V
	if v, ok := c.lookup(key); ok {
		return v.data, v.err
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(fmt.Sprint(key), func() (any, error) {
		// another caller may have completed the load in the meantime
		if v, ok := c.lookup(key); ok {
			return v, nil
		}
		return c.load(loadCtx, key)
	})
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		c.config.l.Debug("loaderCache.Get", log.Any("key", key), log.Bool("shared", res.Shared))
		v := res.Val.(item[V])
		return v.data, v.err
	}
}

func (c *loaderCache[K, V]) lookup(key K) (item[V], bool) {
	entry, ok := c.items.Load(key)
	if !ok {
		return item[V]{}, false
	}
	v := entry.(item[V])
	if v.expires != nil && v.expires.Before(time.Now()) {
		c.items.CompareAndDelete(key, entry)
		return item[V]{}, false
	}
	return v, true
}

// load returns a transport error only for errors that must not be cached
func (c *loaderCache[K, V]) load(ctx context.Context, key K) (item[V], error) {
	if c.config.loader == nil {
		return item[V]{}, cache.ErrCacheMiss
	}
	c.config.l.Debug("loaderCache.load", log.Any("key", key))
	v, err := c.config.loader(ctx, key)
	if err != nil {
		c.config.l.Error("error loading entry", log.Any("key", key), log.ErrorField(err))
		if !c.config.cacheErrors || isContextErr(err) {
			return item[V]{}, err
		}
	}
	entry := item[V]{data: v, err: err}
	if c.config.expiration > 0 {
		expires := time.Now().Add(c.config.expiration)
		entry.expires = &expires
	}
	c.items.Store(key, entry)
	return entry, nil
}

func (c *loaderCache[K, V]) Invalidate(ctx context.Context, key K) {
	c.config.l.Debug("Invalidate", log.Any("key", key))
	c.items.Delete(key)
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
