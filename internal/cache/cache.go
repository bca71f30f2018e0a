// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/natefinch/atomic"
)

// Map is the map-like contract a Cache offers.
type Map[V any] interface {
	Get(key string) (V, bool, error)
	Set(key string, value V) error
	Delete(key string) error
	Contains(key string) (bool, error)
	Len() (int, error)
	Keys() ([]string, error)
	Clear() error
}

var _ Map[string] = (*Cache[string])(nil)

// Cache is a string-keyed map mirrored to one backing file.
//
// All methods are safe for use by multiple goroutines of one process. After
// Close, all methods return [ErrClosed].
type Cache[V any] struct {
	mu      sync.Mutex
	data    map[string]V
	path    string
	sync    bool
	modTime time.Time
	dirty   bool
	closed  bool
	opts    options
}

// Stats is a point-in-time description of a Cache.
type Stats struct {
	Path       string
	Entries    int
	Dirty      bool
	Sync       bool
	Codec      string
	Compressed bool
	ModTime    time.Time
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	sync     bool
	codec    Codec
	compress bool
	equal    func(a, b any) bool
	logger   log.Interface
	write    func(path string, r io.Reader) error
	now      func() time.Time
}

// WithSync enables sync mode: reads reload the backing file first and
// effective mutations are flushed before the call returns.
func WithSync(enabled bool) Option {
	return func(o *options) { o.sync = enabled }
}

// WithCodec selects the codec used for the snapshot payload. Defaults to Gob.
func WithCodec(c Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithCompression snappy-compresses the snapshot payload.
func WithCompression(enabled bool) Option {
	return func(o *options) { o.compress = enabled }
}

// WithEqual replaces the value equality used to skip no-op Sets. Defaults to
// reflect.DeepEqual.
func WithEqual(eq func(a, b any) bool) Option {
	return func(o *options) {
		if eq != nil {
			o.equal = eq
		}
	}
}

// WithLogger routes cache logging to l instead of the apex/log default.
func WithLogger(l log.Interface) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// New binds a Cache to path and loads it. A missing or undecodable file is not
// an error; the cache starts empty.
func New[V any](path string, opts ...Option) (*Cache[V], error) {
	if path == "" {
		return nil, ErrInvalidPath
	}

	o := options{
		codec:  Gob,
		equal:  reflect.DeepEqual,
		logger: log.Log,
		write:  atomic.WriteFile,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Cache[V]{
		path: path,
		sync: o.sync,
		opts: o,
	}
	c.load("")

	return c, nil
}

// With opens the cache at path, passes it to fn and closes it on every exit
// path, including a panic in fn. Errors from fn and Close are joined.
func With[V any](path string, fn func(*Cache[V]) error, opts ...Option) (err error) {
	c, err := New[V](path, opts...)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := c.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	return fn(c)
}

// Load replaces the in-memory map with the contents of the backing file, or of
// the first path given. Unflushed mutations are discarded. The binding used by
// Flush does not change, so in sync mode the next read reloads the bound file
// and an override is only visible until then.
func (c *Cache[V]) Load(path ...string) (*Cache[V], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return c, ErrClosed
	}

	var override string
	if len(path) > 0 {
		override = path[0]
	}
	c.load(override)

	return c, nil
}

// load never fails. Anything short of a decoded snapshot leaves an empty map
// stamped with the current time.
func (c *Cache[V]) load(path string) {
	if path == "" {
		path = c.path
	}
	logger := c.opts.logger.WithField("path", path)
	logger.Debug("loading cache")

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Info("cache file does not exist, starting empty")
		} else {
			logger.WithError(err).Warn("failed to stat cache file, starting empty")
		}
		c.reset()
		return
	}
	if !info.Mode().IsRegular() {
		logger.Warn("cache path is not a regular file, starting empty")
		c.reset()
		return
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		logger.WithError(err).Warn("failed to read cache file, starting empty")
		c.reset()
		return
	}

	data := make(map[string]V)
	if err := decodeSnapshot(c.opts.codec, raw, &data); err != nil {
		logger.WithError(err).Warn("failed to decode cache file, starting empty")
		c.reset()
		return
	}
	if data == nil {
		data = make(map[string]V)
	}

	c.data = data
	c.modTime = info.ModTime()
	c.dirty = false
	logger.Debugf("loaded %d entries", len(data))
}

func (c *Cache[V]) reset() {
	c.data = make(map[string]V)
	c.modTime = c.opts.now()
	c.dirty = false
}

// refresh reloads in sync mode. A dirty map means a previous flush failed; it
// is kept so the write can be retried.
func (c *Cache[V]) refresh() {
	if c.sync && !c.dirty {
		c.load("")
	}
}

// Get returns the value for key and whether it was present.
func (c *Cache[V]) Get(key string) (V, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	if c.closed {
		return zero, false, ErrClosed
	}
	c.refresh()

	v, ok := c.data[key]
	return v, ok, nil
}

// GetDefault returns the value for key, or def when key is absent.
func (c *Cache[V]) GetDefault(key string, def V) (V, error) {
	v, ok, err := c.Get(key)
	if err != nil {
		return def, err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}

// Contains reports whether key is present.
func (c *Cache[V]) Contains(key string) (bool, error) {
	_, ok, err := c.Get(key)
	return ok, err
}

// Len returns the number of entries.
func (c *Cache[V]) Len() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, ErrClosed
	}
	c.refresh()

	return len(c.data), nil
}

// Keys returns the keys in sorted order.
func (c *Cache[V]) Keys() ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}
	c.refresh()

	return sortedKeys(c.data), nil
}

// Items returns a copy of the whole map.
func (c *Cache[V]) Items() (map[string]V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}
	c.refresh()

	items := make(map[string]V, len(c.data))
	for k, v := range c.data {
		items[k] = v
	}
	return items, nil
}

// Range calls fn for each entry in key order until fn returns false. fn sees a
// snapshot and may call back into the cache.
func (c *Cache[V]) Range(fn func(key string, value V) bool) error {
	items, err := c.Items()
	if err != nil {
		return err
	}

	for _, k := range sortedKeys(items) {
		if !fn(k, items[k]) {
			break
		}
	}
	return nil
}

// Dump returns the string representation of the current contents.
func (c *Cache[V]) Dump() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return "", ErrClosed
	}
	c.refresh()

	return fmt.Sprintf("%v", c.data), nil
}

func (c *Cache[V]) String() string {
	s, err := c.Dump()
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return s
}

// Set stores value under key. Storing a value equal to the current one is a
// no-op and leaves the cache clean.
func (c *Cache[V]) Set(key string, value V) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	c.refresh()

	if cur, ok := c.data[key]; ok && c.opts.equal(cur, value) {
		return nil
	}
	c.data[key] = value

	return c.changed()
}

// Delete removes key. Deleting an absent key is a no-op.
func (c *Cache[V]) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	c.refresh()

	if _, ok := c.data[key]; !ok {
		return nil
	}
	delete(c.data, key)

	return c.changed()
}

// Clear removes every entry. Clearing an empty cache is a no-op.
func (c *Cache[V]) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	c.refresh()

	if len(c.data) == 0 {
		return nil
	}
	c.data = make(map[string]V)

	return c.changed()
}

func (c *Cache[V]) changed() error {
	c.dirty = true
	if c.sync {
		return c.flush()
	}
	c.modTime = c.opts.now()
	return nil
}

// Flush writes the whole map to the backing file if there are unwritten
// mutations. On failure the cache stays dirty so Flush can be retried.
func (c *Cache[V]) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	return c.flush()
}

func (c *Cache[V]) flush() error {
	if !c.dirty {
		return nil
	}

	buf, err := encodeSnapshot(c.opts.codec, c.opts.compress, c.data)
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := c.opts.write(c.path, bytes.NewReader(buf)); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	c.modTime = c.opts.now()
	c.dirty = false
	c.opts.logger.WithField("path", c.path).Debugf("saved %d entries", len(c.data))

	return nil
}

// Close flushes and releases the cache. If the flush fails the error is
// returned and the cache stays open.
func (c *Cache[V]) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if err := c.flush(); err != nil {
		return err
	}

	c.data = nil
	c.path = ""
	c.modTime = time.Time{}
	c.sync = false
	c.closed = true

	return nil
}

// Time returns the file's modification time as of the last load, or the time
// of the last fresh start, flush or in-memory change.
func (c *Cache[V]) Time() (time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return time.Time{}, ErrClosed
	}
	return c.modTime, nil
}

// Path returns the bound backing file path.
func (c *Cache[V]) Path() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return "", ErrClosed
	}
	return c.path, nil
}

// Stat describes the cache without reloading it.
func (c *Cache[V]) Stat() (Stats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return Stats{}, ErrClosed
	}
	return Stats{
		Path:       c.path,
		Entries:    len(c.data),
		Dirty:      c.dirty,
		Sync:       c.sync,
		Codec:      c.opts.codec.Name(),
		Compressed: c.opts.compress,
		ModTime:    c.modTime,
	}, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
