package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Object is a stored blob in a MemoryBucket.
type Object struct {
	Body        []byte
	ContentType string
}

// MemoryBucket keeps objects in process memory. It backs STORAGE_DRIVER=memory
// and the tests. Signed URLs carry the expiry as a query parameter but are not
// enforced by anything.
type MemoryBucket struct {
	name    string
	urlBase string
	now     func() time.Time

	mu      sync.Mutex
	objects map[string]Object
	puts    int
	failPut error
}

func NewMemoryBucket(name, urlBase string) *MemoryBucket {
	return &MemoryBucket{
		name:    name,
		urlBase: urlBase,
		now:     time.Now,
		objects: make(map[string]Object),
	}
}

func (b *MemoryBucket) Name() string { return b.name }

func (b *MemoryBucket) Put(ctx context.Context, key string, body []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.puts++
	if b.failPut != nil {
		return b.failPut
	}
	cp := make([]byte, len(body))
	copy(cp, body)
	b.objects[key] = Object{Body: cp, ContentType: contentType}
	return nil
}

func (b *MemoryBucket) PublicURL(key string) string {
	return joinURL(b.urlBase, key)
}

func (b *MemoryBucket) SignedURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	return fmt.Sprintf("%s?expires=%d", b.PublicURL(key), b.now().Add(ttl).Unix()), nil
}

// FailPuts makes every later Put return err; nil restores normal behaviour.
func (b *MemoryBucket) FailPuts(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failPut = err
}

// Get returns the object stored under key.
func (b *MemoryBucket) Get(key string) (Object, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	obj, ok := b.objects[key]
	if !ok {
		return Object{}, ErrObjectNotFound
	}
	return obj, nil
}

// Keys lists stored keys in sorted order.
func (b *MemoryBucket) Keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	keys := make([]string, 0, len(b.objects))
	for k := range b.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PutCalls counts Put attempts, failed ones included.
func (b *MemoryBucket) PutCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.puts
}
