package cache

import (
	"container/list"
	"sync"
	"time"
)

type entry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
}

// TTLCache 는 항목별 만료 시간과 최대 크기를 가진 LRU 캐시다. 동시 사용에 안전하다.
type TTLCache[K comparable, V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int
	order   *list.List
	items   map[K]*list.Element
	now     func() time.Time
}

// NewTTLCache 는 TTLCache 를 생성한다. 0 이하 값은 최소값으로 보정한다.
func NewTTLCache[K comparable, V any](maxSize int, ttl time.Duration) *TTLCache[K, V] {
	return &TTLCache[K, V]{
		ttl:     max(ttl, time.Second),
		maxSize: max(maxSize, 1),
		order:   list.New(),
		items:   make(map[K]*list.Element),
		now:     time.Now,
	}
}

// Get 은 만료되지 않은 값을 반환하고 최근 사용으로 표시한다.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.lookup(key)
	if !ok {
		var zero V
		return zero, false
	}
	return ent.value, true
}

// Set 은 값을 저장하고 만료 시간을 갱신한다.
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.lookup(key); ok {
		ent.value = value
		ent.expiresAt = c.now().Add(c.ttl)
		return
	}
	c.insert(key, value)
}

// GetOrCreate 는 살아 있는 값을 반환하거나, 없으면 create 결과를 저장해 반환한다.
// 조회된 항목의 만료 시간은 연장된다.
func (c *TTLCache[K, V]) GetOrCreate(key K, create func() V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.lookup(key); ok {
		ent.expiresAt = c.now().Add(c.ttl)
		return ent.value
	}
	value := create()
	c.insert(key, value)
	return value
}

// Len 은 저장된 항목 수를 반환한다. 만료됐지만 아직 정리되지 않은 항목을 포함한다.
func (c *TTLCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *TTLCache[K, V]) lookup(key K) (*entry[K, V], bool) {
	element, ok := c.items[key]
	if !ok {
		return nil, false
	}
	ent := element.Value.(*entry[K, V])
	if c.now().After(ent.expiresAt) {
		c.removeElement(element)
		return nil, false
	}
	c.order.MoveToFront(element)
	return ent, true
}

func (c *TTLCache[K, V]) insert(key K, value V) {
	element := c.order.PushFront(&entry[K, V]{key: key, value: value, expiresAt: c.now().Add(c.ttl)})
	c.items[key] = element
	for len(c.items) > c.maxSize {
		c.removeElement(c.order.Back())
	}
}

func (c *TTLCache[K, V]) removeElement(element *list.Element) {
	c.order.Remove(element)
	delete(c.items, element.Value.(*entry[K, V]).key)
}
