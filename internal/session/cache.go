package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type cacheItem struct {
	role     Role
	expireAt time.Time
}

type roleCache struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[uuid.UUID]cacheItem
}

func newRoleCache(ttl time.Duration) *roleCache {
	return &roleCache{
		ttl:   ttl,
		items: make(map[uuid.UUID]cacheItem),
	}
}

func (c *roleCache) set(key uuid.UUID, role Role) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = cacheItem{
		role:     role,
		expireAt: time.Now().Add(c.ttl),
	}
}

func (c *roleCache) get(key uuid.UUID) (Role, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[key]
	if !ok {
		return RoleUnknown, false
	}

	if item.expireAt.Before(time.Now()) {
		delete(c.items, key)

		return RoleUnknown, false
	}

	return item.role, true
}

func (c *roleCache) remove(key uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}
