package studyplan

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Registry keeps one Controller per UI session. Idle sessions expire after ttl.
type Registry struct {
	planner Planner
	ttl     time.Duration
	items   *cache.Cache
}

func NewRegistry(planner Planner, ttl, cleanupInterval time.Duration) *Registry {
	return &Registry{
		planner: planner,
		ttl:     ttl,
		items:   cache.New(ttl, cleanupInterval),
	}
}

// Get returns the controller for key, creating it on first use.
// Every access extends the session's expiry.
func (r *Registry) Get(key string) *Controller {
	if v, ok := r.items.Get(key); ok {
		c := v.(*Controller)
		r.items.Set(key, c, cache.DefaultExpiration)
		return c
	}

	c := NewController(r.planner)
	if err := r.items.Add(key, c, cache.DefaultExpiration); err != nil {
		// Lost a race with a concurrent Get for the same key.
		if v, ok := r.items.Get(key); ok {
			return v.(*Controller)
		}
		r.items.Set(key, c, cache.DefaultExpiration)
	}
	return c
}

// Lookup returns the controller for key without creating one.
func (r *Registry) Lookup(key string) (*Controller, bool) {
	v, ok := r.items.Get(key)
	if !ok {
		return nil, false
	}
	return v.(*Controller), true
}

func (r *Registry) Delete(key string) {
	r.items.Delete(key)
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	return r.items.ItemCount()
}
