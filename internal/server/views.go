package server

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/svcmap/pkg/errors"
	"github.com/matzehuels/svcmap/pkg/layout"
)

// DefaultViewTTL is how long an untouched view survives.
const DefaultViewTTL = 30 * time.Minute

// View is one stateful layout session.
type View struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`

	Engine *layout.Engine `json:"-"`
}

// IsExpired returns true if the view has expired.
func (v *View) IsExpired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}

// Views is an in-memory registry of views. Each access extends a view's
// lifetime by the TTL.
type Views struct {
	mu     sync.Mutex
	views  map[string]*View
	ttl    time.Duration
	cfg    layout.Config
	logger *log.Logger
	now    func() time.Time
}

// NewViews creates a registry whose engines use cfg.
func NewViews(cfg layout.Config, ttl time.Duration, logger *log.Logger) *Views {
	if ttl <= 0 {
		ttl = DefaultViewTTL
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Views{
		views:  make(map[string]*View),
		ttl:    ttl,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Create registers a new view with a fresh engine.
func (vs *Views) Create(defaultSizes bool) *View {
	opts := []layout.Option{layout.WithLogger(vs.logger)}
	if defaultSizes {
		opts = append(opts, layout.WithDefaultSizes())
	}

	now := vs.now()
	v := &View{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(vs.ttl),
		Engine:    layout.New(vs.cfg, opts...),
	}

	vs.mu.Lock()
	vs.views[v.ID] = v
	vs.mu.Unlock()

	vs.logger.Debug("view created", "view", v.ID, "default_sizes", defaultSizes)
	return v
}

// Get returns the view with the given id and extends its lifetime.
func (vs *Views) Get(id string) (*View, error) {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	v, ok := vs.views[id]
	now := vs.now()
	if !ok || v.IsExpired(now) {
		return nil, errors.New(errors.ErrCodeViewNotFound, "view %s not found", id)
	}
	v.ExpiresAt = now.Add(vs.ttl)
	return v, nil
}

// Delete resets the view's engine and drops it.
func (vs *Views) Delete(id string) error {
	vs.mu.Lock()
	v, ok := vs.views[id]
	delete(vs.views, id)
	vs.mu.Unlock()

	if !ok {
		return errors.New(errors.ErrCodeViewNotFound, "view %s not found", id)
	}
	v.Engine.Reset()
	vs.logger.Debug("view deleted", "view", id)
	return nil
}

// Cleanup drops expired views and returns how many were removed.
func (vs *Views) Cleanup() int {
	now := vs.now()

	vs.mu.Lock()
	var expired []*View
	for id, v := range vs.views {
		if v.IsExpired(now) {
			expired = append(expired, v)
			delete(vs.views, id)
		}
	}
	vs.mu.Unlock()

	for _, v := range expired {
		v.Engine.Reset()
	}
	if len(expired) > 0 {
		vs.logger.Debug("expired views removed", "count", len(expired))
	}
	return len(expired)
}

// Len returns the number of registered views.
func (vs *Views) Len() int {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return len(vs.views)
}

// RunCleanup calls Cleanup every interval until ctx is done.
func (vs *Views) RunCleanup(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			vs.Cleanup()
		}
	}
}
