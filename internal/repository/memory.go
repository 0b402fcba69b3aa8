package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rotisserie/eris"

	"github.com/lc3t35/GlobalHaven/internal/geo"
	"github.com/lc3t35/GlobalHaven/internal/model"
)

// table keeps rows by id and remembers insertion order
type table[T any] struct {
	rows  map[string]T
	order []string
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: map[string]T{}}
}

func (t *table[T]) put(id string, row T) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = row
}

// newest returns up to limit rows accepted by keep, most recent insert first
func (t *table[T]) newest(keep func(T) bool, limit int) []T {
	limit = limitOrDefault(limit)
	out := make([]T, 0)
	for i := len(t.order) - 1; i >= 0 && len(out) < limit; i-- {
		row := t.rows[t.order[i]]
		if keep(row) {
			out = append(out, row)
		}
	}
	return out
}

func (t *table[T]) count(keep func(T) bool) int64 {
	var n int64
	for _, row := range t.rows {
		if keep(row) {
			n++
		}
	}
	return n
}

// MemoryStore implements Store in process memory. Used when STORE_DRIVER is
// "memory" and by tests.
type MemoryStore struct {
	mu        sync.RWMutex
	users     *table[model.User]
	resources *table[model.Resource]
	messages  *table[model.Message]
	sources   *table[model.WaterSource]
	reports   *table[model.QualityReport]
	plans     *table[model.InfrastructurePlan]
	guides    *table[model.PurificationGuide]
	alerts    *table[model.WaterAlert]
	usage     *table[model.WaterUsage]
	geocodes  map[string]model.GeocodeCacheEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     newTable[model.User](),
		resources: newTable[model.Resource](),
		messages:  newTable[model.Message](),
		sources:   newTable[model.WaterSource](),
		reports:   newTable[model.QualityReport](),
		plans:     newTable[model.InfrastructurePlan](),
		guides:    newTable[model.PurificationGuide](),
		alerts:    newTable[model.WaterAlert](),
		usage:     newTable[model.WaterUsage](),
		geocodes:  map[string]model.GeocodeCacheEntry{},
	}
}

var _ Store = (*MemoryStore)(nil)

func (m *MemoryStore) Close() error { return nil }

func near(q *geo.Query, p model.Location) bool {
	return q == nil || q.BoundingBox().Contains(p)
}

func matches(filter, value string) bool {
	return filter == "" || filter == value
}

func notFound(what string) error {
	return eris.Wrap(ErrNotFound, "failed to get "+what)
}

// Users

func (m *MemoryStore) CreateUser(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users.rows {
		if u.Username == user.Username || u.Email == user.Email {
			return eris.Wrap(ErrDuplicate, "failed to create user")
		}
	}
	m.users.put(user.ID, *user)
	return nil
}

func (m *MemoryStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users.rows[id]
	if !ok {
		return nil, notFound("user")
	}
	return &u, nil
}

func (m *MemoryStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users.rows {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, notFound("user")
}

func (m *MemoryStore) UserExists(_ context.Context, username, email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := m.users.count(func(u model.User) bool {
		return u.Username == username || u.Email == email
	})
	return n > 0, nil
}

func (m *MemoryStore) CountUsers(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.users.count(func(u model.User) bool { return u.IsActive }), nil
}

// Resources

func (m *MemoryStore) CreateResource(_ context.Context, resource *model.Resource) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.resources.put(resource.ID, *resource)
	return nil
}

func (m *MemoryStore) GetResource(_ context.Context, id string) (*model.Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.resources.rows[id]
	if !ok || !r.IsActive {
		return nil, notFound("resource")
	}
	return &r, nil
}

func (m *MemoryStore) UpdateResource(_ context.Context, resource *model.Resource) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.resources.rows[resource.ID]
	if !ok || !current.IsActive || current.UserID != resource.UserID {
		return eris.Wrap(ErrNotFound, "failed to update resource")
	}
	resource.CreatedAt = current.CreatedAt
	m.resources.put(resource.ID, *resource)
	return nil
}

func (m *MemoryStore) DeactivateResource(_ context.Context, id, ownerID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.resources.rows[id]
	if !ok || !r.IsActive || r.UserID != ownerID {
		return eris.Wrap(ErrNotFound, "failed to delete resource")
	}
	r.IsActive = false
	r.UpdatedAt = at
	m.resources.put(id, r)
	return nil
}

func resourceMatcher(filter ResourceFilter) func(model.Resource) bool {
	return func(r model.Resource) bool {
		return r.IsActive &&
			matches(filter.Category, r.Category) &&
			matches(filter.Type, r.Type) &&
			near(filter.Near, r.Location)
	}
}

func (m *MemoryStore) ListResources(_ context.Context, filter ResourceFilter) ([]model.Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.resources.newest(resourceMatcher(filter), filter.Limit), nil
}

func (m *MemoryStore) CountResources(_ context.Context, filter ResourceFilter) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.resources.count(resourceMatcher(filter)), nil
}

func (m *MemoryStore) CountResourcesByCategory(_ context.Context) (map[string]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := map[string]int64{}
	for _, r := range m.resources.rows {
		if r.IsActive {
			out[r.Category]++
		}
	}
	return out, nil
}

// Messages

func (m *MemoryStore) CreateMessage(_ context.Context, message *model.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.messages.put(message.ID, *message)
	return nil
}

func (m *MemoryStore) ListMessagesForUser(_ context.Context, userID string, limit int) ([]model.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.messages.newest(func(msg model.Message) bool {
		return msg.SenderID == userID || msg.ReceiverID == userID
	}, limit), nil
}

func (m *MemoryStore) MarkMessageRead(_ context.Context, id, receiverID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg, ok := m.messages.rows[id]
	if ok && msg.ReceiverID == receiverID {
		msg.IsRead = true
		m.messages.put(id, msg)
	}
	return nil
}

// sortUsageNewestFirst orders by date, latest day first. Dates are
// YYYY-MM-DD so string order is chronological.
func sortUsageNewestFirst(rows []model.WaterUsage) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date > rows[j].Date
	})
}
