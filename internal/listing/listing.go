// Package listing merges records created locally with one page of records
// fetched from the upstream API and presents them as a single paginated
// collection. Local records always sort first.
package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/pagination"
	"github.com/angelmondragon/storefront/pkg/storage"
)

// State tracks the remote fetch lifecycle.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

// Params bundles the dependencies of a Listing.
type Params[T any] struct {
	// Name labels log lines, e.g. "posts".
	Name   string
	Key    string
	Store  storage.Store
	Source Source[T]
	Logger *logger.Logger
	Clock  func() time.Time
}

// Listing is safe for concurrent use. loadMu serialises remote fetches so a
// fetch and the page read that follows it see the same remote page.
type Listing[T Entity[T]] struct {
	loadMu sync.Mutex
	mu     sync.RWMutex
	name   string
	key    string
	store  storage.Store
	source Source[T]
	logg   *logger.Logger
	now    func() time.Time

	lastID      int
	local       []T
	remote      []T
	remoteTotal int
	state       State
	lastErr     error
	// loadedPage and loadedSize identify the remote page currently held.
	loadedPage int
	loadedSize int
}

// New builds a Listing. Call LoadLocal before serving requests.
func New[T Entity[T]](p Params[T]) (*Listing[T], error) {
	if p.Store == nil {
		return nil, fmt.Errorf("storage required")
	}
	if p.Source == nil {
		return nil, fmt.Errorf("remote source required")
	}
	if strings.TrimSpace(p.Key) == "" {
		return nil, fmt.Errorf("storage key required")
	}
	logg := p.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	clock := p.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Listing[T]{
		name:   p.Name,
		key:    p.Key,
		store:  p.Store,
		source: p.Source,
		logg:   logg,
		now:    clock,
		local:  []T{},
		remote: []T{},
		state:  StateIdle,
	}, nil
}

// LoadLocal reads the local partition from storage. A missing or unreadable
// value yields an empty partition.
func (l *Listing[T]) LoadLocal(ctx context.Context) ([]T, error) {
	var stored []Record[T]
	found, err := storage.LoadJSON(ctx, l.store, l.key, &stored)
	if errors.Is(err, storage.ErrCorrupt) {
		logCtx := l.logg.WithFields(l.logg.WithStorageKey(ctx, l.key), map[string]any{"listing": l.name})
		l.logg.Warn(logCtx, "stored local records unreadable, starting empty")
		found, err = false, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load local "+l.name)
	}

	items := make([]T, 0, len(stored))
	if found {
		for _, rec := range stored {
			items = append(items, rec.Item)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.local = items
	for _, it := range items {
		if it.EntityID() > l.lastID {
			l.lastID = it.EntityID()
		}
	}
	return append([]T(nil), items...), nil
}

// Load fetches one remote page, replacing the previously held page along
// with any in-memory edits made to it.
func (l *Listing[T]) Load(ctx context.Context, page, pageSize int) error {
	l.loadMu.Lock()
	defer l.loadMu.Unlock()
	return l.fetch(ctx, pagination.NormalizePage(page), pageSize)
}

// LoadPage returns page of local ++ remote and the combined total as one
// consistent snapshot. The remote page is fetched only when it is not the
// one already held or refresh is set, so in-memory remote edits and deletes
// stay visible until the page changes.
func (l *Listing[T]) LoadPage(ctx context.Context, page, pageSize int, refresh bool) ([]Record[T], int, error) {
	page = pagination.NormalizePage(page)

	l.loadMu.Lock()
	defer l.loadMu.Unlock()

	if refresh || !l.holds(page, pageSize) {
		if err := l.fetch(ctx, page, pageSize); err != nil {
			return nil, 0, err
		}
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.pageLocked(page, pageSize), l.remoteTotal + len(l.local), nil
}

func (l *Listing[T]) holds(page, pageSize int) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state == StateReady && l.loadedPage == page && l.loadedSize == pageSize
}

// fetch requires loadMu.
func (l *Listing[T]) fetch(ctx context.Context, page, pageSize int) error {
	l.mu.Lock()
	l.state = StateLoading
	l.lastErr = nil
	l.mu.Unlock()

	res, err := l.source.Fetch(ctx, page, pageSize)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.state = StateError
		l.lastErr = err
		return err
	}
	l.remote = append([]T{}, res.Items...)
	l.remoteTotal = res.Total
	l.loadedPage, l.loadedSize = page, pageSize
	l.state = StateReady
	return nil
}

// Add stores item as a new local record with a fresh id and places it first.
func (l *Listing[T]) Add(ctx context.Context, item T) (Record[T], error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	prevID := l.lastID
	item = item.WithEntityID(l.nextID())
	next := append([]T{item}, l.local...)
	if err := l.persist(ctx, next); err != nil {
		l.lastID = prevID
		return Record[T]{}, err
	}
	l.local = next
	return Record[T]{Item: item, Local: true}, nil
}

// Edit replaces the record with the same id in the partition rec.Local
// names. Remote edits only change the loaded page; nothing is sent upstream.
func (l *Listing[T]) Edit(ctx context.Context, rec Record[T]) (Record[T], error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := rec.Item.EntityID()
	if rec.Local {
		i := indexOf(l.local, id)
		if i < 0 {
			return Record[T]{}, l.notFound(id)
		}
		next := append([]T(nil), l.local...)
		next[i] = rec.Item
		if err := l.persist(ctx, next); err != nil {
			return Record[T]{}, err
		}
		l.local = next
		return rec, nil
	}

	i := indexOf(l.remote, id)
	if i < 0 {
		return Record[T]{}, l.notFound(id)
	}
	l.remote[i] = rec.Item
	return rec, nil
}

// Delete removes a local record when one has the id. Otherwise it asks the
// upstream API to delete and, on success, trims the loaded page. The remote
// total only drops when the record was on that page.
func (l *Listing[T]) Delete(ctx context.Context, id int) error {
	l.mu.Lock()
	if i := indexOf(l.local, id); i >= 0 {
		defer l.mu.Unlock()
		next := append(append([]T(nil), l.local[:i]...), l.local[i+1:]...)
		if err := l.persist(ctx, next); err != nil {
			return err
		}
		l.local = next
		return nil
	}
	l.mu.Unlock()

	if err := l.source.Delete(ctx, id); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if i := indexOf(l.remote, id); i >= 0 {
		l.remote = append(l.remote[:i], l.remote[i+1:]...)
		if l.remoteTotal > 0 {
			l.remoteTotal--
		}
	}
	return nil
}

// Find looks id up in both partitions, local first.
func (l *Listing[T]) Find(id int) (Record[T], bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i := indexOf(l.local, id); i >= 0 {
		return Record[T]{Item: l.local[i], Local: true}, true
	}
	if i := indexOf(l.remote, id); i >= 0 {
		return Record[T]{Item: l.remote[i]}, true
	}
	return Record[T]{}, false
}

// Page returns slice [(page-1)*pageSize, page*pageSize) of local ++ remote.
// Only one remote page is ever held, so pages past it come back short.
func (l *Listing[T]) Page(page, pageSize int) []Record[T] {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.pageLocked(page, pageSize)
}

func (l *Listing[T]) pageLocked(page, pageSize int) []Record[T] {
	merged := make([]Record[T], 0, len(l.local)+len(l.remote))
	for _, it := range l.local {
		merged = append(merged, Record[T]{Item: it, Local: true})
	}
	for _, it := range l.remote {
		merged = append(merged, Record[T]{Item: it})
	}
	start, end := pagination.Bounds(page, pageSize, len(merged))
	return merged[start:end]
}

// Local returns a copy of the local partition.
func (l *Listing[T]) Local() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]T(nil), l.local...)
}

// TotalCount is the server-reported remote total plus the local records.
func (l *Listing[T]) TotalCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.remoteTotal + len(l.local)
}

func (l *Listing[T]) TotalPages(pageSize int) int {
	return pagination.TotalPages(l.TotalCount(), pageSize)
}

// State returns the fetch state and, in StateError, the failure.
func (l *Listing[T]) State() (State, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state, l.lastErr
}

// nextID derives ids from the wall clock in milliseconds, bumping past the
// last issued id so two adds in the same millisecond stay unique.
func (l *Listing[T]) nextID() int {
	id := int(l.now().UnixMilli())
	if id <= l.lastID {
		id = l.lastID + 1
	}
	l.lastID = id
	return id
}

func (l *Listing[T]) persist(ctx context.Context, items []T) error {
	records := make([]Record[T], 0, len(items))
	for _, it := range items {
		records = append(records, Record[T]{Item: it, Local: true})
	}
	if err := storage.SaveJSON(ctx, l.store, l.key, records); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save local "+l.name)
	}
	return nil
}

func (l *Listing[T]) notFound(id int) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("%s record %d not found", l.name, id))
}

func indexOf[T Entity[T]](items []T, id int) int {
	for i, it := range items {
		if it.EntityID() == id {
			return i
		}
	}
	return -1
}
