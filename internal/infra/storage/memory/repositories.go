// Package memory holds the in-process store adapters. The booking repository
// serializes check-and-insert under one mutex, which is the store-side
// guarantee the pricing engine's occupancy reads rely on.
package memory

import (
	"context"
	"sort"
	"sync"

	domainbooking "greencurry/internal/domain/booking"
	"greencurry/internal/domain/rooms"
)

type RoomRepository struct {
	mu    sync.RWMutex
	items []rooms.Room
}

func NewRoomRepository(catalog []rooms.Room) *RoomRepository {
	return &RoomRepository{items: append([]rooms.Room(nil), catalog...)}
}

func (r *RoomRepository) List(ctx context.Context) ([]rooms.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]rooms.Room(nil), r.items...), nil
}

func (r *RoomRepository) ByID(ctx context.Context, id string) (rooms.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, room := range r.items {
		if room.ID == id {
			return room, nil
		}
	}
	return rooms.Room{}, rooms.ErrRoomNotFound
}

func (r *RoomRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items), nil
}

type BookingRepository struct {
	mu    sync.Mutex
	items map[string]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[string]*domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id string) (*domainbooking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrBookingNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *BookingRepository) List(ctx context.Context) ([]*domainbooking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domainbooking.Booking, 0, len(r.items))
	for _, b := range r.items {
		clone := *b
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Create holds the lock across the overlap check and the insert: the
// availability check a booking passed cannot be invalidated by a concurrent
// writer before the row lands.
func (r *BookingRepository) Create(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[b.ID]; exists {
		return domainbooking.ErrDuplicateID
	}
	if b.Status == domainbooking.StatusConfirmed {
		for _, existing := range r.items {
			if existing.RoomID != b.RoomID || existing.Status != domainbooking.StatusConfirmed {
				continue
			}
			if existing.Stay.Overlaps(b.Stay) {
				return domainbooking.ErrRoomUnavailable
			}
		}
	}
	clone := *b
	clone.Version = 1
	r.items[b.ID] = &clone
	b.Version = 1
	return nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[b.ID]; !ok {
		return domainbooking.ErrBookingNotFound
	}
	clone := *b
	clone.Version = b.Version + 1
	r.items[b.ID] = &clone
	b.Version = clone.Version
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainbooking.ErrBookingNotFound
	}
	delete(r.items, id)
	return nil
}
