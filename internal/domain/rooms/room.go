package rooms

import (
	"context"
	"errors"
)

var ErrRoomNotFound = errors.New("rooms: room not found")

type Category string

const (
	CategoryEnsuite  Category = "ensuite"
	CategoryStandard Category = "standard"
)

// Room is an immutable catalog entry created at startup. Prices are whole
// currency-agnostic units (THB in the seed catalog).
type Room struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Category       Category `json:"category"`
	BasePrice      int64    `json:"base_price"`
	HasPrivateBath bool     `json:"has_private_bath"`
	Capacity       int      `json:"capacity"`
}

type Repository interface {
	List(ctx context.Context) ([]Room, error)
	ByID(ctx context.Context, id string) (Room, error)
	// Count is the total inventory size the pricing engine divides by.
	Count(ctx context.Context) (int, error)
}

// DefaultCatalog is the fixed nine-room hostel inventory.
func DefaultCatalog() []Room {
	return []Room{
		{ID: "101", Name: "Green Orchid (101)", Category: CategoryEnsuite, BasePrice: 450, HasPrivateBath: true, Capacity: 1},
		{ID: "102", Name: "Orange Zest (102)", Category: CategoryEnsuite, BasePrice: 450, HasPrivateBath: true, Capacity: 1},
		{ID: "103", Name: "Red Chili (103)", Category: CategoryEnsuite, BasePrice: 450, HasPrivateBath: true, Capacity: 1},
		{ID: "201", Name: "Bamboo Suite (201)", Category: CategoryStandard, BasePrice: 375, Capacity: 1},
		{ID: "202", Name: "Curry Leaf (202)", Category: CategoryStandard, BasePrice: 375, Capacity: 1},
		{ID: "203", Name: "Lemongrass (203)", Category: CategoryStandard, BasePrice: 375, Capacity: 1},
		{ID: "204", Name: "Tamarind (204)", Category: CategoryStandard, BasePrice: 375, Capacity: 1},
		{ID: "205", Name: "Galangal (205)", Category: CategoryStandard, BasePrice: 375, Capacity: 1},
		{ID: "206", Name: "Coconut (206)", Category: CategoryStandard, BasePrice: 375, Capacity: 1},
	}
}
