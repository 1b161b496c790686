package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"greencurry/internal/domain/rooms"
)

type RoomRepository struct {
	col *mongo.Collection
}

// NewRoomRepository seeds the room catalog on first start. Existing rooms
// are left untouched so manual price edits survive restarts.
func NewRoomRepository(ctx context.Context, db *mongo.Database, catalog []rooms.Room) (*RoomRepository, error) {
	r := &RoomRepository{col: db.Collection("rooms")}
	for _, room := range catalog {
		filter := bson.M{"_id": room.ID}
		update := bson.M{"$setOnInsert": newRoomDocument(room)}
		if _, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *RoomRepository) List(ctx context.Context) ([]rooms.Room, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []rooms.Room
	for cur.Next(ctx) {
		var doc roomDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toRoom())
	}
	return out, cur.Err()
}

func (r *RoomRepository) ByID(ctx context.Context, id string) (rooms.Room, error) {
	var doc roomDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return rooms.Room{}, rooms.ErrRoomNotFound
		}
		return rooms.Room{}, err
	}
	return doc.toRoom(), nil
}

func (r *RoomRepository) Count(ctx context.Context) (int, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{})
	return int(n), err
}

type roomDocument struct {
	ID             string `bson:"_id"`
	Name           string `bson:"name"`
	Category       string `bson:"category"`
	BasePrice      int64  `bson:"base_price"`
	HasPrivateBath bool   `bson:"has_private_bath"`
	Capacity       int    `bson:"capacity"`
}

func newRoomDocument(room rooms.Room) roomDocument {
	return roomDocument{
		ID:             room.ID,
		Name:           room.Name,
		Category:       string(room.Category),
		BasePrice:      room.BasePrice,
		HasPrivateBath: room.HasPrivateBath,
		Capacity:       room.Capacity,
	}
}

func (d roomDocument) toRoom() rooms.Room {
	return rooms.Room{
		ID:             d.ID,
		Name:           d.Name,
		Category:       rooms.Category(d.Category),
		BasePrice:      d.BasePrice,
		HasPrivateBath: d.HasPrivateBath,
		Capacity:       d.Capacity,
	}
}

var _ rooms.Repository = (*RoomRepository)(nil)
