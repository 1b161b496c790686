package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "greencurry/internal/domain/booking"
	"greencurry/internal/domain/shared/dates"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection("agg_booking")}
}

func (r *BookingRepository) ByID(ctx context.Context, id string) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrBookingNotFound
		}
		return nil, err
	}
	return doc.toAggregate()
}

func (r *BookingRepository) List(ctx context.Context) ([]*domainbooking.Booking, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domainbooking.Booking
	for cur.Next(ctx) {
		var doc bookingDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		b, err := doc.toAggregate()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, cur.Err()
}

// Create inserts a new booking after checking that no confirmed booking for
// the same room overlaps the stay. Stays are stored as ISO date strings, so
// the half-open overlap test is a plain lexicographic range query.
func (r *BookingRepository) Create(ctx context.Context, b *domainbooking.Booking) error {
	filter := bson.M{
		"room_id":   b.RoomID,
		"status":    string(domainbooking.StatusConfirmed),
		"check_in":  bson.M{"$lt": b.Stay.CheckOut.String()},
		"check_out": bson.M{"$gt": b.Stay.CheckIn.String()},
	}
	n, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return err
	}
	if n > 0 {
		return domainbooking.ErrRoomUnavailable
	}

	doc := newBookingDocument(b)
	doc.Version = 1
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainbooking.ErrDuplicateID
		}
		return err
	}
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrConcurrentUpdate
	}
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainbooking.ErrBookingNotFound
	}
	return nil
}

type bookingDocument struct {
	ID         string `bson:"_id"`
	RoomID     string `bson:"room_id"`
	GuestName  string `bson:"guest_name"`
	GuestEmail string `bson:"guest_email"`
	GuestPhone string `bson:"guest_phone"`
	CheckIn    string `bson:"check_in"`
	CheckOut   string `bson:"check_out"`
	Status     string `bson:"status"`
	Notes      string `bson:"notes"`
	PricePaid  int64  `bson:"price_paid"`
	CreatedAt  int64  `bson:"created_at"`
	UpdatedAt  int64  `bson:"updated_at"`
	Version    int64  `bson:"version"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:         b.ID,
		RoomID:     b.RoomID,
		GuestName:  b.GuestName,
		GuestEmail: b.GuestEmail,
		GuestPhone: b.GuestPhone,
		CheckIn:    b.Stay.CheckIn.String(),
		CheckOut:   b.Stay.CheckOut.String(),
		Status:     string(b.Status),
		Notes:      b.Notes,
		PricePaid:  b.PricePaid,
		CreatedAt:  b.CreatedAt.UnixMilli(),
		UpdatedAt:  b.UpdatedAt.UnixMilli(),
		Version:    b.Version,
	}
}

func (d bookingDocument) toAggregate() (*domainbooking.Booking, error) {
	checkIn, err := dates.Parse(d.CheckIn)
	if err != nil {
		return nil, fmt.Errorf("mongo: booking %s check_in: %w", d.ID, err)
	}
	checkOut, err := dates.Parse(d.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("mongo: booking %s check_out: %w", d.ID, err)
	}
	return &domainbooking.Booking{
		ID:         d.ID,
		RoomID:     d.RoomID,
		GuestName:  d.GuestName,
		GuestEmail: d.GuestEmail,
		GuestPhone: d.GuestPhone,
		Stay:       dates.Range{CheckIn: checkIn, CheckOut: checkOut},
		Status:     domainbooking.Status(d.Status),
		Notes:      d.Notes,
		PricePaid:  d.PricePaid,
		CreatedAt:  timestampToTime(d.CreatedAt),
		UpdatedAt:  timestampToTime(d.UpdatedAt),
		Version:    d.Version,
	}, nil
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

var _ domainbooking.Repository = (*BookingRepository)(nil)
