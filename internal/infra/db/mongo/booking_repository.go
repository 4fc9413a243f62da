package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "casacueto/internal/domain/booking"
)

var ErrBookingExists = errors.New("mongo: booking already exists")

const bookingsCollection = "bookings"

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection(bookingsCollection)}
}

// EnsureIndexes creates the room lookup index used by ListByRoom.
func (r *BookingRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "room_code", Value: 1}, {Key: "check_in", Value: 1}},
	})
	return err
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	if _, err := r.col.InsertOne(ctx, newBookingDocument(b)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrBookingExists
		}
		return err
	}
	return nil
}

func (r *BookingRepository) ListByRoom(ctx context.Context, room domainbooking.RoomCode) ([]*domainbooking.Booking, error) {
	code := strings.TrimSpace(string(room))
	if code == "" {
		return nil, domainbooking.ErrRoomRequired
	}
	opts := options.Find().SetSort(bson.D{{Key: "check_in", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"room_code": code}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]*domainbooking.Booking, 0)
	for cur.Next(ctx) {
		var doc bookingDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

type bookingDocument struct {
	ID        string `bson:"_id"`
	RoomCode  string `bson:"room_code"`
	Name      string `bson:"name"`
	Email     string `bson:"email"`
	Guests    int    `bson:"guests"`
	CheckIn   int64  `bson:"check_in"`
	CheckOut  int64  `bson:"check_out"`
	CreatedAt int64  `bson:"created_at"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:        string(b.ID),
		RoomCode:  string(b.RoomCode),
		Name:      b.Name,
		Email:     b.Email,
		Guests:    b.Guests,
		CheckIn:   b.CheckIn.UnixMilli(),
		CheckOut:  b.CheckOut.UnixMilli(),
		CreatedAt: b.CreatedAt.UnixMilli(),
	}
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	return &domainbooking.Booking{
		ID:        domainbooking.BookingID(d.ID),
		RoomCode:  domainbooking.RoomCode(d.RoomCode),
		Name:      d.Name,
		Email:     d.Email,
		Guests:    d.Guests,
		CheckIn:   timestampToTime(d.CheckIn),
		CheckOut:  timestampToTime(d.CheckOut),
		CreatedAt: timestampToTime(d.CreatedAt),
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

var _ domainbooking.Repository = (*BookingRepository)(nil)
