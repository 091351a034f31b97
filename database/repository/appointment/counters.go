package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NextAppointmentNumber reserves the next value of the year-scoped sequence
// through an atomic findAndModify $inc upsert. Delegating number assignment
// to the store keeps concurrent bookings from reading the same value, at
// the cost that numbers consumed by failed bookings leave gaps.
func (r *mongoAppointmentRepo) NextAppointmentNumber(ctx context.Context, year int) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": fmt.Sprintf("appointments:%d", year)}
	update := bson.M{"$inc": bson.M{"seq": 1}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int `bson:"seq"`
	}
	if err := r.counterColl.FindOneAndUpdate(ctx, filter, update, opts).Decode(&counter); err != nil {
		return 0, fmt.Errorf("failed to advance appointment counter: %w", err)
	}
	return counter.Seq, nil
}
