package appointmentRepo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"medibook/models"
)

// runInSession executes txnFn inside a Mongo session transaction so the
// appointment write and its audit-log row land atomically: a crash between
// the two can never leave an appointment without its log entry.
func (r *mongoAppointmentRepo) runInSession(ctx context.Context, txnFn func(sc mongo.SessionContext) error) error {
	client := r.apptColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}

func (r *mongoAppointmentRepo) CreateWithLog(ctx context.Context, appt *models.Appointment, logEntry *models.AppointmentLog) error {
	err := r.runInSession(ctx, func(sc mongo.SessionContext) error {
		if _, err := r.apptColl.InsertOne(sc, appt); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrSlotTaken
			}
			return fmt.Errorf("insert appointment failed: %w", err)
		}
		if _, err := r.logColl.InsertOne(sc, logEntry); err != nil {
			return fmt.Errorf("insert appointment log failed: %w", err)
		}
		return nil
	})
	if err == ErrSlotTaken {
		return err
	}
	if err != nil {
		return fmt.Errorf("appointment transaction failed: %w", err)
	}
	return nil
}

func (r *mongoAppointmentRepo) UpdateWithLog(ctx context.Context, appt *models.Appointment, logEntry *models.AppointmentLog) error {
	err := r.runInSession(ctx, func(sc mongo.SessionContext) error {
		res, err := r.apptColl.ReplaceOne(sc, bson.M{"id": appt.ID}, appt)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrSlotTaken
			}
			return fmt.Errorf("update appointment failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return mongo.ErrNoDocuments
		}
		if _, err := r.logColl.InsertOne(sc, logEntry); err != nil {
			return fmt.Errorf("insert appointment log failed: %w", err)
		}
		return nil
	})
	if err == ErrSlotTaken || err == mongo.ErrNoDocuments {
		return err
	}
	if err != nil {
		return fmt.Errorf("appointment transaction failed: %w", err)
	}
	return nil
}
