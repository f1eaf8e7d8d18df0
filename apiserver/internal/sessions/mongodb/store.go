package mongodb

import (
	"context"
	"time"

	dida "github.com/2977094657/DidaAPI"
	"github.com/2977094657/DidaAPI/apiserver/internal/mongodb"
	"github.com/2977094657/DidaAPI/apiserver/internal/sessions"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const createIndexTimeout = 5 * time.Second

type store struct {
	*mongodb.BaseStore
	collection *mongo.Collection
}

// NewStore returns a MongoDB-based implementation of the sessions.Store
// interface.
func NewStore(database *mongo.Database) (sessions.Store, error) {
	ctx, cancel :=
		context.WithTimeout(context.Background(), createIndexTimeout)
	defer cancel()
	unique := true
	collection := database.Collection("sessions")
	if _, err := collection.Indexes().CreateMany(
		ctx,
		[]mongo.IndexModel{
			{
				Keys: bson.M{
					"id": 1,
				},
				Options: &options.IndexOptions{
					Unique: &unique,
				},
			},
			// Fast resolution of the current (most recently updated, active)
			// session
			{
				Keys: bson.D{
					{Key: "active", Value: 1},
					{Key: "lastUpdated", Value: -1},
				},
			},
		},
	); err != nil {
		return nil, errors.Wrap(
			err,
			"error adding indexes to sessions collection",
		)
	}
	return &store{
		BaseStore: &mongodb.BaseStore{
			Database: database,
		},
		collection: collection,
	}, nil
}

func (s *store) Upsert(ctx context.Context, session dida.Session) error {
	upsert := true
	if _, err := s.collection.ReplaceOne(
		ctx,
		bson.M{"id": session.ID},
		session,
		&options.ReplaceOptions{Upsert: &upsert},
	); err != nil {
		return errors.Wrapf(err, "error upserting session %q", session.ID)
	}
	return nil
}

func (s *store) Current(ctx context.Context) (dida.Session, error) {
	session := dida.Session{}
	res := s.collection.FindOne(
		ctx,
		bson.M{"active": true},
		&options.FindOneOptions{
			Sort: bson.D{{Key: "lastUpdated", Value: -1}},
		},
	)
	if res.Err() == mongo.ErrNoDocuments {
		return session, dida.NewErrNoSession()
	}
	if res.Err() != nil {
		return session, errors.Wrap(
			res.Err(),
			"error finding current session",
		)
	}
	if err := res.Decode(&session); err != nil {
		return session, errors.Wrap(err, "error decoding session")
	}
	return session, nil
}

func (s *store) Get(ctx context.Context, id string) (dida.Session, error) {
	session := dida.Session{}
	res := s.collection.FindOne(ctx, bson.M{"id": id})
	if res.Err() == mongo.ErrNoDocuments {
		return session, dida.NewErrNotFound("Session", id)
	}
	if res.Err() != nil {
		return session, errors.Wrapf(res.Err(), "error finding session %q", id)
	}
	if err := res.Decode(&session); err != nil {
		return session, errors.Wrap(err, "error decoding session")
	}
	return session, nil
}

func (s *store) Deactivate(ctx context.Context, id string) error {
	res, err := s.collection.UpdateOne(
		ctx,
		bson.M{"id": id},
		bson.M{
			"$set": bson.M{
				"active":      false,
				"lastUpdated": time.Now(),
			},
		},
	)
	if err != nil {
		return errors.Wrapf(err, "error updating session %q", id)
	}
	if res.MatchedCount == 0 {
		return dida.NewErrNotFound("Session", id)
	}
	return nil
}
