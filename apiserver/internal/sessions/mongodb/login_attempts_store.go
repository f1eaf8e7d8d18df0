package mongodb

import (
	"context"

	dida "github.com/2977094657/DidaAPI"
	"github.com/2977094657/DidaAPI/apiserver/internal/sessions"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type loginAttemptsStore struct {
	collection *mongo.Collection
}

// NewLoginAttemptsStore returns a MongoDB-based implementation of the
// sessions.LoginAttemptsStore interface. The collection is an append-only
// audit log; nothing in the login flow reads it back.
func NewLoginAttemptsStore(
	database *mongo.Database,
) (sessions.LoginAttemptsStore, error) {
	ctx, cancel :=
		context.WithTimeout(context.Background(), createIndexTimeout)
	defer cancel()
	collection := database.Collection("login-attempts")
	if _, err := collection.Indexes().CreateOne(
		ctx,
		mongo.IndexModel{
			Keys: bson.M{
				"qrKey": 1,
			},
		},
	); err != nil {
		return nil, errors.Wrap(
			err,
			"error adding indexes to login-attempts collection",
		)
	}
	return &loginAttemptsStore{
		collection: collection,
	}, nil
}

func (l *loginAttemptsStore) Create(
	ctx context.Context,
	attempt dida.LoginAttempt,
) error {
	if _, err := l.collection.InsertOne(ctx, attempt); err != nil {
		return errors.Wrapf(
			err,
			"error inserting login attempt for QR key %q",
			attempt.QRKey,
		)
	}
	return nil
}
