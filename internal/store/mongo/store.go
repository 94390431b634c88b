// Package mongo is the MongoDB backend for links and claims.
//
// Subscriptions use change streams, so the deployment must be a replica set
// or sharded cluster.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/HashibulAmin/reward-claim/internal/domain"
	"github.com/HashibulAmin/reward-claim/internal/logger"
)

const (
	// CollectionLinks holds one document per claim link, keyed by link ID
	CollectionLinks = "claimLinks"
	// CollectionClaims holds one document per claim
	CollectionClaims = "claims"
	// CollectionLinkLocks holds a write counter per link. Claims and
	// deactivations of the same link both bump it inside their transaction.
	CollectionLinkLocks = "claimLinkLocks"
)

// errNamespaceExists is the server code for creating a collection twice.
const errNamespaceExists = 48

// Store handles MongoDB operations for links and claims
type Store struct {
	client *mongo.Client
	links  *mongo.Collection
	claims *mongo.Collection
	locks  *mongo.Collection
}

// Connect opens a client and waits for the primary to answer.
func Connect(ctx context.Context, uri string, timeout time.Duration, log logger.Logger) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	log.Info("mongo connection established")
	return client, nil
}

// NewStore creates a store on database. The caller owns the client.
func NewStore(client *mongo.Client, database string) *Store {
	db := client.Database(database)
	return &Store{
		client: client,
		links:  db.Collection(CollectionLinks),
		claims: db.Collection(CollectionClaims),
		locks:  db.Collection(CollectionLinkLocks),
	}
}

// EnsureIndexes creates the owner/time indexes the list queries sort on and
// the link lock collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	err := s.locks.Database().CreateCollection(ctx, CollectionLinkLocks)
	var cmdErr mongo.CommandError
	if err != nil && !(errors.As(err, &cmdErr) && cmdErr.Code == errNamespaceExists) {
		return fmt.Errorf("failed to create %s: %w", CollectionLinkLocks, err)
	}
	if _, err := s.links.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdBy", Value: 1}, {Key: "createdAt", Value: -1}},
	}); err != nil {
		return fmt.Errorf("failed to index %s: %w", CollectionLinks, err)
	}
	if _, err := s.claims.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ownerEmail", Value: 1}, {Key: "claimedAt", Value: -1}},
	}); err != nil {
		return fmt.Errorf("failed to index %s: %w", CollectionClaims, err)
	}
	return nil
}

// Ping reports whether the primary answers
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// serverTime reads the primary's clock
func (s *Store) serverTime(ctx context.Context) (time.Time, error) {
	var hello struct {
		LocalTime time.Time `bson:"localTime"`
	}
	err := s.client.Database("admin").RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read server time: %w", err)
	}
	return hello.LocalTime.UTC(), nil
}

// inTransaction runs fn in a session transaction, retried by the driver on
// write conflicts.
func (s *Store) inTransaction(ctx context.Context, fn func(sc mongo.SessionContext) (interface{}, error)) (interface{}, error) {
	session, err := s.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)
	return session.WithTransaction(ctx, fn)
}

// lockLink bumps the link's lock document. Two transactions locking the same
// link conflict, so one of them retries and sees the other's result.
func (s *Store) lockLink(sc mongo.SessionContext, id string) error {
	_, err := s.locks.UpdateOne(sc, bson.M{"_id": id}, linkLockUpdate(), options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to lock link %s: %w", id, err)
	}
	return nil
}

func linkLockUpdate() bson.M {
	return bson.M{"$inc": bson.M{"writes": 1}}
}

func activeLinkFilter(id string) bson.M {
	return bson.M{"_id": id, "isActive": true}
}

func notFound(err error, what, id string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s %s: %w", what, id, domain.ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

func newestFirst(field string) *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: field, Value: -1}})
}
