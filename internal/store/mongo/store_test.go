package mongo

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/HashibulAmin/reward-claim/internal/domain"
)

func TestClaimUpsertUsesServerClockAndLinkOwner(t *testing.T) {
	nc := domain.NewClaim{
		LinkID:     "L1",
		OwnerEmail: "mallory@x.com",
		Form: domain.ClaimForm{
			UserName:       "Jo",
			PickupLocation: "NYC Office",
			PickupNumber:   "5551234567",
			PickupDate:     "2026-02-15",
			PickupTimeSlot: domain.SlotEvening,
		},
		Status: domain.ClaimStatusPending,
	}

	p := claimUpsert("a@x.com", nc)
	require.Len(t, p, 1)
	require.Equal(t, "$set", p[0][0].Key)

	set := p[0][0].Value.(bson.D).Map()
	assert.Equal(t, "a@x.com", set["ownerEmail"])
	assert.Equal(t, "$$NOW", set["claimedAt"])
	assert.Equal(t, "evening", set["pickupTimeSlot"])
	assert.Equal(t, "pending", set["status"])
	assert.Equal(t, "L1", set["linkId"])
}

func TestOwnerFeed(t *testing.T) {
	p := ownerFeed("ownerEmail", "a@x.com")
	require.Len(t, p, 1)
	assert.Equal(t, "$match", p[0][0].Key)
	assert.Equal(t, bson.D{{Key: "fullDocument.ownerEmail", Value: "a@x.com"}}, p[0][0].Value)
}

func TestNotFound(t *testing.T) {
	err := notFound(mongo.ErrNoDocuments, "link", "L1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	boom := errors.New("socket closed")
	err = notFound(boom, "link", "L1")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestClaimDocumentShape(t *testing.T) {
	raw, err := bson.Marshal(domain.Claim{ClaimID: "c1", LinkID: "L1", PickupTimeSlot: domain.SlotMorning})
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, "c1", doc["_id"])
	assert.Equal(t, "morning", doc["pickupTimeSlot"])
	assert.Contains(t, doc, "ownerEmail")
}

func TestLinkGuardBuilders(t *testing.T) {
	assert.Equal(t, bson.M{"_id": "L1", "isActive": true}, activeLinkFilter("L1"))
	assert.Equal(t, bson.M{"$inc": bson.M{"writes": 1}}, linkLockUpdate())
	assert.NotEqual(t, CollectionLinks, CollectionLinkLocks)
}

type sentCommand struct {
	name       string
	collection string
}

// commandLog records every command the client sends.
type commandLog struct {
	mu   sync.Mutex
	cmds []sentCommand
}

func (l *commandLog) started(_ context.Context, e *event.CommandStartedEvent) {
	coll, _ := e.Command.Lookup(e.CommandName).StringValueOK()
	l.mu.Lock()
	l.cmds = append(l.cmds, sentCommand{name: e.CommandName, collection: coll})
	l.mu.Unlock()
}

func (l *commandLog) reset() {
	l.mu.Lock()
	l.cmds = nil
	l.mu.Unlock()
}

func (l *commandLog) to(collection string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var names []string
	for _, c := range l.cmds {
		if c.collection == collection {
			names = append(names, c.name)
		}
	}
	return names
}

// newReplicaSetStore connects to REWARD_TEST_MONGO_URI, which must point at a
// replica set, and uses a throwaway database.
func newReplicaSetStore(t *testing.T) (*Store, *commandLog) {
	t.Helper()
	uri := os.Getenv("REWARD_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("REWARD_TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmds := &commandLog{}
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetMonitor(&event.CommandMonitor{Started: cmds.started}))
	require.NoError(t, err)

	db := "rewardclaim_test_" + primitive.NewObjectID().Hex()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = client.Database(db).Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	s := NewStore(client, db)
	require.NoError(t, s.EnsureIndexes(ctx))
	return s, cmds
}

func TestCreateClaimOnlyReadsLink(t *testing.T) {
	s, cmds := newReplicaSetStore(t)
	ctx := context.Background()

	_, err := s.CreateLink(ctx, domain.ClaimLink{LinkID: "L1", CreatedBy: "a@x.com", IsActive: true, Title: "Gift A"})
	require.NoError(t, err)
	before, err := s.links.FindOne(ctx, bson.M{"_id": "L1"}).Raw()
	require.NoError(t, err)

	cmds.reset()
	claim, err := s.CreateClaim(ctx, domain.NewClaim{
		LinkID: "L1",
		Form: domain.ClaimForm{
			UserName:       "Jo",
			PickupLocation: "NYC Office",
			PickupNumber:   "5551234567",
			PickupDate:     "2026-02-15",
			PickupTimeSlot: domain.SlotMorning,
		},
		Status: domain.ClaimStatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claim.OwnerEmail)

	for _, name := range cmds.to(CollectionLinks) {
		assert.Equal(t, "find", name, "claim path sent a write to %s", CollectionLinks)
	}
	assert.Contains(t, cmds.to(CollectionLinkLocks), "update")

	after, err := s.links.FindOne(ctx, bson.M{"_id": "L1"}).Raw()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCreateClaimAfterDeactivation(t *testing.T) {
	s, _ := newReplicaSetStore(t)
	ctx := context.Background()

	_, err := s.CreateLink(ctx, domain.ClaimLink{LinkID: "L1", CreatedBy: "a@x.com", IsActive: true})
	require.NoError(t, err)
	require.NoError(t, s.DeactivateLink(ctx, "L1"))
	assert.ErrorIs(t, s.DeactivateLink(ctx, "missing"), domain.ErrNotFound)

	_, err = s.CreateClaim(ctx, domain.NewClaim{LinkID: "L1", Status: domain.ClaimStatusPending})
	assert.ErrorIs(t, err, domain.ErrLinkExpired)

	_, err = s.CreateClaim(ctx, domain.NewClaim{LinkID: "missing", Status: domain.ClaimStatusPending})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	claims, err := s.ListClaims(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Empty(t, claims)
}
