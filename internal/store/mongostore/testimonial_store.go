// Package mongostore keeps testimonials in a MongoDB collection.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tutorhub/tutorhub-backend/internal/store"
	"github.com/tutorhub/tutorhub-backend/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var _ store.TestimonialStore = (*TestimonialStore)(nil)

type testimonialDocument struct {
	ID                  primitive.ObjectID `bson:"_id"`
	Name                string             `bson:"name"`
	Quote               string             `bson:"quote"`
	Designation         string             `bson:"designation"`
	ImageURL            string             `bson:"imageUrl"`
	CreatedAt           time.Time          `bson:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt"`
	DeletionRequestedAt *time.Time         `bson:"deletionRequestedAt,omitempty"`
}

func (d *testimonialDocument) toTestimonial() *types.Testimonial {
	return &types.Testimonial{
		ID:                  d.ID.Hex(),
		Name:                d.Name,
		Quote:               d.Quote,
		Designation:         types.Designation(d.Designation),
		ImageURL:            d.ImageURL,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
		DeletionRequestedAt: d.DeletionRequestedAt,
	}
}

// TestimonialStore implements store.TestimonialStore on a single collection.
type TestimonialStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewTestimonialStore creates a store over coll.
func NewTestimonialStore(coll *mongo.Collection) *TestimonialStore {
	return &TestimonialStore{
		coll: coll,
		now:  time.Now,
	}
}

// EnsureIndexes creates the indexes used by list and reconcile queries.
func (s *TestimonialStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("createdAt_desc_id_desc"),
		},
		{
			Keys:    bson.D{{Key: "deletionRequestedAt", Value: 1}},
			Options: options.Index().SetName("deletionRequestedAt").SetSparse(true),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create testimonial indexes: %w", err)
	}
	return nil
}

// FindAll returns live testimonials, newest first.
func (s *TestimonialStore) FindAll(ctx context.Context) ([]*types.Testimonial, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{"deletionRequestedAt": nil}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list testimonials: %w", err)
	}
	return decodeAll(ctx, cursor)
}

// FindByID retrieves a testimonial by its hex ObjectID.
func (s *TestimonialStore) FindByID(ctx context.Context, id string) (*types.Testimonial, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, store.ErrNotFound
	}

	var doc testimonialDocument
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get testimonial: %w", err)
	}
	return doc.toTestimonial(), nil
}

// Insert creates a testimonial with a fresh ObjectID and timestamps.
func (s *TestimonialStore) Insert(ctx context.Context, t *types.Testimonial) (*types.Testimonial, error) {
	// BSON datetimes carry millisecond precision
	now := s.now().UTC().Truncate(time.Millisecond)
	doc := testimonialDocument{
		ID:          primitive.NewObjectID(),
		Name:        t.Name,
		Quote:       t.Quote,
		Designation: string(t.Designation),
		ImageURL:    t.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to insert testimonial: %w", err)
	}
	return doc.toTestimonial(), nil
}

// DeleteByID permanently removes a testimonial.
func (s *TestimonialStore) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return store.ErrNotFound
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete testimonial: %w", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// MarkForDeletion records the deletion request. $min keeps the earliest mark on retries.
func (s *TestimonialStore) MarkForDeletion(ctx context.Context, id string, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return store.ErrNotFound
	}

	update := bson.M{
		"$min": bson.M{"deletionRequestedAt": at.UTC()},
		"$set": bson.M{"updatedAt": s.now().UTC()},
	}
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to mark testimonial for deletion: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// FindMarkedForDeletion lists testimonials whose deletion started at or before cutoff.
func (s *TestimonialStore) FindMarkedForDeletion(ctx context.Context, cutoff time.Time) ([]*types.Testimonial, error) {
	opts := options.Find().SetSort(bson.D{{Key: "deletionRequestedAt", Value: 1}})
	cursor, err := s.coll.Find(ctx, bson.M{"deletionRequestedAt": bson.M{"$lte": cutoff.UTC()}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list testimonials marked for deletion: %w", err)
	}
	return decodeAll(ctx, cursor)
}

// Ping checks connectivity to the primary.
func (s *TestimonialStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, readpref.Primary())
}

func decodeAll(ctx context.Context, cursor *mongo.Cursor) ([]*types.Testimonial, error) {
	defer cursor.Close(ctx)

	testimonials := make([]*types.Testimonial, 0)
	for cursor.Next(ctx) {
		var doc testimonialDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode testimonial: %w", err)
		}
		testimonials = append(testimonials, doc.toTestimonial())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating testimonials: %w", err)
	}
	return testimonials, nil
}
