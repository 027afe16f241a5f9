package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dbu-council/council-system/internal/core/domain"
	"github.com/dbu-council/council-system/internal/core/ports"
)

const collectionElections = "elections"

type ElectionRepository struct {
	col *mongo.Collection
}

func NewElectionRepository(db *mongo.Database) *ElectionRepository {
	return &ElectionRepository{col: db.Collection(collectionElections)}
}

func (r *ElectionRepository) Create(ctx context.Context, e *domain.Election) (*domain.Election, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if e.ID == "" {
		e.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.col.InsertOne(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *ElectionRepository) FindByID(ctx context.Context, id string) (*domain.Election, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var e domain.Election
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrElectionNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *ElectionRepository) List(ctx context.Context, filter ports.ElectionFilter) ([]*domain.Election, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.PublicOnly {
		query["is_public"] = true
	}
	if filter.Search != "" {
		query["$or"] = []bson.M{
			{"title": bson.M{"$regex": filter.Search, "$options": "i"}},
			{"description": bson.M{"$regex": filter.Search, "$options": "i"}},
		}
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: -1}})
	applyPagination(opts, filter.Page, filter.Limit)

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var elections []*domain.Election
	if err := cur.All(ctx, &elections); err != nil {
		return nil, 0, err
	}
	return elections, total, nil
}

func (r *ElectionRepository) Update(ctx context.Context, e *domain.Election) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	e.UpdatedAt = time.Now().UTC()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": e.ID}, e)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrElectionNotFound
	}
	return nil
}

func (r *ElectionRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrElectionNotFound
	}
	return nil
}

// UpdateStatus persists a derived status transition. The guard on the
// current value keeps a stale writer from resurrecting a cancelled election.
func (r *ElectionRepository) UpdateStatus(ctx context.Context, id string, status domain.ElectionStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": bson.M{"$ne": domain.ElectionCancelled}},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
	)
	return err
}

// CastVote is the single conditional write the voting path rides on: the
// filter admits the document only while the voter is absent from the ledger,
// the clock is inside [start, end) and the candidate exists, and the update
// appends the ledger record and bumps both counters. A concurrent duplicate
// therefore loses the filter, not a counter increment.
func (r *ElectionRepository) CastVote(ctx context.Context, electionID string, record domain.VoteRecord, now time.Time) (*domain.Election, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id":            electionID,
		"status":         bson.M{"$ne": domain.ElectionCancelled},
		"start_date":     bson.M{"$lte": now},
		"end_date":       bson.M{"$gt": now},
		"voters.account": bson.M{"$ne": record.Account},
		"candidates.id":  record.CandidateID,
	}
	update := bson.M{
		"$push": bson.M{
			"voters":              record,
			"candidates.$.voters": record.Account,
		},
		"$inc": bson.M{
			"candidates.$.votes": 1,
			"total_votes":        1,
		},
		"$set": bson.M{"updated_at": now},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var e domain.Election
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&e)
	if err == nil {
		return &e, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	// The condition missed; re-read to report which clause failed.
	current, ferr := r.FindByID(ctx, electionID)
	if ferr != nil {
		return nil, ferr
	}
	switch {
	case current.HasVoted(record.Account):
		return nil, domain.ErrAlreadyVoted
	case current.Candidate(record.CandidateID) == nil:
		return nil, domain.ErrCandidateNotFound
	default:
		return nil, domain.ErrElectionNotActive
	}
}

// PublishResults flips the flag once the election has completed.
func (r *ElectionRepository) PublishResults(ctx context.Context, id string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"results_published": true, "updated_at": at}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrElectionNotFound
	}
	return nil
}

// RefreshStatuses reconciles stored statuses against the clock in two bulk
// updates: upcoming elections whose window has opened become active, and
// active or upcoming elections whose window has closed become completed.
func (r *ElectionRepository) RefreshStatuses(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	activated, err := r.col.UpdateMany(ctx,
		bson.M{
			"status":     domain.ElectionUpcoming,
			"start_date": bson.M{"$lte": now},
			"end_date":   bson.M{"$gt": now},
		},
		bson.M{"$set": bson.M{"status": domain.ElectionActive, "updated_at": now}},
	)
	if err != nil {
		return 0, err
	}

	completed, err := r.col.UpdateMany(ctx,
		bson.M{
			"status":   bson.M{"$in": []domain.ElectionStatus{domain.ElectionUpcoming, domain.ElectionActive}},
			"end_date": bson.M{"$lte": now},
		},
		bson.M{"$set": bson.M{"status": domain.ElectionCompleted, "updated_at": now}},
	)
	if err != nil {
		return activated.ModifiedCount, err
	}
	return activated.ModifiedCount + completed.ModifiedCount, nil
}

func (r *ElectionRepository) Stats(ctx context.Context) (*ports.ElectionStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	stats := &ports.ElectionStats{}
	var err error
	if stats.Total, err = r.col.CountDocuments(ctx, bson.M{}); err != nil {
		return nil, err
	}
	byStatus := map[domain.ElectionStatus]*int64{
		domain.ElectionUpcoming:  &stats.Upcoming,
		domain.ElectionActive:    &stats.Active,
		domain.ElectionCompleted: &stats.Completed,
		domain.ElectionCancelled: &stats.Cancelled,
	}
	for status, dst := range byStatus {
		if *dst, err = r.col.CountDocuments(ctx, bson.M{"status": status}); err != nil {
			return nil, err
		}
	}

	cur, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total_votes", Value: bson.D{{Key: "$sum", Value: "$total_votes"}}},
		}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var agg []struct {
		TotalVotes int64 `bson:"total_votes"`
	}
	if err := cur.All(ctx, &agg); err != nil {
		return nil, err
	}
	if len(agg) > 0 {
		stats.TotalVotes = agg[0].TotalVotes
	}
	return stats, nil
}

func (r *ElectionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "end_date", Value: 1}}},
		{Keys: bson.D{{Key: "start_date", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
