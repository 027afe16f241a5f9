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

const collectionComplaints = "complaints"

type ComplaintRepository struct {
	col *mongo.Collection
}

func NewComplaintRepository(db *mongo.Database) *ComplaintRepository {
	return &ComplaintRepository{col: db.Collection(collectionComplaints)}
}

func (r *ComplaintRepository) Create(ctx context.Context, c *domain.Complaint) (*domain.Complaint, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if c.ID == "" {
		c.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.col.InsertOne(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ComplaintRepository) FindByID(ctx context.Context, id string) (*domain.Complaint, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c domain.Complaint
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrComplaintNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *ComplaintRepository) List(ctx context.Context, filter ports.ComplaintFilter) ([]*domain.Complaint, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if len(filter.Types) > 0 {
		query["complaint_type"] = bson.M{"$in": filter.Types}
	}
	if len(filter.Statuses) > 0 {
		query["status"] = bson.M{"$in": filter.Statuses}
	}
	if filter.SubmittedBy != "" {
		query["submitted_by"] = filter.SubmittedBy
	}
	if filter.Resolvable != "" {
		query["can_be_resolved_by"] = filter.Resolvable
	}
	if filter.OpenOnly {
		query["status"] = bson.M{"$in": []domain.ComplaintStatus{
			domain.ComplaintSubmitted, domain.ComplaintUnderReview,
		}}
	}
	if filter.Search != "" {
		query["$or"] = []bson.M{
			{"title": bson.M{"$regex": filter.Search, "$options": "i"}},
			{"case_id": bson.M{"$regex": filter.Search, "$options": "i"}},
		}
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	applyPagination(opts, filter.Page, filter.Limit)

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var complaints []*domain.Complaint
	if err := cur.All(ctx, &complaints); err != nil {
		return nil, 0, err
	}
	return complaints, total, nil
}

// AddResponse appends to the thread; when assignTo is set the same update
// assigns the complaint and promotes submitted to under_review.
func (r *ComplaintRepository) AddResponse(ctx context.Context, id string, response domain.ComplaintResponse, assignTo string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	if assignTo != "" {
		set["assigned_to"] = assignTo
		set["status"] = domain.ComplaintUnderReview
	}
	filter := bson.M{"_id": id}
	if assignTo != "" {
		filter["status"] = domain.ComplaintSubmitted
	}

	res, err := r.col.UpdateOne(ctx, filter, bson.M{
		"$push": bson.M{"responses": response},
		"$set":  set,
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if assignTo != "" {
			// Status moved on concurrently; still record the response.
			return r.AddResponse(ctx, id, response, "")
		}
		return domain.ErrComplaintNotFound
	}
	return nil
}

func (r *ComplaintRepository) Assign(ctx context.Context, id string, assignTo string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"assigned_to": assignTo, "updated_at": time.Now().UTC()}}
	if _, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": domain.ComplaintSubmitted},
		bson.M{"$set": bson.M{
			"assigned_to": assignTo,
			"status":      domain.ComplaintUnderReview,
			"updated_at":  time.Now().UTC(),
		}},
	); err != nil {
		return err
	}
	// Already past submitted: keep the assignment, leave the status alone.
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrComplaintNotFound
	}
	return nil
}

func (r *ComplaintRepository) SetType(ctx context.Context, id string, t domain.ComplaintType, resolvers []domain.Role) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"complaint_type":     t,
		"can_be_resolved_by": resolvers,
		"updated_at":         time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrComplaintNotFound
	}
	return nil
}

// Resolve is conditional on the complaint not already being resolved or
// closed, so provenance is recorded exactly once even under a double submit.
func (r *ComplaintRepository) Resolve(ctx context.Context, id string, resolvedBy string, rt domain.ResolutionType, notes string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{
			"_id":    id,
			"status": bson.M{"$in": []domain.ComplaintStatus{domain.ComplaintSubmitted, domain.ComplaintUnderReview}},
		},
		bson.M{"$set": bson.M{
			"status":           domain.ComplaintResolved,
			"resolved_by":      resolvedBy,
			"resolution_type":  rt,
			"resolution_notes": notes,
			"resolved_at":      at,
			"updated_at":       at,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, ferr := r.FindByID(ctx, id); ferr != nil {
			return ferr
		}
		return domain.ErrComplaintAlreadyResolved
	}
	return nil
}

func (r *ComplaintRepository) Close(ctx context.Context, id string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": bson.M{"$ne": domain.ComplaintClosed}},
		bson.M{"$set": bson.M{
			"status":     domain.ComplaintClosed,
			"closed_at":  at,
			"updated_at": at,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, ferr := r.FindByID(ctx, id); ferr != nil {
			return ferr
		}
		return domain.ErrComplaintClosed
	}
	return nil
}

func (r *ComplaintRepository) AddDocument(ctx context.Context, id string, doc domain.ComplaintDocument) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"documents": doc},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrComplaintNotFound
	}
	return nil
}

func (r *ComplaintRepository) Stats(ctx context.Context, types []domain.ComplaintType) (*ports.ComplaintStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	base := bson.M{}
	if len(types) > 0 {
		base["complaint_type"] = bson.M{"$in": types}
	}

	stats := &ports.ComplaintStats{}
	var err error
	if stats.Total, err = r.col.CountDocuments(ctx, base); err != nil {
		return nil, err
	}
	byStatus := map[domain.ComplaintStatus]*int64{
		domain.ComplaintSubmitted:   &stats.Submitted,
		domain.ComplaintUnderReview: &stats.UnderReview,
		domain.ComplaintResolved:    &stats.Resolved,
		domain.ComplaintClosed:      &stats.Closed,
	}
	for status, dst := range byStatus {
		query := bson.M{"status": status}
		for k, v := range base {
			query[k] = v
		}
		if *dst, err = r.col.CountDocuments(ctx, query); err != nil {
			return nil, err
		}
	}
	return stats, nil
}

func (r *ComplaintRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "case_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "complaint_type", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "submitted_by", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
