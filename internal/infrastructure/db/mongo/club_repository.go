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

const collectionClubs = "clubs"

type ClubRepository struct {
	col *mongo.Collection
}

func NewClubRepository(db *mongo.Database) *ClubRepository {
	return &ClubRepository{col: db.Collection(collectionClubs)}
}

func (r *ClubRepository) Create(ctx context.Context, c *domain.Club) (*domain.Club, error) {
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

func (r *ClubRepository) FindByID(ctx context.Context, id string) (*domain.Club, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c domain.Club
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrClubNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *ClubRepository) List(ctx context.Context, filter ports.ClubFilter) ([]*domain.Club, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Search != "" {
		query["name"] = bson.M{"$regex": filter.Search, "$options": "i"}
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	applyPagination(opts, filter.Page, filter.Limit)

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var clubs []*domain.Club
	if err := cur.All(ctx, &clubs); err != nil {
		return nil, 0, err
	}
	return clubs, total, nil
}

func (r *ClubRepository) Update(ctx context.Context, c *domain.Club) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	c.UpdatedAt = time.Now().UTC()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": c.ID}, c)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrClubNotFound
	}
	return nil
}

func (r *ClubRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrClubNotFound
	}
	return nil
}

// SetAdmin sets or, with an empty accountID, clears the admin back-reference.
func (r *ClubRepository) SetAdmin(ctx context.Context, clubID string, accountID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"club_admin": accountID, "updated_at": time.Now().UTC()}}
	if accountID == "" {
		update = bson.M{
			"$unset": bson.M{"club_admin": ""},
			"$set":   bson.M{"updated_at": time.Now().UTC()},
		}
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": clubID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrClubNotFound
	}
	return nil
}

// AddMember appends the membership entry only while the account is absent
// from the member list, so a double join cannot produce two entries.
func (r *ClubRepository) AddMember(ctx context.Context, clubID string, m domain.ClubMember) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": clubID, "members.account_id": bson.M{"$ne": m.AccountID}},
		bson.M{
			"$push": bson.M{"members": m},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, ferr := r.FindByID(ctx, clubID); ferr != nil {
			return ferr
		}
		return domain.ErrAlreadyMember
	}
	return nil
}

func (r *ClubRepository) SetMemberStatus(ctx context.Context, clubID string, accountID string, status domain.MemberStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": clubID, "members.account_id": accountID},
		bson.M{"$set": bson.M{
			"members.$.status": status,
			"updated_at":       time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrClubNotFound
	}
	return nil
}

func (r *ClubRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "club_admin", Value: 1}}, Options: options.Index().SetSparse(true)},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
