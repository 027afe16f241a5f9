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

const collectionAccounts = "accounts"

type AccountRepository struct {
	col *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{col: db.Collection(collectionAccounts)}
}

// Create inserts a new account document.
func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if a.ID == "" {
		a.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.col.InsertOne(ctx, a); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAccountExists
		}
		return nil, err
	}
	return a, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// FindByUsernameOrEmail matches either identifier; empty arguments are
// excluded from the query.
func (r *AccountRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.Account, error) {
	var or []bson.M
	if username != "" {
		or = append(or, bson.M{"username": username})
	}
	if email != "" {
		or = append(or, bson.M{"email": email})
	}
	if len(or) == 0 {
		return nil, domain.ErrAccountNotFound
	}
	return r.findOne(ctx, bson.M{"$or": or})
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.Account
	if err := r.col.FindOne(ctx, filter).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

// List returns a page of accounts matching filter and the total count.
func (r *AccountRepository) List(ctx context.Context, filter ports.AccountFilter) ([]*domain.Account, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Role != "" {
		query["role"] = filter.Role
	}
	if filter.IsActive != nil {
		query["is_active"] = *filter.IsActive
	}
	if filter.Search != "" {
		query["$or"] = []bson.M{
			{"name": bson.M{"$regex": filter.Search, "$options": "i"}},
			{"username": bson.M{"$regex": filter.Search, "$options": "i"}},
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

	var accounts []*domain.Account
	if err := cur.All(ctx, &accounts); err != nil {
		return nil, 0, err
	}
	return accounts, total, nil
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// SetRole writes the role and its derived permission vector in one update.
func (r *AccountRepository) SetRole(ctx context.Context, id string, role domain.Role, perms domain.Permissions) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{
		"role":        role,
		"permissions": perms,
		"updated_at":  time.Now().UTC(),
	}})
}

// SetPassword writes the hash and rewrites the derived vector in one update.
func (r *AccountRepository) SetPassword(ctx context.Context, id string, hash string, perms domain.Permissions) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{
		"password_hash": hash,
		"permissions":   perms,
		"updated_at":    time.Now().UTC(),
	}})
}

func (r *AccountRepository) SetActive(ctx context.Context, id string, active bool) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"is_active": active, "updated_at": time.Now().UTC()}})
}

func (r *AccountRepository) Unlock(ctx context.Context, id string) error {
	return r.updateOne(ctx, id, bson.M{
		"$set":   bson.M{"is_locked": false, "login_attempts": 0},
		"$unset": bson.M{"lock_until": ""},
	})
}

// RecordFailedLogin increments the attempt counter and applies the lock in
// the same single-document update (aggregation-pipeline update), so two
// concurrent failures cannot race the counter or drop the lock.
func (r *AccountRepository) RecordFailedLogin(ctx context.Context, id string, threshold int, lockFor time.Duration, now time.Time) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	nextAttempts := bson.D{{Key: "$add", Value: bson.A{
		bson.D{{Key: "$ifNull", Value: bson.A{"$login_attempts", 0}}}, 1,
	}}}
	locked := bson.D{{Key: "$gte", Value: bson.A{nextAttempts, threshold}}}

	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "login_attempts", Value: nextAttempts},
			{Key: "is_locked", Value: locked},
			{Key: "lock_until", Value: bson.D{{Key: "$cond", Value: bson.A{
				locked, now.Add(lockFor), "$lock_until",
			}}}},
		}}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var a domain.Account
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ClearLoginFailures resets the counter and lock and stamps last_login.
func (r *AccountRepository) ClearLoginFailures(ctx context.Context, id string, lastLogin time.Time) error {
	return r.updateOne(ctx, id, bson.M{
		"$set":   bson.M{"login_attempts": 0, "is_locked": false, "last_login": lastLogin},
		"$unset": bson.M{"lock_until": ""},
	})
}

// SetAssignedClub pins or (with empty clubID) clears the club assignment.
func (r *AccountRepository) SetAssignedClub(ctx context.Context, id string, clubID string) error {
	if clubID == "" {
		return r.updateOne(ctx, id, bson.M{"$unset": bson.M{"assigned_club": ""}})
	}
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"assigned_club": clubID}})
}

func (r *AccountRepository) AddJoinedClub(ctx context.Context, id string, clubID string) error {
	return r.updateOne(ctx, id, bson.M{"$addToSet": bson.M{"joined_clubs": clubID}})
}

// AddVotedElection is $addToSet so retries stay idempotent.
func (r *AccountRepository) AddVotedElection(ctx context.Context, id string, electionID string) error {
	return r.updateOne(ctx, id, bson.M{"$addToSet": bson.M{"voted_elections": electionID}})
}

// CountEligibleVoters snapshots active accounts holding one of the roles.
func (r *AccountRepository) CountEligibleVoters(ctx context.Context, roles []domain.Role) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{
		"role":      bson.M{"$in": roles},
		"is_active": true,
	})
}

func (r *AccountRepository) updateOne(ctx context.Context, id string, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// EnsureIndexes creates the unique identity indexes.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "role", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// applyPagination translates 1-based page/limit into skip/limit options.
func applyPagination(opts *options.FindOptions, page, limit int) {
	if limit <= 0 {
		return
	}
	if page < 1 {
		page = 1
	}
	opts.SetSkip(int64((page - 1) * limit)).SetLimit(int64(limit))
}
