package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/petmart/petmart/internal/database"
	"github.com/petmart/petmart/internal/models"
	"github.com/petmart/petmart/internal/search"
)

// UserPageSize is the fixed page size for admin user listings.
const UserPageSize = 5

// UserQuery carries the raw admin list criteria for users. Empty fields
// impose no restriction; AdminStatus is "all"|"true"|"false".
type UserQuery struct {
	ID          string
	Name        string
	Email       string
	MinDate     string
	MaxDate     string
	AdminStatus string
	Page        int
}

// Users is the repository for the users collection.
type Users struct {
	coll *mongo.Collection
}

func NewUsers(db *database.DB) *Users {
	return &Users{coll: db.Collection("users")}
}

// Create inserts a new user after checking that neither the name nor the
// email is already taken. password must already be hashed.
func (u *Users) Create(ctx context.Context, name, email, password string, isAdmin bool) (*models.User, error) {
	err := u.coll.FindOne(ctx, bson.M{
		"$or": bson.A{bson.M{"name": name}, bson.M{"email": email}},
	}).Err()
	if err == nil {
		return nil, ErrConflict
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to check user uniqueness: %w", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		Name:      name,
		Email:     email,
		Password:  password,
		IsAdmin:   isAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	res, err := u.coll.InsertOne(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return user, nil
}

// GetByID fetches one user, returning ErrNotFound when the id is unknown.
func (u *Users) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return u.findOne(ctx, bson.M{"_id": id})
}

func (u *Users) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return u.findOne(ctx, bson.M{"email": email})
}

// GetByName resolves a display name to a single user. Order search uses
// this as the dependent lookup before filtering by owner.
func (u *Users) GetByName(ctx context.Context, name string) (*models.User, error) {
	return u.findOne(ctx, bson.M{"name": name})
}

func (u *Users) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := u.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// ByIDs batch-fetches users keyed by id, for reference expansion.
func (u *Users) ByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	cursor, err := u.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	byID := make(map[primitive.ObjectID]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	return byID, nil
}

// UpdatePassword replaces the stored hash and returns the updated user.
func (u *Users) UpdatePassword(ctx context.Context, id primitive.ObjectID, password string) (*models.User, error) {
	update := bson.M{"$set": bson.M{"password": password, "updatedAt": time.Now().UTC()}}
	res, err := u.coll.UpdateByID(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return u.GetByID(ctx, id)
}

// filter compiles the listing criteria into a store predicate.
func (q UserQuery) filter() bson.M {
	return search.NewBuilder().
		Add("_id", search.ID, q.ID).
		Add("name", search.Exact, q.Name).
		Add("email", search.Exact, q.Email).
		AddRange("createdAt", search.DateRange, q.MinDate, q.MaxDate).
		Add("isAdmin", search.TriState, q.AdminStatus).
		Compile()
}

// Search runs the admin user listing: exact id/name/email, created-date
// range, tri-state admin flag, newest first then admin flag ascending.
func (u *Users) Search(ctx context.Context, q UserQuery) (search.Result[models.User], error) {
	sort := bson.D{{Key: "createdAt", Value: -1}, {Key: "isAdmin", Value: 1}}
	return search.Execute[models.User](ctx, u.coll, q.filter(), sort, q.Page, UserPageSize)
}
