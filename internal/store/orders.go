package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/petmart/petmart/internal/database"
	"github.com/petmart/petmart/internal/models"
	"github.com/petmart/petmart/internal/search"
)

// OrderPageSize is the fixed page size for admin order listings.
const OrderPageSize = 5

// OrderQuery carries the raw admin list criteria for orders. Name triggers
// the dependent owner lookup; PaidStatus and DeliveryStatus are tri-state.
type OrderQuery struct {
	ID             string
	Name           string
	MinDate        string
	MaxDate        string
	MinPrice       string
	MaxPrice       string
	PaidStatus     string
	DeliveryStatus string
	Page           int
}

// Orders is the repository for the orders collection. It holds the user
// repository for the owner lookup and reference expansion.
type Orders struct {
	coll  *mongo.Collection
	users *Users
}

func NewOrders(db *database.DB, users *Users) *Orders {
	return &Orders{coll: db.Collection("orders"), users: users}
}

// Create inserts a placed order for the owning user.
func (o *Orders) Create(ctx context.Context, order models.Order) (*models.Order, error) {
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	res, err := o.coll.InsertOne(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}
	order.ID = res.InsertedID.(primitive.ObjectID)
	return &order, nil
}

// ForUser returns every order owned by the user.
func (o *Orders) ForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	cursor, err := o.coll.Find(ctx, bson.M{"user": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

func (o *Orders) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	if err := o.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}
	return &order, nil
}

// Pay marks the order paid, stamping the payment time and storing the
// gateway result payload.
func (o *Orders) Pay(ctx context.Context, id primitive.ObjectID, result models.PaymentResult) (*models.Order, error) {
	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"isPaid":        true,
		"paidAt":        now,
		"paymentResult": result,
		"updatedAt":     now,
	}}
	return o.applyUpdate(ctx, id, update)
}

// SetDeliveryStatus toggles the delivered flag. "true" stamps the delivery
// time, "false" clears it. Concurrent updates race last-write-wins; there
// is no optimistic locking.
func (o *Orders) SetDeliveryStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	delivered, err := strconv.ParseBool(status)
	if err != nil {
		return nil, fmt.Errorf("invalid delivery status %q", status)
	}

	now := time.Now().UTC()
	var update bson.M
	if delivered {
		update = bson.M{"$set": bson.M{
			"isDelivered": true,
			"deliveredAt": now,
			"updatedAt":   now,
		}}
	} else {
		update = bson.M{
			"$set":   bson.M{"isDelivered": false, "updatedAt": now},
			"$unset": bson.M{"deliveredAt": ""},
		}
	}
	return o.applyUpdate(ctx, id, update)
}

func (o *Orders) applyUpdate(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.Order, error) {
	res, err := o.coll.UpdateByID(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return o.GetByID(ctx, id)
}

// builder assembles the listing criteria that do not depend on the owner
// lookup.
func (q OrderQuery) builder() *search.Builder {
	return search.NewBuilder().
		Add("_id", search.ID, q.ID).
		AddRange("createdAt", search.DateRange, q.MinDate, q.MaxDate).
		AddRange("totalPrice", search.NumberRange, q.MinPrice, q.MaxPrice).
		Add("isPaid", search.TriState, q.PaidStatus).
		Add("isDelivered", search.TriState, q.DeliveryStatus)
}

// Search runs the admin order listing. When a name criterion is present it
// is first resolved to an owning user; if no user matches, the search is
// short-circuited and never executed.
func (o *Orders) Search(ctx context.Context, q OrderQuery) (search.Outcome[models.Order], error) {
	builder := q.builder()

	if q.Name != "" {
		owner, err := o.users.GetByName(ctx, q.Name)
		if errors.Is(err, ErrNotFound) {
			return search.NotRun[models.Order](), nil
		}
		if err != nil {
			return search.NotRun[models.Order](), err
		}
		builder.Condition("user", owner.ID)
	}

	sort := bson.D{{Key: "createdAt", Value: -1}, {Key: "user.name", Value: 1}}
	result, err := search.Execute[models.Order](ctx, o.coll, builder.Compile(), sort, q.Page, OrderPageSize)
	if err != nil {
		return search.NotRun[models.Order](), err
	}
	return search.Ran(result), nil
}

// ExpandOwners attaches the owning user document to each order, replacing
// the bare reference in the output.
func (o *Orders) ExpandOwners(ctx context.Context, orders []models.Order) ([]models.ExpandedOrder, error) {
	ids := make([]primitive.ObjectID, 0, len(orders))
	seen := make(map[primitive.ObjectID]bool, len(orders))
	for _, ord := range orders {
		if !seen[ord.User] {
			seen[ord.User] = true
			ids = append(ids, ord.User)
		}
	}

	owners := map[primitive.ObjectID]*models.User{}
	if len(ids) > 0 {
		var err error
		owners, err = o.users.ByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	expanded := make([]models.ExpandedOrder, len(orders))
	for i, ord := range orders {
		expanded[i] = models.ExpandedOrder{Order: ord, Owner: owners[ord.User]}
	}
	return expanded, nil
}
