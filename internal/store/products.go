package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/petmart/petmart/internal/database"
	"github.com/petmart/petmart/internal/models"
	"github.com/petmart/petmart/internal/search"
)

// ProductPageSize is the fixed page size for the admin product listing and
// the default for catalog search.
const ProductPageSize = 3

// ProductInput is the create-side payload for a product.
type ProductInput struct {
	Name         string
	Slug         string
	Brand        string
	Category     string
	Description  string
	Image        string
	Price        float64
	CountInStock int
	Rating       float64
	NumReviews   int
}

// AdminProductQuery carries the raw back-office list criteria for products.
type AdminProductQuery struct {
	ID       string
	Name     string
	Brand    string
	Category string
	MinDate  string
	MaxDate  string
	MinPrice string
	MaxPrice string
	Page     int
}

// CatalogQuery carries the shopper-facing search criteria. Query, Category
// and Rating accept "all" to remove the constraint; Price is a "min-max"
// token; Order selects the sort.
type CatalogQuery struct {
	Query    string
	Category string
	Price    string
	Rating   string
	Order    string
	Page     int
	PageSize int
}

// Products is the repository for the products collection.
type Products struct {
	coll *mongo.Collection
}

func NewProducts(db *database.DB) *Products {
	return &Products{coll: db.Collection("products")}
}

// Create validates and inserts a catalog entry. The name/slug uniqueness
// check runs first; only then are the field constraints collected into a
// ValidationError listing every violation.
func (p *Products) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	err := p.coll.FindOne(ctx, bson.M{
		"$or": bson.A{bson.M{"name": in.Name}, bson.M{"slug": in.Slug}},
	}).Err()
	if err == nil {
		return nil, ErrConflict
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to check product uniqueness: %w", err)
	}

	if invalid := validateProduct(in); invalid != nil {
		return nil, invalid
	}

	now := time.Now().UTC()
	product := &models.Product{
		Name:         in.Name,
		Slug:         in.Slug,
		Brand:        in.Brand,
		Category:     in.Category,
		Description:  in.Description,
		Image:        in.Image,
		Price:        in.Price,
		CountInStock: in.CountInStock,
		Rating:       in.Rating,
		NumReviews:   in.NumReviews,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	res, err := p.coll.InsertOne(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}
	product.ID = res.InsertedID.(primitive.ObjectID)
	return product, nil
}

// validateProduct collects every violated field constraint. Checks run only
// after the uniqueness pre-check has passed.
func validateProduct(in ProductInput) *ValidationError {
	var problems []string
	if in.Price <= 0 {
		problems = append(problems, "Invalid Price")
	}
	if in.CountInStock < 0 {
		problems = append(problems, "Invalid Stock Count")
	}
	if in.Rating < 0 || in.Rating > 5 {
		problems = append(problems, "Invalid Rating")
	}
	if in.NumReviews <= 0 {
		problems = append(problems, "Invalid Review Count")
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// All returns the full catalog, unpaginated.
func (p *Products) All(ctx context.Context) ([]models.Product, error) {
	cursor, err := p.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (p *Products) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	return p.findOne(ctx, bson.M{"_id": id})
}

func (p *Products) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return p.findOne(ctx, bson.M{"slug": slug})
}

func (p *Products) findOne(ctx context.Context, filter bson.M) (*models.Product, error) {
	var product models.Product
	if err := p.coll.FindOne(ctx, filter).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}
	return &product, nil
}

// Categories lists the distinct category values across the catalog.
func (p *Products) Categories(ctx context.Context) ([]string, error) {
	values, err := p.coll.Distinct(ctx, "category", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	categories := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			categories = append(categories, s)
		}
	}
	return categories, nil
}

// filter compiles the back-office criteria: exact id, substring
// name/brand/category, created-date range, numeric price range. Both price
// bounds parse as numbers.
func (q AdminProductQuery) filter() bson.M {
	return search.NewBuilder().
		Add("_id", search.ID, q.ID).
		Add("name", search.Substring, q.Name).
		Add("brand", search.Substring, q.Brand).
		Add("category", search.Substring, q.Category).
		AddRange("createdAt", search.DateRange, q.MinDate, q.MaxDate).
		AddRange("price", search.NumberRange, q.MinPrice, q.MaxPrice).
		Compile()
}

// AdminSearch runs the back-office product listing, newest first.
func (p *Products) AdminSearch(ctx context.Context, q AdminProductQuery) (search.Result[models.Product], error) {
	sort := bson.D{{Key: "createdAt", Value: -1}}
	return search.Execute[models.Product](ctx, p.coll, q.filter(), sort, q.Page, ProductPageSize)
}

// filter compiles the shopper-facing criteria. "all" values remove the
// constraint; the price token is "min-max".
func (q CatalogQuery) filter() bson.M {
	minPrice, maxPrice := splitPriceToken(q.Price)
	return search.NewBuilder().
		Add("name", search.Substring, allToEmpty(q.Query)).
		Add("category", search.Exact, allToEmpty(q.Category)).
		AddRange("price", search.NumberRange, minPrice, maxPrice).
		Add("rating", search.MinNumber, allToEmpty(q.Rating)).
		Compile()
}

// CatalogSearch runs the shopper-facing product search with its selectable
// sort order.
func (p *Products) CatalogSearch(ctx context.Context, q CatalogQuery) (search.Result[models.Product], error) {
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = ProductPageSize
	}
	return search.Execute[models.Product](ctx, p.coll, q.filter(), catalogSort(q.Order), q.Page, pageSize)
}

func catalogSort(order string) bson.D {
	switch order {
	case "featured":
		return bson.D{{Key: "featured", Value: -1}}
	case "lowest":
		return bson.D{{Key: "price", Value: 1}}
	case "highest":
		return bson.D{{Key: "price", Value: -1}}
	case "toprated":
		return bson.D{{Key: "rating", Value: 1}}
	case "newest":
		return bson.D{{Key: "createdAt", Value: -1}}
	default:
		return bson.D{{Key: "_id", Value: -1}}
	}
}

func allToEmpty(s string) string {
	if s == "all" {
		return ""
	}
	return s
}

// splitPriceToken parses the "min-max" price token; anything else yields an
// empty range, which the builder drops.
func splitPriceToken(price string) (string, string) {
	if price == "" || price == "all" {
		return "", ""
	}
	parts := strings.SplitN(price, "-", 2)
	if len(parts) != 2 {
		return "", ""
	}
	return parts[0], parts[1]
}
