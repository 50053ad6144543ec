package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/petmart/petmart/internal/config"
	"github.com/petmart/petmart/internal/database"
	"github.com/petmart/petmart/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample users and products",
	Long: `Populate the database with the sample storefront data: an admin and
a regular account plus a handful of catalog products.

Existing users and products are removed first, so this is only meant for
development databases.`,
	RunE: seedData,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

type seedProduct struct {
	name         string
	slug         string
	category     string
	image        string
	price        float64
	countInStock int
	brand        string
	rating       float64
	numReviews   int
	description  string
}

var seedProducts = []seedProduct{
	{"Tabby Cat 1", "tabby-cat-1", "Cat", "/images/p1.JPG", 120, 2, "Tabby", 3.0, 5, "brown tabby cat"},
	{"White Kitten 1", "white-kitten-1", "Kitten", "/images/p2.JPG", 1020, 1, "White", 3.6, 20, "white kitten"},
	{"White Kitten 2", "white-kitten-2", "Kitten", "/images/p3.JPG", 600, 2, "White", 4.0, 50, "white kitten"},
	{"Black Cat 1", "black-cat-1", "Cat", "/images/p4.JPG", 220, 0, "Black", 4.5, 20, "Black cat"},
}

func seedData(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	fmt.Println("📝 Loading configuration...")
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println("🔌 Connecting to database...")
	db, err := database.NewConnection(ctx, &cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close(context.Background())

	fmt.Println("🧹 Clearing users and products...")
	if err := clearCollections(ctx, db); err != nil {
		return err
	}

	users := store.NewUsers(db)
	products := store.NewProducts(db)

	fmt.Println("👤 Seeding accounts...")
	hash, err := bcrypt.GenerateFromPassword([]byte("123123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}
	for _, account := range []struct {
		name, email string
		isAdmin     bool
	}{
		{"admin", "admin@example.com", true},
		{"user", "user@example.com", false},
	} {
		if _, err := users.Create(ctx, account.name, account.email, string(hash), account.isAdmin); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", account.name, err)
		}
		// Keep the creation timestamps distinct so the default sort order
		// is stable.
		time.Sleep(5 * time.Millisecond)
	}

	fmt.Println("🐱 Seeding products...")
	for _, p := range seedProducts {
		_, err := products.Create(ctx, store.ProductInput{
			Name:         p.name,
			Slug:         p.slug,
			Category:     p.category,
			Image:        p.image,
			Price:        p.price,
			CountInStock: p.countInStock,
			Brand:        p.brand,
			Rating:       p.rating,
			NumReviews:   p.numReviews,
			Description:  p.description,
		})
		if err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.slug, err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	fmt.Println("✅ Seed complete")
	return nil
}

func clearCollections(ctx context.Context, db *database.DB) error {
	for _, name := range []string{"users", "products"} {
		if err := db.Collection(name).Drop(ctx); err != nil {
			return fmt.Errorf("failed to drop %s: %w", name, err)
		}
	}
	return nil
}
