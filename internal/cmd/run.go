package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/petmart/petmart/internal/auth"
	"github.com/petmart/petmart/internal/config"
	"github.com/petmart/petmart/internal/database"
	"github.com/petmart/petmart/internal/server"
	"github.com/petmart/petmart/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Petmart API server",
	Long: `Start the Petmart API server which provides:
- The shopper-facing catalog and order endpoints
- The admin back-office search listings
- Account signup, signin and profile endpoints`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
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

	fmt.Println("✅ Database connected successfully")

	tokens := auth.NewTokens(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	users := store.NewUsers(db)
	products := store.NewProducts(db)
	orders := store.NewOrders(db, users)

	fmt.Println("⚙️  Setting up server...")
	srv := server.NewServer(db, users, products, orders, tokens)

	fmt.Printf("🌐 Starting server on %s...\n", cfg.Server.Addr)
	if err := srv.Start(cfg.Server.Addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
