// Command seed fills an empty database with sample customers, products and
// orders. Orders go through the order service so stock and totals follow the
// same rules as the API.
package main

import (
	"context"
	"fmt"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/domain"
	"storefront/internal/logger"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func strPtr(s string) *string { return &s }

var sampleCustomers = []domain.Customer{
	{Name: "John Doe", Email: "john.doe@example.com", Phone: strPtr("555-0101"), Address: strPtr("123 Main St, Springfield")},
	{Name: "Jane Smith", Email: "jane.smith@example.com", Phone: strPtr("555-0102"), Address: strPtr("456 Oak Ave, Riverside")},
	{Name: "Bob Johnson", Email: "bob.johnson@example.com", Phone: strPtr("555-0103"), Address: strPtr("789 Pine Rd, Lakeview")},
	{Name: "Alice Brown", Email: "alice.brown@example.com", Phone: strPtr("555-0104"), Address: strPtr("321 Elm St, Hillcrest")},
}

var sampleProducts = []domain.Product{
	{Name: "Laptop", Description: strPtr("15 inch laptop with 16GB RAM"), Price: decimal.RequireFromString("999.99"), Stock: 10},
	{Name: "Wireless Mouse", Description: strPtr("Ergonomic wireless mouse"), Price: decimal.RequireFromString("29.99"), Stock: 50},
	{Name: "Mechanical Keyboard", Description: strPtr("RGB mechanical keyboard"), Price: decimal.RequireFromString("89.99"), Stock: 25},
	{Name: "Monitor", Description: strPtr("27 inch 4K monitor"), Price: decimal.RequireFromString("349.99"), Stock: 15},
	{Name: "USB-C Hub", Description: strPtr("7-in-1 USB-C hub"), Price: decimal.RequireFromString("49.99"), Stock: 40},
}

func seed(ctx context.Context, store repository.Store, statuses domain.StatusSet, log *zap.Logger) error {
	existing, err := store.Products().List(ctx, repository.Page{Limit: 1})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Info("Database already contains products, skipping seed")
		return nil
	}

	customers := service.NewCustomerService(store, log)
	products := service.NewProductService(store, log)
	orders := service.NewOrderService(store, statuses, log)

	var createdCustomers []*domain.Customer
	for _, c := range sampleCustomers {
		customer := c
		if err := customers.CreateCustomer(ctx, &customer); err != nil {
			return fmt.Errorf("failed to seed customer %s: %w", c.Email, err)
		}
		createdCustomers = append(createdCustomers, &customer)
	}

	var createdProducts []*domain.Product
	for _, p := range sampleProducts {
		product := p
		if err := products.CreateProduct(ctx, &product); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.Name, err)
		}
		createdProducts = append(createdProducts, &product)
	}

	if _, err := orders.CreateOrder(ctx, domain.OrderCreate{
		CustomerID: createdCustomers[0].ID,
		Items: []domain.OrderLine{
			{ProductID: createdProducts[0].ID, Quantity: 1},
			{ProductID: createdProducts[1].ID, Quantity: 2},
		},
	}); err != nil {
		return fmt.Errorf("failed to seed first order: %w", err)
	}

	second, err := orders.CreateOrder(ctx, domain.OrderCreate{
		CustomerID: createdCustomers[1].ID,
		Items: []domain.OrderLine{
			{ProductID: createdProducts[2].ID, Quantity: 1},
			{ProductID: createdProducts[3].ID, Quantity: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to seed second order: %w", err)
	}
	if _, err := orders.UpdateOrderStatus(ctx, second.ID, domain.StatusDelivered); err != nil {
		return fmt.Errorf("failed to deliver second order: %w", err)
	}

	log.Info("Sample data created",
		zap.Int("customers", len(createdCustomers)),
		zap.Int("products", len(createdProducts)),
		zap.Int("orders", 2),
	)
	return nil
}

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	dbService, err := database.New(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer dbService.Close()

	if err := database.RunMigrations(dbService.DB(), cfg.Database.MigrationsDir, log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	store := repository.NewStore(dbService.DB())
	if err := seed(context.Background(), store, domain.NewStatusSet(cfg.Orders.Statuses), log); err != nil {
		log.Fatal("Failed to seed database", zap.Error(err))
	}
}
