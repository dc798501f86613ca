package bootstrap

import (
	"context"
	"errors"

	"storefront/models"
	repositories "storefront/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed populates an empty database with an admin account and a starter
// catalog. Safe to run on every startup; it only writes when tables are
// empty.
func Seed(ctx context.Context, userRepo repositories.UserRepository, productRepo repositories.ProductRepository, logger *zap.Logger) error {
	if err := seedAdmin(ctx, userRepo, logger); err != nil {
		return err
	}
	return seedProducts(ctx, productRepo, logger)
}

func seedAdmin(ctx context.Context, userRepo repositories.UserRepository, logger *zap.Logger) error {
	_, err := userRepo.FindByEmail(ctx, "admin@storefront.local")
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123!"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:     "Admin",
		Email:    "admin@storefront.local",
		Password: string(hashed),
		Role:     "ADMIN",
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return err
	}

	logger.Info("Seeded admin account", zap.String("email", admin.Email))
	return nil
}

func seedProducts(ctx context.Context, productRepo repositories.ProductRepository, logger *zap.Logger) error {
	count, err := productRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	starter := []models.Product{
		{Name: "Basmati Rice 5kg", Price: 12.50, Stock: 40, Category: "Grains", Description: "Long grain aromatic rice"},
		{Name: "Sunflower Oil 1L", Price: 3.20, Stock: 60, Category: "Oils", Description: "Refined cooking oil"},
		{Name: "Toor Dal 1kg", Price: 2.80, Stock: 50, Category: "Pulses", Description: "Split pigeon peas"},
		{Name: "Whole Wheat Flour 10kg", Price: 9.00, Stock: 25, Category: "Grains", Description: "Stone ground atta"},
		{Name: "Tea Leaves 500g", Price: 4.50, Stock: 35, Category: "Beverages", Description: "Strong Assam blend"},
		{Name: "Sugar 1kg", Price: 1.10, Stock: 80, Category: "Essentials", Description: "Fine grain white sugar"},
		{Name: "Iodized Salt 1kg", Price: 0.60, Stock: 90, Category: "Essentials", Description: "Free flowing table salt"},
		{Name: "Red Chilli Powder 200g", Price: 1.90, Stock: 45, Category: "Spices", Description: "Hot ground chillies"},
	}

	for i := range starter {
		if err := productRepo.Create(ctx, &starter[i]); err != nil {
			return err
		}
	}

	logger.Info("Seeded starter catalog", zap.Int("products", len(starter)))
	return nil
}
