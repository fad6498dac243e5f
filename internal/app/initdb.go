package app

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/zincstore/zincstore/config"
	"github.com/zincstore/zincstore/internal/domain"
	"go.uber.org/zap"
)

// checkProducts seeds the demo catalog, skipping names that already exist
func (a *Application) checkProducts() {
	today := time.Now().Format(config.DateLayout)
	defaultProducts := []domain.Product{
		{Name: "demo-widget-basic", Price: decimal.RequireFromString("9.99"), Quantity: 100},
		{Name: "demo-widget-pro", Price: decimal.RequireFromString("24.50"), Quantity: 50},
		{Name: "demo-cable-usb", Price: decimal.RequireFromString("4.25"), Quantity: 200},
		{Name: "demo-notebook-a5", Price: decimal.RequireFromString("2.95"), Quantity: 120},
	}

	for _, p := range defaultProducts {
		var count int64
		a.gormDB.Model(&domain.Product{}).Where("name = ?", p.Name).Count(&count)
		if count == 0 {
			p.DateAdded = today
			if err := a.gormDB.Create(&p).Error; err != nil {
				zap.L().Error("failed to create default product", zap.String("name", p.Name), zap.Error(err))
			} else {
				zap.L().Info("initialized default product", zap.String("name", p.Name))
			}
		}
	}
}
