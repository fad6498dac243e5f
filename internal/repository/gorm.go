package repository

import (
	"context"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/zincstore/zincstore/internal/domain"
	"gorm.io/gorm"
)

// GormLedger is the GORM implementation of Ledger
type GormLedger struct {
	db *gorm.DB
}

// NewGormLedger creates a ledger backed by db
func NewGormLedger(db *gorm.DB) *GormLedger {
	return &GormLedger{db: db}
}

func (l *GormLedger) Products() ProductRepository {
	return &GormProductRepository{db: l.db}
}

func (l *GormLedger) Sales() SaleRepository {
	return &GormSaleRepository{db: l.db}
}

func (l *GormLedger) Expenses() ExpenseRepository {
	return &GormExpenseRepository{db: l.db}
}

func (l *GormLedger) Transaction(ctx context.Context, fn func(tx Ledger) error) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormLedger(tx))
	})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// likeFilter applies a case-insensitive substring match on column. % and _ in
// pattern match literally. SQLite's LOWER() folds ASCII only, so a non-ASCII
// pattern is not applied in SQL and the second result asks the caller to
// filter with foldMatch instead.
func likeFilter(db *gorm.DB, column, pattern string) (*gorm.DB, bool) {
	if pattern == "" {
		return db, false
	}
	escaped := likeEscaper.Replace(pattern)
	if strings.EqualFold(db.Dialector.Name(), "postgres") {
		return db.Where(column+` ILIKE ? ESCAPE '\'`, "%"+escaped+"%"), false
	}
	if !isASCII(pattern) {
		return db, true
	}
	return db.Where("LOWER("+column+`) LIKE ? ESCAPE '\'`, "%"+strings.ToLower(escaped)+"%"), false
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// foldMatch keeps the items whose field contains pattern under Unicode case folding
func foldMatch[T any](items []T, pattern string, field func(T) string) []T {
	pattern = strings.ToLower(pattern)
	matched := items[:0]
	for _, item := range items {
		if strings.Contains(strings.ToLower(field(item)), pattern) {
			matched = append(matched, item)
		}
	}
	return matched
}

// GormProductRepository is the GORM implementation of ProductRepository
type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) Create(ctx context.Context, product *domain.Product) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(product).Error, "create product")
}

func (r *GormProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(domain.ErrNotFound, "product %d", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get product %d", id)
	}
	return &product, nil
}

func (r *GormProductRepository) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(domain.ErrNotFound, "product %q", name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get product %q", name)
	}
	return &product, nil
}

func (r *GormProductRepository) Restock(ctx context.Context, id int64, quantity int, price decimal.Decimal, photoPath string) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", quantity),
			"price":      price,
			"photo_path": photoPath,
		})
	if result.Error != nil {
		return errors.Wrapf(result.Error, "restock product %d", id)
	}
	if result.RowsAffected == 0 {
		return errors.Wrapf(domain.ErrNotFound, "product %d", id)
	}
	return nil
}

func (r *GormProductRepository) DecrementStock(ctx context.Context, id int64, amount int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ? AND quantity >= ?", id, amount).
		Update("quantity", gorm.Expr("quantity - ?", amount))
	if result.Error != nil {
		return false, errors.Wrapf(result.Error, "decrement stock of product %d", id)
	}
	return result.RowsAffected == 1, nil
}

func (r *GormProductRepository) Search(ctx context.Context, pattern string) ([]*domain.Product, error) {
	var products []*domain.Product
	query, fold := likeFilter(r.db.WithContext(ctx), "name", pattern)
	if err := query.Order("id ASC").Find(&products).Error; err != nil {
		return nil, errors.Wrap(err, "search products")
	}
	if fold {
		products = foldMatch(products, pattern, func(p *domain.Product) string { return p.Name })
	}
	return products, nil
}

func (r *GormProductRepository) List(ctx context.Context, page, pageSize int) ([]*domain.Product, int64, error) {
	var products []*domain.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Product{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count products")
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("id ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&products).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "list products")
	}
	return products, total, nil
}

// GormSaleRepository is the GORM implementation of SaleRepository
type GormSaleRepository struct {
	db *gorm.DB
}

func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

func (r *GormSaleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(sale).Error, "create sale")
}

func (r *GormSaleRepository) ListByDay(ctx context.Context, day string) ([]*domain.Sale, error) {
	var sales []*domain.Sale
	err := r.db.WithContext(ctx).
		Where("sale_date LIKE ?", day+"%").
		Order("id ASC").
		Find(&sales).Error
	return sales, errors.Wrapf(err, "list sales of %s", day)
}

func (r *GormSaleRepository) Search(ctx context.Context, pattern string) ([]*domain.Sale, error) {
	var sales []*domain.Sale
	query, fold := likeFilter(r.db.WithContext(ctx), "product_name", pattern)
	if err := query.Order("id ASC").Find(&sales).Error; err != nil {
		return nil, errors.Wrap(err, "search sales")
	}
	if fold {
		sales = foldMatch(sales, pattern, func(s *domain.Sale) string { return s.ProductName })
	}
	return sales, nil
}

func (r *GormSaleRepository) ListAll(ctx context.Context) ([]*domain.Sale, error) {
	var sales []*domain.Sale
	err := r.db.WithContext(ctx).Order("id ASC").Find(&sales).Error
	return sales, errors.Wrap(err, "list sales")
}

func (r *GormSaleRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&domain.Sale{}).Count(&total).Error
	return total, errors.Wrap(err, "count sales")
}

// GormExpenseRepository is the GORM implementation of ExpenseRepository
type GormExpenseRepository struct {
	db *gorm.DB
}

func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

func (r *GormExpenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(expense).Error, "create expense")
}

func (r *GormExpenseRepository) ListByDay(ctx context.Context, day string) ([]*domain.Expense, error) {
	var expenses []*domain.Expense
	err := r.db.WithContext(ctx).
		Where("expense_date LIKE ?", day+"%").
		Order("id ASC").
		Find(&expenses).Error
	return expenses, errors.Wrapf(err, "list expenses of %s", day)
}

func (r *GormExpenseRepository) Search(ctx context.Context, pattern string) ([]*domain.Expense, error) {
	var expenses []*domain.Expense
	query, fold := likeFilter(r.db.WithContext(ctx), "description", pattern)
	if err := query.Order("id ASC").Find(&expenses).Error; err != nil {
		return nil, errors.Wrap(err, "search expenses")
	}
	if fold {
		expenses = foldMatch(expenses, pattern, func(e *domain.Expense) string { return e.Description })
	}
	return expenses, nil
}

func (r *GormExpenseRepository) ListAll(ctx context.Context) ([]*domain.Expense, error) {
	var expenses []*domain.Expense
	err := r.db.WithContext(ctx).Order("id ASC").Find(&expenses).Error
	return expenses, errors.Wrap(err, "list expenses")
}
