package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vetcollars/storefront/internal/domain/catalog"
	"github.com/vetcollars/storefront/internal/domain/shared"
	"github.com/vetcollars/storefront/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds multiple products by their IDs. Missing IDs are skipped.
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []int64) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}

	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainProducts(rows), nil
}

// Search runs a storefront catalog query
func (r *GormProductRepository) Search(ctx context.Context, filter catalog.SearchFilter) ([]catalog.Product, bool, error) {
	f := filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.ProductModel{})

	if f.Query != "" {
		op := likeOperator(r.db)
		pattern := containsPattern(f.Query)
		query = query.Where(
			fmt.Sprintf(`name %[1]s ? ESCAPE '\' OR description %[1]s ? ESCAPE '\'`, op),
			pattern, pattern,
		)
	}
	switch f.Category {
	case "":
	case catalog.CategoryNew:
		query = query.Where("is_new = ?", true)
	default:
		query = query.Where("category = ?", f.Category)
	}
	if f.MinPrice != nil {
		query = query.Where("retail_price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		query = query.Where("retail_price <= ?", *f.MaxPrice)
	}

	var rows []models.ProductModel
	err := query.Order(searchOrder(f.Sort)).
		Offset(f.Offset).
		Limit(f.Limit + 1).
		Find(&rows).Error
	if err != nil {
		return nil, false, err
	}

	hasMore := len(rows) > f.Limit
	if hasMore {
		rows = rows[:f.Limit]
	}
	return toDomainProducts(rows), hasMore, nil
}

func searchOrder(sort catalog.SortOption) string {
	switch sort {
	case catalog.SortPriceAsc:
		return "retail_price ASC, id ASC"
	case catalog.SortPriceDesc:
		return "retail_price DESC, id DESC"
	case catalog.SortNewest:
		return "created_at DESC, id DESC"
	default:
		return "views_count DESC, id DESC"
	}
}

// FindAll finds all products matching the back office filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var rows []models.ProductModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ProductModel{}), filter)

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainProducts(rows), nil
}

// Count counts products matching the back office filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyConditions(r.db.WithContext(ctx).Model(&models.ProductModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Categories returns the distinct non-empty categories
func (r *GormProductRepository) Categories(ctx context.Context) ([]string, error) {
	categories := []string{}
	err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("category <> ''").
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// Save inserts a new product or updates an existing one. The view counter
// is never overwritten by an update.
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	now := time.Now()

	if product.IsNew() {
		return insertProduct(r.db.WithContext(ctx), product, now)
	}

	model.UpdatedAt = now
	result := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("id = ?", product.ID).
		Select("*").
		Omit("id", "created_at", "views_count").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	product.UpdatedAt = now
	return nil
}

// SaveAll inserts products inside a single transaction. IDs are copied back
// only after commit.
func (r *GormProductRepository) SaveAll(ctx context.Context, products []*catalog.Product) error {
	if len(products) == 0 {
		return nil
	}
	now := time.Now()
	inserted := make([]catalog.Product, len(products))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, p := range products {
			if !p.IsNew() {
				return fmt.Errorf("product %d already exists", p.ID)
			}
			inserted[i] = *p
			if err := insertProduct(tx, &inserted[i], now); err != nil {
				return fmt.Errorf("insert %q: %w", p.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	for i, p := range products {
		p.BaseEntity = inserted[i].BaseEntity
	}
	return nil
}

func insertProduct(db *gorm.DB, product *catalog.Product, now time.Time) error {
	model := models.ProductModelFromDomain(product)
	model.ViewsCount = 0
	model.CreatedAt = now
	model.UpdatedAt = now
	if err := db.Create(model).Error; err != nil {
		return err
	}
	product.ID = model.ID
	product.CreatedAt = model.CreatedAt
	product.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete deletes a product by its ID
func (r *GormProductRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.ProductModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// IncrementViews adds one to the view counter in a single UPDATE
func (r *GormProductRepository) IncrementViews(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies conditions, ordering and pagination
func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyConditions(query, filter)

	sortField := ValidateSortField(filter.OrderBy, ProductSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s, id %s", sortField, sortOrder, sortOrder))

	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

func (r *GormProductRepository) applyConditions(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where(
			fmt.Sprintf(`name %s ? ESCAPE '\'`, likeOperator(r.db)),
			containsPattern(filter.Search),
		)
	}
	if category, ok := filter.Filters["category"].(string); ok && category != "" {
		query = query.Where("category = ?", category)
	}
	return query
}

func toDomainProducts(rows []models.ProductModel) []catalog.Product {
	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
