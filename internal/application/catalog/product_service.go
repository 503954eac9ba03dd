// Package catalog implements the storefront catalog and back office product management.
package catalog

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vetcollars/storefront/internal/domain/catalog"
	"github.com/vetcollars/storefront/internal/domain/shared"
	"github.com/vetcollars/storefront/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ErrUnsupportedImage is returned for uploads that are not images
var ErrUnsupportedImage = shared.NewDomainError("UNSUPPORTED_MEDIA_TYPE", "Only image uploads are allowed")

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
	"image/avif": "avif",
}

// ProductService handles catalog browsing and product management
type ProductService struct {
	repo    catalog.ProductRepository
	tracker ActivityTracker
	images  ImageStorage
	logger  *zap.Logger
	now     func() time.Time
}

// NewProductService creates a new ProductService. tracker and images may be nil.
func NewProductService(repo catalog.ProductRepository, tracker ActivityTracker, images ImageStorage, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		repo:    repo,
		tracker: tracker,
		images:  images,
		logger:  logger,
		now:     time.Now,
	}
}

// Search runs a storefront query. A non-empty query is recorded for the
// session together with the number of products returned.
func (s *ProductService) Search(ctx context.Context, sessionID string, req SearchProductsRequest) (*SearchProductsResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "search",
		attribute.String("catalog.category", req.Category),
		attribute.String("catalog.sort", req.Sort),
	)
	defer span.End()

	filter, err := toSearchFilter(req)
	if err != nil {
		return nil, err
	}

	products, hasMore, err := s.repo.Search(ctx, filter)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if s.tracker != nil && strings.TrimSpace(req.Query) != "" {
		s.tracker.RecordSearch(ctx, sessionID, req.Query, len(products))
	}

	return &SearchProductsResponse{
		Products: ToProductResponses(products),
		HasMore:  hasMore,
	}, nil
}

// Categories returns the distinct product categories
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

// GetDetail returns a product for the storefront and counts the view.
// View tracking failures are logged only.
func (s *ProductService) GetDetail(ctx context.Context, id int64, sessionID string) (*ProductResponse, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.IncrementViews(ctx, id); err != nil {
		s.logger.Warn("Failed to increment product views", zap.Int64("product_id", id), zap.Error(err))
	} else {
		product.ViewsCount++
	}
	if s.tracker != nil {
		s.tracker.RecordView(ctx, sessionID, product.ID, product.Name)
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// GetByID returns a product for the back office without tracking
func (s *ProductService) GetByID(ctx context.Context, id int64) (*ProductResponse, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// List returns a page of products for the back office
func (s *ProductService) List(ctx context.Context, req ProductListFilter) (shared.Paginated[ProductResponse], error) {
	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	if req.OrderBy != "" {
		filter.OrderBy = req.OrderBy
	}
	if req.OrderDir != "" {
		filter.OrderDir = req.OrderDir
	}
	filter.Search = strings.TrimSpace(req.Search)
	if req.Category != "" {
		filter.Filters["category"] = req.Category
	}

	products, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	return shared.NewPaginated(ToProductResponses(products), total, filter.Page, filter.PageSize), nil
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	product, err := newProductFromRequest(req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.logger.Info("Product created", zap.Int64("product_id", product.ID), zap.String("name", product.Name))

	resp := ToProductResponse(product)
	return &resp, nil
}

func newProductFromRequest(req CreateProductRequest) (*catalog.Product, error) {
	product, err := catalog.NewProduct(req.Name, req.RetailPrice)
	if err != nil {
		return nil, err
	}
	if err := product.Rename(req.Name, req.Description); err != nil {
		return nil, err
	}
	if err := product.SetPrices(req.RetailPrice, req.WholesalePrice); err != nil {
		return nil, err
	}
	product.SetSizes(req.Sizes)
	product.SetFlags(catalog.Flags{Bestseller: req.IsBestseller, Hit: req.IsHit, New: req.IsNew})
	product.SetDetails(catalog.Details{
		Category:     req.Category,
		Material:     req.Material,
		Country:      req.Country,
		ProductType:  req.ProductType,
		DeliveryInfo: req.DeliveryInfo,
	})
	product.SetImage(req.ImageURL)
	return product, nil
}

// Update applies a partial update
func (s *ProductService) Update(ctx context.Context, id int64, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil {
		name, description := product.Name, product.Description
		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = *req.Description
		}
		if err := product.Rename(name, description); err != nil {
			return nil, err
		}
	}

	if req.RetailPrice != nil || req.WholesalePrice != nil || req.ClearWholesale {
		retail, wholesale := product.RetailPrice, product.WholesalePrice
		if req.RetailPrice != nil {
			retail = *req.RetailPrice
		}
		if req.WholesalePrice != nil {
			wholesale = req.WholesalePrice
		}
		if req.ClearWholesale {
			wholesale = nil
		}
		if err := product.SetPrices(retail, wholesale); err != nil {
			return nil, err
		}
	}

	if req.Sizes != nil {
		product.SetSizes(*req.Sizes)
	}

	if req.IsBestseller != nil || req.IsHit != nil || req.IsNew != nil {
		flags := product.Flags
		if req.IsBestseller != nil {
			flags.Bestseller = *req.IsBestseller
		}
		if req.IsHit != nil {
			flags.Hit = *req.IsHit
		}
		if req.IsNew != nil {
			flags.New = *req.IsNew
		}
		product.SetFlags(flags)
	}

	details := product.Details
	detailsChanged := false
	for _, f := range []struct {
		src *string
		dst *string
	}{
		{req.Category, &details.Category},
		{req.Material, &details.Material},
		{req.Country, &details.Country},
		{req.ProductType, &details.ProductType},
		{req.DeliveryInfo, &details.DeliveryInfo},
	} {
		if f.src != nil {
			*f.dst = *f.src
			detailsChanged = true
		}
	}
	if detailsChanged {
		product.SetDetails(details)
	}

	if req.ImageURL != nil {
		product.SetImage(*req.ImageURL)
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// Delete removes a product. Orders keep their item snapshots.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Product deleted", zap.Int64("product_id", id))
	return nil
}

// UploadImage stores an image under "<unix ms>.<ext>" and returns its URL.
// The extension comes from the content type, falling back to the file name.
func (s *ProductService) UploadImage(ctx context.Context, filename, contentType string, body io.Reader, size int64) (*UploadImageResponse, error) {
	if s.images == nil {
		return nil, shared.ErrUnavailable
	}

	ext, err := imageExtension(filename, contentType)
	if err != nil {
		return nil, err
	}
	key := strconv.FormatInt(s.now().UnixMilli(), 10) + "." + ext

	url, err := s.images.Put(ctx, key, contentType, body, size)
	if err != nil {
		s.logger.Error("Image upload failed", zap.String("key", key), zap.Error(err))
		return nil, shared.ErrUnavailable
	}
	return &UploadImageResponse{URL: url, Key: key}, nil
}

func imageExtension(filename, contentType string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		return "", ErrUnsupportedImage
	}
	if ext, ok := imageExtensions[mediaType]; ok {
		return ext, nil
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" || len(ext) > 5 || strings.ContainsAny(ext, `/\.`) {
		return "", ErrUnsupportedImage
	}
	return ext, nil
}

func toSearchFilter(req SearchProductsRequest) (catalog.SearchFilter, error) {
	filter := catalog.SearchFilter{
		Query:    strings.TrimSpace(req.Query),
		Category: strings.TrimSpace(req.Category),
		Sort:     catalog.ParseSortOption(req.Sort),
		Limit:    req.Limit,
		Offset:   req.Offset,
	}

	var err error
	if filter.MinPrice, err = parsePrice(req.MinPrice, "min_price"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = parsePrice(req.MaxPrice, "max_price"); err != nil {
		return filter, err
	}
	return filter.Normalize(), nil
}

func parsePrice(raw, field string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", fmt.Sprintf("%s must be a non-negative number", field))
	}
	return &d, nil
}
