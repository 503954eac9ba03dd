package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vetcollars/storefront/internal/domain/catalog"
	"github.com/vetcollars/storefront/internal/domain/shared"
	"github.com/vetcollars/storefront/internal/infrastructure/csvimport"
	"go.uber.org/zap"
)

// Import limits
const (
	MaxImportRows   = 1000
	MaxImportErrors = 100
)

// Import columns. name and retail_price are required.
const (
	ColName           = "name"
	ColDescription    = "description"
	ColRetailPrice    = "retail_price"
	ColWholesalePrice = "wholesale_price"
	ColSizes          = "sizes"
	ColCategory       = "category"
	ColMaterial       = "material"
	ColCountry        = "country"
	ColProductType    = "product_type"
	ColDeliveryInfo   = "delivery_info"
	ColImageURL       = "image_url"
	ColIsNew          = "is_new"
	ColIsHit          = "is_hit"
	ColIsBestseller   = "is_bestseller"
)

// ErrInvalidImportFile is returned when a file cannot be imported at all
var ErrInvalidImportFile = shared.NewDomainError("INVALID_IMPORT_FILE", "The file cannot be imported")

// ImportResult reports a product import. Nothing is written when any row
// has errors or when DryRun is set.
type ImportResult struct {
	TotalRows    int                  `json:"total_rows"`
	ImportedRows int                  `json:"imported_rows"`
	ErrorRows    int                  `json:"error_rows"`
	Errors       []csvimport.RowError `json:"errors"`
	TotalErrors  int                  `json:"total_errors"`
	IsTruncated  bool                 `json:"is_truncated,omitempty"`
	DryRun       bool                 `json:"dry_run"`
}

// ImportCSV creates one product per data row of a CSV export. Every row is
// validated before the first insert.
func (s *ProductService) ImportCSV(ctx context.Context, body io.Reader, dryRun bool) (*ImportResult, error) {
	parser, err := csvimport.NewParser(body)
	if err != nil {
		return nil, importFileError(err)
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, importFileError(err)
	}
	if missing := parser.MissingHeaders(ColName, ColRetailPrice); len(missing) > 0 {
		return nil, shared.NewDomainError(ErrInvalidImportFile.Code,
			fmt.Sprintf("Missing required columns: %s", strings.Join(missing, ", ")))
	}

	rows, err := parser.ReadAll(MaxImportRows)
	if err != nil {
		return nil, importFileError(err)
	}
	if len(rows) == 0 {
		return nil, shared.NewDomainError(ErrInvalidImportFile.Code, "The file contains no products")
	}

	errs := csvimport.NewErrorCollection(MaxImportErrors)
	products := make([]*catalog.Product, 0, len(rows))
	seen := make(map[string]int, len(rows))
	for _, row := range rows {
		req, ok := importRowRequest(row, errs)
		if !ok {
			continue
		}
		key := strings.ToLower(req.Name)
		if first, dup := seen[key]; dup {
			errs.Add(csvimport.RowError{
				Row:     row.Line,
				Column:  ColName,
				Code:    csvimport.CodeDuplicate,
				Message: fmt.Sprintf("same name as row %d", first),
				Value:   req.Name,
			})
			continue
		}
		seen[key] = row.Line

		product, err := newProductFromRequest(req)
		if err != nil {
			var de *shared.DomainError
			if !errors.As(err, &de) {
				return nil, err
			}
			errs.Add(csvimport.RowError{Row: row.Line, Code: csvimport.CodeInvalidValue, Message: de.Message})
			continue
		}
		products = append(products, product)
	}

	result := &ImportResult{
		TotalRows:   len(rows),
		ErrorRows:   errs.Rows(),
		Errors:      errs.Errors(),
		TotalErrors: errs.Total(),
		IsTruncated: errs.IsTruncated(),
		DryRun:      dryRun,
	}
	if errs.HasErrors() || dryRun {
		return result, nil
	}

	if err := s.repo.SaveAll(ctx, products); err != nil {
		s.logger.Error("Product import rolled back",
			zap.Int("rows", result.TotalRows),
			zap.Error(err),
		)
		return nil, err
	}
	result.ImportedRows = len(products)

	s.logger.Info("Products imported", zap.Int("count", result.ImportedRows))
	return result, nil
}

func importRowRequest(row *csvimport.Row, errs *csvimport.ErrorCollection) (CreateProductRequest, bool) {
	before := errs.Total()
	f := csvimport.NewFields(row, errs)

	req := CreateProductRequest{
		Name:         f.String(ColName, true, 200),
		Description:  f.String(ColDescription, false, 5000),
		Sizes:        f.List(ColSizes),
		IsBestseller: f.Bool(ColIsBestseller),
		IsHit:        f.Bool(ColIsHit),
		IsNew:        f.Bool(ColIsNew),
		Category:     f.String(ColCategory, false, 100),
		ImageURL:     f.String(ColImageURL, false, 500),
		Material:     f.String(ColMaterial, false, 200),
		Country:      f.String(ColCountry, false, 100),
		ProductType:  f.String(ColProductType, false, 100),
		DeliveryInfo: f.String(ColDeliveryInfo, false, 2000),
	}
	if retail := f.Decimal(ColRetailPrice, true); retail != nil {
		req.RetailPrice = *retail
	} else {
		req.RetailPrice = decimal.Zero
	}
	req.WholesalePrice = f.Decimal(ColWholesalePrice, false)

	return req, errs.Total() == before
}

func importFileError(err error) error {
	switch {
	case errors.Is(err, csvimport.ErrTooManyRows):
		return shared.NewDomainError(ErrInvalidImportFile.Code,
			fmt.Sprintf("The file has more than %d products", MaxImportRows))
	case errors.Is(err, csvimport.ErrEmptyFile),
		errors.Is(err, csvimport.ErrInvalidEncoding),
		errors.Is(err, csvimport.ErrMissingHeader),
		errors.Is(err, csvimport.ErrMalformedRow):
		return shared.NewDomainError(ErrInvalidImportFile.Code, err.Error())
	default:
		return err
	}
}
