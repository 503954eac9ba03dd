package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/vetcollars/storefront/internal/application/catalog"
	"github.com/vetcollars/storefront/internal/interfaces/http/dto"
)

// UploadFormField is the multipart field carrying an uploaded file
const UploadFormField = "file"

// AdminProductHandler serves product management
type AdminProductHandler struct {
	BaseHandler
	products *catalogapp.ProductService
}

// NewAdminProductHandler creates a new admin product handler
func NewAdminProductHandler(products *catalogapp.ProductService) *AdminProductHandler {
	return &AdminProductHandler{products: products}
}

// List godoc
// @Summary      List products
// @Tags         admin-products
// @Produce      json
// @Param        search    query string false "Name filter"
// @Param        category  query string false "Category"
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /admin/products [get]
func (h *AdminProductHandler) List(c *gin.Context) {
	var req catalogapp.ProductListFilter
	if !h.bindQuery(c, &req) {
		return
	}

	page, err := h.products.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get godoc
// @Summary      Product by ID
// @Tags         admin-products
// @Produce      json
// @Param        id path int true "Product ID"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/products/{id} [get]
func (h *AdminProductHandler) Get(c *gin.Context) {
	id, ok := h.int64Param(c, "id")
	if !ok {
		return
	}

	product, err := h.products.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Create godoc
// @Summary      Create a product
// @Tags         admin-products
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Product"
// @Success      201 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/products [post]
func (h *AdminProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if !h.bind(c, &req) {
		return
	}

	product, err := h.products.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Update godoc
// @Summary      Update a product
// @Description  Only the fields present in the body change
// @Tags         admin-products
// @Accept       json
// @Produce      json
// @Param        id      path int true "Product ID"
// @Param        request body catalogapp.UpdateProductRequest true "Changes"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/products/{id} [put]
func (h *AdminProductHandler) Update(c *gin.Context) {
	id, ok := h.int64Param(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if !h.bind(c, &req) {
		return
	}

	product, err := h.products.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete godoc
// @Summary      Delete a product
// @Tags         admin-products
// @Param        id path int true "Product ID"
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/products/{id} [delete]
func (h *AdminProductHandler) Delete(c *gin.Context) {
	id, ok := h.int64Param(c, "id")
	if !ok {
		return
	}

	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UploadImage godoc
// @Summary      Upload a product image
// @Tags         admin-products
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Image"
// @Success      201 {object} dto.Response{data=catalogapp.UploadImageResponse}
// @Failure      413 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      415 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/products/images [post]
func (h *AdminProductHandler) UploadImage(c *gin.Context) {
	fh, ok := h.formFile(c)
	if !ok {
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer f.Close()

	resp, err := h.products.UploadImage(c.Request.Context(), fh.Filename, fh.Header.Get("Content-Type"), f, fh.Size)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ImportCSV godoc
// @Summary      Import products from CSV
// @Description  Creates one product per row. Columns: name and retail_price are required; description, wholesale_price, sizes, category, material, country, product_type, delivery_info, image_url, is_new, is_hit, is_bestseller are optional. Nothing is written when any row is invalid.
// @Tags         admin-products
// @Accept       multipart/form-data
// @Produce      json
// @Param        file    formData file true  "CSV file, comma or semicolon separated"
// @Param        dry_run query    bool false "Validate only"
// @Success      200 {object} dto.Response{data=catalogapp.ImportResult}
// @Failure      413 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/products/import [post]
func (h *AdminProductHandler) ImportCSV(c *gin.Context) {
	fh, ok := h.formFile(c)
	if !ok {
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer f.Close()

	dryRun, _ := strconv.ParseBool(c.Query("dry_run"))
	result, err := h.products.ImportCSV(c.Request.Context(), f, dryRun)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

func (h *AdminProductHandler) formFile(c *gin.Context) (*multipart.FileHeader, bool) {
	fh, err := c.FormFile(UploadFormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Uploaded file is too large")
			return nil, false
		}
		h.BadRequest(c, "Missing file field")
		return nil, false
	}
	return fh, true
}
