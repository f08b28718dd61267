package controllers

import (
	"github.com/Zmley/warehouse-admin-sub001/apperror"
	"github.com/Zmley/warehouse-admin-sub001/models"
	"github.com/Zmley/warehouse-admin-sub001/services"
	"github.com/Zmley/warehouse-admin-sub001/upload"
	"github.com/gofiber/fiber/v2"
)

type ProductController struct {
	products *services.ProductService
	uploader Uploader
}

func NewProductController(products *services.ProductService, uploader Uploader) *ProductController {
	return &ProductController{products: products, uploader: uploader}
}

type productInput struct {
	ProductCode string `json:"productCode" validate:"required"`
	Barcode     string `json:"barcode"`
	BoxType     string `json:"boxType"`
	Description string `json:"description"`
}

func (c *ProductController) GetProducts(ctx *fiber.Ctx) error {
	products, err := c.products.List(ctx.UserContext(), ctx.Query("keyword"))
	if err != nil {
		return err
	}
	return ok(ctx, fiber.StatusOK, "Products retrieved successfully", products)
}

func (c *ProductController) GetProductByCode(ctx *fiber.Ctx) error {
	product, err := c.products.GetByCode(ctx.UserContext(), ctx.Params("productCode"))
	if err != nil {
		return err
	}
	return ok(ctx, fiber.StatusOK, "Product retrieved successfully", product)
}

func (c *ProductController) CreateProduct(ctx *fiber.Ctx) error {
	var input productInput
	if err := bindJSON(ctx, &input); err != nil {
		return err
	}
	product := models.Product{
		ProductCode: input.ProductCode,
		Barcode:     input.Barcode,
		BoxType:     input.BoxType,
		Description: input.Description,
	}
	if err := c.products.Create(ctx.UserContext(), &product); err != nil {
		return err
	}
	return ok(ctx, fiber.StatusCreated, "Product created successfully", product)
}

// UpdateProduct changes barcode, box type and description. The product code
// in the body is ignored.
func (c *ProductController) UpdateProduct(ctx *fiber.Ctx) error {
	productID, err := paramID(ctx, "productID")
	if err != nil {
		return err
	}
	var input productInput
	if err := ctx.BodyParser(&input); err != nil {
		return apperror.Validation("Invalid request body")
	}
	product, err := c.products.Update(ctx.UserContext(), productID, models.Product{
		Barcode:     input.Barcode,
		BoxType:     input.BoxType,
		Description: input.Description,
	})
	if err != nil {
		return err
	}
	return ok(ctx, fiber.StatusOK, "Product updated successfully", product)
}

func (c *ProductController) DeleteProduct(ctx *fiber.Ctx) error {
	productID, err := paramID(ctx, "productID")
	if err != nil {
		return err
	}
	if err := c.products.Delete(ctx.UserContext(), productID); err != nil {
		return err
	}
	return ok(ctx, fiber.StatusOK, "Product deleted successfully", nil)
}

func (c *ProductController) UploadProducts(ctx *fiber.Ctx) error {
	records, total, err := c.uploader.records(ctx, upload.KindProduct)
	if err != nil {
		return err
	}
	rows, rowErrs := upload.ProductRows(records)
	if len(rowErrs) > 0 {
		return c.uploader.rejected(upload.KindProduct, total, rowErrs)
	}

	result, err := c.products.Import(ctx.UserContext(), rows)
	if err != nil {
		return err
	}
	c.uploader.accepted(upload.KindProduct, len(rows))
	return ok(ctx, fiber.StatusOK, "Products uploaded successfully", result)
}
