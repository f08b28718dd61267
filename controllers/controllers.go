// Package controllers holds the Fiber handlers. Handlers read the caller's
// scope once, call a service, and leave error mapping to the app's error
// handler.
package controllers

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/Zmley/warehouse-admin-sub001/apperror"
	"github.com/Zmley/warehouse-admin-sub001/auth"
	"github.com/Zmley/warehouse-admin-sub001/metrics"
	"github.com/Zmley/warehouse-admin-sub001/services"
	"github.com/Zmley/warehouse-admin-sub001/types"
	"github.com/Zmley/warehouse-admin-sub001/upload"
	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Laporkan nama field sesuai JSON, bukan nama struct Go
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// bindJSON parses the request body into out and validates its struct tags.
func bindJSON(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		return apperror.Validation("Invalid request body")
	}
	err := validate.Struct(out)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperror.Validation("%s", err.Error())
	}
	details := make([]fieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, fieldError{Field: fe.Field(), Rule: fe.Tag()})
	}
	return apperror.Validation("%s", fieldMessage(verrs[0])).WithDetails(details)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "email":
		return fe.Field() + " must be a valid email"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), fe.Param())
	}
	return fe.Field() + " is invalid"
}

// paramID reads a snowflake id from the route parameter name.
func paramID(ctx *fiber.Ctx, name string) (types.SnowflakeID, error) {
	id, err := types.ParseSnowflakeID(ctx.Params(name))
	if err != nil || id.IsZero() {
		return 0, apperror.Validation("Invalid %s", name)
	}
	return id, nil
}

// actor builds the service actor from the authenticated caller.
func actor(ctx *fiber.Ctx) (services.Actor, error) {
	principal, warehouseID, err := auth.Scope(ctx)
	if err != nil {
		return services.Actor{}, err
	}
	return services.Actor{AccountID: principal.AccountID, WarehouseID: warehouseID}, nil
}

func ok(ctx *fiber.Ctx, status int, message string, data interface{}) error {
	return ctx.Status(status).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// Uploader reads spreadsheet uploads and maps their columns.
type Uploader struct {
	Aliases     upload.AliasSet
	MaxFileSize int64
	Metrics     *metrics.Metrics
}

// records reads the "file" form field and parses it with the columns of kind.
// It also returns the number of data rows in the sheet.
func (u Uploader) records(ctx *fiber.Ctx, kind upload.Kind) ([]upload.Record, int, error) {
	file, err := ctx.FormFile("file")
	if err != nil {
		return nil, 0, apperror.Validation("File is required")
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".xlsx" && ext != ".xlsm" {
		return nil, 0, apperror.Validation("Only Excel files (.xlsx) are allowed")
	}
	if u.MaxFileSize > 0 && file.Size > u.MaxFileSize {
		return nil, 0, apperror.Validation("File exceeds the %d byte limit", u.MaxFileSize)
	}

	content, err := file.Open()
	if err != nil {
		return nil, 0, apperror.Internal(err, "Failed to open file")
	}
	defer content.Close()

	header, rows, err := upload.ReadSheet(content)
	if err != nil {
		return nil, 0, apperror.Validation("%s", err.Error())
	}

	aliases := u.Aliases
	if aliases == nil {
		aliases = upload.DefaultAliases()
	}
	records, rowErrs := upload.ParseRows(header, rows, aliases.For(kind))
	if len(rowErrs) > 0 {
		return nil, len(rows), u.rejected(kind, len(rows), rowErrs)
	}
	return records, len(rows), nil
}

// rejected counts a failed upload and returns its per-row errors.
func (u Uploader) rejected(kind upload.Kind, total int, errs []upload.RowError) error {
	accepted := total - len(errs)
	if accepted < 0 {
		accepted = 0
	}
	u.Metrics.UploadRows(string(kind), accepted, len(errs))
	return apperror.Validation("upload has %d invalid row(s)", len(errs)).WithDetails(errs)
}

func (u Uploader) accepted(kind upload.Kind, total int) {
	u.Metrics.UploadRows(string(kind), total, 0)
}
