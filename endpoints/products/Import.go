package products

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	val "github.com/go-ozzo/ozzo-validation"
	"go.nhat.io/otelsql/attribute"
	"gorm.io/gorm"

	"git.sr.ht/~aondrejcak/pos-api/kernel"
	"git.sr.ht/~aondrejcak/pos-api/models"
	"git.sr.ht/~aondrejcak/pos-api/utils"
)

// Spreadsheet columns, by position.
const (
	colProductName = iota
	colItemCode
	colBatchNumber
	colExpiryDate
	colBuyingCost
	colSalesPrice
	colMinimumPrice
	colWholesalePrice
	colBarcode
	colMrp
	colMinimumStock
	colOpeningStock
	colOpeningStockValue
	colCategory
	colSupplier
	colUnitType
	colStoreLocation
	colCabinet
	colRow
	colExtraName
	colExtraValue
)

type SkippedRow struct {
	Row    int        `json:"row"`
	Reason string     `json:"reason"`
	Errors val.Errors `json:"errors,omitempty"`
}

// ImportResult is the summary returned by the import endpoint.
type ImportResult struct {
	Imported []models.Product `json:"imported_products"`
	Skipped  []SkippedRow     `json:"skipped_rows"`
}

// ImportRows validates rows (header excluded) one by one and inserts the
// valid ones through db. Line numbers in the result are spreadsheet lines.
// Any insert error is returned as is so the caller can roll back.
func ImportRows(db *gorm.DB, rows [][]string) (*ImportResult, error) {
	result := &ImportResult{
		Imported: make([]models.Product, 0, len(rows)),
		Skipped:  make([]SkippedRow, 0),
	}

	for i, row := range rows {
		line := i + 2

		if utils.Cell(row, colProductName) == "" {
			if !utils.IsEmptyRow(row) {
				result.Skipped = append(result.Skipped, SkippedRow{Row: line, Reason: "missing product_name"})
			}
			continue
		}

		dto, parseErrs := RowToDto(row)
		err := dto.Validate(db, 0)

		var internal val.InternalError
		if errors.As(err, &internal) && internal.InternalError() != nil {
			return nil, internal.InternalError()
		}

		fieldErrs := mergeErrors(parseErrs, err)
		if len(fieldErrs) > 0 {
			result.Skipped = append(result.Skipped, SkippedRow{Row: line, Reason: "validation failed", Errors: fieldErrs})
			continue
		}

		var product models.Product
		dto.Fill(&product)
		if err := db.Create(&product).Error; err != nil {
			return nil, err
		}
		result.Imported = append(result.Imported, product)
	}

	return result, nil
}

// RowToDto maps a spreadsheet row onto the product body. Empty numeric
// cells become 0, cells that do not parse are reported per field.
func RowToDto(row []string) (*ProductDto, val.Errors) {
	errs := val.Errors{}

	number := func(col int, field string) *float64 {
		v, err := utils.ParseNumber(utils.Cell(row, col))
		if err != nil {
			errs[field] = err
		}
		return &v
	}
	integer := func(col int, field string) *int {
		v, err := utils.ParseInteger(utils.Cell(row, col))
		if err != nil {
			errs[field] = err
		}
		return &v
	}

	dto := &ProductDto{
		ProductName: utils.Cell(row, colProductName),
		ItemCode:    utils.OptionalText(utils.Cell(row, colItemCode)),
		BatchNumber: utils.OptionalText(utils.Cell(row, colBatchNumber)),

		BuyingCost:     number(colBuyingCost, "buying_cost"),
		SalesPrice:     number(colSalesPrice, "sales_price"),
		MinimumPrice:   number(colMinimumPrice, "minimum_price"),
		WholesalePrice: number(colWholesalePrice, "wholesale_price"),
		Barcode:        utils.OptionalText(utils.Cell(row, colBarcode)),
		Mrp:            number(colMrp, "mrp"),

		MinimumStockQuantity: integer(colMinimumStock, "minimum_stock_quantity"),
		OpeningStockQuantity: integer(colOpeningStock, "opening_stock_quantity"),
		OpeningStockValue:    number(colOpeningStockValue, "opening_stock_value"),

		Category:      utils.OptionalText(utils.Cell(row, colCategory)),
		Supplier:      utils.OptionalText(utils.Cell(row, colSupplier)),
		UnitType:      utils.OptionalText(utils.Cell(row, colUnitType)),
		StoreLocation: utils.OptionalText(utils.Cell(row, colStoreLocation)),
		Cabinet:       utils.OptionalText(utils.Cell(row, colCabinet)),
		Row:           utils.OptionalText(utils.Cell(row, colRow)),
	}

	if date, err := utils.ParseDate(utils.Cell(row, colExpiryDate)); err != nil {
		errs["expiry_date"] = errors.New("must be a valid date")
	} else if date != "" {
		dto.ExpiryDate = &date
	}

	extra, err := json.Marshal(map[string]*string{
		"extra_field_name":  utils.OptionalText(utils.Cell(row, colExtraName)),
		"extra_field_value": utils.OptionalText(utils.Cell(row, colExtraValue)),
	})
	if err == nil {
		dto.ExtraFields = extra
	}

	return dto, errs
}

func mergeErrors(parsed val.Errors, err error) val.Errors {
	out := val.Errors{}
	for k, v := range parsed {
		out[k] = v
	}
	var fields val.Errors
	if errors.As(err, &fields) {
		for k, v := range fields {
			if _, ok := out[k]; !ok {
				out[k] = v
			}
		}
	} else if err != nil {
		out["row"] = err
	}
	return out
}

// Import reads the uploaded spreadsheet and inserts its valid rows in one
// transaction.
func Import(c *gin.Context) {
	rt := kernel.FromContext(c)
	rt.NewChildTracer("products.import").Advance()

	header, err := c.FormFile("file")
	if err != nil {
		rt.Invalid("Validation error importing products", kernel.FieldError("file", "is required"))
		return
	}
	if !slices.Contains(utils.SheetExtensions, strings.ToLower(filepath.Ext(header.Filename))) {
		rt.Invalid("Validation error importing products", kernel.FieldError("file", utils.ErrUnsupportedSheet.Error()))
		return
	}

	rt.Log.Info().Str("file", header.Filename).Int64("size", header.Size).Msg("importing products")
	rt.Span.SetAttributes(attribute.KeyValue("import.file", header.Filename))

	f, err := header.Open()
	if err != nil {
		rt.Ef(http.StatusInternalServerError, "could not open upload: %v", err)
		return
	}
	defer f.Close()

	rows, err := utils.ReadSheet(header.Filename, f)
	if err != nil {
		rt.Invalid("Error reading spreadsheet", kernel.FieldError("file", err.Error()))
		return
	}
	if len(rows) > 0 {
		rt.Log.Debug().Strs("header", rows[0]).Msg("spreadsheet header")
		rows = rows[1:]
	}

	var result *ImportResult
	err = rt.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = ImportRows(tx, rows)
		return err
	})
	if err != nil {
		rt.Log.Error().Err(err).Msg("import rolled back")
		rt.Ef(http.StatusInternalServerError, "Error importing products: %v", err)
		return
	}

	rt.AppRuntime.Diagnostic.ImportedCounter.Add(rt.SpanContext, int64(len(result.Imported)))
	rt.Span.SetAttributes(
		attribute.KeyValue("import.imported", len(result.Imported)),
		attribute.KeyValue("import.skipped", len(result.Skipped)),
	)
	for _, s := range result.Skipped {
		rt.Log.Warn().Int("row", s.Row).Str("reason", s.Reason).Interface("errors", s.Errors).Msg("skipped import row")
	}

	c.JSON(http.StatusOK, gin.H{
		"message":           "Products imported successfully",
		"imported_products": result.Imported,
		"skipped_rows":      result.Skipped,
	})
	rt.EndBlock()
}
