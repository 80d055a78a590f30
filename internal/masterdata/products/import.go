package products

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/sabai-pos/sabai-pos/internal/masterdata/shared"
	"github.com/sabai-pos/sabai-pos/internal/platform/httpx"
)

var importHeaders = []string{"productCode", "productName", "groupName", "categoryName", "pv", "unitPrice"}

// RowError reports why a spreadsheet row was skipped. Row is the 1-based row
// number in the sheet, matching what the operator sees in Excel.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult summarizes a product import run.
type ImportResult struct {
	Imported int        `json:"imported"`
	Skipped  int        `json:"skipped"`
	Errors   []RowError `json:"errors"`
}

type importRow struct {
	row          int
	productCode  string
	productName  string
	groupName    string
	categoryName string
	pv           float64
	unitPrice    float64
}

// Import loads products from an .xlsx upload. The first sheet must carry a
// header row with productCode, productName, groupName, categoryName, pv and
// unitPrice columns. Missing groups and categories are created on the fly;
// rows with missing fields or duplicate product codes are skipped and
// reported, they do not abort the rest of the file.
func (s *Service) Import(ctx context.Context, file io.Reader) (ImportResult, error) {
	workbook, err := excelize.OpenReader(file)
	if err != nil {
		return ImportResult{}, shared.Validation("file is not a readable .xlsx workbook")
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return ImportResult{}, shared.Validation("workbook has no sheets")
	}
	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return ImportResult{}, err
	}
	if len(rows) == 0 {
		return ImportResult{}, shared.Validation("workbook is empty")
	}

	columns, err := headerIndex(rows[0])
	if err != nil {
		return ImportResult{}, err
	}

	result := ImportResult{Errors: []RowError{}}
	for i, cells := range rows[1:] {
		rowNum := i + 2
		row := parseRow(rowNum, cells, columns)
		if msg := row.missingField(); msg != "" {
			result.Skipped++
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: msg})
			continue
		}
		if err := s.importOne(ctx, row); err != nil {
			if errors.Is(err, httpx.ErrDuplicate) {
				result.Skipped++
				result.Errors = append(result.Errors, RowError{Row: rowNum, Message: "product code " + row.productCode + " already exists"})
				continue
			}
			return result, err
		}
		result.Imported++
	}
	return result, nil
}

func (s *Service) importOne(ctx context.Context, row importRow) error {
	if _, err := s.repo.FindByCode(ctx, row.productCode); err == nil {
		return shared.Duplicate("product code " + row.productCode)
	} else if !errors.Is(err, httpx.ErrNotFound) {
		return err
	}

	groupID, err := s.groups.EnsureByName(ctx, row.groupName)
	if err != nil {
		return err
	}
	categoryID, err := s.categories.EnsureByName(ctx, row.categoryName, groupID)
	if err != nil {
		return err
	}

	_, err = s.repo.Create(ctx, Product{
		ProductCode: row.productCode,
		ProductName: row.productName,
		GroupID:     groupID,
		CategoryID:  categoryID,
		PV:          row.pv,
		UnitPrice:   row.unitPrice,
		Status:      shared.StatusActive,
	})
	return err
}

func headerIndex(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, required := range importHeaders {
		if _, ok := columns[required]; !ok {
			return nil, shared.Validation("missing required column: " + required)
		}
	}
	return columns, nil
}

func parseRow(rowNum int, cells []string, columns map[string]int) importRow {
	cell := func(name string) string {
		idx := columns[name]
		if idx >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[idx])
	}
	// Unparseable numbers import as zero, matching the historical behavior of
	// the spreadsheet tooling this replaced.
	pv, _ := strconv.ParseFloat(cell("pv"), 64)
	unitPrice, _ := strconv.ParseFloat(cell("unitPrice"), 64)
	return importRow{
		row:          rowNum,
		productCode:  cell("productCode"),
		productName:  cell("productName"),
		groupName:    cell("groupName"),
		categoryName: cell("categoryName"),
		pv:           pv,
		unitPrice:    unitPrice,
	}
}

func (r importRow) missingField() string {
	switch {
	case r.groupName == "":
		return "missing required field: groupName"
	case r.categoryName == "":
		return "missing required field: categoryName"
	case r.productCode == "":
		return "missing required field: productCode"
	case r.productName == "":
		return "missing required field: productName"
	default:
		return ""
	}
}
