package product

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/merchkit/storefront-backend/pkg/db/models"
	pkgerrors "github.com/merchkit/storefront-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ImportRowError records why a single CSV row was rejected.
type ImportRowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// ImportReport summarizes a catalog import run.
type ImportReport struct {
	Processed int              `json:"processed"`
	Upserted  int              `json:"upserted"`
	Skipped   int              `json:"skipped"`
	Errors    []ImportRowError `json:"errors,omitempty"`
}

// Importer loads catalog rows from CSV uploads. Rows are keyed on SKU and
// upsert into the products table inside a single transaction.
type Importer struct {
	repo    *Repository
	tx      txRunner
	maxRows int
}

// NewImporter builds a CSV importer with the provided row cap.
func NewImporter(repo *Repository, tx txRunner, maxRows int) (*Importer, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repository is required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	if maxRows <= 0 {
		maxRows = 5000
	}
	return &Importer{repo: repo, tx: tx, maxRows: maxRows}, nil
}

var importHeader = []string{"sku", "title", "slug", "description", "price_cents", "main_image_url", "in_stock"}

// ImportCSV parses the upload and upserts every valid row. Header order is
// fixed. Invalid rows are collected in the report instead of aborting the run.
func (i *Importer) ImportCSV(ctx context.Context, r io.Reader) (*ImportReport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(importHeader)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read csv header")
	}
	if err := validateHeader(header); err != nil {
		return nil, err
	}

	report := &ImportReport{}
	var rows []*models.Product

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, ImportRowError{Line: line, Reason: err.Error()})
			continue
		}
		report.Processed++
		if report.Processed > i.maxRows {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("import exceeds the %d row limit", i.maxRows))
		}

		row, err := parseImportRow(record)
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, ImportRowError{Line: line, Reason: err.Error()})
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return report, nil
	}

	err = i.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := i.repo.WithTx(tx)
		for _, row := range rows {
			if err := repo.UpsertBySKU(ctx, row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist catalog import")
	}

	report.Upserted = len(rows)
	return report, nil
}

func validateHeader(header []string) error {
	if len(header) != len(importHeader) {
		return pkgerrors.New(pkgerrors.CodeValidation, "unexpected csv header")
	}
	for idx, name := range importHeader {
		if !strings.EqualFold(strings.TrimSpace(header[idx]), name) {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("csv column %d must be %q", idx+1, name))
		}
	}
	return nil
}

func parseImportRow(record []string) (*models.Product, error) {
	sku := strings.TrimSpace(record[0])
	title := strings.TrimSpace(record[1])
	slug := strings.TrimSpace(record[2])
	if sku == "" {
		return nil, fmt.Errorf("sku is required")
	}
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if slug == "" {
		return nil, fmt.Errorf("slug is required")
	}

	priceCents, err := strconv.Atoi(strings.TrimSpace(record[4]))
	if err != nil || priceCents < 0 {
		return nil, fmt.Errorf("invalid price_cents %q", record[4])
	}

	inStock, err := strconv.ParseBool(strings.TrimSpace(record[6]))
	if err != nil {
		return nil, fmt.Errorf("invalid in_stock %q", record[6])
	}

	row := &models.Product{
		SKU:        sku,
		Title:      title,
		Slug:       slug,
		PriceCents: priceCents,
		InStock:    inStock,
		IsActive:   true,
	}
	if desc := strings.TrimSpace(record[3]); desc != "" {
		row.Description = &desc
	}
	if img := strings.TrimSpace(record[5]); img != "" {
		row.MainImageURL = &img
	}
	return row, nil
}
