package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	productsvc "github.com/merchkit/storefront-backend/internal/products"
)

type importerTxRunner struct {
	conn *gorm.DB
}

func (r importerTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return r.conn.Transaction(fn)
}

func newImportRequest(t *testing.T, csvBody string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(importFileField, "catalog.csv")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(csvBody)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/products/import", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func newTestImporter(t *testing.T) *productsvc.Importer {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	ddl := `CREATE TABLE products (
		id TEXT PRIMARY KEY,
		sku TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		description TEXT,
		price_cents INTEGER NOT NULL DEFAULT 0,
		main_image_url TEXT,
		in_stock INTEGER NOT NULL DEFAULT 1,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	)`
	if err := conn.Exec(ddl).Error; err != nil {
		t.Fatalf("create schema: %v", err)
	}

	importer, err := productsvc.NewImporter(productsvc.NewRepository(conn), importerTxRunner{conn}, 100)
	if err != nil {
		t.Fatalf("new importer: %v", err)
	}
	return importer
}

func TestAdminImportProducts(t *testing.T) {
	importer := newTestImporter(t)
	handler := AdminImportProducts(importer, 1<<20, nil)

	csvBody := "sku,title,slug,description,price_cents,main_image_url,in_stock\n" +
		"MUG-1,Mug,mug,Ceramic mug,1500,,true\n"
	req := newImportRequest(t, csvBody)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data productsvc.ImportReport `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Upserted != 1 || envelope.Data.Skipped != 0 {
		t.Fatalf("unexpected report: %+v", envelope.Data)
	}
}

func TestAdminImportProductsMissingFile(t *testing.T) {
	handler := AdminImportProducts(newTestImporter(t), 1<<20, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/products/import", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
