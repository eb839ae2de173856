package controllers

import (
	"net/http"

	"github.com/merchkit/storefront-backend/api/responses"
	productsvc "github.com/merchkit/storefront-backend/internal/products"
	pkgerrors "github.com/merchkit/storefront-backend/pkg/errors"
	"github.com/merchkit/storefront-backend/pkg/logger"
)

const importFileField = "file"

// AdminImportProducts ingests a CSV catalog upload and reports per-row results.
func AdminImportProducts(importer *productsvc.Importer, maxUploadBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if importer == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "import service unavailable"))
			return
		}

		if maxUploadBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		}

		file, _, err := r.FormFile(importFileField)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "csv file upload is required"))
			return
		}
		defer file.Close()

		report, err := importer.ImportCSV(ctx, file)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}
