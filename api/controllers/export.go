package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/fastcommand/finance-backend/api/middleware"
	"github.com/fastcommand/finance-backend/api/responses"
	exportsvc "github.com/fastcommand/finance-backend/internal/export"
	"github.com/fastcommand/finance-backend/pkg/logger"
)

// ExportWorkbook streams the full financial workbook as an xlsx download.
// The sheet is rendered into memory first so failures can still produce a
// proper JSON error envelope instead of a truncated binary body.
func ExportWorkbook(svc *exportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := svc.WriteWorkbook(r.Context(), middleware.ActorFromContext(r.Context()), &buf); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filename := fmt.Sprintf("finance-export-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.Header().Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
		w.WriteHeader(http.StatusOK)
		if _, err := buf.WriteTo(w); err != nil {
			logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "export stream interrupted")
		}
	}
}
