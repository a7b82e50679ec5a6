package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-audit-cli/internal/audit"
	"github.com/sells-group/lead-audit-cli/internal/export"
	"github.com/sells-group/lead-audit-cli/internal/ingest"
	"github.com/sells-group/lead-audit-cli/internal/model"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the lead list upload server",
	RunE: func(cmd *cobra.Command, args []string) error {
		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		pipeline := audit.New(cfg.Audit, nil)

		r := chi.NewRouter()
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/health", handleHealth)
		r.Post("/audit", handleAudit(pipeline))

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      r,
			ReadTimeout:  time.Duration(cfg.Server.TimeoutSecs) * time.Second,
			WriteTimeout: time.Duration(cfg.Server.TimeoutSecs) * time.Second,
		}

		// Graceful shutdown
		go shutdownOnDone(ctx, srv, time.Duration(cfg.Server.TimeoutSecs)*time.Second)

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// shutdownOnDone drains the server once ctx is cancelled. Shutdown gets a
// fresh deadline context: ctx itself is already done at that point and would
// abort the drain before in-flight requests finish.
func shutdownOnDone(ctx context.Context, srv *http.Server, timeout time.Duration) {
	<-ctx.Done()
	zap.L().Info("shutting down server")

	drainCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(drainCtx); err != nil {
		zap.L().Warn("server shutdown", zap.Error(err))
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAudit accepts a multipart lead list upload under the "file" field,
// runs one synchronous batch, and responds with the result workbook. With
// ?format=json it responds with the preview and partition counts instead.
func handleAudit(pipeline *audit.Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(cfg.Server.MaxUploadMB << 20); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart upload"})
			return
		}

		file, hdr, err := r.FormFile("file")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": `missing "file" field`})
			return
		}
		defer file.Close()

		tbl, err := readUpload(file, hdr.Filename)
		if err != nil {
			zap.L().Warn("serve: unreadable upload",
				zap.String("filename", hdr.Filename),
				zap.Error(err),
			)
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "could not parse upload"})
			return
		}

		res, err := pipeline.Run(r.Context(), tbl)
		if err != nil {
			var schemaErr *ingest.SchemaError
			if errors.As(err, &schemaErr) {
				writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
					"error":   "missing required columns",
					"missing": schemaErr.Missing,
				})
				return
			}
			zap.L().Error("serve: audit failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "audit failed"})
			return
		}

		w.Header().Set("X-Run-ID", res.RunID)

		if r.URL.Query().Get("format") == "json" {
			writeJSON(w, http.StatusOK, map[string]any{
				"run_id":  res.RunID,
				"records": tbl.Len(),
				"good":    len(res.Good),
				"junk":    len(res.Junk),
				"preview": res.Preview,
			})
			return
		}

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="lead_audit_results.xlsx"`)
		if err := export.StreamWorkbook(w, res); err != nil {
			zap.L().Error("serve: stream workbook", zap.Error(err))
		}
	}
}

// readUpload parses the uploaded lead list, dispatching on filename
// extension. XLSX uploads are spooled to a temp file for the reader.
func readUpload(file multipart.File, filename string) (*model.Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ingest.ReadCSV(file)
	case ".xlsx":
		tmp, err := os.CreateTemp("", "lead-audit-*.xlsx")
		if err != nil {
			return nil, eris.Wrap(err, "serve: create temp file")
		}
		defer os.Remove(tmp.Name())

		if _, err := io.Copy(tmp, file); err != nil {
			tmp.Close()
			return nil, eris.Wrap(err, "serve: spool upload")
		}
		if err := tmp.Close(); err != nil {
			return nil, eris.Wrap(err, "serve: close temp file")
		}

		return ingest.ReadXLSXFile(tmp.Name())
	default:
		return nil, eris.Errorf("serve: unsupported upload type %q", filepath.Ext(filename))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
