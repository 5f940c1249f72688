package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/njchilds90/gosymgen/declfile"
	"github.com/njchilds90/gosymgen/internal/app"
	"github.com/njchilds90/gosymgen/internal/ctxlog"
	"github.com/njchilds90/gosymgen/printer"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// GenerateRequest is the body of POST /generate.
type GenerateRequest struct {
	Source  string `json:"source"`            // HCL declaration
	Name    string `json:"name,omitempty"`    // model to emit; optional with one model
	Printer string `json:"printer,omitempty"` // "numpy" (default) or "scipy"
}

// GenerateResponse carries either the module or an error.
type GenerateResponse struct {
	Module string `json:"module,omitempty"`
	Error  string `json:"error,omitempty"`
}

func newMux(logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/generate", func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("Panic in /generate.", "panic", rec, "stack", string(debug.Stack()))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()

		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		defer r.Body.Close()

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req GenerateRequest
		if err := dec.Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, GenerateResponse{Error: err.Error()})
			return
		}
		if dec.More() {
			writeJSON(w, http.StatusBadRequest, GenerateResponse{Error: "invalid JSON: trailing data"})
			return
		}

		ctx := ctxlog.WithLogger(r.Context(), logger.With("request_model", req.Name))
		module, err := generate(ctx, req)
		if err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, GenerateResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, GenerateResponse{Module: module})
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})
	return mux
}

func generate(ctx context.Context, req GenerateRequest) (string, error) {
	p, err := printer.ByName(req.Printer, printer.DefaultNumpyAlias, printer.DefaultScipyAlias)
	if err != nil {
		return "", err
	}
	defs, err := declfile.LoadSource(ctx, "request.hcl", []byte(req.Source))
	if err != nil {
		return "", err
	}
	return app.Generate(ctx, defs, req.Name, p)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
