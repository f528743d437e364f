package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"

	"golang.org/x/sync/singleflight"

	"dirtally/internal/analyzer"
	"dirtally/internal/logging"
	"dirtally/internal/tree"
)

const invalidDirectoryMessage = "Invalid or non-existent directory path"

// maxRequestBody caps POST /analyze bodies.
const maxRequestBody = 1 << 20

// TreeBuilder produces the unfiltered tree of a directory.
type TreeBuilder interface {
	Tree(dir string) (tree.Tree, error)
}

type Handler struct {
	builder TreeBuilder
	log     *logging.Logger
	group   singleflight.Group
}

// NewHandler serves GET / and POST /analyze. Concurrent requests for the
// same directory share one traversal.
func NewHandler(b TreeBuilder, log *logging.Logger) http.Handler {
	if log == nil {
		log = logging.Nop()
	}
	h := &Handler{builder: b, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.home)
	mux.HandleFunc("POST /analyze", h.analyze)
	return mux
}

type analyzeRequest struct {
	DirectoryPath string `json:"directory_path"`
}

func (h *Handler) home(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the File System Analysis Tool!"})
}

func (h *Handler) analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.DirectoryPath == "" {
		writeError(w, http.StatusBadRequest, invalidDirectoryMessage)
		return
	}

	key, err := filepath.Abs(req.DirectoryPath)
	if err != nil {
		key = req.DirectoryPath
	}

	v, err, shared := h.group.Do(key, func() (any, error) {
		return h.builder.Tree(req.DirectoryPath)
	})
	if err != nil {
		if errors.Is(err, analyzer.ErrInvalidDirectory) {
			writeError(w, http.StatusBadRequest, invalidDirectoryMessage)
			return
		}
		h.log.Errorf("Analysis of %s failed: %v", key, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if shared {
		h.log.Debugf("Shared traversal result for %s", key)
	}

	writeJSON(w, http.StatusOK, v.(tree.Tree))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
