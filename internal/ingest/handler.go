package ingest

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/andresuchdata/stockcast/internal/drive"
)

// Handler exposes the ingest pipeline over HTTP for the ops tooling.
type Handler struct {
	driveClient *drive.Client
	service     *Service
}

func NewHandler(driveClient *drive.Client, service *Service) *Handler {
	return &Handler{
		driveClient: driveClient,
		service:     service,
	}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/drive/files", h.ListFiles).Methods("GET")
	router.HandleFunc("/api/drive/files/download", h.DownloadFile).Methods("GET")
	router.HandleFunc("/api/ingest/transactions", h.IngestTransactions).Methods("POST")
	router.HandleFunc("/api/ingest/file", h.IngestFile).Methods("POST")
	router.HandleFunc("/api/ingest/folder", h.IngestFolder).Methods("POST")
}

// IngestTransactions imports a CSV history export posted as the request body.
func (h *Handler) IngestTransactions(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	rows, err := h.service.IngestReader(r.Context(), r.Body)
	if err != nil {
		http.Error(w, fmt.Sprintf("ingestion failed: %v", err), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"status": "success", "rows": rows})
}

func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	folderID := query.Get("folderId")
	folderPath := query.Get("path")

	var err error
	if folderPath != "" {
		folderID, err = h.driveClient.FindFolderByPath(folderPath)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
	}

	files, err := h.driveClient.ListCSVFiles(folderID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(files)
}

func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	fileID := r.URL.Query().Get("fileId")
	if fileID == "" {
		http.Error(w, "fileId parameter is required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=history.csv")

	if err := h.driveClient.DownloadFile(fileID, w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) IngestFile(w http.ResponseWriter, r *http.Request) {
	fileID := r.URL.Query().Get("fileId")
	if fileID == "" {
		http.Error(w, "fileId parameter is required", http.StatusBadRequest)
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = fileID + ".csv"
	}

	rows, err := h.service.IngestDriveFile(r.Context(), fileID, name)
	if err != nil {
		http.Error(w, fmt.Sprintf("ingestion failed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"status": "success", "rows": rows})
}

func (h *Handler) IngestFolder(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")

	rows, err := h.service.IngestFolder(r.Context(), path)
	if err != nil {
		http.Error(w, fmt.Sprintf("ingestion failed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"status": "success", "rows": rows})
}
