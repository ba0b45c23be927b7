package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"incident-analysis/internal/ingest"
)

type uploadResult struct {
	FileName string   `json:"fileName"`
	FilePath string   `json:"filePath"`
	Sheets   []string `json:"sheets"`
	FileType string   `json:"fileType"`
}

type sheetRequest struct {
	FilePath  string `json:"filePath"`
	SheetName string `json:"sheetName"`
}

type importResult struct {
	Imported int               `json:"imported"`
	Failed   int               `json:"failed"`
	Issues   []ingest.RowIssue `json:"issues"`
}

// handleUpload handles multipart spreadsheet uploads and reports the sheets found
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.writeError(w, http.StatusBadRequest, "Error uploading file: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if !ingest.Supported(header.Filename) {
		s.writeError(w, http.StatusBadRequest, "Only Excel (.xlsx) and CSV files are allowed!")
		return
	}

	if err := os.MkdirAll(s.opts.UploadsDir, 0o755); err != nil {
		s.writeStoreError(w, fmt.Errorf("create uploads directory: %w", err))
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	path := filepath.Join(s.opts.UploadsDir, fmt.Sprintf("file-%s%s", uuid.NewString(), ext))
	if err := saveUpload(path, file); err != nil {
		s.writeStoreError(w, err)
		return
	}

	sheets, err := ingest.SheetNames(path)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	s.logger.WithField("file", header.Filename).WithField("sheets", len(sheets)).Info("Spreadsheet uploaded")
	s.writeData(w, uploadResult{
		FileName: header.Filename,
		FilePath: path,
		Sheets:   sheets,
		FileType: ext,
	})
}

// handleSheetData returns the columns and rows of one uploaded sheet
func (s *Server) handleSheetData(w http.ResponseWriter, r *http.Request) {
	table, ok := s.readRequestedSheet(w, r)
	if !ok {
		return
	}
	s.writeData(w, table)
}

// handleImport stores the rows of an uploaded sheet as incidents
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	table, ok := s.readRequestedSheet(w, r)
	if !ok {
		return
	}

	incidents, issues := ingest.ToIncidents(table, s.engine.Params().Location)
	result := importResult{Issues: issues}
	if result.Issues == nil {
		result.Issues = []ingest.RowIssue{}
	}

	for _, inc := range incidents {
		if _, err := s.store.SaveIncident(r.Context(), inc); err != nil {
			s.logger.WithError(err).WithField("id", inc.ID).Warn("Failed to import incident")
			result.Failed++
			continue
		}
		result.Imported++
	}

	s.logger.WithField("imported", result.Imported).WithField("failed", result.Failed).Info("Spreadsheet imported")
	s.writeData(w, result)
}

func (s *Server) readRequestedSheet(w http.ResponseWriter, r *http.Request) (ingest.Table, bool) {
	var req sheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return ingest.Table{}, false
	}
	if req.FilePath == "" || req.SheetName == "" {
		s.writeError(w, http.StatusBadRequest, "File path and sheet name are required")
		return ingest.Table{}, false
	}

	path, err := s.uploadedPath(req.FilePath)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "File not found")
		return ingest.Table{}, false
	}

	table, err := ingest.ReadSheet(path, req.SheetName)
	if err != nil {
		s.writeStoreError(w, err)
		return ingest.Table{}, false
	}
	return table, true
}

// uploadedPath resolves p and checks that it names an existing file inside
// the uploads directory
func (s *Server) uploadedPath(p string) (string, error) {
	root, err := filepath.Abs(s.opts.UploadsDir)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.New("path outside uploads directory")
	}

	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		return "", errors.New("not a file")
	}
	return abs, nil
}

func saveUpload(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create upload: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return fmt.Errorf("write upload: %w", err)
	}
	return dst.Close()
}
