package web

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incident-analysis/internal/database"
	"incident-analysis/internal/models"
	"incident-analysis/internal/reliability"
)

var fixedNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*Server, *database.DB, http.Handler) {
	t.Helper()

	dir := t.TempDir()
	db, err := database.New(filepath.Join(dir, "web.db"))
	require.NoError(t, err)
	require.NoError(t, db.InitSchema())
	t.Cleanup(func() { db.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	s := New(db, reliability.NewEngine(reliability.DefaultParams()), Options{
		Port:           0,
		UploadsDir:     filepath.Join(dir, "uploads"),
		MaxUploadBytes: 1 << 20,
	}, logger)
	s.now = func() time.Time { return fixedNow }

	return s, db, s.Router()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	_, _, h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIncidentLifecycle(t *testing.T) {
	_, _, h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/incidents", map[string]any{
		"posteName":         "Poste Nord",
		"depart":            "Feeder 7",
		"type":              "DD ED",
		"declenchement":     "2024-03-15 08:00",
		"finRetab":          "2024-03-15 10:00",
		"affectedCustomers": 500,
		"status":            "Resolved",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.Incident](t, rec)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.StatusPending, created.Status)
	require.NotNil(t, created.CreatedAt)
	assert.True(t, fixedNow.Equal(*created.CreatedAt))

	rec = do(t, h, http.MethodGet, "/api/incidents?q=nord", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Incident](t, rec), 1)

	rec = do(t, h, http.MethodGet, "/api/incidents?q=sud", nil)
	assert.Empty(t, decode[[]models.Incident](t, rec))

	rec = do(t, h, http.MethodPut, "/api/incidents/"+created.ID, map[string]any{
		"posteName":         "Poste Nord",
		"depart":            "Feeder 9",
		"type":              []string{"DD"},
		"declenchement":     "2024-03-15 08:00",
		"finRetab":          "2024-03-15 10:00",
		"affectedCustomers": 500,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/incidents/"+created.ID, nil)
	got := decode[models.Incident](t, rec)
	assert.Equal(t, "Feeder 9", got.Depart)
	assert.Equal(t, models.TypeSet{"DD"}, got.Type)

	rec = do(t, h, http.MethodGet, "/api/analysis?range=Last+30+Days&type=DD", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[models.MetricsResult](t, rec)
	assert.Len(t, res.Filtered, 1)
	assert.Equal(t, 1, res.Indices.DDCount)
	assert.Equal(t, int64(2), res.Indices.TCIHours)
	assert.Equal(t, int64(2000), res.Indices.ENDKwh)
	assert.Equal(t, 0.1, res.Indices.SAIDI)
	assert.Equal(t, []models.MonthCount{{Month: "2024-03", Count: 1}}, res.MonthlyData)
	assert.Equal(t, []models.StatusCount{{Status: models.StatusPending, Count: 1, Percentage: 100}}, res.StatusData)
	require.Len(t, res.DepartData, 1)
	assert.Equal(t, "Feeder 9", res.DepartData[0].Depart)

	rec = do(t, h, http.MethodPatch, "/api/incidents/"+created.ID+"/status", map[string]string{"status": "In Progress"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/dashboard", nil)
	dash := decode[models.DashboardStats](t, rec)
	assert.Equal(t, 1, dash.Total)
	assert.Equal(t, 1, dash.InProgress)
	assert.Len(t, dash.Recent, 1)

	rec = do(t, h, http.MethodPost, "/api/incidents/"+created.ID+"/resolve", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/incidents/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/incidents/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateIncidentValidation(t *testing.T) {
	_, _, h := newTestServer(t)

	tests := []struct {
		name    string
		body    map[string]any
		message string
	}{
		{name: "missing poste", body: map[string]any{"type": "DD"}, message: "Poste Name is required"},
		{name: "missing type", body: map[string]any{"posteName": "Nord"}, message: "At least one incident type is required"},
		{name: "absurd duration", body: map[string]any{"posteName": "Nord", "type": "DD", "duration": 1e308}, message: "Duration must be between 0 and 8784 hours"},
		{name: "negative duration", body: map[string]any{"posteName": "Nord", "type": "DD", "duration": -2}, message: "Duration must be between 0 and 8784 hours"},
		{name: "negative customers", body: map[string]any{"posteName": "Nord", "type": "DD", "affectedCustomers": -5}, message: "Affected customers cannot be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/incidents", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.message, decode[errorResponse](t, rec).Message)
		})
	}
}

func TestWriteJSONLogsEncodeFailure(t *testing.T) {
	s, _, _ := newTestServer(t)
	hook := logtest.NewLocal(s.logger)

	rec := httptest.NewRecorder()
	s.writeJSON(rec, http.StatusOK, map[string]float64{"saidi": math.Inf(1)})

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "Failed to encode response", hook.LastEntry().Message)
}

func TestUpdateStatusRejectsUnknown(t *testing.T) {
	_, _, h := newTestServer(t)
	rec := do(t, h, http.MethodPatch, "/api/incidents/x/status", map[string]string{"status": "Closed"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPatch, "/api/incidents/x/status", map[string]string{"status": "Resolved"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalysisUnknownRangeDefaults(t *testing.T) {
	_, _, h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/api/analysis?range=forever", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[models.MetricsResult](t, rec)
	assert.Equal(t, "Last 30 Days", res.Range)
	assert.NotNil(t, res.Filtered)
}

func TestExportCSV(t *testing.T) {
	_, db, h := newTestServer(t)
	created := fixedNow.AddDate(0, 0, -1)
	_, err := db.SaveIncident(context.Background(), models.Incident{ID: "exp-1", Type: models.NewTypeSet("BC"), CreatedAt: &created, PosteName: "Est"})
	require.NoError(t, err)

	rec := do(t, h, http.MethodGet, "/api/analysis/export?range=Last+30+Days", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "exp-1", records[1][0])
}

func TestSnapshotsEndpoint(t *testing.T) {
	_, db, h := newTestServer(t)
	require.NoError(t, db.SaveSnapshot(context.Background(), models.Snapshot{TakenAt: fixedNow, Range: "Last 30 Days"}))

	rec := do(t, h, http.MethodGet, "/api/snapshots?range=Last+30+Days&limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Snapshot](t, rec), 1)

	rec = do(t, h, http.MethodGet, "/api/snapshots?range=Last+Year", nil)
	assert.Empty(t, decode[[]models.Snapshot](t, rec))
}

func upload(t *testing.T, h http.Handler, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = io.Copy(fw, strings.NewReader(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestUploadSheetDataAndImport(t *testing.T) {
	_, db, h := newTestServer(t)

	rec := upload(t, h, "incidents.csv", "Poste Name,Type,Created At,Duration,Affected Customers\nNord,DD,2024-03-10 08:00,3,200\nSud,DRR ED,,,\n")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var up struct {
		Success bool         `json:"success"`
		Data    uploadResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &up))
	assert.True(t, up.Success)
	assert.Equal(t, "incidents.csv", up.Data.FileName)
	assert.Equal(t, []string{"Sheet1"}, up.Data.Sheets)
	assert.Equal(t, ".csv", up.Data.FileType)

	req := sheetRequest{FilePath: up.Data.FilePath, SheetName: "Sheet1"}

	rec = do(t, h, http.MethodPost, "/api/sheet-data", req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"Poste Name"`)

	rec = do(t, h, http.MethodPost, "/api/import", req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var imp struct {
		Data importResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &imp))
	assert.Equal(t, 2, imp.Data.Imported)
	assert.Zero(t, imp.Data.Failed)

	all, err := db.ListIncidents(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUploadRejects(t *testing.T) {
	_, _, h := newTestServer(t)

	rec := upload(t, h, "notes.txt", "hello")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/sheet-data", sheetRequest{FilePath: "x.csv"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/sheet-data", sheetRequest{FilePath: "/etc/passwd", SheetName: "Sheet1"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
