package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"alfredoptarigan/excel-viewer/internal/models"
	"alfredoptarigan/excel-viewer/internal/repositories"
	"alfredoptarigan/excel-viewer/internal/services"
)

type fakeUploadRepo struct {
	mu      sync.Mutex
	uploads []models.Upload
	err     error
}

func (r *fakeUploadRepo) Create(upload *models.Upload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.uploads = append(r.uploads, *upload)
	return nil
}

func (r *fakeUploadRepo) FindRecent(limit int) ([]models.Upload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if limit > len(r.uploads) {
		limit = len(r.uploads)
	}
	return append([]models.Upload{}, r.uploads[:limit]...), nil
}

type testServer struct {
	app       *fiber.App
	store     services.DatasetStore
	uploadDir string
	repo      *fakeUploadRepo
}

func newTestServer(t *testing.T, withRepo bool) *testServer {
	t.Helper()

	uploadDir := t.TempDir()
	storage := services.NewStorageService(uploadDir)
	store := services.NewDatasetStore()
	renderer, err := services.NewRenderer()
	require.NoError(t, err)

	var repo *fakeUploadRepo
	var uploadRepo repositories.UploadRepository
	if withRepo {
		repo = &fakeUploadRepo{}
		uploadRepo = repo
	}

	rowFilter := services.NewRowFilter([]string{"Final_Status", "Country", "QA_Status"}, "Job_Title")

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app,
		NewUploadHandler(storage, services.NewSheetExtractor(), store, uploadRepo, 1<<20),
		NewViewHandler(store, rowFilter, renderer, "Job_Titles"),
		NewHistoryHandler(uploadRepo),
	)

	return &testServer{app: app, store: store, uploadDir: uploadDir, repo: repo}
}

func workbookBytes(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		values := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &values))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func reportRows() [][]any {
	return [][]any{
		{"Country", "Final_Status", "QA_Status", "Job_Title"},
		{"US", "Pass", "Done", "Alice Smith"},
		{"US", "Fail", "Open", "Robert Bob Jr"},
		{"UK", "Pass", "Done", "Carol"},
	}
}

func uploadRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func (s *testServer) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (s *testServer) viewJSON(t *testing.T, query url.Values) models.ViewResponse {
	t.Helper()
	resp, body := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/view?"+query.Encode(), nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out models.ViewResponse
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	return out
}

func uploadDirEntries(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return entries
}

func TestIndex_RendersEmptyPage(t *testing.T) {
	s := newTestServer(t, false)

	resp, body := s.do(t, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/html")
	assert.Contains(t, body, `name="excelFile"`)
	assert.NotContains(t, body, "<table>")
}

func TestUpload_LoadsDatasetAndRedirects(t *testing.T) {
	s := newTestServer(t, true)

	resp, _ := s.do(t, uploadRequest(t, "excelFile", "report.xlsx", workbookBytes(t, reportRows())))
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/view", resp.Header.Get(fiber.HeaderLocation))

	ds := s.store.Get()
	assert.Equal(t, []string{"Country", "Final_Status", "QA_Status", "Job_Title"}, ds.Headers)
	assert.Len(t, ds.Rows, 3)

	assert.Empty(t, uploadDirEntries(t, s.uploadDir), "processed upload must be deleted")

	require.Len(t, s.repo.uploads, 1)
	assert.Equal(t, models.UploadProcessed, s.repo.uploads[0].Status)
	assert.Equal(t, "report.xlsx", s.repo.uploads[0].OriginalFileName)
	assert.Equal(t, 3, s.repo.uploads[0].RowCount)
	assert.Equal(t, 4, s.repo.uploads[0].HeaderCount)
}

func TestUpload_SecondUploadReplacesDataset(t *testing.T) {
	s := newTestServer(t, false)

	s.do(t, uploadRequest(t, "excelFile", "first.xlsx", workbookBytes(t, reportRows())))
	s.do(t, uploadRequest(t, "excelFile", "second.xlsx", workbookBytes(t, [][]any{
		{"Country", "Job_Title"},
		{"DE", "Ops"},
	})))

	assert.Equal(t, models.Dataset{
		Headers: []string{"Country", "Job_Title"},
		Rows:    []models.Row{{"Country": "DE", "Job_Title": "Ops"}},
	}, s.store.Get())
}

func TestUpload_ParseFailureKeepsFileAndDataset(t *testing.T) {
	s := newTestServer(t, true)
	s.do(t, uploadRequest(t, "excelFile", "report.xlsx", workbookBytes(t, reportRows())))
	before := s.store.Get()

	resp, body := s.do(t, uploadRequest(t, "excelFile", "broken.xlsx", []byte("not a workbook")))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, UploadFailureMessage, body)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/plain")

	assert.Equal(t, before, s.store.Get())

	entries := uploadDirEntries(t, s.uploadDir)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "-broken.xlsx")

	require.Len(t, s.repo.uploads, 2)
	failed := s.repo.uploads[1]
	assert.Equal(t, models.UploadFailed, failed.Status)
	require.NotNil(t, failed.ErrorMessage)
	assert.Contains(t, *failed.ErrorMessage, "open workbook")
}

func TestUpload_MissingFileField(t *testing.T) {
	s := newTestServer(t, false)

	resp, body := s.do(t, uploadRequest(t, "document", "report.xlsx", workbookBytes(t, reportRows())))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, UploadFailureMessage, body)
	assert.False(t, s.store.Get().Loaded())
}

func TestUpload_UnsupportedExtension(t *testing.T) {
	s := newTestServer(t, false)

	_, body := s.do(t, uploadRequest(t, "excelFile", "report.csv", []byte("a,b\n1,2")))
	assert.Equal(t, UploadFailureMessage, body)
	assert.Empty(t, uploadDirEntries(t, s.uploadDir))
}

func TestUpload_AuditFailureDoesNotBreakUpload(t *testing.T) {
	s := newTestServer(t, true)
	s.repo.err = errors.New("db down")

	resp, _ := s.do(t, uploadRequest(t, "excelFile", "report.xlsx", workbookBytes(t, reportRows())))
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.True(t, s.store.Get().Loaded())
}

func TestView_FiltersRows(t *testing.T) {
	s := newTestServer(t, false)
	s.do(t, uploadRequest(t, "excelFile", "report.xlsx", workbookBytes(t, reportRows())))

	out := s.viewJSON(t, url.Values{"Country": {"US"}})
	require.Len(t, out.Rows, 2)

	out = s.viewJSON(t, url.Values{"Country": {"US"}, "Final_Status": {"Pass"}})
	require.Len(t, out.Rows, 1)
	assert.Equal(t, "Alice Smith", out.Rows[0]["Job_Title"])

	out = s.viewJSON(t, url.Values{"Country": {"All"}, "QA_Status": {"All"}})
	assert.Len(t, out.Rows, 3)

	out = s.viewJSON(t, url.Values{"Job_Titles": {"alice, BOB"}})
	require.Len(t, out.Rows, 2)
	assert.Equal(t, "alice, BOB", out.Selected["Job_Titles"])

	require.Len(t, out.Filters, 3)
	assert.Equal(t, "Final_Status", out.Filters[0].Field)
	assert.Equal(t, []string{"Pass", "Fail"}, out.Filters[0].Options)
	assert.Equal(t, "Country", out.Filters[1].Field)
	assert.Equal(t, []string{"US", "UK"}, out.Filters[1].Options)
}

func TestView_DistinctValuesIgnoreFilters(t *testing.T) {
	s := newTestServer(t, false)
	s.do(t, uploadRequest(t, "excelFile", "report.xlsx", workbookBytes(t, reportRows())))

	all := s.viewJSON(t, url.Values{})
	narrowed := s.viewJSON(t, url.Values{"Country": {"UK"}})
	assert.Equal(t, all.Filters[1].Options, narrowed.Filters[1].Options)
	assert.Equal(t, "UK", narrowed.Filters[1].Selected)
}

func TestView_RendersTable(t *testing.T) {
	s := newTestServer(t, false)
	s.do(t, uploadRequest(t, "excelFile", "report.xlsx", workbookBytes(t, reportRows())))

	resp, body := s.do(t, httptest.NewRequest(http.MethodGet, "/view?Country=UK", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<td>Carol</td>")
	assert.NotContains(t, body, "<td>Alice Smith</td>")
	assert.Contains(t, body, `<option value="UK" selected>UK</option>`)
	assert.Contains(t, body, "1 of 3 rows")
}

func TestView_WithoutDataset(t *testing.T) {
	s := newTestServer(t, false)

	resp, _ := s.do(t, httptest.NewRequest(http.MethodGet, "/view", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	out := s.viewJSON(t, url.Values{"Country": {"US"}})
	assert.Empty(t, out.Headers)
	assert.Empty(t, out.Rows)
}

func TestHistory(t *testing.T) {
	disabled := newTestServer(t, false)
	resp, _ := disabled.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/uploads", nil))
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	s := newTestServer(t, true)
	s.do(t, uploadRequest(t, "excelFile", "a.xlsx", workbookBytes(t, reportRows())))
	s.do(t, uploadRequest(t, "excelFile", "b.csv", []byte("x")))

	resp, body := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/uploads?limit=1", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out models.UploadListResponse
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, 1, out.Count)
	require.Len(t, out.Uploads, 1)
	assert.Equal(t, "a.xlsx", out.Uploads[0].OriginalFileName)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, false)
	resp, body := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"status":"healthy"`)
}
