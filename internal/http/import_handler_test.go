package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/StellarBearX/stanlendar-sub003/internal/domain"
	"github.com/StellarBearX/stanlendar-sub003/internal/service"
)

type stubJobRepo struct {
	jobs map[string]domain.ImportJob
}

func newStubJobRepo() *stubJobRepo {
	return &stubJobRepo{jobs: make(map[string]domain.ImportJob)}
}

func (s *stubJobRepo) Create(_ context.Context, job domain.ImportJob) error {
	s.jobs[job.ID] = job
	return nil
}

func (s *stubJobRepo) GetByID(_ context.Context, id string) (*domain.ImportJob, error) {
	job, ok := s.jobs[id]
	if !ok {
		return nil, nil
	}
	return &job, nil
}

func (s *stubJobRepo) ListByUser(_ context.Context, userID string) ([]domain.ImportJob, error) {
	var out []domain.ImportJob
	for _, job := range s.jobs {
		if job.UserID == userID {
			out = append(out, job)
		}
	}
	return out, nil
}

func (s *stubJobRepo) ClaimNext(_ context.Context) (*domain.ImportJob, error) {
	return nil, nil
}

func (s *stubJobRepo) UpdateCounters(_ context.Context, id string, c domain.ImportCounters) error {
	return nil
}

func (s *stubJobRepo) Complete(_ context.Context, id string, c domain.ImportCounters) error {
	return nil
}

func (s *stubJobRepo) Fail(_ context.Context, id, reason string) error {
	return nil
}

type stubItemRepo struct {
	nextID int64
	items  map[int64]domain.ImportItem
}

func newStubItemRepo() *stubItemRepo {
	return &stubItemRepo{nextID: 1, items: make(map[int64]domain.ImportItem)}
}

func (s *stubItemRepo) Create(_ context.Context, item domain.ImportItem) (domain.ImportItem, error) {
	item.ID = s.nextID
	s.nextID++
	s.items[item.ID] = item
	return item, nil
}

func (s *stubItemRepo) GetByID(_ context.Context, id int64) (*domain.ImportItem, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (s *stubItemRepo) ListByJob(_ context.Context, jobID string) ([]domain.ImportItem, error) {
	var out []domain.ImportItem
	for _, item := range s.items {
		if item.ImportJobID == jobID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubItemRepo) ListByJobAndStatus(_ context.Context, jobID, status string) ([]domain.ImportItem, error) {
	all, _ := s.ListByJob(context.Background(), jobID)
	var out []domain.ImportItem
	for _, item := range all {
		if item.Status == status {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubItemRepo) BulkCreate(_ context.Context, items []domain.ImportItem) ([]domain.ImportItem, error) {
	out := make([]domain.ImportItem, 0, len(items))
	for _, item := range items {
		stored, _ := s.Create(context.Background(), item)
		out = append(out, stored)
	}
	return out, nil
}

func (s *stubItemRepo) UpdateStatus(_ context.Context, id int64, status string) error {
	item, ok := s.items[id]
	if !ok {
		return nil
	}
	item.Status = status
	s.items[id] = item
	return nil
}

func (s *stubItemRepo) Update(_ context.Context, id int64, patch domain.ImportItemPatch) (*domain.ImportItem, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	if patch.Status != nil {
		item.Status = *patch.Status
	}
	if patch.Room != nil {
		item.Room = *patch.Room
	}
	s.items[id] = item
	return &item, nil
}

func (s *stubItemRepo) Delete(_ context.Context, id int64) error {
	delete(s.items, id)
	return nil
}

func (s *stubItemRepo) ListAll(_ context.Context) ([]domain.ImportItem, error) {
	var out []domain.ImportItem
	for _, item := range s.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type importTestEnv struct {
	router *gin.Engine
	jobs   *stubJobRepo
	items  *stubItemRepo
	token  string
}

func newImportTestEnv(t *testing.T) *importTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jobs := newStubJobRepo()
	items := newStubItemRepo()
	jwtSvc := service.NewJWTService("secret", 15*time.Minute, time.Hour)
	handler := NewImportHandler(zap.NewNop(), service.NewImportService(zap.NewNop(), jobs), jobs, items)

	pair, err := jwtSvc.GeneratePair(domain.User{ID: "u1", Email: "u1@example.com"})
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}

	r := gin.New()
	guarded := r.Group("/", AuthGuard(jwtSvc))
	guarded.POST("/imports", handler.CreateImport)
	guarded.GET("/imports", handler.ListImports)
	guarded.GET("/imports/:id", handler.GetImport)
	guarded.GET("/imports/:id/items", handler.ListImportItems)
	guarded.POST("/imports/:id/items", handler.CreateImportItem)
	guarded.GET("/import-items", handler.ListAllItems)
	guarded.GET("/import-items/:itemID", handler.GetImportItem)
	guarded.PATCH("/import-items/:itemID", handler.UpdateImportItem)
	guarded.DELETE("/import-items/:itemID", handler.DeleteImportItem)

	return &importTestEnv{router: r, jobs: jobs, items: items, token: pair.AccessToken}
}

func (e *importTestEnv) do(t *testing.T, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.token)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestImportHandlerCreateImport(t *testing.T) {
	env := newImportTestEnv(t)

	rec := env.do(t, http.MethodPost, "/imports", gin.H{"source_path": "rosters/fall.json"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Import domain.ImportJob `json:"import"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Import.Status != domain.JobStatusQueued || resp.Import.UserID != "u1" {
		t.Fatalf("unexpected job: %+v", resp.Import)
	}
	if _, ok := env.jobs.jobs[resp.Import.ID]; !ok {
		t.Fatal("expected job persisted")
	}
}

func TestImportHandlerCreateImport_RejectsBadSource(t *testing.T) {
	env := newImportTestEnv(t)

	rec := env.do(t, http.MethodPost, "/imports", gin.H{"source_path": "roster.csv"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestImportHandlerGetImport_NotFoundCases(t *testing.T) {
	env := newImportTestEnv(t)
	env.jobs.Create(context.Background(), domain.ImportJob{ID: "j-other", UserID: "someone-else"})

	// Job inexistente.
	rec := env.do(t, http.MethodGet, "/imports/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing job: expected 404, got %d", rec.Code)
	}

	// Job de otro usuario se responde igual que uno inexistente.
	rec = env.do(t, http.MethodGet, "/imports/j-other", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("foreign job: expected 404, got %d", rec.Code)
	}
}

func TestImportHandlerListImportItems(t *testing.T) {
	env := newImportTestEnv(t)
	env.jobs.Create(context.Background(), domain.ImportJob{ID: "j1", UserID: "u1"})
	for i, status := range []string{domain.ItemStatusImported, domain.ItemStatusFailed, domain.ItemStatusImported} {
		env.items.Create(context.Background(), domain.ImportItem{
			ImportJobID: "j1",
			RowIndex:    int64(i),
			Status:      status,
			CourseCode:  "CS101",
			CourseName:  "Intro",
		})
	}

	rec := env.do(t, http.MethodGet, "/imports/j1/items", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Items []domain.ImportItem `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(resp.Items))
	}
	for i := 1; i < len(resp.Items); i++ {
		if resp.Items[i-1].ID >= resp.Items[i].ID {
			t.Fatalf("expected ascending ids, got %d before %d", resp.Items[i-1].ID, resp.Items[i].ID)
		}
	}

	rec = env.do(t, http.MethodGet, "/imports/j1/items?status=failed", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("filtered list: expected 200, got %d", rec.Code)
	}
	resp.Items = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].Status != domain.ItemStatusFailed {
		t.Fatalf("unexpected filtered items: %+v", resp.Items)
	}

	rec = env.do(t, http.MethodGet, "/imports/j1/items?status=bogus", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bogus status: expected 400, got %d", rec.Code)
	}
}

func TestImportHandlerGetImportItem_NotFound(t *testing.T) {
	env := newImportTestEnv(t)

	rec := env.do(t, http.MethodGet, "/import-items/999", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/import-items/not-a-number", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestImportHandlerUpdateImportItem(t *testing.T) {
	env := newImportTestEnv(t)
	stored, _ := env.items.Create(context.Background(), domain.ImportItem{
		ImportJobID: "j1",
		Status:      domain.ItemStatusPending,
		Room:        "A-101",
	})

	rec := env.do(t, http.MethodPatch, "/import-items/1", gin.H{"status": "imported", "room": "B-202"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Item domain.ImportItem `json:"item"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Item.ID != stored.ID || resp.Item.Status != domain.ItemStatusImported || resp.Item.Room != "B-202" {
		t.Fatalf("unexpected refreshed item: %+v", resp.Item)
	}

	rec = env.do(t, http.MethodPatch, "/import-items/999", gin.H{"status": "imported"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing item: expected 404, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPatch, "/import-items/1", gin.H{"status": "bogus"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad status: expected 400, got %d", rec.Code)
	}
}

func TestImportHandlerDeleteImportItem(t *testing.T) {
	env := newImportTestEnv(t)
	env.items.Create(context.Background(), domain.ImportItem{ImportJobID: "j1", Status: domain.ItemStatusPending})

	rec := env.do(t, http.MethodDelete, "/import-items/1", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(env.items.items) != 0 {
		t.Fatal("expected item removed")
	}

	// Borrar de nuevo sigue siendo 204.
	rec = env.do(t, http.MethodDelete, "/import-items/1", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("repeat delete: expected 204, got %d", rec.Code)
	}
}
