package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"callcenter-dashboard/internal/auth"
	"callcenter-dashboard/internal/calls"
	"callcenter-dashboard/internal/imports"
	"callcenter-dashboard/internal/projects"
	"callcenter-dashboard/internal/rbac"
	"callcenter-dashboard/internal/reanimation"
	"callcenter-dashboard/internal/reporting"
	"callcenter-dashboard/internal/suppliers"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withIdentity(id auth.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

type fixture struct {
	reports *reporting.MemoryRepo
	imports *imports.MemoryStore
	reanim  *reanimation.MemoryStore
	h       Handlers
}

func newFixture() *fixture {
	day := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	p1 := projects.Project{ID: "p1", Name: "Alpha"}
	p2 := projects.Project{ID: "p2", Name: "Beta"}
	sup := suppliers.Supplier{ID: "s1", ProjectID: "p1", Name: "Base", PricePerContact: decimal.NewFromInt(10)}

	cs := []calls.Call{
		{ID: 1, ProjectID: "p1", PhoneNormalized: "79990000001", Status: "answered", IsLead: true, CallAt: day, DurationSeconds: 61, ExternalCallID: "a"},
		{ID: 2, ProjectID: "p1", PhoneNormalized: "79990000002", Status: "busy", CallAt: day, ExternalCallID: "b"},
		{ID: 3, ProjectID: "p2", PhoneNormalized: "79990000003", Status: "answered", CallAt: day, DurationSeconds: 30, ExternalCallID: "c"},
	}

	f := &fixture{
		reports: reporting.NewMemoryRepo(),
		imports: imports.NewMemoryStore(),
		reanim:  reanimation.NewMemoryStore(),
	}
	f.reports.Projects = []projects.Project{p1, p2}
	f.reports.Suppliers = []suppliers.Supplier{sup}
	f.reports.Numbers = []suppliers.Number{
		{ID: 1, ProjectID: "p1", SupplierID: "s1", PhoneNormalized: "79990000001"},
		{ID: 2, ProjectID: "p1", SupplierID: "s1", PhoneNormalized: "79990000002"},
	}
	f.reports.Calls = cs

	f.imports.Projects = []projects.Project{p1, p2}
	f.imports.Suppliers = []suppliers.Supplier{sup}

	f.reanim.Projects = []projects.Project{p1, p2}
	f.reanim.Calls = cs

	f.h = Handlers{
		Reports:     reporting.NewService(f.reports, reporting.Options{}),
		Imports:     imports.NewService(f.imports, imports.Options{}),
		Reanimation: reanimation.NewService(f.reanim, reanimation.Options{}),
	}
	return f
}

func (f *fixture) router(id auth.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(withIdentity(id))
	r.GET("/me", f.h.Me)

	p := r.Group("/projects/:" + rbac.ProjectParam)
	p.GET("/summary", rbac.RequireProjectTab(rbac.TabSummary), f.h.ProjectSummary)
	p.GET("/suppliers", rbac.RequireProjectTab(rbac.TabSuppliers), f.h.SupplierComparison)
	p.GET("/suppliers/:supplier_id", rbac.RequireProjectTab(rbac.TabSuppliers), f.h.SupplierReport)
	p.GET("/call-lists", rbac.RequireProjectTab(rbac.TabCallLists), f.h.CallListReport)
	p.GET("/call-lists/days", rbac.RequireProjectTab(rbac.TabCallLists), f.h.CallListDays)
	p.POST("/imports", rbac.RequireAnyRole(rbac.RoleManager), rbac.RequireProjectTab(rbac.TabImports), f.h.Import)
	p.GET("/imports", rbac.RequireProjectTab(rbac.TabImports), f.h.ListImportJobs)
	p.POST("/reanimation/exports", rbac.RequireProjectTab(rbac.TabReanimation), f.h.CreateReanimationExport)
	p.GET("/reanimation/exports", rbac.RequireProjectTab(rbac.TabReanimation), f.h.ListReanimationExports)
	p.GET("/reanimation/exports/:export_id", rbac.RequireProjectTab(rbac.TabReanimation), f.h.GetReanimationExport)

	r.GET("/reports/periods", f.h.PeriodReport)
	r.GET("/reports/abc", f.h.ABCReport)
	return r
}

func do(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

var admin = auth.Identity{UserID: "u-admin", Role: rbac.RoleAdmin}

func TestProjectSummary(t *testing.T) {
	r := newFixture().router(admin)

	w := do(r, http.MethodGet, "/projects/p1/summary?from=2024-03-01&to=2024-03-31", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out reporting.ProjectSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "Alpha", out.Project.Name)
	assert.Equal(t, 2, out.Stats.TotalCalls)
	assert.Equal(t, 1, out.Stats.Answered)
	assert.Equal(t, 1, out.Stats.Leads)
}

func TestProjectSummary_Errors(t *testing.T) {
	r := newFixture().router(admin)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/projects/p1/summary?from=03.01.2024", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/projects/p1/summary?from=2024-03-31&to=2024-03-01", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/projects/nope/summary", nil).Code)
}

func TestProjectTabEnforced(t *testing.T) {
	viewer := auth.Identity{UserID: "u-view", Role: rbac.RoleViewer, Permissions: map[string][]string{"p1": {rbac.TabSummary}}}
	r := newFixture().router(viewer)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/projects/p1/summary", nil).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/projects/p1/suppliers", nil).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/projects/p2/summary", nil).Code)
}

func TestSupplierEndpoints(t *testing.T) {
	r := newFixture().router(admin)

	w := do(r, http.MethodGet, "/projects/p1/suppliers/s1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var rep reporting.SupplierReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rep))
	assert.Equal(t, 2, rep.Funnel.Received)
	assert.Equal(t, "20", rep.Spent.String())

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/projects/p1/suppliers/s9", nil).Code)

	w = do(r, http.MethodGet, "/projects/p1/suppliers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cmp struct {
		Rows []reporting.SupplierComparisonRow `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cmp))
	require.Len(t, cmp.Rows, 1)
	assert.Equal(t, "Base", cmp.Rows[0].Name)
}

func TestCallListEndpoints(t *testing.T) {
	r := newFixture().router(admin)

	w := do(r, http.MethodGet, "/projects/p1/call-lists", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Без списка")

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/projects/p1/call-lists/days", nil).Code)
}

func TestPeriodReport_ScopedByPermissions(t *testing.T) {
	viewer := auth.Identity{UserID: "u-view", Role: rbac.RoleViewer, Permissions: map[string][]string{"p2": {rbac.TabAnalytics}}}
	r := newFixture().router(viewer)

	w := do(r, http.MethodGet, "/reports/periods?granularity=month&project_ids=p1,p2", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out reporting.PeriodReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out.Rows, 1)
	assert.Equal(t, "2024-03", out.Rows[0].Key)
	// p1 is outside the caller's permissions, so only p2's single minute counts.
	assert.Equal(t, 1, out.Rows[0].Minutes)
	assert.Equal(t, 1, out.Rows[0].ProjectCount)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/reports/periods?granularity=year", nil).Code)
}

func TestABCReport(t *testing.T) {
	r := newFixture().router(admin)

	w := do(r, http.MethodGet, "/reports/abc", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"thresholds"`)
}

func TestImport(t *testing.T) {
	f := newFixture()
	manager := auth.Identity{UserID: "u-mgr", Role: rbac.RoleManager, Permissions: map[string][]string{"p1": {rbac.TabAll}}}
	r := f.router(manager)

	w := do(r, http.MethodPost, "/projects/p1/imports", map[string]any{
		"kind":        "numbers",
		"supplier_id": "s1",
		"numbers":     []map[string]any{{"phone": "8 (999) 000-00-05"}, {"phone": "+7 999 000 00 05"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var job imports.Job
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))
	assert.Equal(t, "p1", job.ProjectID)
	assert.Equal(t, "u-mgr", job.ActorUserID)
	assert.Equal(t, 2, job.TotalRows)
	assert.Equal(t, 1, job.InsertedRows)

	// s1 is not a GCK supplier.
	w = do(r, http.MethodPost, "/projects/p1/imports", map[string]any{
		"kind":        "gck_numbers",
		"supplier_id": "s1",
		"numbers":     []map[string]any{{"phone": "79990000009"}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/projects/p1/imports", map[string]any{"kind": "xlsx"}).Code)

	w = do(r, http.MethodGet, "/projects/p1/imports", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Jobs []imports.Job `json:"jobs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Jobs, 1)
}

func TestImport_ViewerDenied(t *testing.T) {
	viewer := auth.Identity{UserID: "u-view", Role: rbac.RoleViewer, Permissions: map[string][]string{"p1": {rbac.TabAll}}}
	r := newFixture().router(viewer)

	w := do(r, http.MethodPost, "/projects/p1/imports", map[string]any{"kind": "calls"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestReanimationExports(t *testing.T) {
	r := newFixture().router(admin)

	w := do(r, http.MethodPost, "/projects/p1/reanimation/exports", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var e reanimation.Export
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	assert.Equal(t, 1, e.BusyCount)
	require.Len(t, e.Phones, 1)
	assert.Equal(t, "79990000002", e.Phones[0].Phone)

	// The busy phone is already exported.
	assert.Equal(t, http.StatusConflict, do(r, http.MethodPost, "/projects/p1/reanimation/exports", nil).Code)

	w = do(r, http.MethodGet, "/projects/p1/reanimation/exports/"+e.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/projects/p1/reanimation/exports/missing", nil).Code)
}

func TestMe(t *testing.T) {
	r := newFixture().router(admin)
	w := do(r, http.MethodGet, "/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"u-admin"`)
}
