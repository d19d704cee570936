package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"callcenter-dashboard/internal/analytics"
	"callcenter-dashboard/internal/auth"
	"callcenter-dashboard/internal/imports"
	"callcenter-dashboard/internal/rbac"
	"callcenter-dashboard/internal/reanimation"
	"callcenter-dashboard/internal/reporting"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.

type Handlers struct {
	Reports     *reporting.Service
	Imports     *imports.Service
	Reanimation *reanimation.Service
}

// Me echoes the authenticated identity.
func (h Handlers) Me(c *gin.Context) {
	ctx := c.Request.Context()
	uid, _ := auth.UserID(ctx)
	role, _ := auth.Role(ctx)
	c.JSON(http.StatusOK, gin.H{"user_id": uid, "role": role, "permissions": auth.Permissions(ctx)})
}

// --- Reports ---

func projectRequest(c *gin.Context) reporting.ProjectRequest {
	return reporting.ProjectRequest{
		ProjectID: c.Param(rbac.ProjectParam),
		Filter:    dateFilter(c),
	}
}

func dateFilter(c *gin.Context) analytics.DateFilter {
	return analytics.DateFilter{
		From: strings.TrimSpace(c.Query("from")),
		To:   strings.TrimSpace(c.Query("to")),
	}
}

// projectIDs parses ?project_ids=a,b. Absent means no filter (nil).
func projectIDs(c *gin.Context) []string {
	raw, ok := c.GetQuery("project_ids")
	if !ok {
		return nil
	}
	out := make([]string, 0)
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

func (h Handlers) ProjectSummary(c *gin.Context) {
	out, err := h.Reports.ProjectSummary(c.Request.Context(), projectRequest(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) SupplierReport(c *gin.Context) {
	out, err := h.Reports.SupplierReport(c.Request.Context(), reporting.SupplierReportRequest{
		ProjectRequest: projectRequest(c),
		SupplierID:     c.Param("supplier_id"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) SupplierComparison(c *gin.Context) {
	rows, err := h.Reports.SupplierComparison(c.Request.Context(), projectRequest(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

func (h Handlers) CallListReport(c *gin.Context) {
	rows, err := h.Reports.CallListReport(c.Request.Context(), projectRequest(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

// CallListDays takes the list name from ?call_list= since names are free text.
func (h Handlers) CallListDays(c *gin.Context) {
	rows, err := h.Reports.CallListDays(c.Request.Context(), reporting.CallListDaysRequest{
		ProjectRequest: projectRequest(c),
		CallList:       strings.TrimSpace(c.Query("call_list")),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

// PeriodReport covers every project the caller may analyse, optionally
// narrowed by ?project_ids=.
func (h Handlers) PeriodReport(c *gin.Context) {
	ctx := c.Request.Context()
	out, err := h.Reports.PeriodReport(ctx, reporting.PeriodReportRequest{
		ScopeRequest: reporting.ScopeRequest{
			ProjectIDs: rbac.ProjectScope(ctx, rbac.TabAnalytics, projectIDs(c)),
			Filter:     dateFilter(c),
		},
		Granularity: analytics.Granularity(c.DefaultQuery("granularity", string(analytics.GranularityDay))),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) ABCReport(c *gin.Context) {
	ctx := c.Request.Context()
	out, err := h.Reports.ABCReport(ctx, reporting.ScopeRequest{
		ProjectIDs: rbac.ProjectScope(ctx, rbac.TabAnalytics, projectIDs(c)),
		Filter:     dateFilter(c),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// --- Imports ---

func (h Handlers) Import(c *gin.Context) {
	var req imports.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	req.ProjectID = c.Param(rbac.ProjectParam)
	req.ActorUserID, _ = auth.UserID(c.Request.Context())

	job, err := h.Imports.Import(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

func (h Handlers) ListImportJobs(c *gin.Context) {
	jobs, err := h.Imports.ListJobs(c.Request.Context(), c.Param(rbac.ProjectParam), queryInt(c, "limit"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

// --- Reanimation ---

func (h Handlers) CreateReanimationExport(c *gin.Context) {
	actor, _ := auth.UserID(c.Request.Context())
	e, err := h.Reanimation.CreateExport(c.Request.Context(), c.Param(rbac.ProjectParam), actor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h Handlers) ListReanimationExports(c *gin.Context) {
	list, err := h.Reanimation.ListExports(c.Request.Context(), c.Param(rbac.ProjectParam), queryInt(c, "limit"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exports": list})
}

func (h Handlers) GetReanimationExport(c *gin.Context) {
	e, err := h.Reanimation.GetExport(c.Request.Context(), c.Param(rbac.ProjectParam), c.Param("export_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// queryInt returns 0 for a missing or malformed value; services apply defaults.
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}
