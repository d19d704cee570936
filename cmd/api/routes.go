package main

import (
	"context"
	"net/http"
	"time"

	"callcenter-dashboard/internal/httpapi"
	"callcenter-dashboard/internal/rbac"
	"callcenter-dashboard/pkg/telemetry"

	"github.com/gin-gonic/gin"
)

// reportSlotTTL outlives the server WriteTimeout so a live request never loses its slot.
const reportSlotTTL = 2 * time.Minute

type routeDeps struct {
	Handlers    httpapi.Handlers
	AuthMW      gin.HandlerFunc
	ReportSlots gin.HandlerFunc
	Metrics     *telemetry.Metrics
	Ready       func(ctx context.Context) error
}

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, d routeDeps) {
	h := d.Handlers

	// public
	r.GET("/healthz", func(c *gin.Context) {
		if d.Ready != nil {
			if err := d.Ready(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	// protected API group
	v1 := r.Group("/v1")
	v1.Use(d.AuthMW)
	{
		v1.GET("/me", h.Me)

		// Cross-project reports. Scope is narrowed to the caller's analytics tab.
		reports := v1.Group("/reports")
		reports.Use(d.ReportSlots)
		{
			reports.GET("/periods", h.PeriodReport)
			reports.GET("/abc", h.ABCReport)
		}

		project := v1.Group("/projects/:" + rbac.ProjectParam)
		{
			project.GET("/summary", rbac.RequireProjectTab(rbac.TabSummary), d.ReportSlots, h.ProjectSummary)

			sup := project.Group("/suppliers")
			sup.Use(rbac.RequireProjectTab(rbac.TabSuppliers), d.ReportSlots)
			{
				sup.GET("", h.SupplierComparison)
				sup.GET("/:supplier_id", h.SupplierReport)
			}

			lists := project.Group("/call-lists")
			lists.Use(rbac.RequireProjectTab(rbac.TabCallLists), d.ReportSlots)
			{
				lists.GET("", h.CallListReport)
				lists.GET("/days", h.CallListDays)
			}

			// IMPORT routes
			// Writes are limited to managers; reading the job log only needs the tab.
			imp := project.Group("/imports")
			imp.Use(rbac.RequireProjectTab(rbac.TabImports))
			{
				imp.GET("", h.ListImportJobs)
				imp.POST("", rbac.RequireAnyRole(rbac.RoleManager), h.Import)
			}

			// REANIMATION routes
			re := project.Group("/reanimation/exports")
			re.Use(rbac.RequireProjectTab(rbac.TabReanimation))
			{
				re.GET("", h.ListReanimationExports)
				re.POST("", rbac.RequireAnyRole(rbac.RoleManager), h.CreateReanimationExport)
				re.GET("/:export_id", h.GetReanimationExport)
			}
		}
	}
}
