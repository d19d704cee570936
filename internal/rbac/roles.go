package rbac

// Role names. Keep these stable; they are part of auth/RBAC contracts.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleViewer  = "viewer"
)

// Dashboard tabs a project permission can grant.
const (
	TabSummary     = "summary"
	TabSuppliers   = "suppliers"
	TabCallLists   = "call_lists"
	TabAnalytics   = "analytics"
	TabImports     = "imports"
	TabReanimation = "reanimation"

	// TabAll grants every tab of a project.
	TabAll = "*"
)

func IsAdmin(role string) bool { return role == RoleAdmin }
