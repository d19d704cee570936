package rbac

import (
	"context"
	"sort"

	"callcenter-dashboard/internal/auth"
)

// CanAccess reports whether a caller may open tab in project.
// Admins may open everything.
func CanAccess(role string, perms map[string][]string, projectID, tab string) bool {
	if IsAdmin(role) {
		return true
	}
	for _, t := range perms[projectID] {
		if t == tab || t == TabAll {
			return true
		}
	}
	return false
}

// ProjectScope resolves which projects a multi-project report may include.
//
// requested is the caller's own filter (nil means no filter). The result is
// nil only for an admin without a filter, meaning every project. For anyone
// else it is the requested projects they may open tab in, or all such
// projects when nothing was requested. It may be empty.
func ProjectScope(ctx context.Context, tab string, requested []string) []string {
	role, _ := auth.Role(ctx)
	if IsAdmin(role) {
		return requested
	}
	perms := auth.Permissions(ctx)

	if requested != nil {
		out := make([]string, 0, len(requested))
		for _, id := range requested {
			if CanAccess(role, perms, id, tab) {
				out = append(out, id)
			}
		}
		return out
	}

	out := make([]string, 0, len(perms))
	for id := range perms {
		if CanAccess(role, perms, id, tab) {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
