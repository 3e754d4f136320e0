// Package nav is the client's navigation layer: a static route table, a
// guard deciding every transition, and a router applying the decisions.
package nav

import (
	"net/url"

	"github.com/fieldkpi/qualdash/internal/api"
)

// Route names.
const (
	RouteLogin       = "login"
	RouteRoot        = "root"
	RouteUpload      = "upload"
	RouteAdminUsers  = "admin-users"
	RouteIFIRODM     = "ifir-odm-analysis"
	RouteIFIRSegment = "ifir-segment-analysis"
	RouteIFIRModel   = "ifir-model-analysis"
	RouteRAODM       = "ra-odm-analysis"
	RouteRASegment   = "ra-segment-analysis"
	RouteRAModel     = "ra-model-analysis"
)

// Route is the static metadata of one view. Defined at table construction,
// consulted but never mutated by the guard.
type Route struct {
	Name string
	Path string

	// RequiresAuth gates the route behind a valid session.
	RequiresAuth bool

	// RequiredRole, when set, must match the user's role exactly.
	RequiredRole api.Role

	// RequireUpload gates the route behind the admin-or-uploader rule.
	RequireUpload bool
}

// Table returns the application's route table.
func Table() []Route {
	return []Route{
		{Name: RouteLogin, Path: "/login"},
		{Name: RouteRoot, Path: "/", RequiresAuth: true},
		{Name: RouteUpload, Path: "/upload", RequiresAuth: true, RequireUpload: true},
		{Name: RouteAdminUsers, Path: "/admin/users", RequiresAuth: true, RequiredRole: api.RoleAdmin},
		{Name: RouteIFIRODM, Path: "/kpi/ifir/odm-analysis", RequiresAuth: true},
		{Name: RouteIFIRSegment, Path: "/kpi/ifir/segment-analysis", RequiresAuth: true},
		{Name: RouteIFIRModel, Path: "/kpi/ifir/model-analysis", RequiresAuth: true},
		{Name: RouteRAODM, Path: "/kpi/ra/odm-analysis", RequiresAuth: true},
		{Name: RouteRASegment, Path: "/kpi/ra/segment-analysis", RequiresAuth: true},
		{Name: RouteRAModel, Path: "/kpi/ra/model-analysis", RequiresAuth: true},
	}
}

// DefaultLanding returns the role-appropriate landing path: upload for
// admins and uploaders, the read-only IFIR ODM analysis for viewers.
func DefaultLanding(user *api.User) string {
	if user.CanUpload() {
		return "/upload"
	}
	return "/kpi/ifir/odm-analysis"
}

// loginRedirect builds the login path preserving the originally requested
// path, so login can forward the user back afterward.
func loginRedirect(from string) string {
	q := url.Values{"redirect": {from}}
	return "/login?" + q.Encode()
}
