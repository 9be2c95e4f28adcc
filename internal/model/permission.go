package model

// Permission represents a string code for a specific system action.
type Permission string

const (
	// PermissionMediaUpload allows uploading logos and vehicle images.
	PermissionMediaUpload Permission = "media:upload"

	// PermissionLearnersRead allows viewing learners (drivers see only their route).
	PermissionLearnersRead Permission = "learners:read"

	// PermissionLearnersWrite allows creating, updating and toggling learners.
	PermissionLearnersWrite Permission = "learners:write"

	// PermissionRoutesRead allows viewing routes.
	PermissionRoutesRead Permission = "routes:read"

	// PermissionRoutesWrite allows managing routes, areas and vehicles.
	PermissionRoutesWrite Permission = "routes:write"

	// PermissionStaffWrite allows managing drivers and minders.
	PermissionStaffWrite Permission = "staff:write"

	// PermissionSettingsWrite allows editing school settings and class structure.
	PermissionSettingsWrite Permission = "settings:write"

	// PermissionReportsGenerate allows producing route manifests.
	PermissionReportsGenerate Permission = "reports:generate"

	// PermissionAuditRead allows viewing the audit trail.
	PermissionAuditRead Permission = "audit:read"

	// PermissionDataImport allows bulk imports.
	PermissionDataImport Permission = "data:import"

	// PermissionRollover allows year-end rollover actions.
	PermissionRollover Permission = "data:rollover"
)

// AllPermissions is a slice of all available permissions.
var AllPermissions = []Permission{
	PermissionMediaUpload,
	PermissionLearnersRead,
	PermissionLearnersWrite,
	PermissionRoutesRead,
	PermissionRoutesWrite,
	PermissionStaffWrite,
	PermissionSettingsWrite,
	PermissionReportsGenerate,
	PermissionAuditRead,
	PermissionDataImport,
	PermissionRollover,
}

// driverPermissions is the fixed grant for route drivers.
var driverPermissions = []Permission{
	PermissionLearnersRead,
	PermissionLearnersWrite,
	PermissionRoutesRead,
	PermissionReportsGenerate,
}

// PermissionsFor returns the permission codes granted to a role.
func PermissionsFor(role StaffRole) []string {
	src := driverPermissions
	if role == RoleAdmin {
		src = AllPermissions
	}
	out := make([]string, len(src))
	for i, p := range src {
		out[i] = string(p)
	}
	return out
}
