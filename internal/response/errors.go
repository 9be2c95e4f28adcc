package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrAccountInactive    ErrCode = "ACCOUNT_INACTIVE"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden        ErrCode = "FORBIDDEN"
	ErrPermissionDenied ErrCode = "PERMISSION_DENIED"
	ErrAdminAccessOnly  ErrCode = "ADMIN_ACCESS_ONLY"
	ErrRouteForbidden   ErrCode = "ROUTE_FORBIDDEN"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrConflict         ErrCode = "CONFLICT"
	ErrDependencyExists ErrCode = "DEPENDENCY_EXISTS"
	ErrActionForbidden  ErrCode = "ACTION_FORBIDDEN"

	// ─── Reports ───────────────────────────────────────────────────────
	ErrNoLearners       ErrCode = "NO_LEARNERS"
	ErrRouteRequired    ErrCode = "ROUTE_REQUIRED"
	ErrReportInProgress ErrCode = "REPORT_IN_PROGRESS"

	// ─── Data management ───────────────────────────────────────────────
	ErrImportFailed ErrCode = "IMPORT_FAILED"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Invalid email or password."
	case ErrAccountInactive:
		return "This account has been deactivated."
	case ErrSessionInvalidated:
		return "Your session has ended. Please sign in again."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."
	case ErrTokenExpired:
		return "The authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You are not allowed to access this resource."
	case ErrPermissionDenied:
		return "Permission denied."
	case ErrAdminAccessOnly:
		return "This resource is restricted to administrators."
	case ErrRouteForbidden:
		return "You can only access learners on your assigned route."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."
	case ErrDependencyExists:
		return "This record cannot be deleted because other records still reference it."
	case ErrActionForbidden:
		return "This action is not allowed."

	// ─── Reports ───────────────────────────────────────────────────────
	case ErrNoLearners:
		return "No learners to include in the report."
	case ErrRouteRequired:
		return "Please select a route."
	case ErrReportInProgress:
		return "A report for this route is already being generated."

	// ─── Data management ───────────────────────────────────────────────
	case ErrImportFailed:
		return "The import file could not be processed."

	// ─── Media ─────────────────────────────────────────────────────────
	case ErrFileRequired:
		return "A file upload is required."
	case ErrUnsupportedFile:
		return "Unsupported file type."
	case ErrFileTooLarge:
		return "File size exceeds the limit."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
