package errors

// Kind classifies a platform failure. Remote errors are tagged at the table
// client boundary so callers never have to string-match response bodies.
type Kind string

const (
	KindValidation Kind = "VALIDATION"
	KindNotFound   Kind = "NOT_FOUND"
	KindConflict   Kind = "CONFLICT"
	KindNetwork    Kind = "NETWORK"
	KindUnknown    Kind = "UNKNOWN"
)

// ClassifyStatus maps an HTTP status from the table API to a Kind.
func ClassifyStatus(status int) Kind {
	switch status {
	case 404, 406:
		return KindNotFound
	case 409:
		return KindConflict
	default:
		return KindUnknown
	}
}
