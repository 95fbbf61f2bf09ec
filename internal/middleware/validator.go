package middleware

// Input validation utilities
//
// code and language deliberately get no normalization here: both are stored
// and echoed back exactly as submitted.

// ValidateLimit validates the history limit parameter
func ValidateLimit(limit int) int {
	if limit < 0 {
		return 0 // 0 means "everything"
	}
	if limit > 500 {
		return 500
	}
	return limit
}
