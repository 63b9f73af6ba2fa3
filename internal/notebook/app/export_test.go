package app

var (
	SanitizeFilename = sanitizeFilename
	AllowedFile      = allowedFile
)
