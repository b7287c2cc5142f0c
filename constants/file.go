package constants

import "strings"

// FileFormats holds the allowed file formats for the format field in ParseJob.
var FileFormats = []string{"PDF"}

// AllowedExtensions holds the default allowed file extensions for tech pack ingestion.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// FormatForExt maps a normalized extension to the job format stored in parse_job.
func FormatForExt(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return "PDF"
	default:
		return ""
	}
}
