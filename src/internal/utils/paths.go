package utils

import "path/filepath"

// GetAbsolutePath returns path if it was absolute, otherwise joins it with baseDir.
// An empty path stays empty so optional settings can be detected by callers.
func GetAbsolutePath(path, baseDir string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(baseDir, path))
}

// DisplayPath returns path relative to baseDir when it lies beneath it,
// otherwise the path unchanged. Used for operator-facing messages.
func DisplayPath(path, baseDir string) string {
	rel, err := filepath.Rel(baseDir, path)
	if err != nil || rel == ".." || filepath.IsAbs(rel) || len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator) {
		return path
	}
	return rel
}
