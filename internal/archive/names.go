package archive

import (
	"path/filepath"
	"strings"
)

// CompressedName returns the name of the file that compressing path produces:
// path with suffix appended.
func CompressedName(path, suffix string) string {
	return path + suffix
}

// DecompressedName returns the name of the file that decompressing path
// produces.  The suffix is stripped, then marker is inserted before the
// extension of the remaining base name, so "dir/report.txt.huf" becomes
// "dir/report_unc.txt" and "README.huf" becomes "README_unc".
//
// It returns false if path does not end with suffix or nothing precedes it.
func DecompressedName(path, suffix, marker string) (string, bool) {
	if !strings.HasSuffix(path, suffix) {
		return "", false
	}
	trimmed := strings.TrimSuffix(path, suffix)
	dir, base := filepath.Split(trimmed)
	if base == "" {
		return "", false
	}

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		// A dotfile such as ".bashrc" has no extension to preserve.
		stem, ext = base, ""
	}
	return dir + stem + marker + ext, true
}
