package config

import (
	"os"
	"strings"
)

// CleanFileName removes characters which are not allowed in file names on
// the current platform. Leading dots are removed so the result is never
// hidden or relative.
func CleanFileName(in string) string {
	const separators = string(os.PathSeparator) + string(os.PathListSeparator)

	out := strings.Map(func(sym rune) rune {
		if sym == 0 || strings.ContainsRune(separators+forbiddenFileNameRunes, sym) {
			return -1
		}
		return sym
	}, in)
	out = strings.TrimLeft(strings.TrimSpace(out), ".")
	if len(out) == 0 {
		out = "_bad_file_name_"
	}
	return out
}
