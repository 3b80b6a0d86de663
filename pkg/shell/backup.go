package shell

import (
	"strings"
	"time"
)

const backupTimeLayout = "20060102-150405"

// fileStem returns the base name of path without its last extension. Both
// slash styles separate directories.
func fileStem(path string) string {
	base := path
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	return base
}

// BackupName returns the backup file name for database at t
func BackupName(database string, t time.Time) string {
	return fileStem(database) + ".bak-" + t.Format(backupTimeLayout) + ".txt"
}
