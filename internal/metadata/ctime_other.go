//go:build !unix

package metadata

import (
	"os"
	"time"
)

func inodeStamp(_ string, info os.FileInfo) (time.Time, uint64) {
	return info.ModTime(), 0
}
