//go:build unix

package metadata

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// inodeStamp returns the inode change time and inode number, falling back to
// the mod time and inode 0.
func inodeStamp(path string, info os.FileInfo) (time.Time, uint64) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return info.ModTime(), 0
	}
	return time.Unix(int64(st.Ctim.Sec), int64(st.Ctim.Nsec)), uint64(st.Ino)
}
