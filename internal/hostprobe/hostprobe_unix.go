//go:build unix

package hostprobe

import (
	"fmt"
	"os"
	"syscall"
)

func statGID(fi os.FileInfo) (int, error) {
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, fmt.Errorf("unsupported stat_t for %s", fi.Name())
	}
	return int(st.Gid), nil
}
