//go:build unix

package fsio

import (
	"os"

	"golang.org/x/sys/unix"
)

// fstatSnapshot copies the host stat structure for an open descriptor.
func fstatSnapshot(f *os.File) (*Stat, error) {
	var st unix.Stat_t
	if err := unix.Fstat(int(f.Fd()), &st); err != nil {
		return nil, hostError("fstat", f.Name(), err)
	}
	return newStat(&st), nil
}

// statSnapshot copies the host stat structure for a path.
func statSnapshot(path string) (*Stat, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return nil, hostError("stat", path, err)
	}
	return newStat(&st), nil
}

// unlinkPath removes the directory entry at path.
func unlinkPath(path string) error {
	if err := unix.Unlink(path); err != nil {
		return hostError("unlink", path, err)
	}
	return nil
}

func newStat(st *unix.Stat_t) *Stat {
	// Field widths vary across unix variants; normalize here so Stat itself
	// stays platform-independent.
	return &Stat{
		dev:     uint64(st.Dev),
		ino:     uint64(st.Ino),
		mode:    uint32(st.Mode),
		nlink:   uint64(st.Nlink),
		uid:     st.Uid,
		gid:     st.Gid,
		rdev:    uint64(st.Rdev),
		size:    st.Size,
		blksize: int64(st.Blksize),
		blocks:  st.Blocks,
	}
}
