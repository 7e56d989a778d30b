package fsio

// Type bits of the mode word, as reported by the host stat structure.
const (
	modeTypeMask = 0o170000
	modeDir      = 0o040000
	modeRegular  = 0o100000
)

// Stat is an immutable snapshot of file metadata, copied out of the host
// stat structure at completion time. It is read-only afterward and has no
// independent lifecycle.
type Stat struct {
	dev     uint64
	ino     uint64
	mode    uint32
	nlink   uint64
	uid     uint32
	gid     uint32
	rdev    uint64
	size    int64
	blksize int64
	blocks  int64
}

// Device returns the ID of the device containing the file.
func (s *Stat) Device() uint64 { return s.dev }

// Inode returns the file's inode number.
func (s *Stat) Inode() uint64 { return s.ino }

// Mode returns the raw mode word, type bits included.
func (s *Stat) Mode() uint32 { return s.mode }

// LinkCount returns the number of hard links.
func (s *Stat) LinkCount() uint64 { return s.nlink }

// User returns the owning user ID.
func (s *Stat) User() uint32 { return s.uid }

// Group returns the owning group ID.
func (s *Stat) Group() uint32 { return s.gid }

// SpecialDevice returns the device ID for special files.
func (s *Stat) SpecialDevice() uint64 { return s.rdev }

// Size returns the file's size in bytes.
func (s *Stat) Size() int64 { return s.size }

// BlockSize returns the preferred I/O block size.
func (s *Stat) BlockSize() int64 { return s.blksize }

// BlockCount returns the number of allocated blocks.
func (s *Stat) BlockCount() int64 { return s.blocks }

// IsDirectory reports whether the entry is a directory.
func (s *Stat) IsDirectory() bool { return s.mode&modeTypeMask == modeDir }

// IsFile reports whether the entry is a regular file.
func (s *Stat) IsFile() bool { return s.mode&modeTypeMask == modeRegular }
