package fsio

import (
	"os"
)

// FileFlag selects the access mode for Open. The bit values are stable so
// embedding runtimes can expose them as constants; they are remapped to the
// host OS's open flags at submission time.
type FileFlag int

const (
	FlagReadOnly  FileFlag = 0x01
	FlagWriteOnly FileFlag = 0x02
	FlagReadWrite FileFlag = 0x04
	FlagSync      FileFlag = 0x08
	FlagCreate    FileFlag = 0x10
	FlagTruncate  FileFlag = 0x20
	FlagExclusive FileFlag = 0x40
)

// osFlags remaps portable flag bits to the host's open flags.
func (f FileFlag) osFlags() int {
	var result int
	if f&FlagReadOnly != 0 {
		result |= os.O_RDONLY
	}
	if f&FlagWriteOnly != 0 {
		result |= os.O_WRONLY
	}
	if f&FlagReadWrite != 0 {
		result |= os.O_RDWR
	}
	if f&FlagSync != 0 {
		result |= os.O_SYNC
	}
	if f&FlagCreate != 0 {
		result |= os.O_CREATE
	}
	if f&FlagTruncate != 0 {
		result |= os.O_TRUNC
	}
	if f&FlagExclusive != 0 {
		result |= os.O_EXCL
	}
	return result
}
