package fsio

import (
	"os"
	"testing"
)

func TestFileFlag_OSFlags(t *testing.T) {
	cases := []struct {
		flags FileFlag
		want  int
	}{
		{FlagReadOnly, os.O_RDONLY},
		{FlagWriteOnly, os.O_WRONLY},
		{FlagReadWrite, os.O_RDWR},
		{FlagReadWrite | FlagCreate | FlagTruncate, os.O_RDWR | os.O_CREATE | os.O_TRUNC},
		{FlagWriteOnly | FlagCreate | FlagExclusive, os.O_WRONLY | os.O_CREATE | os.O_EXCL},
		{FlagReadOnly | FlagSync, os.O_RDONLY | os.O_SYNC},
	}
	for _, c := range cases {
		if got := c.flags.osFlags(); got != c.want {
			t.Errorf("FileFlag(%#x).osFlags() = %#x, want %#x", int(c.flags), got, c.want)
		}
	}
}

func TestFileFlag_BitsDistinct(t *testing.T) {
	all := []FileFlag{
		FlagReadOnly, FlagWriteOnly, FlagReadWrite,
		FlagSync, FlagCreate, FlagTruncate, FlagExclusive,
	}
	var seen FileFlag
	for _, f := range all {
		if seen&f != 0 {
			t.Fatalf("Flag bit %#x overlaps another flag", int(f))
		}
		seen |= f
	}
}
