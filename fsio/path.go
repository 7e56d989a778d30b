package fsio

import (
	"os"
	"path/filepath"
)

// Stat resumes cont with an immutable metadata snapshot for path.
func (fs *FS) Stat(path string, cont Continuation) {
	r := fs.newRequest(cont)
	fs.submit(r, func() (any, error) {
		st, err := statSnapshot(path)
		if err != nil {
			return nil, err
		}
		return st, nil
	})
}

// Size resumes cont with the size in bytes of the entry at path.
func (fs *FS) Size(path string, cont Continuation) {
	r := fs.newRequest(cont)
	fs.submit(r, func() (any, error) {
		st, err := statSnapshot(path)
		if err != nil {
			return nil, err
		}
		return st.Size(), nil
	})
}

// Delete unlinks path and resumes cont with no value. Deleting a
// nonexistent path resumes with a HostError, never a success.
func (fs *FS) Delete(path string, cont Continuation) {
	r := fs.newRequest(cont)
	fs.submitVoid(r, func() error {
		return unlinkPath(path)
	})
}

// RealPath canonicalizes path and resumes cont with the resulting absolute
// path. The result is a managed string; it does not alias host storage.
func (fs *FS) RealPath(path string, cont Continuation) {
	r := fs.newRequest(cont)
	fs.submit(r, func() (any, error) {
		resolved, err := filepath.EvalSymlinks(path)
		if err != nil {
			return nil, hostError("realpath", path, err)
		}
		abs, err := filepath.Abs(resolved)
		if err != nil {
			return nil, hostError("realpath", path, err)
		}
		return abs, nil
	})
}

// List scans the directory at path and resumes cont with the entry names.
// Names are drained into a fresh sequence during the one completion; the
// order is lexicographic.
func (fs *FS) List(path string, cont Continuation) {
	r := fs.newRequest(cont)
	fs.submit(r, func() (any, error) {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, hostError("scandir", path, err)
		}
		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			names = append(names, entry.Name())
		}
		return names, nil
	})
}
