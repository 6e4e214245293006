package netcdf

import (
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/apexys/netcdf/engine"
	"github.com/apexys/netcdf/errors"
)

// File is an open container. It owns the engine handle, the cached
// metadata tree and the reader/writer lock that keeps the read views
// consistent while mutable views change the tree.
//
// Lock order is fixed: f.mu is always taken before the engine gate,
// never the other way around.
type File struct {
	mu sync.RWMutex

	eng    engine.Engine
	id     engine.GroupID
	path   string
	mode   engine.Mode
	root   *Group
	closed bool
}

// Open opens an existing classic-format file read-only.
func Open(path string) (*File, error) {
	return OpenWith(engine.NewClassic(), path)
}

// Append opens an existing classic-format file for writing.
func Append(path string) (*File, error) {
	return AppendWith(engine.NewClassic(), path)
}

// Create creates a classic-format file, truncating any existing
// content, open for writing.
func Create(path string) (*File, error) {
	return CreateWith(engine.NewClassic(), path)
}

// OpenMem opens a read-only container from an in-memory buffer using
// the classic backend. The name is used only for diagnostics.
func OpenMem(name string, buf []byte) (*File, error) {
	eng := engine.NewClassic()
	f := &File{eng: eng, path: name, mode: engine.ModeRead}
	err := engine.With(func() error {
		id, err := eng.OpenMem(name, buf)
		if err != nil {
			return err
		}
		return f.build(id)
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// OpenWith opens an existing container read-only on the given engine.
func OpenWith(eng engine.Engine, path string) (*File, error) {
	return openWith(eng, path, engine.ModeRead)
}

// AppendWith opens an existing container for writing on the given
// engine.
func AppendWith(eng engine.Engine, path string) (*File, error) {
	return openWith(eng, path, engine.ModeWrite)
}

func openWith(eng engine.Engine, path string, mode engine.Mode) (*File, error) {
	f := &File{eng: eng, path: path, mode: mode}
	err := engine.With(func() error {
		id, err := eng.Open(path, mode)
		if err != nil {
			return err
		}
		return f.build(id)
	})
	if err != nil {
		return nil, err
	}
	engine.Logger().Debug("container opened", zap.String("path", path))
	return f, nil
}

// CreateWith creates a container on the given engine, open for
// writing. The new container starts with an empty root group.
func CreateWith(eng engine.Engine, path string) (*File, error) {
	f := &File{eng: eng, path: path, mode: engine.ModeWrite}
	err := engine.With(func() error {
		id, err := eng.Create(path)
		if err != nil {
			return err
		}
		return f.build(id)
	})
	if err != nil {
		return nil, err
	}
	engine.Logger().Debug("container created", zap.String("path", path))
	return f, nil
}

// build materializes the metadata tree for the freshly opened root.
// Runs inside the same gate section as the open; if the walk fails
// the handle is closed before the error escapes, so no container
// leaks half-built.
func (f *File) build(id engine.GroupID) error {
	root, err := buildGroup(f, nil, id)
	if err != nil {
		if cerr := f.eng.Close(id); cerr != nil {
			engine.Logger().Warn("close after failed open",
				zap.String("path", f.path), zap.Error(cerr))
		}
		return err
	}
	f.id = id
	f.root = root
	return nil
}

// Name returns the base name of the container path.
func (f *File) Name() string {
	return filepath.Base(f.path)
}

// Path returns the path the container was opened with.
func (f *File) Path() string {
	return f.path
}

// Root returns the read view of the root group.
func (f *File) Root() *Group {
	return f.root
}

// RootMut returns the mutable view of the root group. It fails on a
// container opened read-only.
func (f *File) RootMut() (*GroupMut, error) {
	const op = "File.RootMut"
	f.mu.RLock()
	defer f.mu.RUnlock()
	if err := f.checkWritable(op); err != nil {
		return nil, err
	}
	return &GroupMut{f.root}, nil
}

// Close releases the container. It is safe to call more than once;
// only the first call reaches the engine. Engine close errors are
// logged and swallowed: by then every handle is invalid regardless.
func (f *File) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	err := engine.With(func() error {
		return f.eng.Close(f.id)
	})
	if err != nil {
		engine.Logger().Warn("container close",
			zap.String("path", f.path), zap.Error(err))
	}
}

// check fails with a stale-handle error once the container is closed.
// Caller holds f.mu in either mode.
func (f *File) check(op string) error {
	if f.closed {
		return errors.Engine(op, engine.StatusBadID, nil)
	}
	return nil
}

// checkWritable additionally rejects read-only containers. Caller
// holds f.mu in either mode.
func (f *File) checkWritable(op string) error {
	if err := f.check(op); err != nil {
		return err
	}
	if f.mode != engine.ModeWrite {
		return errors.Engine(op, engine.StatusReadOnly, nil)
	}
	return nil
}

// The lookups below forward to the root group, so a File can be used
// directly where only root-level metadata is wanted.

func (f *File) Dimension(name string) *Dimension { return f.root.Dimension(name) }
func (f *File) Dimensions() []*Dimension         { return f.root.Dimensions() }
func (f *File) Variable(name string) *Variable   { return f.root.Variable(name) }
func (f *File) Variables() []*Variable           { return f.root.Variables() }
func (f *File) Attribute(name string) *Attribute { return f.root.Attribute(name) }
func (f *File) Attributes() []*Attribute         { return f.root.Attributes() }
func (f *File) Group(name string) *Group         { return f.root.Group(name) }
func (f *File) Groups() []*Group                 { return f.root.Groups() }
func (f *File) Types() []*UserType               { return f.root.Types() }
