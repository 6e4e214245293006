package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/apexys/netcdf/errors"
)

// Memory is a complete in-memory backend: nested groups, growable
// dimensions that extend through PutVara, attributes and user types.
// Containers created through it live only as long as the engine value.
//
// Like every Engine, Memory is non-reentrant and must be called under
// the gate; it carries no locking of its own.
type Memory struct {
	groups handleTable[*memGroup]
	files  map[string]GroupID // created containers by name, for re-open
}

type memFile struct {
	name   string
	mode   Mode
	root   GroupID
	dims   handleTable[*memDim]
	types  handleTable[*memUserType]
	closed bool
}

type memGroup struct {
	file      *memFile
	name      string
	dims      []DimID // declaration order
	vars      []*memVar
	atts      []*memAtt
	subgroups []GroupID
	types     []TypeID
}

type memDim struct {
	name      string
	length    uint64 // fixed length; 0 when unlimited
	cur       uint64 // highest written index + 1, unlimited only
	unlimited bool
}

type memVar struct {
	name  string
	typ   TypeID
	dims  []DimID
	atts  []*memAtt
	slabs []slab
}

// slab is one written hyperslab. Reads must address a previously
// written slab exactly; the backend stores metadata shape, not a dense
// array.
type slab struct {
	start, count []uint64
	data         any
}

type memAtt struct {
	name  string
	typ   TypeID
	value any
}

type memUserType struct {
	name  string
	size  uint64
	class TypeID
}

// NewMemory creates an empty in-memory engine.
func NewMemory() *Memory {
	return &Memory{files: make(map[string]GroupID)}
}

func (m *Memory) group(g GroupID) (*memGroup, error) {
	grp, ok := m.groups.get(int32(g))
	if !ok || grp.file.closed {
		return nil, errors.Engine("engine.Memory", StatusBadID,
			fmt.Errorf("no open group with id %d", g))
	}
	return grp, nil
}

func (m *Memory) writableGroup(g GroupID) (*memGroup, error) {
	grp, err := m.group(g)
	if err != nil {
		return nil, err
	}
	if grp.file.mode != ModeWrite {
		return nil, errors.Engine("engine.Memory", StatusReadOnly,
			fmt.Errorf("container %q is read-only", grp.file.name))
	}
	return grp, nil
}

// Create creates a fresh container, clobbering any previous one with
// the same name.
func (m *Memory) Create(path string) (GroupID, error) {
	if old, ok := m.files[path]; ok {
		if grp, okk := m.groups.get(int32(old)); okk {
			m.release(grp.file)
		}
	}
	f := &memFile{name: path, mode: ModeWrite}
	root := &memGroup{file: f, name: "root"}
	f.root = GroupID(m.groups.add(root))
	m.files[path] = f.root
	Logger().Debug("memory container created", zap.String("name", path))
	return f.root, nil
}

// release drops every group handle of a clobbered container, so stale
// ids cannot resolve against whatever reuses their slots.
func (m *Memory) release(f *memFile) {
	var stale []int32
	m.groups.each(func(h int32, grp *memGroup) bool {
		if grp.file == f {
			stale = append(stale, h)
		}
		return true
	})
	for _, h := range stale {
		m.groups.remove(h)
	}
	f.closed = true
}

// Open re-opens a container previously created through this engine.
func (m *Memory) Open(path string, mode Mode) (GroupID, error) {
	root, ok := m.files[path]
	if !ok {
		return 0, errors.NotFound("engine.Open", path)
	}
	grp, ok := m.groups.get(int32(root))
	if !ok {
		return 0, errors.NotFound("engine.Open", path)
	}
	grp.file.closed = false
	grp.file.mode = mode
	return root, nil
}

// OpenMem is not supported: the memory backend has no serialized form.
func (m *Memory) OpenMem(name string, buf []byte) (GroupID, error) {
	return 0, errors.Unsupported("engine.OpenMem",
		"memory backend cannot decode container buffers")
}

func (m *Memory) Close(root GroupID) error {
	grp, err := m.group(root)
	if err != nil {
		return err
	}
	if grp.file.root != root {
		return errors.Engine("engine.Close", StatusBadID,
			fmt.Errorf("group %d is not a container root", root))
	}
	grp.file.closed = true
	return nil
}

func (m *Memory) GroupName(g GroupID) (string, error) {
	grp, err := m.group(g)
	if err != nil {
		return "", err
	}
	return grp.name, nil
}

func (m *Memory) Groups(g GroupID) ([]GroupID, error) {
	grp, err := m.group(g)
	if err != nil {
		return nil, err
	}
	out := make([]GroupID, len(grp.subgroups))
	copy(out, grp.subgroups)
	return out, nil
}

func (m *Memory) DefineGroup(g GroupID, name string) (GroupID, error) {
	grp, err := m.writableGroup(g)
	if err != nil {
		return 0, err
	}
	for _, id := range grp.subgroups {
		if sub, ok := m.groups.get(int32(id)); ok && sub.name == name {
			return 0, errors.AlreadyExists("engine.DefineGroup", name)
		}
	}
	sub := &memGroup{file: grp.file, name: name}
	id := GroupID(m.groups.add(sub))
	grp.subgroups = append(grp.subgroups, id)
	return id, nil
}

func (m *Memory) DimIDs(g GroupID) ([]DimID, error) {
	grp, err := m.group(g)
	if err != nil {
		return nil, err
	}
	out := make([]DimID, len(grp.dims))
	copy(out, grp.dims)
	return out, nil
}

func (m *Memory) dim(g GroupID, d DimID) (*memDim, error) {
	grp, err := m.group(g)
	if err != nil {
		return nil, err
	}
	dim, ok := grp.file.dims.get(int32(d))
	if !ok {
		return nil, errors.NotFound("engine.InqDim", fmt.Sprintf("dimid %d", d))
	}
	return dim, nil
}

func (m *Memory) InqDim(g GroupID, d DimID) (string, uint64, error) {
	dim, err := m.dim(g, d)
	if err != nil {
		return "", 0, err
	}
	if dim.unlimited {
		return dim.name, dim.cur, nil
	}
	return dim.name, dim.length, nil
}

func (m *Memory) DimLen(g GroupID, d DimID) (uint64, error) {
	_, n, err := m.InqDim(g, d)
	return n, err
}

func (m *Memory) UnlimitedDims(g GroupID) ([]DimID, error) {
	grp, err := m.group(g)
	if err != nil {
		return nil, err
	}
	var out []DimID
	for _, id := range grp.dims {
		if dim, ok := grp.file.dims.get(int32(id)); ok && dim.unlimited {
			out = append(out, id)
		}
	}
	return out, nil
}

func (m *Memory) DefineDim(g GroupID, name string, length uint64) (DimID, error) {
	grp, err := m.writableGroup(g)
	if err != nil {
		return 0, err
	}
	for _, id := range grp.dims {
		if dim, ok := grp.file.dims.get(int32(id)); ok && dim.name == name {
			return 0, errors.AlreadyExists("engine.DefineDim", name)
		}
	}
	dim := &memDim{name: name, length: length, unlimited: length == 0}
	id := DimID(grp.file.dims.add(dim))
	grp.dims = append(grp.dims, id)
	return id, nil
}

func (m *Memory) VarIDs(g GroupID) ([]VarID, error) {
	grp, err := m.group(g)
	if err != nil {
		return nil, err
	}
	out := make([]VarID, len(grp.vars))
	for i := range grp.vars {
		out[i] = VarID(i)
	}
	return out, nil
}

func (m *Memory) variable(g GroupID, v VarID) (*memVar, error) {
	grp, err := m.group(g)
	if err != nil {
		return nil, err
	}
	if v < 0 || int(v) >= len(grp.vars) {
		return nil, errors.NotFound("engine.InqVar", fmt.Sprintf("varid %d", v))
	}
	return grp.vars[v], nil
}

func (m *Memory) InqVar(g GroupID, v VarID) (string, TypeID, []DimID, error) {
	vr, err := m.variable(g, v)
	if err != nil {
		return "", TypeNat, nil, err
	}
	dims := make([]DimID, len(vr.dims))
	copy(dims, vr.dims)
	return vr.name, vr.typ, dims, nil
}

func (m *Memory) DefineVar(g GroupID, name string, t TypeID, dims []DimID) (VarID, error) {
	grp, err := m.writableGroup(g)
	if err != nil {
		return 0, err
	}
	for _, vr := range grp.vars {
		if vr.name == name {
			return 0, errors.AlreadyExists("engine.DefineVar", name)
		}
	}
	for _, d := range dims {
		if _, ok := grp.file.dims.get(int32(d)); !ok {
			return 0, errors.NotFound("engine.DefineVar", fmt.Sprintf("dimid %d", d))
		}
	}
	vr := &memVar{name: name, typ: t, dims: append([]DimID(nil), dims...)}
	grp.vars = append(grp.vars, vr)
	return VarID(len(grp.vars) - 1), nil
}

func (m *Memory) PutVara(g GroupID, v VarID, start, count []uint64, data any) error {
	grp, err := m.writableGroup(g)
	if err != nil {
		return err
	}
	vr, err := m.variable(g, v)
	if err != nil {
		return err
	}
	if len(start) != len(vr.dims) || len(count) != len(vr.dims) {
		return errors.TypeMismatch("engine.PutVara",
			fmt.Sprintf("rank %d slab against rank %d variable", len(start), len(vr.dims)))
	}

	n, err := payloadLen(vr.typ, data)
	if err != nil {
		return err
	}
	want := uint64(1)
	for _, c := range count {
		want *= c
	}
	if n != want {
		return errors.TypeMismatch("engine.PutVara",
			fmt.Sprintf("payload holds %d elements, slab needs %d", n, want))
	}

	// Bounds check fixed dimensions, grow unlimited ones.
	for i, id := range vr.dims {
		dim, ok := grp.file.dims.get(int32(id))
		if !ok {
			return errors.NotFound("engine.PutVara", fmt.Sprintf("dimid %d", id))
		}
		end := start[i] + count[i]
		if dim.unlimited {
			if end > dim.cur {
				dim.cur = end
			}
			continue
		}
		if end > dim.length {
			return errors.Engine("engine.PutVara", StatusEdge,
				fmt.Errorf("index %d exceeds dimension %q length %d", end-1, dim.name, dim.length))
		}
	}

	vr.slabs = append(vr.slabs, slab{
		start: append([]uint64(nil), start...),
		count: append([]uint64(nil), count...),
		data:  data,
	})
	return nil
}

func (m *Memory) GetVara(g GroupID, v VarID, start, count []uint64) (any, error) {
	vr, err := m.variable(g, v)
	if err != nil {
		return nil, err
	}
	for i := len(vr.slabs) - 1; i >= 0; i-- {
		if slabMatches(vr.slabs[i], start, count) {
			return vr.slabs[i].data, nil
		}
	}
	return nil, errors.Unsupported("engine.GetVara",
		"memory backend reads only exact previously written slabs")
}

func slabMatches(s slab, start, count []uint64) bool {
	if len(s.start) != len(start) || len(s.count) != len(count) {
		return false
	}
	for i := range start {
		if s.start[i] != start[i] || s.count[i] != count[i] {
			return false
		}
	}
	return true
}

func (m *Memory) attList(g GroupID, v VarID) (*[]*memAtt, error) {
	if v == GlobalAtt {
		grp, err := m.group(g)
		if err != nil {
			return nil, err
		}
		return &grp.atts, nil
	}
	vr, err := m.variable(g, v)
	if err != nil {
		return nil, err
	}
	return &vr.atts, nil
}

func (m *Memory) AttCount(g GroupID, v VarID) (int, error) {
	atts, err := m.attList(g, v)
	if err != nil {
		return 0, err
	}
	return len(*atts), nil
}

func (m *Memory) AttName(g GroupID, v VarID, index int) (string, error) {
	atts, err := m.attList(g, v)
	if err != nil {
		return "", err
	}
	if index < 0 || index >= len(*atts) {
		return "", errors.NotFound("engine.AttName", fmt.Sprintf("attribute %d", index))
	}
	return (*atts)[index].name, nil
}

func (m *Memory) GetAtt(g GroupID, v VarID, name string) (any, TypeID, error) {
	atts, err := m.attList(g, v)
	if err != nil {
		return nil, TypeNat, err
	}
	for _, a := range *atts {
		if a.name == name {
			return a.value, a.typ, nil
		}
	}
	return nil, TypeNat, errors.NotFound("engine.GetAtt", name)
}

// PutAtt writes or overwrites an attribute. Overwriting with a new
// type is permitted, as in netCDF-4.
func (m *Memory) PutAtt(g GroupID, v VarID, name string, value any) error {
	if _, err := m.writableGroup(g); err != nil {
		return err
	}
	t, err := typeOf(value)
	if err != nil {
		return err
	}
	atts, err := m.attList(g, v)
	if err != nil {
		return err
	}
	for _, a := range *atts {
		if a.name == name {
			a.typ = t
			a.value = value
			return nil
		}
	}
	*atts = append(*atts, &memAtt{name: name, typ: t, value: value})
	return nil
}

func (m *Memory) TypeIDs(g GroupID) ([]TypeID, error) {
	grp, err := m.group(g)
	if err != nil {
		return nil, err
	}
	out := make([]TypeID, len(grp.types))
	copy(out, grp.types)
	return out, nil
}

func (m *Memory) InqUserType(g GroupID, t TypeID) (string, uint64, TypeID, error) {
	grp, err := m.group(g)
	if err != nil {
		return "", 0, TypeNat, err
	}
	ut, ok := grp.file.types.get(int32(t - FirstUserType + 1))
	if !ok {
		return "", 0, TypeNat, errors.NotFound("engine.InqUserType", fmt.Sprintf("typeid %d", t))
	}
	return ut.name, ut.size, ut.class, nil
}

// DefineUserType registers an inert user-type descriptor. Not part of
// the Engine interface: descriptor construction is the caller's
// business, the core only carries them.
func (m *Memory) DefineUserType(g GroupID, name string, size uint64, class TypeID) (TypeID, error) {
	grp, err := m.writableGroup(g)
	if err != nil {
		return TypeNat, err
	}
	id := TypeID(grp.file.types.add(&memUserType{name: name, size: size, class: class}))
	id += FirstUserType - 1
	grp.types = append(grp.types, id)
	return id, nil
}
