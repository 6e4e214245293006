package engine

import (
	"bytes"
	"fmt"
	"os"
	"reflect"

	"github.com/ctessum/cdf"
	"go.uber.org/zap"

	"github.com/apexys/netcdf/errors"
)

// Classic stores containers as netCDF-3 (classic format) files through
// github.com/ctessum/cdf. The classic format has a flat namespace: no
// subgroups, no user types, at most one growable (record) dimension,
// and only the signed 8/16/32-bit integer and float types.
//
// A created container starts in define mode: dimensions, variables and
// attributes accumulate in a pending header. The first payload write,
// or Close, materializes the header to disk; defines after that point
// are Unsupported, as is redefining an existing file opened for append.
type Classic struct {
	files handleTable[*classicFile]
}

type classicFile struct {
	path    string
	mode    Mode
	osFile  *os.File
	cf      *cdf.File
	def     *pendingDef // non-nil while in define mode
	dims    []string    // dimension names in declaration order
	lens    []int       // 0 marks the record dimension
	vars    []classicVar
	numrecs uint64
	closed  bool
}

type classicVar struct {
	name string
	typ  TypeID
	dims []DimID
}

type pendingDef struct {
	vars []pendingVar
	atts []pendingAtt
}

type pendingVar struct {
	name string
	typ  TypeID
	dims []string
}

type pendingAtt struct {
	scope string // variable name, "" for global
	name  string
	value any
}

// NewClassic creates a classic-format engine.
func NewClassic() *Classic {
	return &Classic{}
}

func (c *Classic) file(g GroupID) (*classicFile, error) {
	f, ok := c.files.get(int32(g))
	if !ok || f.closed {
		return nil, errors.Engine("engine.Classic", StatusBadID,
			fmt.Errorf("no open container with id %d", g))
	}
	return f, nil
}

func (c *Classic) Create(path string) (GroupID, error) {
	osf, err := os.Create(path)
	if err != nil {
		return 0, errors.Engine("engine.Create", StatusBadID, err)
	}
	f := &classicFile{path: path, mode: ModeWrite, osFile: osf, def: &pendingDef{}}
	Logger().Debug("classic container created", zap.String("path", path))
	return GroupID(c.files.add(f)), nil
}

func (c *Classic) Open(path string, mode Mode) (GroupID, error) {
	var osf *os.File
	var err error
	if mode == ModeWrite {
		osf, err = os.OpenFile(path, os.O_RDWR, 0)
	} else {
		osf, err = os.Open(path)
	}
	if err != nil {
		return 0, errors.Engine("engine.Open", StatusBadID, err)
	}
	cf, err := cdf.Open(osf)
	if err != nil {
		osf.Close()
		return 0, errors.Engine("engine.Open", StatusBadID, err)
	}
	f := &classicFile{path: path, mode: mode, osFile: osf, cf: cf}
	if err := f.index(); err != nil {
		osf.Close()
		return 0, err
	}
	return GroupID(c.files.add(f)), nil
}

// readOnlyBuffer adapts an in-memory byte slice to the reader/writer
// interface cdf.Open wants. Writes are rejected.
type readOnlyBuffer struct {
	*bytes.Reader
}

func (readOnlyBuffer) WriteAt(p []byte, off int64) (int, error) {
	return 0, errors.Unsupported("engine.OpenMem", "buffer containers are read-only")
}

func (c *Classic) OpenMem(name string, buf []byte) (GroupID, error) {
	cf, err := cdf.Open(readOnlyBuffer{bytes.NewReader(buf)})
	if err != nil {
		return 0, errors.Engine("engine.OpenMem", StatusBadID, err)
	}
	f := &classicFile{path: name, mode: ModeRead, cf: cf}
	if err := f.index(); err != nil {
		return 0, err
	}
	return GroupID(c.files.add(f)), nil
}

// index builds the handle-order dimension and variable lists from an
// opened file's header.
func (f *classicFile) index() error {
	h := f.cf.Header
	f.dims = h.Dimensions("")
	f.lens = h.Lengths("")
	dimID := func(name string) DimID {
		for i, d := range f.dims {
			if d == name {
				return DimID(i)
			}
		}
		return -1
	}
	for _, name := range h.Variables() {
		var ids []DimID
		for _, d := range h.Dimensions(name) {
			ids = append(ids, dimID(d))
		}
		t, err := classicTypeOf(h.ZeroValue(name, 1))
		if err != nil {
			return err
		}
		f.vars = append(f.vars, classicVar{name: name, typ: t, dims: ids})
	}
	f.numrecs = f.countRecords()
	return nil
}

// countRecords derives the current record count from the first record
// variable's total element count.
func (f *classicFile) countRecords() uint64 {
	rec := -1
	for i, n := range f.lens {
		if n == 0 {
			rec = i
		}
	}
	if rec < 0 {
		return 0
	}
	for _, v := range f.vars {
		if len(v.dims) == 0 || v.dims[0] != DimID(rec) {
			continue
		}
		per := 1
		for _, d := range v.dims[1:] {
			per *= f.lens[d]
		}
		if per == 0 {
			continue
		}
		total := reflect.ValueOf(f.cf.Reader(v.name, nil, nil).Zero(-1)).Len()
		return uint64(total / per)
	}
	return 0
}

func (c *Classic) Close(root GroupID) error {
	f, err := c.file(root)
	if err != nil {
		return err
	}
	if f.def != nil {
		if err := f.materialize(); err != nil {
			f.closed = true
			f.osFile.Close()
			return err
		}
	}
	f.closed = true
	if f.osFile != nil {
		if err := f.osFile.Close(); err != nil {
			return errors.Engine("engine.Close", StatusBadID, err)
		}
	}
	return nil
}

// materialize ends define mode: the pending header is checked, written
// to disk, and the file becomes append-like. Defines are validated as
// they arrive, but cdf reports header construction errors by
// panicking, so anything missed is recovered here.
func (f *classicFile) materialize() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Engine("engine.Classic", StatusBadID,
				fmt.Errorf("header rejected: %v", r))
		}
	}()
	def := f.def
	h := cdf.NewHeader(f.dims, f.lens)
	for _, v := range def.vars {
		zero, err := classicZero(v.typ)
		if err != nil {
			return err
		}
		h.AddVariable(v.name, v.dims, zero)
	}
	for _, a := range def.atts {
		h.AddAttribute(a.scope, a.name, a.value)
	}
	h.Define()
	for _, err := range h.Check() {
		return errors.Engine("engine.Classic", StatusBadID, err)
	}
	cf, err := cdf.Create(f.osFile, h)
	if err != nil {
		return errors.Engine("engine.Classic", StatusBadID, err)
	}
	f.cf = cf
	f.def = nil
	Logger().Debug("classic header written", zap.String("path", f.path))
	return nil
}

func (c *Classic) GroupName(g GroupID) (string, error) {
	if _, err := c.file(g); err != nil {
		return "", err
	}
	return "root", nil
}

func (c *Classic) Groups(g GroupID) ([]GroupID, error) {
	if _, err := c.file(g); err != nil {
		return nil, err
	}
	return nil, nil
}

func (c *Classic) DefineGroup(g GroupID, name string) (GroupID, error) {
	return 0, errors.Unsupported("engine.DefineGroup",
		"classic format has no groups")
}

func (c *Classic) DimIDs(g GroupID) ([]DimID, error) {
	f, err := c.file(g)
	if err != nil {
		return nil, err
	}
	out := make([]DimID, len(f.dims))
	for i := range f.dims {
		out[i] = DimID(i)
	}
	return out, nil
}

func (c *Classic) InqDim(g GroupID, d DimID) (string, uint64, error) {
	f, err := c.file(g)
	if err != nil {
		return "", 0, err
	}
	if d < 0 || int(d) >= len(f.dims) {
		return "", 0, errors.NotFound("engine.InqDim", fmt.Sprintf("dimid %d", d))
	}
	if f.lens[d] == 0 {
		return f.dims[d], f.numrecs, nil
	}
	return f.dims[d], uint64(f.lens[d]), nil
}

func (c *Classic) DimLen(g GroupID, d DimID) (uint64, error) {
	_, n, err := c.InqDim(g, d)
	return n, err
}

func (c *Classic) UnlimitedDims(g GroupID) ([]DimID, error) {
	f, err := c.file(g)
	if err != nil {
		return nil, err
	}
	var out []DimID
	for i, n := range f.lens {
		if n == 0 {
			out = append(out, DimID(i))
		}
	}
	return out, nil
}

func (c *Classic) DefineDim(g GroupID, name string, length uint64) (DimID, error) {
	f, err := c.file(g)
	if err != nil {
		return 0, err
	}
	if f.def == nil {
		return 0, errors.Unsupported("engine.DefineDim",
			"classic containers cannot be redefined after the header is written")
	}
	for _, d := range f.dims {
		if d == name {
			return 0, errors.AlreadyExists("engine.DefineDim", name)
		}
	}
	if length == 0 {
		for _, n := range f.lens {
			if n == 0 {
				return 0, errors.Unsupported("engine.DefineDim",
					"classic format allows a single growable dimension")
			}
		}
	}
	f.dims = append(f.dims, name)
	f.lens = append(f.lens, int(length))
	return DimID(len(f.dims) - 1), nil
}

func (c *Classic) VarIDs(g GroupID) ([]VarID, error) {
	f, err := c.file(g)
	if err != nil {
		return nil, err
	}
	out := make([]VarID, len(f.vars))
	for i := range f.vars {
		out[i] = VarID(i)
	}
	return out, nil
}

func (c *Classic) varAt(g GroupID, v VarID) (*classicFile, *classicVar, error) {
	f, err := c.file(g)
	if err != nil {
		return nil, nil, err
	}
	if v < 0 || int(v) >= len(f.vars) {
		return nil, nil, errors.NotFound("engine.InqVar", fmt.Sprintf("varid %d", v))
	}
	return f, &f.vars[v], nil
}

func (c *Classic) InqVar(g GroupID, v VarID) (string, TypeID, []DimID, error) {
	_, vr, err := c.varAt(g, v)
	if err != nil {
		return "", TypeNat, nil, err
	}
	return vr.name, vr.typ, append([]DimID(nil), vr.dims...), nil
}

func (c *Classic) DefineVar(g GroupID, name string, t TypeID, dims []DimID) (VarID, error) {
	f, err := c.file(g)
	if err != nil {
		return 0, err
	}
	if f.def == nil {
		return 0, errors.Unsupported("engine.DefineVar",
			"classic containers cannot be redefined after the header is written")
	}
	if _, err := classicZero(t); err != nil {
		return 0, err
	}
	for _, vr := range f.vars {
		if vr.name == name {
			return 0, errors.AlreadyExists("engine.DefineVar", name)
		}
	}
	names := make([]string, len(dims))
	for i, d := range dims {
		if d < 0 || int(d) >= len(f.dims) {
			return 0, errors.NotFound("engine.DefineVar", fmt.Sprintf("dimid %d", d))
		}
		if f.lens[d] == 0 && i != 0 {
			return 0, errors.Unsupported("engine.DefineVar",
				"the record dimension must be a variable's outermost dimension")
		}
		names[i] = f.dims[d]
	}
	f.vars = append(f.vars, classicVar{name: name, typ: t, dims: append([]DimID(nil), dims...)})
	f.def.vars = append(f.def.vars, pendingVar{name: name, typ: t, dims: names})
	return VarID(len(f.vars) - 1), nil
}

func (c *Classic) PutVara(g GroupID, v VarID, start, count []uint64, data any) error {
	f, vr, err := c.varAt(g, v)
	if err != nil {
		return err
	}
	if f.mode != ModeWrite {
		return errors.Engine("engine.PutVara", StatusReadOnly,
			fmt.Errorf("container %q is read-only", f.path))
	}
	if f.def != nil {
		if err := f.materialize(); err != nil {
			return err
		}
	}
	if _, err := payloadLen(vr.typ, data); err != nil {
		return err
	}
	if vr.typ == TypeByte {
		data = unsignedBytes(data.([]int8))
	}

	begin := make([]int, len(start))
	end := make([]int, len(start))
	for i := range start {
		begin[i] = int(start[i])
		end[i] = int(start[i] + count[i])
	}
	w := f.cf.Writer(vr.name, begin, end)
	if _, err := w.Write(data); err != nil {
		return errors.Engine("engine.PutVara", StatusEdge, err)
	}

	// Record writes grow the record dimension; keep the header's
	// record count on disk in step.
	if len(vr.dims) > 0 && f.lens[vr.dims[0]] == 0 {
		if grown := start[0] + count[0]; grown > f.numrecs {
			f.numrecs = grown
		}
		if f.osFile != nil {
			if err := cdf.UpdateNumRecs(f.osFile); err != nil {
				return errors.Engine("engine.PutVara", StatusEdge, err)
			}
		}
	}
	return nil
}

func (c *Classic) GetVara(g GroupID, v VarID, start, count []uint64) (any, error) {
	f, vr, err := c.varAt(g, v)
	if err != nil {
		return nil, err
	}
	if f.def != nil {
		if err := f.materialize(); err != nil {
			return nil, err
		}
	}
	begin := make([]int, len(start))
	end := make([]int, len(start))
	total := 1
	for i := range start {
		begin[i] = int(start[i])
		end[i] = int(start[i] + count[i])
		total *= int(count[i])
	}
	r := f.cf.Reader(vr.name, begin, end)
	buf := r.Zero(total)
	if _, err := r.Read(buf); err != nil {
		return nil, errors.Engine("engine.GetVara", StatusEdge, err)
	}
	if vr.typ == TypeByte {
		return signedBytes(buf.([]uint8)), nil
	}
	return buf, nil
}

func (c *Classic) attScope(g GroupID, v VarID) (*classicFile, string, error) {
	f, err := c.file(g)
	if err != nil {
		return nil, "", err
	}
	if v == GlobalAtt {
		return f, "", nil
	}
	if v < 0 || int(v) >= len(f.vars) {
		return nil, "", errors.NotFound("engine.Att", fmt.Sprintf("varid %d", v))
	}
	return f, f.vars[v].name, nil
}

// attNames lists attribute names for a scope, from the pending define
// or from the written header.
func (f *classicFile) attNames(scope string) []string {
	if f.def != nil {
		var names []string
		for _, a := range f.def.atts {
			if a.scope == scope {
				names = append(names, a.name)
			}
		}
		return names
	}
	return f.cf.Header.Attributes(scope)
}

func (c *Classic) AttCount(g GroupID, v VarID) (int, error) {
	f, scope, err := c.attScope(g, v)
	if err != nil {
		return 0, err
	}
	return len(f.attNames(scope)), nil
}

func (c *Classic) AttName(g GroupID, v VarID, index int) (string, error) {
	f, scope, err := c.attScope(g, v)
	if err != nil {
		return "", err
	}
	names := f.attNames(scope)
	if index < 0 || index >= len(names) {
		return "", errors.NotFound("engine.AttName", fmt.Sprintf("attribute %d", index))
	}
	return names[index], nil
}

func (c *Classic) GetAtt(g GroupID, v VarID, name string) (any, TypeID, error) {
	f, scope, err := c.attScope(g, v)
	if err != nil {
		return nil, TypeNat, err
	}
	if f.def != nil {
		for _, a := range f.def.atts {
			if a.scope == scope && a.name == name {
				t, err := typeOf(a.value)
				if err != nil {
					return nil, TypeNat, err
				}
				return a.value, t, nil
			}
		}
		return nil, TypeNat, errors.NotFound("engine.GetAtt", name)
	}
	val := f.cf.Header.GetAttribute(scope, name)
	if val == nil {
		return nil, TypeNat, errors.NotFound("engine.GetAtt", name)
	}
	t, err := typeOf(val)
	if err != nil {
		return nil, TypeNat, err
	}
	return val, t, nil
}

func (c *Classic) PutAtt(g GroupID, v VarID, name string, value any) error {
	f, scope, err := c.attScope(g, v)
	if err != nil {
		return err
	}
	if f.def == nil {
		return errors.Unsupported("engine.PutAtt",
			"classic containers cannot be redefined after the header is written")
	}
	value, err = classicAttValue(value)
	if err != nil {
		return err
	}
	for i, a := range f.def.atts {
		if a.scope == scope && a.name == name {
			f.def.atts[i].value = value
			return nil
		}
	}
	f.def.atts = append(f.def.atts, pendingAtt{scope: scope, name: name, value: value})
	return nil
}

func (c *Classic) TypeIDs(g GroupID) ([]TypeID, error) {
	if _, err := c.file(g); err != nil {
		return nil, err
	}
	return nil, nil
}

func (c *Classic) InqUserType(g GroupID, t TypeID) (string, uint64, TypeID, error) {
	return "", 0, TypeNat, errors.Unsupported("engine.InqUserType",
		"classic format has no user-defined types")
}

// classicZero returns the sample value cdf uses to fix a variable's
// type, or Unsupported for types outside the classic model. cdf
// carries BYTE data in []uint8 slices; Byte payloads are converted at
// the read/write boundary.
func classicZero(t TypeID) (any, error) {
	switch t {
	case TypeByte:
		return []uint8{0}, nil
	case TypeShort:
		return []int16{0}, nil
	case TypeInt:
		return []int32{0}, nil
	case TypeFloat:
		return []float32{0}, nil
	case TypeDouble:
		return []float64{0}, nil
	default:
		return nil, errors.Unsupported("engine.Classic",
			fmt.Sprintf("type id %d is outside the classic data model", t))
	}
}

// classicAttValue normalizes an attribute value to one of the forms
// the classic header stores: []uint8 (BYTE), string (CHAR), []int16,
// []int32, []float32 or []float64. Signed byte slices are carried as
// unsigned bytes, like BYTE payloads; anything else, including
// scalars, has no classic representation.
func classicAttValue(value any) (any, error) {
	switch v := value.(type) {
	case []int8:
		return unsignedBytes(v), nil
	case []uint8, string, []int16, []int32, []float32, []float64:
		return value, nil
	default:
		return nil, errors.TypeMismatch("engine.PutAtt",
			fmt.Sprintf("classic attributes take []int8, []uint8, string, []int16, []int32, []float32 or []float64, not %T", value))
	}
}

// unsignedBytes converts a Byte payload to cdf's on-disk carrier.
func unsignedBytes(s []int8) []uint8 {
	out := make([]uint8, len(s))
	for i, b := range s {
		out[i] = uint8(b)
	}
	return out
}

func signedBytes(u []uint8) []int8 {
	out := make([]int8, len(u))
	for i, b := range u {
		out[i] = int8(b)
	}
	return out
}

// classicTypeOf maps a header zero value back onto a type id. cdf
// hands BYTE data out as []uint8 and CHAR as string; the other four
// types carry their natural element type.
func classicTypeOf(buf any) (TypeID, error) {
	switch buf.(type) {
	case []uint8:
		return TypeByte, nil
	case string:
		return TypeChar, nil
	case []int16:
		return TypeShort, nil
	case []int32:
		return TypeInt, nil
	case []float32:
		return TypeFloat, nil
	case []float64:
		return TypeDouble, nil
	default:
		return TypeNat, errors.Unsupported("engine.Classic",
			fmt.Sprintf("unmapped on-disk element type %T", buf))
	}
}
