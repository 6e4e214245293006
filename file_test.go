package netcdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/apexys/netcdf/errors"
)

func TestClassicFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "surface.nc")

	f, err := Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	root, err := f.RootMut()
	if err != nil {
		t.Fatalf("root mut: %v", err)
	}
	if _, err := root.AddDimension("x", 4); err != nil {
		t.Fatalf("add dimension: %v", err)
	}
	if _, err := root.AddUnlimitedDimension("time"); err != nil {
		t.Fatalf("add record dimension: %v", err)
	}
	v, err := root.AddVariable("temp", Double, "time", "x")
	if err != nil {
		t.Fatalf("add variable: %v", err)
	}
	if _, err := v.AddAttribute("units", "K"); err != nil {
		t.Fatalf("add attribute: %v", err)
	}
	if _, err := root.AddAttribute("title", "surface temperature"); err != nil {
		t.Fatalf("add global attribute: %v", err)
	}
	data := []float64{270, 271, 272, 273}
	if err := v.Put([]uint64{0, 0}, []uint64{1, 4}, data); err != nil {
		t.Fatalf("put: %v", err)
	}
	f.Close()

	f, err = Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	if f.Name() != "surface.nc" {
		t.Errorf("name = %q", f.Name())
	}

	d := f.Dimension("time")
	if d == nil || !d.IsUnlimited() {
		t.Fatal("record dimension lost")
	}
	if got := d.Len(); got != 1 {
		t.Errorf("record len = %d, want 1", got)
	}
	if got := f.Dimension("x").Len(); got != 4 {
		t.Errorf("x len = %d, want 4", got)
	}

	rv := f.Variable("temp")
	if rv == nil {
		t.Fatal("variable lost")
	}
	if rv.Kind() != Double {
		t.Errorf("kind = %v, want double", rv.Kind())
	}
	got, err := rv.Get([]uint64{0, 0}, []uint64{1, 4})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	read := got.([]float64)
	for i := range data {
		if read[i] != data[i] {
			t.Errorf("read[%d] = %v, want %v", i, read[i], data[i])
		}
	}
	if a := rv.Attribute("units"); a == nil || a.Value() != "K" {
		t.Errorf("units attribute = %v", a)
	}
	if a := f.Attribute("title"); a == nil || a.Value() != "surface temperature" {
		t.Errorf("title attribute = %v", a)
	}

	// Read-only handle refuses mutation.
	if _, err := f.RootMut(); !errors.IsKind(err, errors.KindEngine) {
		t.Errorf("RootMut on read-only: %v", err)
	}
}

func TestClassicAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "append.nc")

	f, err := Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	root, _ := f.RootMut()
	root.AddUnlimitedDimension("time")
	v, err := root.AddVariable("value", Int, "time")
	if err != nil {
		t.Fatalf("add variable: %v", err)
	}
	if err := v.Put([]uint64{0}, []uint64{2}, []int32{10, 20}); err != nil {
		t.Fatalf("put: %v", err)
	}
	f.Close()

	f, err = Append(path)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	root, err = f.RootMut()
	if err != nil {
		t.Fatalf("root mut: %v", err)
	}
	mv := root.VariableMut("value")
	if mv == nil {
		t.Fatal("variable lost")
	}
	if err := mv.Put([]uint64{2}, []uint64{1}, []int32{30}); err != nil {
		t.Fatalf("append put: %v", err)
	}
	if got := f.Dimension("time").Len(); got != 3 {
		t.Errorf("record len = %d, want 3", got)
	}
	// The classic header is settled: no new dimensions on append.
	if _, err := root.AddDimension("x", 2); !errors.IsKind(err, errors.KindUnsupported) {
		t.Errorf("define on appended file: %v", err)
	}
	f.Close()
}

func TestClassicByteVariableRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flags.nc")

	f, err := Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	root, _ := f.RootMut()
	if _, err := root.AddDimension("x", 2); err != nil {
		t.Fatalf("add dimension: %v", err)
	}
	if _, err := root.AddVariable("b", Byte, "x"); err != nil {
		t.Fatalf("add byte variable: %v", err)
	}
	// Scalar attribute values have no classic representation; the
	// refusal must come here, not when the header is written out.
	if _, err := root.AddAttribute("count", int32(7)); !errors.IsKind(err, errors.KindTypeMismatch) {
		t.Errorf("scalar attribute: %v", err)
	}
	// Close writes the still-pending header, byte variable included.
	f.Close()

	f, err = Append(path)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	root, err = f.RootMut()
	if err != nil {
		t.Fatalf("root mut: %v", err)
	}
	mv := root.VariableMut("b")
	if mv == nil {
		t.Fatal("variable lost")
	}
	if err := mv.Put([]uint64{0}, []uint64{2}, []int8{-5, 5}); err != nil {
		t.Fatalf("put: %v", err)
	}
	f.Close()

	f, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer f.Close()
	rv := f.Variable("b")
	if rv == nil {
		t.Fatal("variable lost after reopen")
	}
	if rv.Kind() != Byte {
		t.Errorf("kind = %v, want byte", rv.Kind())
	}
	got, err := rv.Get([]uint64{0}, []uint64{2})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	read := got.([]int8)
	if read[0] != -5 || read[1] != 5 {
		t.Errorf("read = %v", read)
	}
}

func TestOpenMemBuffer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mem.nc")
	f, err := Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	root, _ := f.RootMut()
	root.AddDimension("x", 2)
	v, _ := root.AddVariable("v", Float, "x")
	if err := v.Put([]uint64{0}, []uint64{2}, []float32{1.5, 2.5}); err != nil {
		t.Fatalf("put: %v", err)
	}
	f.Close()

	buf, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	mf, err := OpenMem("mem.nc", buf)
	if err != nil {
		t.Fatalf("open mem: %v", err)
	}
	defer mf.Close()
	got, err := mf.Variable("v").Get([]uint64{0}, []uint64{2})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	read := got.([]float32)
	if read[0] != 1.5 || read[1] != 2.5 {
		t.Errorf("read = %v", read)
	}
	if _, err := mf.RootMut(); !errors.IsKind(err, errors.KindEngine) {
		t.Errorf("RootMut on buffer: %v", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.nc"))
	if !errors.IsKind(err, errors.KindEngine) {
		t.Errorf("open missing: %v", err)
	}
}
