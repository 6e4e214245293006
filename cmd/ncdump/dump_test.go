package main

import (
	"strings"
	"testing"

	"github.com/apexys/netcdf"
	"github.com/apexys/netcdf/engine"
)

func TestDumpDimensions(t *testing.T) {
	f, err := netcdf.CreateWith(engine.NewMemory(), "dims.nc")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	root, _ := f.RootMut()
	if _, err := root.AddUnlimitedDimension("time"); err != nil {
		t.Fatalf("add dimension: %v", err)
	}
	if _, err := root.AddDimension("x", 4); err != nil {
		t.Fatalf("add dimension: %v", err)
	}

	var b strings.Builder
	if err := writeFile(&b, f); err != nil {
		t.Fatalf("dump: %v", err)
	}
	want := "Dimensions:\n" +
		"\ttime : Unlimited (0)\n" +
		"\tx : (4)\n" +
		"Variables:\n" +
		"Attributes:\n"
	if b.String() != want {
		t.Errorf("dump mismatch:\ngot:\n%s\nwant:\n%s", b.String(), want)
	}
}

func TestDumpFullTree(t *testing.T) {
	f, err := netcdf.CreateWith(engine.NewMemory(), "tree.nc")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	root, _ := f.RootMut()
	root.AddDimension("x", 2)
	v, err := root.AddVariable("temp", netcdf.Double, "x")
	if err != nil {
		t.Fatalf("add variable: %v", err)
	}
	v.AddAttribute("units", "K")
	root.AddAttribute("title", "demo")
	sub, err := root.AddGroup("details")
	if err != nil {
		t.Fatalf("add group: %v", err)
	}
	sub.AddDimension("y", 3)

	var b strings.Builder
	if err := writeFile(&b, f); err != nil {
		t.Fatalf("dump: %v", err)
	}
	want := "Dimensions:\n" +
		"\tx : (2)\n" +
		"Variables:\n" +
		"\ttemp( x )\n" +
		"\t\tunits = \"K\"\n" +
		"Attributes:\n" +
		"\t\ttitle = \"demo\"\n" +
		"\n" +
		"Group: details\n" +
		"Dimensions:\n" +
		"\ty : (3)\n" +
		"Variables:\n" +
		"Attributes:\n"
	if b.String() != want {
		t.Errorf("dump mismatch:\ngot:\n%s\nwant:\n%s", b.String(), want)
	}
}

func TestFormatValue(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"K", `"K"`},
		{[]string{"a", "b"}, `["a" "b"]`},
		{int32(7), "7"},
		{[]float64{1.5, 2}, "[1.5 2]"},
	}
	for _, c := range cases {
		if got := formatValue(c.in); got != c.want {
			t.Errorf("formatValue(%v) = %s, want %s", c.in, got, c.want)
		}
	}
}
