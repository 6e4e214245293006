package main

import (
	"fmt"
	"io"

	"github.com/apexys/netcdf"
)

// writeFile dumps the container's metadata: root content first, then
// each subgroup depth-first, separated by blank lines.
func writeFile(w io.Writer, f *netcdf.File) error {
	if err := writeContent(w, f.Root()); err != nil {
		return err
	}
	for _, g := range f.Groups() {
		fmt.Fprintln(w)
		if err := writeGroup(w, g); err != nil {
			return err
		}
	}
	return nil
}

func writeGroup(w io.Writer, g *netcdf.Group) error {
	fmt.Fprintf(w, "Group: %s\n", g.Name())
	if err := writeContent(w, g); err != nil {
		return err
	}
	for _, sub := range g.Groups() {
		fmt.Fprintln(w)
		if err := writeGroup(w, sub); err != nil {
			return err
		}
	}
	return nil
}

func writeContent(w io.Writer, g *netcdf.Group) error {
	fmt.Fprintln(w, "Dimensions:")
	for _, d := range g.Dimensions() {
		if d.IsUnlimited() {
			fmt.Fprintf(w, "\t%s : Unlimited (%d)\n", d.Name(), d.Len())
		} else {
			fmt.Fprintf(w, "\t%s : (%d)\n", d.Name(), d.Len())
		}
	}
	fmt.Fprintln(w, "Variables:")
	for _, v := range g.Variables() {
		fmt.Fprintf(w, "\t%s(", v.Name())
		for _, d := range v.Dimensions() {
			fmt.Fprintf(w, " %s ", d.Name())
		}
		fmt.Fprintln(w, ")")
		for _, a := range v.Attributes() {
			fmt.Fprintf(w, "\t\t%s = %s\n", a.Name(), formatValue(a.Value()))
		}
	}
	fmt.Fprintln(w, "Attributes:")
	for _, a := range g.Attributes() {
		fmt.Fprintf(w, "\t\t%s = %s\n", a.Name(), formatValue(a.Value()))
	}
	return nil
}

func formatValue(v any) string {
	switch s := v.(type) {
	case string:
		return fmt.Sprintf("%q", s)
	case []string:
		return fmt.Sprintf("%q", s)
	default:
		return fmt.Sprintf("%v", v)
	}
}
