package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/apexys/netcdf"
)

func main() {
	var (
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: ncdump <file.nc>")
		fmt.Fprintln(os.Stderr, "       ncdump -i <file.nc>  (interactive mode)")
		os.Exit(1)
	}
	path := flag.Arg(0)

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(path string) error {
	f, err := netcdf.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Println(f.Path())
	return writeFile(os.Stdout, f)
}
