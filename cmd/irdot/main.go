// Command irdot renders the built-in IR fixture modules as Graphviz DOT.
//
// Usage:
//
//	irdot [options] <fixture>
//
// Examples:
//
//	irdot quad                     # Validate and render to stdout
//	irdot -o quad.dot quad         # Render to a file
//	irdot -statements=false quad   # Skip the statement tree
//	irdot -list                    # List available fixtures
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gogpu/shaderir"
	"github.com/gogpu/shaderir/fixture"
)

var (
	output     = flag.String("o", "", "output file (default: stdout)")
	statements = flag.Bool("statements", true, "render the statement tree of each function body")
	validate   = flag.Bool("validate", true, "validate module handles before rendering")
	list       = flag.Bool("list", false, "list available fixtures")
	version    = flag.Bool("version", false, "print version")
)

const irdotVersion = "0.1.0-dev"

func main() {
	flag.Usage = usage
	flag.Parse()

	if *version {
		fmt.Printf("irdot version %s\n", irdotVersion)
		return
	}

	if *list {
		for _, fx := range fixture.All() {
			fmt.Println(fx.Name)
		}
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Error: no fixture specified")
		usage()
		os.Exit(1)
	}

	name := args[0]
	fx, ok := lookup(name)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown fixture %q, try -list\n", name)
		os.Exit(1)
	}

	opts := shaderir.Options{
		Statements: *statements,
		Validate:   *validate,
	}
	source, err := shaderir.GraphWithOptions(fx.Build(), opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Render error: %v\n", err)
		os.Exit(1)
	}

	if *output != "" {
		err = os.WriteFile(*output, []byte(source), 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Rendered %s to %s (%d bytes)\n", name, *output, len(source))
	} else {
		_, err = os.Stdout.WriteString(source)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			os.Exit(1)
		}
	}
}

func lookup(name string) (fixture.Fixture, bool) {
	for _, fx := range fixture.All() {
		if fx.Name == name {
			return fx, true
		}
	}
	return fixture.Fixture{}, false
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: irdot [options] <fixture>\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  irdot quad                   Render to stdout\n")
	fmt.Fprintf(os.Stderr, "  irdot -o quad.dot quad       Render to a file\n")
	fmt.Fprintf(os.Stderr, "  irdot -statements=false quad Skip the statement tree\n")
}
