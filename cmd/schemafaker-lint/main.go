package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goliatone/go-schemafaker/internal/lint"
	"github.com/goliatone/go-schemafaker/pkg/generators"
	"github.com/goliatone/go-schemafaker/pkg/schema"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [paths...]\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(flag.CommandLine.Output(), "\nLint JSON schema and OpenAPI documents for generator keywords the built-in generators cannot serve.\n")
	}
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	c := generators.NewContainer(generators.NewRand(1))

	var violations []lint.Violation
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lint %s: %v\n", path, err)
			os.Exit(1)
		}
		root, err := schema.Decode(raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lint %s: %v\n", path, err)
			os.Exit(1)
		}
		violations = append(violations, lint.Document(c, path, root)...)
	}

	for _, v := range violations {
		fmt.Fprintln(os.Stderr, v.String())
	}
	if len(violations) > 0 {
		os.Exit(1)
	}
}
