package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	traitgen "github.com/reoring/traitgen"
	"github.com/reoring/traitgen/schemadoc"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "generate":
		generateCmd(os.Args[2:])
	case "check":
		checkCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "traitgen CLI\n\nUsage:\n  traitgen generate -schema schema.json -root RootInstance -pkg models -o out.go\n  traitgen check -root RootInstance schema1.json [schema2.yaml ...]\n\nNotes:\n  - generate writes one Go source file of validated model classes.\n  - check runs generation for each schema and reports failures without aborting the batch.")
}

func generateCmd(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	var schema string
	var root string
	var pkg string
	var out string
	fs.StringVar(&schema, "schema", "", "schema document (JSON or YAML)")
	fs.StringVar(&root, "root", "", "root class name (default RootInstance)")
	fs.StringVar(&pkg, "pkg", "models", "package name of the generated file")
	fs.StringVar(&out, "o", "", "output filename (default stdout)")
	_ = fs.Parse(args)
	if schema == "" {
		fs.Usage()
		os.Exit(2)
	}

	code, err := generateOne(schema, root, pkg)
	if err != nil {
		fatalf("%s: %v", schema, err)
	}
	if out == "" {
		fmt.Print(code)
		return
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		fatalf("creating output dir: %v", err)
	}
	if err := os.WriteFile(out, []byte(code), 0o644); err != nil {
		fatalf("writing output: %v", err)
	}
}

// checkCmd generates every schema given on the command line, reporting
// per-schema failures and continuing; the batch exits non-zero if any
// schema failed.
func checkCmd(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	var root string
	fs.StringVar(&root, "root", "", "root class name (default RootInstance)")
	_ = fs.Parse(args)
	files := fs.Args()
	if len(files) == 0 {
		fs.Usage()
		os.Exit(2)
	}

	failed := 0
	for _, f := range files {
		if _, err := generateOne(f, root, "models"); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%s: %v\n", f, err)
			continue
		}
		fmt.Fprintf(os.Stderr, "%s: ok\n", f)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func generateOne(path, root, pkg string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var doc *traitgen.Document
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		doc, err = schemadoc.DecodeYAML(data)
	case ".json":
		doc, err = schemadoc.DecodeJSON(data)
	default:
		doc, err = schemadoc.Decode(data)
	}
	if err != nil {
		return "", err
	}
	return traitgen.NewGenerator(doc, root).WithPackage(pkg).ModuleCode()
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
