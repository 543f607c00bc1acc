// Package traitgen translates a JSON Schema document into Go source for a
// set of validated data-model classes backed by the traits runtime.
//
// It provides:
//
//   - A located, immutable schema-node view with same-document $ref resolution
//   - An ordered extractor chain mapping each schema shape to one validated
//     property declaration (first match wins; an unrecognized shape is a hard
//     error, never a silent fallback)
//   - A class assembler and module generator producing one source file per
//     document, plus an optional live load into a traits.Module for
//     round-trip testing
//   - A stable error model via GenerationError (code, JSON Pointer, ref)
//
// Design policy:
//   - Keep only public APIs in the root package; put detailed implementations
//     under internal/.
//   - Place the validated-property runtime under traits/, document decoding
//     under schemadoc/, and the CLI under cmd/traitgen.
//   - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	doc, err := schemadoc.DecodeJSON(data)
//	g := traitgen.NewGenerator(doc, "RootInstance")
//	src, err := g.ModuleCode()
//	mod, err := g.Load("") // live module under a fresh identifier
package traitgen
