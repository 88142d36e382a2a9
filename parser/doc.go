// Package parser loads OpenAPI 3.x specifications for client generation.
//
// The parser accepts YAML or JSON documents from disk, models the subset
// of the specification the generator consumes (paths, operations,
// parameters, request bodies, responses, component schemas), and can
// optionally resolve local and relative-file $ref references in place.
//
// # Graceful degradation
//
// Unresolvable references are never fatal at parse time: they are recorded
// as warnings on the ParseResult and left in the document, so that the
// generator can degrade the affected declarations individually instead of
// aborting the run.
//
// # Quick start
//
//	p := parser.New()
//	result, err := p.Parse("openapi.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Stats.OperationCount, "operations")
package parser
