// Package sgschemasync is the root package for SGSchemaSync, a code
// generation toolkit that turns OpenAPI 3.x specifications into typed
// TypeScript API clients and react-query hook factories.
//
// The module is organized into focused packages:
//
//   - parser: loads and models OpenAPI 3.x documents (YAML or JSON),
//     with optional $ref resolution
//   - generator: the generation engine; compiles operation schemas into
//     declarations, accessor factories, hook factories, and per-tag
//     output bundles
//   - config: the sg-schema-sync.yaml project configuration surface
//   - sgerrors: structured error types shared across packages
//
// The sgschemasync package itself only carries build metadata (see
// Version and UserAgent).
package sgschemasync
