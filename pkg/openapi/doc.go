// Package openapi exposes OpenAPI documents as a schema source. A named entry
// of components.schemas becomes the root of a schema.Schema and every
// component is reachable from it through #/components/schemas references.
// The kin-openapi backed implementation lives under internal/openapi.
package openapi
