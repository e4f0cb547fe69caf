// Package schema produces JSON Schema documents for Go types.
//
// Example usage:
//
//	import "github.com/elee1766/convo/src/schema"
//
//	// Reflect a struct into a schema document
//	data, err := schema.MarshalIndent(config.Config{}, "convo configuration")
package schema
