package config

import "github.com/elee1766/convo/src/schema"

// Schema returns the JSON Schema of the configuration file.
func Schema() ([]byte, error) {
	return schema.MarshalIndent(Config{}, "convo configuration")
}
