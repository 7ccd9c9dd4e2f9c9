// Package schemas generates the JSON schema of box.yaml.
//
// Run: go generate ./schemas/...
package schemas

//go:generate go run gen_schema.go box-config.schema.json
