// Package schemavalidation validates the two JSON surfaces antiprobe
// exposes: an optional policy-override file (--policy-json) and the
// machine-readable run report (--format json). Both schemas are
// embedded at build time so validation never depends on a file path
// surviving deployment.
package schemavalidation

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/policy.schema.json schema/report.schema.json
var schemaFS embed.FS

var (
	policySchema *jsonschema.Schema
	reportSchema *jsonschema.Schema
)

func init() {
	policySchema = mustCompile("schema/policy.schema.json", "antiprobe-policy-v1")
	reportSchema = mustCompile("schema/report.schema.json", "antiprobe-report-v1")
}

func mustCompile(path, id string) *jsonschema.Schema {
	data, err := schemaFS.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("schemavalidation: embedded schema %s missing: %v", path, err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(id, bytes.NewReader(data)); err != nil {
		panic(fmt.Sprintf("schemavalidation: invalid embedded schema %s: %v", path, err))
	}
	schema, err := compiler.Compile(id)
	if err != nil {
		panic(fmt.Sprintf("schemavalidation: compile %s: %v", path, err))
	}
	return schema
}

// ValidatePolicy checks a --policy-json payload against the policy
// override schema. A schema violation is treated as a parse failure:
// the caller is expected to fall back to the TOML/default thresholds
// rather than apply a partially-valid override.
func ValidatePolicy(data []byte) error {
	return validate(policySchema, data)
}

// ValidateReport checks a --format json run report against its schema.
func ValidateReport(data []byte) error {
	return validate(reportSchema, data)
}

func validate(schema *jsonschema.Schema, data []byte) error {
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("schemavalidation: invalid JSON: %w", err)
	}
	return schema.Validate(instance)
}
