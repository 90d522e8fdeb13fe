// Package validate is the shared request-validation layer. Every JSON endpoint
// declares its body as a JSON Schema compiled once at startup; validation
// failures all produce the same 400 shape with per-field detail.
package validate

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/kaptinlin/jsonschema"
)

// Schema is a compiled request-body schema.
type Schema struct {
	compiled *jsonschema.Schema
}

// MustCompile compiles a JSON Schema document and panics on error. Request
// schemas are package-level constants, so a compile failure is a programming
// error caught at startup.
func MustCompile(raw string) *Schema {
	compiler := jsonschema.NewCompiler()
	compiled, err := compiler.Compile([]byte(raw))
	if err != nil {
		panic(fmt.Sprintf("validate: failed to compile request schema: %v", err))
	}
	return &Schema{compiled: compiled}
}

// Bind reads the request body, validates it against the schema, and unmarshals
// it into out. On any failure it writes the uniform 400 response and returns
// false; the handler should simply return.
func (s *Schema) Bind(c *gin.Context, out any) bool {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		Invalid(c, []string{"body: failed to read request body"})
		return false
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		Invalid(c, []string{"body: malformed JSON"})
		return false
	}

	result := s.compiled.Validate(payload)
	if !result.IsValid() {
		var details []string
		for field, evalErr := range result.Errors {
			details = append(details, fmt.Sprintf("%s: %s", field, evalErr.Error()))
		}
		// Map iteration order is random; sort so clients see stable output.
		sort.Strings(details)
		Invalid(c, details)
		return false
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			Invalid(c, []string{"body: does not match expected shape"})
			return false
		}
	}
	return true
}

// Invalid writes the uniform validation-error response.
func Invalid(c *gin.Context, details []string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid input data",
		"details": details,
	})
}
