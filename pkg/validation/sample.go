// Package validation checks generated samples against their schema using
// kin-openapi's schema visitor.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-schemafaker/pkg/schema"
)

// SampleIssue describes one way a sample violates its schema.
type SampleIssue struct {
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// SampleValidationResult collects every issue found in a sample.
type SampleValidationResult struct {
	Valid  bool          `json:"valid"`
	Issues []SampleIssue `json:"issues,omitempty"`
}

// Error joins the issues into one message, or returns nil when valid.
func (r SampleValidationResult) Error() error {
	if r.Valid {
		return nil
	}
	parts := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		if issue.Field == "" {
			parts = append(parts, issue.Message)
			continue
		}
		parts = append(parts, issue.Field+": "+issue.Message)
	}
	return fmt.Errorf("validation: sample does not match schema: %s", strings.Join(parts, "; "))
}

// ValidateSample checks sample against the JSON schema in raw. The returned
// error covers unusable inputs; schema violations are reported in the result.
func ValidateSample(raw []byte, sample any) (SampleValidationResult, error) {
	if len(raw) == 0 {
		return SampleValidationResult{}, errors.New("validation: schema is empty")
	}
	var target openapi3.Schema
	if err := json.Unmarshal(raw, &target); err != nil {
		return SampleValidationResult{}, fmt.Errorf("validation: parse schema: %w", err)
	}
	return Validate(&target, sample)
}

// Validate checks sample against an already loaded schema, such as a resolved
// OpenAPI component.
func Validate(target *openapi3.Schema, sample any) (SampleValidationResult, error) {
	if target == nil {
		return SampleValidationResult{}, errors.New("validation: schema is required")
	}
	value, err := plainJSON(sample)
	if err != nil {
		return SampleValidationResult{}, err
	}

	err = target.VisitJSON(value, openapi3.MultiErrors())
	if err == nil {
		return SampleValidationResult{Valid: true}, nil
	}
	return SampleValidationResult{Valid: false, Issues: issuesFromError(err)}, nil
}

// ValidateNode validates sample against an ordered schema node.
func ValidateNode(root *schema.Node, sample any) (SampleValidationResult, error) {
	if root == nil {
		return SampleValidationResult{}, errors.New("validation: schema is required")
	}
	raw, err := json.Marshal(root)
	if err != nil {
		return SampleValidationResult{}, fmt.Errorf("validation: encode schema: %w", err)
	}
	return ValidateSample(raw, sample)
}

// plainJSON converts ordered nodes and Go numbers into the generic JSON shapes
// the schema visitor expects.
func plainJSON(sample any) (any, error) {
	encoded, err := json.Marshal(sample)
	if err != nil {
		return nil, fmt.Errorf("validation: encode sample: %w", err)
	}
	var out any
	if err := json.Unmarshal(encoded, &out); err != nil {
		return nil, fmt.Errorf("validation: decode sample: %w", err)
	}
	return out, nil
}

func issuesFromError(err error) []SampleIssue {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		var out []SampleIssue
		for _, item := range multi {
			out = append(out, issuesFromError(item)...)
		}
		return out
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		pointer := schemaErr.JSONPointer()
		issue := SampleIssue{
			Field:   strings.Join(pointer, "."),
			Message: strings.TrimSpace(schemaErr.Reason),
		}
		if len(pointer) > 0 {
			issue.Path = "/" + strings.Join(escapePointer(pointer), "/")
		}
		if issue.Message == "" {
			issue.Message = strings.TrimSpace(schemaErr.Error())
		}
		return []SampleIssue{issue}
	}
	return []SampleIssue{{Message: strings.TrimSpace(err.Error())}}
}

func escapePointer(segments []string) []string {
	out := make([]string, len(segments))
	for idx, segment := range segments {
		segment = strings.ReplaceAll(segment, "~", "~0")
		out[idx] = strings.ReplaceAll(segment, "/", "~1")
	}
	return out
}
