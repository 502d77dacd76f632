package shared

import (
	"cmp"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"kpiboard/internal/transport/http/api"
)

type ValidationIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Validator accumulates field issues for a single request payload.
type Validator struct {
	issues []ValidationIssue
}

func NewValidator() *Validator {
	return &Validator{}
}

// Add records an issue. Blank reasons and exact repeats are ignored.
func (v *Validator) Add(field, reason string) {
	if v == nil {
		return
	}
	issue := ValidationIssue{Field: strings.TrimSpace(field), Reason: strings.TrimSpace(reason)}
	if issue.Reason == "" || slices.Contains(v.issues, issue) {
		return
	}
	v.issues = append(v.issues, issue)
}

func (v *Validator) check(ok bool, field, reason string) {
	if !ok {
		v.Add(field, reason)
	}
}

func (v *Validator) Required(field, value, reason string) {
	v.check(strings.TrimSpace(value) != "", field, reason)
}

// Enum accepts blank values; pair it with Required when the field is mandatory.
func (v *Validator) Enum(field, value string, allowed []string, reason string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	v.check(slices.ContainsFunc(allowed, func(candidate string) bool {
		return strings.EqualFold(value, strings.TrimSpace(candidate))
	}), field, reason)
}

func (v *Validator) Range(field string, value, min, max float64) {
	v.check(value >= min && value <= max, field, fmt.Sprintf("must be between %g and %g", min, max))
}

func (v *Validator) MaxLength(field, value string, max int) {
	v.check(len(value) <= max, field, fmt.Sprintf("must be at most %d characters", max))
}

func (v *Validator) HasIssues() bool {
	return v != nil && len(v.issues) > 0
}

// Issues returns a sorted copy, nil when the payload is clean.
func (v *Validator) Issues() []ValidationIssue {
	if !v.HasIssues() {
		return nil
	}
	out := slices.Clone(v.issues)
	slices.SortStableFunc(out, func(a, b ValidationIssue) int {
		if c := cmp.Compare(a.Field, b.Field); c != 0 {
			return c
		}
		return cmp.Compare(a.Reason, b.Reason)
	})
	return out
}

func (v *Validator) Reject(w http.ResponseWriter, requestID string) bool {
	if !v.HasIssues() {
		return false
	}
	FailValidation(w, requestID, v.Issues())
	return true
}

func FailValidation(w http.ResponseWriter, requestID string, issues []ValidationIssue) {
	api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "payload validation failed",
		map[string]any{"fields": issues}, requestID)
}
