package shared

import (
	"cmp"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"folha/internal/transport/http/api"
)

// Accepted date layouts for admission dates: ISO first, then the dd/mm/yyyy
// form printed on payslips.
var dateLayouts = []string{"2006-01-02", "02/01/2006", time.RFC3339}

type ValidationIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Validator collects field issues from a decoded payload so a request is
// rejected once with every problem listed.
type Validator struct {
	issues []ValidationIssue
}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) Add(field, reason string) {
	if v == nil || strings.TrimSpace(reason) == "" {
		return
	}
	v.issues = append(v.issues, ValidationIssue{Field: strings.TrimSpace(field), Reason: strings.TrimSpace(reason)})
}

func (v *Validator) Required(field, value, reason string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, reason)
	}
}

// Enum checks a lowercase record kind. Blank values are left to Required.
func (v *Validator) Enum(field, value string, allowed []string, reason string) {
	kind := strings.ToLower(strings.TrimSpace(value))
	if kind != "" && !slices.Contains(allowed, kind) {
		v.Add(field, reason)
	}
}

func (v *Validator) Date(field, raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, raw); err == nil {
				return parsed, true
			}
		}
	}
	v.Add(field, "must be a date as YYYY-MM-DD or DD/MM/YYYY")
	return time.Time{}, false
}

func (v *Validator) NonNegative(field string, value decimal.Decimal) {
	if value.IsNegative() {
		v.Add(field, "must be zero or greater")
	}
}

func (v *Validator) NonNegativeInt(field string, value int) {
	if value < 0 {
		v.Add(field, "must be zero or greater")
	}
}

func (v *Validator) Positive(field string, value int64) {
	if value <= 0 {
		v.Add(field, "must be a positive id")
	}
}

// Rate requires a present value within [0, 1].
func (v *Validator) Rate(field string, value decimal.NullDecimal) {
	switch {
	case !value.Valid:
		v.Add(field, "is required")
	case value.Decimal.IsNegative() || value.Decimal.GreaterThan(decimal.NewFromInt(1)):
		v.Add(field, "must be between 0 and 1")
	}
}

func (v *Validator) HasIssues() bool {
	return v != nil && len(v.issues) > 0
}

// Issues returns a copy ordered by field, then reason.
func (v *Validator) Issues() []ValidationIssue {
	if !v.HasIssues() {
		return nil
	}
	out := slices.Clone(v.issues)
	slices.SortStableFunc(out, func(a, b ValidationIssue) int {
		return cmp.Or(cmp.Compare(a.Field, b.Field), cmp.Compare(a.Reason, b.Reason))
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
