package types

// PageMeta is the pagination block merged into Meta on list responses.
type PageMeta struct {
	Total      int64 `json:"total" example:"42"`
	Page       int   `json:"page" example:"1"`
	Limit      int   `json:"limit" example:"10"`
	TotalPages int   `json:"totalPages" example:"5"`
}

// Meta travels with every success envelope. Status defaults to 200 and
// Message to "OK" when left empty.
type Meta struct {
	Status  int    `json:"status,omitempty" example:"200"`
	Message string `json:"message,omitempty" example:"OK"`
	*PageMeta
}

// Response is the success envelope.
type Response struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"OK"`
	Data    any    `json:"data"`
	Meta    Meta   `json:"meta"`
}

// ErrorResponse is the generic failure envelope.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"Internal Server Error"`
	Error   any    `json:"error"`
}

// ValidationErrorResponse is returned with 422 when a body fails validation.
type ValidationErrorResponse struct {
	Success bool             `json:"success" example:"false"`
	Message string           `json:"message" example:"Validation failed"`
	Errors  ValidationIssues `json:"errors"`
}

// ValidationIssues is the per-field issue report:
// {"_errors": [...], "<field>": {"_errors": [...]}}.
type ValidationIssues map[string]any

// FieldIssues lists the messages for one field.
type FieldIssues struct {
	Errors []string `json:"_errors"`
}

// NewValidationIssues returns an empty report.
func NewValidationIssues() ValidationIssues {
	return ValidationIssues{"_errors": []string{}}
}

// Add appends msg to field's messages. An empty field records a form-level
// message.
func (v ValidationIssues) Add(field, msg string) {
	if field == "" {
		form, _ := v["_errors"].([]string)
		v["_errors"] = append(form, msg)
		return
	}
	fi, _ := v[field].(FieldIssues)
	fi.Errors = append(fi.Errors, msg)
	v[field] = fi
}

// Empty reports whether nothing was recorded.
func (v ValidationIssues) Empty() bool {
	form, _ := v["_errors"].([]string)
	return len(v) <= 1 && len(form) == 0
}
