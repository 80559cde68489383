package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/FACorreiaa/go-ipos-api/internal/types"
)

const maxBodyBytes = 1_048_576

var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report issues under the JSON names clients send.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Errorf("register phone validation: %w", err))
	}

	v.RegisterStructValidation(createUserRules, types.CreateUserRequest{})
	v.RegisterStructValidation(updateUserRules, types.UpdateUserRequest{})
	return v
}

func createUserRules(sl validator.StructLevel) {
	req := sl.Current().Interface().(types.CreateUserRequest)
	checkDob(sl, req.Dob)
}

func updateUserRules(sl validator.StructLevel) {
	req := sl.Current().Interface().(types.UpdateUserRequest)
	checkDob(sl, req.Dob)
	if req.Password != nil && utf8.RuneCountInString(req.Password.Value) < 8 {
		sl.ReportError(req.Password.Value, "password", "Password", "min", "8")
	}
}

func checkDob(sl validator.StructLevel, dob *types.Date) {
	if dob != nil && !dob.Valid() {
		sl.ReportError(dob.Received, "dob", "Dob", "date", "")
	}
}

// ValidateStruct runs the validation rules for v, a pointer to a request
// DTO, and returns the issue report, or nil when v is valid. Every field is
// treated as supplied.
func ValidateStruct(v any) types.ValidationIssues {
	issues := types.NewValidationIssues()
	collectIssues(issues, v, func(string) bool { return true }, nil)
	if issues.Empty() {
		return nil
	}
	return issues
}

// collectIssues adds the rule failures of v to issues, leaving out fields in
// skip. supplied reports whether the client sent a key for a JSON field name.
func collectIssues(issues types.ValidationIssues, v any, supplied func(string) bool, skip map[string]bool) {
	err := validate.Struct(v)
	if err == nil {
		return
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		issues.Add("", err.Error())
		return
	}

	t := reflect.Indirect(reflect.ValueOf(v)).Type()
	for _, fe := range verrs {
		if skip[fe.Field()] {
			continue
		}
		issues.Add(fe.Field(), issueMessage(t, fe, supplied(fe.Field())))
	}
}

// issueMessage picks the client-facing message for fe. A missing key reads
// "Required"; otherwise the field's `message` tag wins.
func issueMessage(t reflect.Type, fe validator.FieldError, supplied bool) string {
	var custom, rules string
	if sf, ok := t.FieldByName(fe.StructField()); ok {
		custom = sf.Tag.Get("message")
		rules = sf.Tag.Get("validate")
	}

	switch fe.Tag() {
	case "required":
		if !supplied {
			return "Required"
		}
		if opts, ok := oneofParam(rules); ok {
			return enumMessage(opts, fmt.Sprintf("'%v'", fe.Value()))
		}
		if custom != "" {
			return custom
		}
		return "Required"
	case "oneof":
		return enumMessage(fe.Param(), fmt.Sprintf("'%v'", fe.Value()))
	case "date":
		return fmt.Sprintf("Expected date, received %v", fe.Value())
	}

	if custom != "" {
		return custom
	}
	return fmt.Sprintf("Invalid %s", fe.Field())
}

func enumMessage(opts, received string) string {
	return fmt.Sprintf("Invalid enum value. Expected %s, received %s", quoteOptions(opts), received)
}

// quoteOptions renders a oneof parameter as 'A' | 'B'.
func quoteOptions(opts string) string {
	quoted := strings.Fields(opts)
	for i := range quoted {
		quoted[i] = "'" + quoted[i] + "'"
	}
	return strings.Join(quoted, " | ")
}

func oneofParam(rules string) (string, bool) {
	for _, rule := range strings.Split(rules, ",") {
		if opts, ok := strings.CutPrefix(rule, "oneof="); ok {
			return opts, true
		}
	}
	return "", false
}

// nullIssues reports every known field of t the client sent as JSON null.
// The returned set lists those fields so rule failures on them are skipped.
func nullIssues(issues types.ValidationIssues, t reflect.Type, keys map[string]json.RawMessage) map[string]bool {
	nulls := make(map[string]bool)
	if t.Kind() != reflect.Struct {
		return nulls
	}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		raw, ok := keys[strings.ToLower(name)]
		if !ok || !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		nulls[name] = true
		if opts, ok := oneofParam(sf.Tag.Get("validate")); ok {
			issues.Add(name, fmt.Sprintf("Expected %s, received null", quoteOptions(opts)))
			continue
		}
		kind := sf.Tag.Get("swaggertype")
		if kind == "" {
			kind = expectedKind(sf.Type)
		}
		issues.Add(name, fmt.Sprintf("Expected %s, received null", kind))
	}
	return nulls
}

type validatedBodyKey struct{}

// ValidateBody decodes the JSON request body into T and validates it. On
// failure it writes the error envelope and stops the chain; on success the
// typed value is available to the handler through ValidatedBody.
func ValidateBody[T any](next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			ErrorResponse(w, r, http.StatusBadRequest, "Invalid request body", fmt.Sprintf("body must not be larger than %d bytes", maxBodyBytes))
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(raw))

		var body T
		if err := DecodeJSONBody(w, r, &body); err != nil {
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) {
				issues := types.NewValidationIssues()
				issues.Add(typeErr.Field, fmt.Sprintf("Expected %s, received %s", expectedKind(typeErr.Type), receivedKind(typeErr.Value)))
				ValidationErrorResponse(w, r, issues)
				return
			}
			ErrorResponse(w, r, http.StatusBadRequest, "Invalid request body", err.Error())
			return
		}

		keys := suppliedKeys(raw)
		issues := types.NewValidationIssues()
		nulls := nullIssues(issues, reflect.TypeOf(body), keys)
		collectIssues(issues, &body, func(name string) bool {
			_, ok := keys[strings.ToLower(name)]
			return ok
		}, nulls)
		if !issues.Empty() {
			ValidationErrorResponse(w, r, issues)
			return
		}

		ctx := context.WithValue(r.Context(), validatedBodyKey{}, body)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// suppliedKeys returns the top-level keys of a JSON object body, lower-cased
// to match how encoding/json pairs keys with fields.
func suppliedKeys(raw []byte) map[string]json.RawMessage {
	var obj map[string]json.RawMessage
	_ = json.Unmarshal(raw, &obj)
	keys := make(map[string]json.RawMessage, len(obj))
	for k, v := range obj {
		keys[strings.ToLower(k)] = v
	}
	return keys
}

// ValidatedBody returns the body stored by ValidateBody[T].
func ValidatedBody[T any](ctx context.Context) (T, bool) {
	body, ok := ctx.Value(validatedBodyKey{}).(T)
	return body, ok
}

// DecodeJSONBody reads a single JSON value from the request body into dst.
// An empty body decodes as {}. Unknown keys are ignored.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var typeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.As(err, &typeError):
			return typeError
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)
		case errors.As(err, &invalidUnmarshalError):
			panic(fmt.Errorf("developer error: invalid argument passed to json.Unmarshal: %w", err))
		default:
			return fmt.Errorf("error decoding JSON body: %w", err)
		}
	}

	if err = dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}

func expectedKind(t reflect.Type) string {
	if t == nil {
		return "unknown"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Struct, reflect.Map:
		return "object"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	}
	return t.Kind().String()
}

func receivedKind(v string) string {
	kind, _, _ := strings.Cut(v, " ")
	if kind == "bool" {
		return "boolean"
	}
	return kind
}
