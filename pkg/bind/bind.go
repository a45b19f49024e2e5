// Package bind decodes and validates an HTTP request body into a struct.
//
// JSON bodies and form bodies (urlencoded or multipart) bind into the same
// struct: form fields are matched by the struct's json tag names.
//
//	var in SubmitOrderInput
//	errs, err := bind.Auto(r, &in)
//	fh, err := bind.File(r, "paymentImage") // nil when not uploaded
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/delish/config"
	"github.com/shashiranjanraj/delish/pkg/validate"
)

// ErrEmptyBody is returned by JSON when the request has no body at all.
var ErrEmptyBody = errors.New("request body is empty")

// JSON decodes r.Body as JSON into dest and runs validation.
// The body is capped at MAX_BODY_BYTES (default 4 MB) to prevent memory exhaustion.
// Returns (errs, nil) when there are validation failures.
// Returns (nil, err) when the body is malformed JSON or too large.
func JSON(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, config.MaxBodyBytes())

	dec := json.NewDecoder(r.Body)
	if err = dec.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		}
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyBody
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	return check(dest), nil
}

// Form parses a urlencoded or multipart body and copies the values into the
// string, integer and float fields of dest, keyed by json tag name. Query
// parameters are included, body values win.
func Form(r *http.Request, dest interface{}) (map[string]string, error) {
	if isMultipart(r) {
		r.Body = http.MaxBytesReader(nil, r.Body, config.MaxUploadBytes())
		if err := r.ParseMultipartForm(config.MaxUploadBytes()); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return nil, fmt.Errorf("upload too large (max %d bytes)", maxErr.Limit)
			}
			return nil, fmt.Errorf("invalid multipart form: %w", err)
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("invalid form: %w", err)
	}

	values := map[string][]string(r.Form)
	if r.MultipartForm != nil {
		values = make(map[string][]string, len(r.Form))
		for k, v := range r.Form {
			values[k] = v
		}
		for k, v := range r.MultipartForm.Value {
			values[k] = v
		}
	}
	if err := assign(dest, values); err != nil {
		return nil, err
	}
	return check(dest), nil
}

// Auto binds JSON bodies with JSON and everything else with Form.
func Auto(r *http.Request, dest interface{}) (map[string]string, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		return JSON(r, dest)
	}
	return Form(r, dest)
}

// File returns the uploaded file header for field, or nil when the request
// carries none. Form or Auto must have parsed the request first.
func File(r *http.Request, field string) (*multipart.FileHeader, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return nil, nil
	}
	return files[0], nil
}

func isMultipart(r *http.Request) bool {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return ct == "multipart/form-data"
}

func check(dest interface{}) map[string]string {
	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		return errs
	}
	return nil
}

func assign(dest interface{}, values map[string][]string) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("bind: destination must be a pointer to a struct, got %T", dest)
	}
	return assignStruct(rv.Elem(), values)
}

func assignStruct(sv reflect.Value, values map[string][]string) error {
	st := sv.Type()
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		fv := sv.Field(i)
		if f.Anonymous && fv.Kind() == reflect.Struct {
			if err := assignStruct(fv, values); err != nil {
				return err
			}
			continue
		}
		if !f.IsExported() {
			continue
		}
		name := strings.Split(f.Tag.Get("json"), ",")[0]
		if name == "" || name == "-" {
			continue
		}
		vals, ok := values[name]
		if !ok || len(vals) == 0 {
			continue
		}
		if err := setValue(fv, strings.TrimSpace(vals[0])); err != nil {
			return fmt.Errorf("invalid value for %s: %w", name, err)
		}
	}
	return nil
}

func setValue(v reflect.Value, s string) error {
	switch v.Kind() {
	case reflect.Ptr:
		if s == "" {
			return nil
		}
		p := reflect.New(v.Type().Elem())
		if err := setValue(p.Elem(), s); err != nil {
			return err
		}
		v.Set(p)
	case reflect.String:
		v.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if s == "" {
			return nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}
		v.SetInt(n)
	case reflect.Float32, reflect.Float64:
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		v.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		v.SetBool(b)
	}
	return nil
}
