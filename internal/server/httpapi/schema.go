package httpapi

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/dmitrijs2005/todopoc/internal/common"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const maxBodyBytes = 1 << 20

// Request body schemas, by file name without extension.
const (
	schemaContact    = "contact"
	schemaConfirm    = "confirm"
	schemaTaskCreate = "task_create"
	schemaTaskUpdate = "task_update"
)

type validator struct {
	schemas map[string]*jsonschema.Schema
}

func newValidator() (*validator, error) {
	files, err := fs.Glob(schemaFS, "schemas/*.json")
	if err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	for _, f := range files {
		b, err := schemaFS.ReadFile(f)
		if err != nil {
			return nil, err
		}
		if err := compiler.AddResource(path.Base(f), bytes.NewReader(b)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", f, err)
		}
	}

	v := &validator{schemas: make(map[string]*jsonschema.Schema, len(files))}
	for _, f := range files {
		s, err := compiler.Compile(path.Base(f))
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", f, err)
		}
		v.schemas[strings.TrimSuffix(path.Base(f), ".json")] = s
	}
	return v, nil
}

// decode reads the request body, checks it against the named schema and
// unmarshals it into dst. Failures are common.ErrInvalidInput.
func (v *validator) decode(w http.ResponseWriter, r *http.Request, schema string, dst any) error {
	s, ok := v.schemas[schema]
	if !ok {
		return fmt.Errorf("unknown schema %q", schema)
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return common.InvalidInput("request body too large")
		}
		return common.InvalidInput("cannot read request body")
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return common.InvalidInput("malformed JSON body")
	}
	if err := s.Validate(doc); err != nil {
		return common.InvalidInput(schemaErrorDetail(err))
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return common.InvalidInput("malformed JSON body")
	}
	return nil
}

// schemaErrorDetail reports the first leaf cause, which names the offending field.
func schemaErrorDetail(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	if ve.InstanceLocation == "" {
		return ve.Message
	}
	return strings.TrimPrefix(ve.InstanceLocation, "/") + ": " + ve.Message
}
