package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // reject typos like "filters:"
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			// Empty file: defaults only.
			return nil
		}
		return &ConfigError{Code: ErrCodeParse, Message: "invalid YAML", Err: err}
	}
	return nil
}

// schema closes the set of keys and constrains their values, so a CUE config
// is checked before it is decoded.
const schema = `
#Config: {
	root_id?:     string & !=""
	format?:      "text" | "json"
	filter?:      [...string]
	log_level?:   "debug" | "info" | "warn" | "error"
	log_format?:  "text" | "json"
	report_path?: string
	no_color?:    bool
	durations?:   bool
}
`

func decodeCUE(path string, data []byte, cfg *Config) error {
	ctx := cuecontext.New()

	def := ctx.CompileString(schema).LookupPath(cue.ParsePath("#Config"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return &ConfigError{Code: ErrCodeParse, Message: "invalid CUE", Err: err}
	}

	v = def.Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return &ConfigError{Code: ErrCodeInvalid, Message: "does not match schema", Err: err}
	}
	if err := v.Decode(cfg); err != nil {
		return &ConfigError{Code: ErrCodeParse, Message: "cannot decode CUE", Err: err}
	}
	return nil
}
