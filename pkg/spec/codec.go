package spec

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
)

// Decode parses a TOML document into a FormSpec. Every top-level table except
// [settings] becomes a field keyed by its table name, in document order.
func Decode(text string) (*FormSpec, error) {
	var raw map[string]toml.Primitive
	md, err := toml.Decode(text, &raw)
	if err != nil {
		return nil, fmt.Errorf("spec: decode toml: %w", err)
	}

	out := &FormSpec{}
	for _, key := range md.Keys() {
		if len(key) != 1 {
			continue
		}
		name := key[0]
		prim, ok := raw[name]
		if !ok {
			continue
		}
		if name == SettingsKey {
			if err := md.PrimitiveDecode(prim, &out.Settings); err != nil {
				return nil, fmt.Errorf("spec: decode settings: %w", err)
			}
			continue
		}
		if out.Fields.Has(name) {
			continue
		}
		var field FormField
		if err := md.PrimitiveDecode(prim, &field); err != nil {
			return nil, fmt.Errorf("spec: decode field %q: %w", name, err)
		}
		out.Fields.Set(name, field)
	}
	return out, nil
}

// Option configures Parse and ParseAndValidate.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger routes decode diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		if logger != nil {
			opts.logger = logger
		}
	}
}

func newOptions(opts ...Option) options {
	cfg := options{logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Parse is the lenient variant of Decode: malformed input yields nil and a
// logged diagnostic instead of an error. A nil result means "no field-level
// validation configured".
func Parse(text string, opts ...Option) *FormSpec {
	cfg := newOptions(opts...)
	out, err := Decode(text)
	if err != nil {
		cfg.logger.Warn("form spec parse failed", zap.Error(err))
		return nil
	}
	return out
}

// Dump serialises spec as TOML: one table per field in map order followed by
// the [settings] table. Absent optional properties are not written.
func Dump(spec *FormSpec) (string, error) {
	if spec == nil {
		return "", nil
	}
	var out strings.Builder
	for key, field := range spec.Fields.All() {
		if err := writeTable(&out, key, field); err != nil {
			return "", fmt.Errorf("spec: encode field %q: %w", key, err)
		}
	}
	if err := writeTable(&out, SettingsKey, spec.Settings); err != nil {
		return "", fmt.Errorf("spec: encode settings: %w", err)
	}
	return out.String(), nil
}

// MustDump is Dump for specs built in code; it panics on encoder failure.
func MustDump(spec *FormSpec) string {
	text, err := Dump(spec)
	if err != nil {
		panic(err)
	}
	return text
}

func writeTable[T any](out *strings.Builder, key string, value T) error {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(map[string]T{key: value}); err != nil {
		return err
	}
	if out.Len() > 0 {
		out.WriteByte('\n')
	}
	out.WriteString(strings.TrimSpace(buf.String()))
	out.WriteByte('\n')
	return nil
}
