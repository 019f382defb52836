package codec

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	apperrors "github.com/lh2mqtt/lh2mqtt/internal/pkg/errors"
	"github.com/lh2mqtt/lh2mqtt/internal/pkg/store"
)

// Format names an export encoding.
type Format string

const (
	FormatINI  Format = "ini"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists the supported export encodings.
func Formats() []Format {
	return []Format{FormatINI, FormatJSON, FormatYAML, FormatTOML}
}

// ParseFormat resolves a format name, case-insensitively.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", apperrors.NewInvalidValueError("format", name, "expected one of ini, json, yaml, toml")
}

// Export writes s in the given format. Non-INI formats encode the values as
// a section -> key -> value mapping without the header.
func Export(w io.Writer, s *store.Store, format Format) error {
	sections := s.Sections()

	switch format {
	case FormatINI:
		return Serialize(w, s)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sections)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(sections); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(sections)
	default:
		return apperrors.NewInvalidValueError("format", string(format), "unsupported export format")
	}
}
