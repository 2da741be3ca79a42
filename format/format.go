// Package format names the source formats documents are read and written
// in.
package format

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

type Format int

const (
	YAMLFormat Format = iota
	JSONFormat
)

var ErrBadFormat = errors.New("bad format")

var names = map[string]Format{
	"y":    YAMLFormat,
	"yaml": YAMLFormat,
	"yml":  YAMLFormat,
	"j":    JSONFormat,
	"json": JSONFormat,
}

// ParseFormat accepts a format name, an abbreviation or a file extension.
func ParseFormat(v string) (Format, error) {
	if f, ok := names[strings.ToLower(v)]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFormat, v)
}

func (f Format) String() string {
	switch f {
	case YAMLFormat:
		return "yaml"
	case JSONFormat:
		return "json"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

func (f Format) IsJSON() bool { return f == JSONFormat }

// FromPath guesses the format of a file from its extension. Unknown
// extensions read as YAML, which JSON documents also parse as.
func FromPath(p string) Format {
	if f, err := ParseFormat(strings.TrimPrefix(path.Ext(p), ".")); err == nil {
		return f
	}
	return YAMLFormat
}
