package assets

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spaghettifunk/rtx/engine/assets/loaders"
	"github.com/spaghettifunk/rtx/engine/core"
)

var decoders = map[string]loaders.DecoderFunc{
	".toml": loaders.TOMLDecoder,
	".yaml": loaders.YAMLDecoder,
	".yml":  loaders.YAMLDecoder,
}

// IsConfigFile reports whether path has an extension LoadFile understands.
func IsConfigFile(path string) bool {
	_, ok := decoders[strings.ToLower(filepath.Ext(path))]
	return ok
}

// LoadFile decodes a TOML or YAML file into v, picked by extension.
func LoadFile(path string, v any) error {
	decoder, ok := decoders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return fmt.Errorf("%s: %w", path, core.ErrUnknownFormat)
	}
	if err := loaders.Open(v, path, decoder); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
