package loaders

import (
	"bufio"
	"errors"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Decoder is implemented by the toml and yaml stream decoders.
type Decoder interface {
	Decode(v any) error
}

// DecoderFunc creates a new Decoder for the given reader.
type DecoderFunc func(r io.Reader) Decoder

// TOMLDecoder rejects keys the target struct does not know about.
func TOMLDecoder(r io.Reader) Decoder {
	return toml.NewDecoder(r).DisallowUnknownFields()
}

// YAMLDecoder rejects keys the target struct does not know about.
func YAMLDecoder(r io.Reader) Decoder {
	d := yaml.NewDecoder(r)
	d.KnownFields(true)
	return d
}

// Open decodes the named file into v. An empty file leaves v untouched.
func Open(v any, filename string, f DecoderFunc) error {
	fp, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer fp.Close()
	return Read(v, bufio.NewReader(fp), f)
}

// Read decodes the reader into v using the given DecoderFunc.
func Read(v any, reader io.Reader, f DecoderFunc) error {
	if err := f(reader).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
