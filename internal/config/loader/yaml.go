package loader

import (
	"bytes"
	"errors"
	"io"

	"gopkg.in/yaml.v3"
)

type yamlDecoder struct{}

// Decode implements Decoder.
func (yamlDecoder) Decode(source string, data []byte, dst any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	err := dec.Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	perr := &ParseError{Path: source, Message: err.Error(), Err: err}
	var te *yaml.TypeError
	if errors.As(err, &te) && len(te.Errors) > 0 {
		perr.Message = te.Errors[0]
	}
	return perr
}
