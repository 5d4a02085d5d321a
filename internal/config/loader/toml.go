package loader

import (
	"bytes"
	"errors"

	"github.com/pelletier/go-toml/v2"
)

type tomlDecoder struct{}

// Decode implements Decoder.
func (tomlDecoder) Decode(source string, data []byte, dst any) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		var de *toml.DecodeError
		if errors.As(err, &de) {
			perr.Line, perr.Column = de.Position()
		}
		var se *toml.StrictMissingError
		if errors.As(err, &se) && len(se.Errors) > 0 {
			perr.Line, perr.Column = se.Errors[0].Position()
			perr.Message = "unknown key " + joinKey(se.Errors[0].Key())
		}
		return perr
	}
	return nil
}

func joinKey(k toml.Key) string {
	var b bytes.Buffer
	for i, part := range k {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
