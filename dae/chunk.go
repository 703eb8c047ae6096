package dae

import (
	"strconv"
)

// tokenizer splits whitespace-separated text delivered in arbitrary chunks into tokens.
// A token cut by a chunk boundary is held in pending until the rest of it arrives.
type tokenizer struct {
	pending []byte
	emit    func(token string) error
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func (tok *tokenizer) write(chunk []byte) error {

	start := 0

	for i := 0; i < len(chunk); i++ {

		if !isSpace(chunk[i]) {
			continue
		}

		if i > start || len(tok.pending) > 0 {
			var token string
			if len(tok.pending) > 0 {
				token = string(append(tok.pending, chunk[start:i]...))
				tok.pending = tok.pending[:0]
			} else {
				token = string(chunk[start:i])
			}
			if err := tok.emit(token); err != nil {
				return err
			}
		}

		start = i + 1

	}

	if start < len(chunk) {
		tok.pending = append(tok.pending, chunk[start:]...)
	}

	return nil

}

func (tok *tokenizer) finish() error {
	if len(tok.pending) == 0 {
		return nil
	}
	token := string(tok.pending)
	tok.pending = tok.pending[:0]
	return tok.emit(token)
}

// ChunkReader consumes numeric text that arrives in pieces; Finish must be called after the last piece.
type ChunkReader interface {
	Write(chunk []byte) error
	Finish() error
}

// FloatReader parses whitespace-separated floats out of chunked text, passing each to its sink in order.
// The values it produces don't depend on where the chunk boundaries fall.
type FloatReader struct {
	tokenizer
}

// NewFloatReader returns a FloatReader that passes every parsed value to sink.
func NewFloatReader(sink func(value float32)) *FloatReader {
	reader := &FloatReader{}
	reader.emit = func(token string) error {
		value, err := strconv.ParseFloat(token, 32)
		if err != nil {
			return &FormatError{Token: token, Kind: "float"}
		}
		sink(float32(value))
		return nil
	}
	return reader
}

// Write feeds the next piece of text to the reader.
func (reader *FloatReader) Write(chunk []byte) error { return reader.write(chunk) }

// Finish parses the token left over from the last Write, if any.
func (reader *FloatReader) Finish() error { return reader.finish() }

// IntReader is the integer counterpart of FloatReader.
type IntReader struct {
	tokenizer
}

// NewIntReader returns an IntReader that passes every parsed value to sink.
func NewIntReader(sink func(value int)) *IntReader {
	reader := &IntReader{}
	reader.emit = func(token string) error {
		value, err := strconv.Atoi(token)
		if err != nil {
			return &FormatError{Token: token, Kind: "int"}
		}
		sink(value)
		return nil
	}
	return reader
}

// Write feeds a chunk of text to the reader; a token cut off at the end of the chunk waits for the next one.
func (reader *IntReader) Write(chunk []byte) error { return reader.write(chunk) }

// Finish parses the token left over from the last chunk, if any.
func (reader *IntReader) Finish() error { return reader.finish() }

// NameReader collects the whitespace-separated names of a <Name_array> or <IDREF_array>.
type NameReader struct {
	tokenizer
}

// NewNameReader returns a NameReader that passes every name to sink.
func NewNameReader(sink func(name string)) *NameReader {
	reader := &NameReader{}
	reader.emit = func(token string) error {
		sink(token)
		return nil
	}
	return reader
}

// Write feeds a chunk of text to the reader; a name cut off at the end of the chunk waits for the next one.
func (reader *NameReader) Write(chunk []byte) error { return reader.write(chunk) }

// Finish passes on the name left over from the last chunk, if any.
func (reader *NameReader) Finish() error { return reader.finish() }

// parseFloats parses a short whole-buffer tuple such as the text of <color> or <translate>.
func parseFloats(text []byte) ([]float32, error) {
	values := make([]float32, 0, 4)
	reader := NewFloatReader(func(value float32) { values = append(values, value) })
	if err := reader.Write(text); err != nil {
		return nil, err
	}
	if err := reader.Finish(); err != nil {
		return nil, err
	}
	return values, nil
}
