package dae

import (
	"encoding/xml"
	"errors"
	"io"
	"os"
)

// Read parses a COLLADA document from r. It either returns a document with every reference resolved or an
// error, usually a *ParseError; r is not closed. A nil options uses DefaultOptions.
func Read(r io.Reader, options *Options) (*Document, error) {

	parser := NewParser(options)
	if err := Drive(xml.NewDecoder(r), parser); err != nil {
		return nil, err
	}
	return parser.Document()

}

// ReadFile opens, parses and closes the named COLLADA file.
func ReadFile(path string, options *Options) (*Document, error) {

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Read(file, options)

}

// Drive feeds the tokens of decoder to handler until the end of the input. Errors are wrapped in a
// *ParseError carrying the line they happened on.
func Drive(decoder *xml.Decoder, handler Handler) error {

	for {

		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}

		line, _ := decoder.InputPos()

		if err != nil {
			var syntaxErr *xml.SyntaxError
			if errors.As(err, &syntaxErr) {
				line = syntaxErr.Line
			}
			return &ParseError{Line: line, Err: err}
		}

		switch t := token.(type) {

		case xml.StartElement:
			if err := handler.StartElement(t.Name.Local, t.Attr); err != nil {
				return &ParseError{Line: line, Element: t.Name.Local, Err: err}
			}

		case xml.CharData:
			if err := handler.Characters(t); err != nil {
				return &ParseError{Line: line, Err: err}
			}

		case xml.EndElement:
			if err := handler.EndElement(t.Name.Local); err != nil {
				return &ParseError{Line: line, Element: t.Name.Local, Err: err}
			}

		}

	}

}
