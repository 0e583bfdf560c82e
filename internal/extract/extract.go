// Package extract collects URL strings from arbitrarily nested JSON
// documents.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
)

// ErrMalformedInput is returned when the source document cannot be
// parsed at all.
var ErrMalformedInput = errors.New("malformed input document")

// URLs walks a JSON document and returns every string leaf that looks
// like an http(s) URL, in depth-first document order. Object key order
// and array index order are preserved as written in the source bytes,
// so the result is deterministic across runs on the same input.
// Duplicate URLs are preserved; non-URL strings are skipped silently.
func URLs(r io.Reader) ([]string, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var urls []string
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if err := walkValue(dec, tok, &urls); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	// Anything after the first top-level value is not a valid document.
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after document", ErrMalformedInput)
	}
	return urls, nil
}

// FromFile reads and extracts URLs from a JSON file on disk.
func FromFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return URLs(f)
}

// walkValue consumes one complete JSON value whose first token is tok.
func walkValue(dec *json.Decoder, tok json.Token, urls *[]string) error {
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return walkObject(dec, urls)
		case '[':
			return walkArray(dec, urls)
		default:
			return fmt.Errorf("unexpected delimiter %v", v)
		}
	case string:
		if IsURL(v) {
			*urls = append(*urls, v)
		}
	}
	// Numbers, booleans, and null carry no URLs.
	return nil
}

func walkObject(dec *json.Decoder, urls *[]string) error {
	for dec.More() {
		// Key; keys are never treated as URL values.
		if _, err := dec.Token(); err != nil {
			return err
		}
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if err := walkValue(dec, tok, urls); err != nil {
			return err
		}
	}
	_, err := dec.Token() // closing '}'
	return err
}

func walkArray(dec *json.Decoder, urls *[]string) error {
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if err := walkValue(dec, tok, urls); err != nil {
			return err
		}
	}
	_, err := dec.Token() // closing ']'
	return err
}

// IsURL reports whether s is an absolute http or https URL with a
// non-empty host.
func IsURL(s string) bool {
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
