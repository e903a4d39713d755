package opml

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedURL = errors.New("malformed url")
	ErrParsing      = errors.New("parsing failed")
	ErrIO           = errors.New("io failure")

	errNoFetcher = errors.New("no fetcher configured")
)

// ErrorKind tells callers which of the three fatal import failures happened.
type ErrorKind int

const (
	KindMalformedURL ErrorKind = iota + 1
	KindParsing
	KindIO
)

func (k ErrorKind) String() string {
	switch k {
	case KindMalformedURL:
		return "malformed-url"
	case KindParsing:
		return "parsing"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindMalformedURL:
		return ErrMalformedURL
	case KindParsing:
		return ErrParsing
	case KindIO:
		return ErrIO
	default:
		return nil
	}
}

func (k ErrorKind) defaultMessage() string {
	switch k {
	case KindMalformedURL:
		return "bad or malformed url specified"
	case KindParsing:
		return "format of data is incorrect"
	case KindIO:
		return "cannot download resource"
	default:
		return "import failed"
	}
}

// ImportError is the only error type returned by the importer.
type ImportError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ImportError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.defaultMessage()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *ImportError) Unwrap() error { return e.Err }

func (e *ImportError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

func malformedURL(raw string, err error) *ImportError {
	return &ImportError{Kind: KindMalformedURL, Message: fmt.Sprintf("bad or malformed url specified: %q", raw), Err: err}
}

func parsingError(msg string, err error) *ImportError {
	return &ImportError{Kind: KindParsing, Message: msg, Err: err}
}

func ioError(err error) *ImportError {
	return &ImportError{Kind: KindIO, Err: err}
}
