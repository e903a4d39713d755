package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tengjizhang/bbopml/internal/opml"
	"github.com/tengjizhang/bbopml/internal/store"
)

const (
	exitInternal     = 1
	exitInvalidInput = 2
	exitNotFound     = 3
	exitIO           = 4
)

type errorClass int

const (
	classInternal errorClass = iota
	classInvalidInput
	classNotFound
	classIO
)

func classify(err error) errorClass {
	switch {
	case errors.Is(err, store.ErrInvalidInput),
		errors.Is(err, opml.ErrMalformedURL),
		errors.Is(err, opml.ErrParsing):
		return classInvalidInput
	case errors.Is(err, store.ErrNotFound):
		return classNotFound
	case errors.Is(err, opml.ErrIO):
		return classIO
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "invalid output format") ||
		strings.Contains(msg, "unknown command") ||
		strings.Contains(msg, "accepts ") {
		return classInvalidInput
	}
	return classInternal
}

func ErrorExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch classify(err) {
	case classInvalidInput:
		return exitInvalidInput
	case classNotFound:
		return exitNotFound
	case classIO:
		return exitIO
	default:
		return exitInternal
	}
}

func FormatError(err error) string {
	if err == nil {
		return ""
	}
	switch classify(err) {
	case classInvalidInput:
		return fmt.Sprintf("Error [invalid-input]: %v", err)
	case classNotFound:
		return fmt.Sprintf("Error [not-found]: %v", err)
	case classIO:
		return fmt.Sprintf("Error [io]: %v", err)
	default:
		return fmt.Sprintf("Error [internal]: %v", err)
	}
}

func PrintError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, FormatError(err))
}
