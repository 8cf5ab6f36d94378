package mnist

import (
	"errors"
	"fmt"
)

// Kind categorizes dataset loading failures.
type Kind int

const (
	// KindIO covers open, read and truncation failures.
	KindIO Kind = iota
	// KindImageMagic means the image file does not start with 2051.
	KindImageMagic
	// KindLabelMagic means the label file does not start with 2049.
	KindLabelMagic
	// KindShape covers wrong image dimensions, out of range labels and
	// image/label count mismatches.
	KindShape
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "IO"
	case KindImageMagic:
		return "ImageMagic"
	case KindLabelMagic:
		return "LabelMagic"
	case KindShape:
		return "Shape"
	default:
		return "Unknown"
	}
}

// Error is returned by every loader in this package.
type Error struct {
	Kind Kind
	Op   string // ReadImages, ReadLabels or Load
	Path string
	Err  error // underlying error, if any
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("mnist %s error in %s", e.Kind, e.Op)
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap allows error chain inspection.
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, op, path string, err error) error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

func isKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// IsIOError checks if an error is an I/O or truncation failure.
func IsIOError(err error) bool { return isKind(err, KindIO) }

// IsImageMagicError checks if an image file had the wrong magic number.
func IsImageMagicError(err error) bool { return isKind(err, KindImageMagic) }

// IsLabelMagicError checks if a label file had the wrong magic number.
func IsLabelMagicError(err error) bool { return isKind(err, KindLabelMagic) }

// IsShapeError checks if the files were well formed but inconsistent.
func IsShapeError(err error) bool { return isKind(err, KindShape) }
