package errors

import (
	"errors"
)

var (
	ErrMalformedNumber = errors.New("malformed number")
	ErrNumericOverflow = errors.New("numeric overflow")
	ErrCharacterDecode = errors.New("content is not a valid character sequence")

	ErrMalformedHeader  = errors.New("malformed header")
	ErrHeaderTooLarge   = errors.New("header too large")
	ErrContentTooLarge  = errors.New("declared content length is too large")
	ErrNoContentLength  = errors.New("header carries no content length")
	ErrUnknownCharset   = errors.New("unknown charset")
	ErrUnsupportedRadix = errors.New("radix must be in range 2..36")

	ErrClosed = errors.New("decoder is closed")
)
