package frame

// DecodeErrorKind is the closed set of reasons Decode can fail.
type DecodeErrorKind uint8

const (
	// Ok is never returned as an error; it exists so the zero value of
	// DecodeErrorKind has a name consistent with the closed enumeration in
	// the specification.
	Ok DecodeErrorKind = iota
	UndefinedCommand
	EmptyHeader
	BadHeader
	EmptyHeaderValue
	MissingBodyNewline
	UnterminatedBody
	JunkAfterBody
	WrongContentLength
	MissingAcceptVersion
	MissingHost
)

var decodeErrorText = map[DecodeErrorKind]string{
	Ok:                   "ok",
	UndefinedCommand:     "undefined command",
	EmptyHeader:          "empty header",
	BadHeader:            "bad header: missing colon or unrecognized key",
	EmptyHeaderValue:     "empty header value",
	MissingBodyNewline:   "missing newline separating headers from body",
	UnterminatedBody:     "unterminated body: no NUL terminator found",
	JunkAfterBody:        "junk after body: non-newline byte following terminator",
	WrongContentLength:   "content-length does not match actual body length",
	MissingAcceptVersion: "CONNECT/STOMP frame missing accept-version header",
	MissingHost:          "CONNECT/STOMP frame missing host header",
}

// DecodeError reports why Decode rejected an input buffer. On any non-nil
// DecodeError, the caller MUST NOT observe the returned Frame value.
type DecodeError struct {
	Kind DecodeErrorKind
}

func (e *DecodeError) Error() string {
	return "frame: " + decodeErrorText[e.Kind]
}

// Is supports errors.Is(err, frame.ErrWrongContentLength) and friends by
// comparing Kind, so sentinel values below can be compared directly with a
// freshly-constructed *DecodeError returned from Decode.
func (e *DecodeError) Is(target error) bool {
	other, ok := target.(*DecodeError)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// Sentinel errors, one per DecodeErrorKind, for use with errors.Is.
var (
	ErrUndefinedCommand     = &DecodeError{Kind: UndefinedCommand}
	ErrEmptyHeader          = &DecodeError{Kind: EmptyHeader}
	ErrBadHeader            = &DecodeError{Kind: BadHeader}
	ErrEmptyHeaderValue     = &DecodeError{Kind: EmptyHeaderValue}
	ErrMissingBodyNewline   = &DecodeError{Kind: MissingBodyNewline}
	ErrUnterminatedBody     = &DecodeError{Kind: UnterminatedBody}
	ErrJunkAfterBody        = &DecodeError{Kind: JunkAfterBody}
	ErrWrongContentLength   = &DecodeError{Kind: WrongContentLength}
	ErrMissingAcceptVersion = &DecodeError{Kind: MissingAcceptVersion}
	ErrMissingHost          = &DecodeError{Kind: MissingHost}
)
