package frame

import "strconv"

// Frame is the validated result of Decode, or the input to Encode. Headers
// preserve arrival order and duplicates: re-encoding a decoded Frame
// reproduces the same header sequence, even if a key repeats.
type Frame struct {
	Command Command
	Headers []HeaderEntry
	Body    []byte
}

// New builds a Frame from a command and its headers, in order, e.g.:
//
//	frame.New(frame.SUBSCRIBE,
//	    frame.HeaderEntry{Key: frame.ID, Value: id},
//	    frame.HeaderEntry{Key: frame.Destination, Value: dest})
func New(cmd Command, headers ...HeaderEntry) *Frame {
	f := &Frame{Command: cmd, Headers: append([]HeaderEntry(nil), headers...)}
	return f
}

// Append adds a header to the end of the header list without removing any
// existing header with the same key.
func (f *Frame) Append(key Header, value string) {
	f.Headers = append(f.Headers, HeaderEntry{Key: key, Value: value})
}

// Get returns the value of the first header with the given key, and
// whether one was found. Per the frame accessor contract, a repeated
// header's first occurrence wins for lookup purposes; all occurrences are
// still retained in Headers for re-encoding.
func (f *Frame) Get(key Header) (string, bool) {
	for _, h := range f.Headers {
		if h.Key == key {
			return h.Value, true
		}
	}
	return "", false
}

// ContentLength returns the parsed value of the content-length header, and
// whether it was present. err is non-nil if the header was present but did
// not parse as a non-negative integer.
func (f *Frame) ContentLength() (length int, ok bool, err error) {
	text, ok := f.Get(ContentLength)
	if !ok {
		return 0, false, nil
	}
	n, parseErr := strconv.ParseUint(text, 10, 32)
	if parseErr != nil {
		return 0, true, parseErr
	}
	return int(n), true, nil
}

// Validate checks the Frame invariants from the specification: the command
// is recognized, every header key is recognized with a non-empty value
// (both always hold for a Frame returned by Decode; New does not check
// them), and any command-specific required headers are present. This
// mirrors the teacher's per-command validateXXX dispatch, narrowed to the
// headers this client actually sends or must check for CONNECT/STOMP
// handshakes.
func (f *Frame) Validate() error {
	if f.Command >= numCommands {
		return ErrUndefinedCommand
	}
	for _, h := range f.Headers {
		if h.Key >= numHeaders {
			return ErrBadHeader
		}
		if h.Value == "" {
			return ErrEmptyHeaderValue
		}
	}
	switch f.Command {
	case CONNECT, STOMP:
		return f.verifyRequiredHeaders(AcceptVersion, Host)
	case SUBSCRIBE:
		return f.verifyRequiredHeaders(ID, Destination)
	case UNSUBSCRIBE:
		return f.verifyRequiredHeaders(ID)
	case SEND:
		return f.verifyRequiredHeaders(Destination)
	case MESSAGE:
		return f.verifyRequiredHeaders(Destination)
	case RECEIPT:
		return f.verifyRequiredHeaders(ReceiptID)
	default:
		return nil
	}
}

func (f *Frame) verifyRequiredHeaders(keys ...Header) error {
	for _, key := range keys {
		value, ok := f.Get(key)
		if !ok || value == "" {
			switch key {
			case AcceptVersion:
				return ErrMissingAcceptVersion
			case Host:
				return ErrMissingHost
			default:
				return &DecodeError{Kind: BadHeader}
			}
		}
	}
	return nil
}
