package frame

import (
	"bytes"
	"strconv"
)

// Decode parses buf as exactly one STOMP frame, optionally followed by
// trailing newline characters. On success it returns a validated Frame. On
// failure it returns a *DecodeError and the caller MUST NOT observe the
// returned Frame, which is nil.
//
// Decoding proceeds in three phases, per the STOMP 1.2 subset this client
// implements: command, headers, body. A leading empty header line (a lone
// "\n" immediately after the command) is tolerated as a frame with no
// headers — this is a compatibility concession some STOMP peers rely on
// and falls out naturally of phase 2 treating the first line as the
// (empty) header/body separator.
func Decode(buf []byte) (*Frame, error) {
	pos := 0

	cmd, newPos, err := decodeCommand(buf, pos)
	if err != nil {
		return nil, err
	}
	pos = newPos

	headers, newPos, err := decodeHeaders(buf, pos)
	if err != nil {
		return nil, err
	}
	pos = newPos

	body, err := decodeBody(buf, pos, headers)
	if err != nil {
		return nil, err
	}

	f := &Frame{Command: cmd, Headers: headers, Body: body}
	if err := checkHandshakeHeaders(f); err != nil {
		return nil, err
	}
	return f, nil
}

func decodeCommand(buf []byte, pos int) (Command, int, error) {
	nl := bytes.IndexByte(buf[pos:], '\n')
	if nl < 0 {
		return 0, 0, ErrUndefinedCommand
	}
	token := string(buf[pos : pos+nl])
	cmd, ok := parseCommand(token)
	if !ok {
		return 0, 0, ErrUndefinedCommand
	}
	return cmd, pos + nl + 1, nil
}

func decodeHeaders(buf []byte, pos int) ([]HeaderEntry, int, error) {
	var headers []HeaderEntry
	for {
		nl := bytes.IndexByte(buf[pos:], '\n')
		if nl < 0 {
			return nil, 0, ErrMissingBodyNewline
		}
		line := buf[pos : pos+nl]
		pos = pos + nl + 1

		if len(line) == 0 {
			// Empty line: end of headers (the §9 leading-empty-header-line
			// tolerance falls out of this branch firing on the very first
			// iteration).
			return headers, pos, nil
		}

		colon := bytes.IndexByte(line, ':')
		if colon < 0 {
			return nil, 0, ErrBadHeader
		}
		keyToken := string(line[:colon])
		key, ok := parseHeader(keyToken)
		if !ok {
			return nil, 0, ErrBadHeader
		}
		value := string(line[colon+1:])
		if value == "" {
			return nil, 0, ErrEmptyHeaderValue
		}
		headers = append(headers, HeaderEntry{Key: key, Value: value})
	}
}

func decodeBody(buf []byte, pos int, headers []HeaderEntry) ([]byte, error) {
	declaredLen, hasContentLength := contentLengthOf(headers)

	var body []byte
	var afterNul int

	if hasContentLength {
		if declaredLen < 0 {
			return nil, ErrWrongContentLength
		}
		end := pos + declaredLen
		if end >= len(buf) {
			return nil, ErrUnterminatedBody
		}
		if buf[end] != 0 {
			return nil, ErrWrongContentLength
		}
		body = buf[pos:end]
		afterNul = end + 1
	} else {
		nul := bytes.IndexByte(buf[pos:], 0)
		if nul < 0 {
			return nil, ErrUnterminatedBody
		}
		body = buf[pos : pos+nul]
		afterNul = pos + nul + 1
	}

	for _, b := range buf[afterNul:] {
		if b != '\n' {
			return nil, ErrJunkAfterBody
		}
	}

	return body, nil
}

// contentLengthOf looks up content-length without constructing a Frame
// (decodeBody runs before the Frame exists). An unparsable content-length
// value is treated the same as a mismatched one: WrongContentLength, since
// the closed DecodeErrorKind set has no separate "malformed header value"
// member for this case.
func contentLengthOf(headers []HeaderEntry) (int, bool) {
	for _, h := range headers {
		if h.Key == ContentLength {
			n, err := strconv.ParseUint(h.Value, 10, 32)
			if err != nil {
				return -1, true
			}
			return int(n), true
		}
	}
	return 0, false
}

func checkHandshakeHeaders(f *Frame) error {
	if f.Command != CONNECT && f.Command != STOMP {
		return nil
	}
	if _, ok := f.Get(AcceptVersion); !ok {
		return ErrMissingAcceptVersion
	}
	if _, ok := f.Get(Host); !ok {
		return ErrMissingHost
	}
	return nil
}
