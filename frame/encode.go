package frame

import "strings"

// Encode renders f to canonical STOMP wire bytes: the command line, each
// header in the order stored on f, the header/body separator, the body,
// and a single terminating NUL. Encode never inserts a content-length
// header and never escapes header values — STOMP 1.2 header escaping is
// out of scope for this client's subset; a value containing '\n', ':', or
// '\\' produces unspecified (but never panicking) output, and is the
// caller's responsibility to avoid.
func (f *Frame) Encode() []byte {
	var b strings.Builder
	b.WriteString(f.Command.String())
	b.WriteByte('\n')
	for _, h := range f.Headers {
		b.WriteString(h.Key.String())
		b.WriteByte(':')
		b.WriteString(h.Value)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.Write(f.Body)
	b.WriteByte(0)
	return []byte(b.String())
}

// String returns the same canonical rendering as Encode, as text.
func (f *Frame) String() string {
	return string(f.Encode())
}
