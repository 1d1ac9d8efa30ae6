// Package source wraps the raw bytes of a UVM assembly file behind the
// narrow read-only contract the parser and diagnostics renderer need:
// substring lookup, single-byte access, and line extraction by byte
// offset. It is the source-view external collaborator named in
// spec.md §1/§6; the file-reading/loading concern itself lives outside
// this module.
package source

// View is an immutable byte buffer with index-based accessors. All
// indices are byte offsets into the original buffer, matching the
// token stream's byte-index convention.
type View struct {
	name string
	buf  []byte
}

// New wraps buf as a source view identified by name (used only in
// diagnostics).
func New(name string, buf []byte) *View {
	return &View{name: name, buf: buf}
}

// Name returns the name the view was constructed with (typically a file
// path), for diagnostic messages.
func (v *View) Name() string {
	return v.name
}

// Len returns the number of bytes in the buffer.
func (v *View) Len() int {
	return len(v.buf)
}

// Substring returns size bytes starting at index. Out-of-range requests
// are clamped rather than panicking, since token positions are always
// derived from this same buffer and a clamp is cheaper than bounds
// threading through every caller.
func (v *View) Substring(index, size uint32) string {
	start := int(index)
	if start > len(v.buf) {
		start = len(v.buf)
	}
	end := start + int(size)
	if end > len(v.buf) {
		end = len(v.buf)
	}
	if end < start {
		end = start
	}
	return string(v.buf[start:end])
}

// CharAt returns the byte at index, or 0 if index is out of range.
func (v *View) CharAt(index uint32) byte {
	if int(index) >= len(v.buf) {
		return 0
	}
	return v.buf[index]
}

// LineOf returns the full line of text containing index and the byte
// index at which that line starts.
func (v *View) LineOf(index uint32) (line string, lineStart uint32) {
	i := int(index)
	if i > len(v.buf) {
		i = len(v.buf)
	}

	start := i
	for start > 0 && v.buf[start-1] != '\n' {
		start--
	}

	end := i
	for end < len(v.buf) && v.buf[end] != '\n' {
		end++
	}

	return string(v.buf[start:end]), uint32(start)
}
