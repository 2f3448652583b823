// Package urlpack stores parsed URLs in a compact, contiguous form.
//
// A Packed value is a fixed directory of eight (offset, length) entries, one
// per urlparse.Component in component order, followed by a single byte region
// that holds the text of every present component back to back with no
// separators. The port is stored as its decimal text. An entry with length 0
// marks an absent component; its offset is meaningless.
//
//	p := urlpack.Encode(u)
//	s := urlpack.Render(p)  // canonical string, read straight from the region
//	v := urlpack.Decode(p)  // owned *urlparse.URL again
//
// # Binary Layout
//
// MarshalBinary writes the directory as sixteen big-endian uint32 values
// (offset then length for each component) followed by the region:
//
//	offset(4) | length(4)  x 8  | region(sum of lengths)
//
// Unmarshal checks every entry against the region and returns ErrCorrupt for
// buffers that were not produced by MarshalBinary. Framing the result for a
// particular store is left to the caller.
package urlpack
