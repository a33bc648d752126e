package extractor

import "io"

// TextExtractor produces the concatenated plain text of a document supplied
// as a random-access byte stream.
type TextExtractor interface {
	Extract(r io.ReaderAt, size int64) (string, error)
}
