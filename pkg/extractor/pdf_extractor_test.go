package extractor

import (
	"bytes"
	"strings"
	"testing"
)

func TestExtractRejectsUnreadableDocument(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not a pdf at all", data: "plain text masquerading as a pdf"},
		{name: "truncated header", data: "%PDF-1.4"},
		{name: "empty input", data: ""},
	}

	extractor := NewPDFExtractor()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := bytes.NewReader([]byte(tt.data))
			_, err := extractor.Extract(r, int64(len(tt.data)))
			if err == nil {
				t.Error("expected error for unreadable document")
			}
			if err != nil && !strings.Contains(err.Error(), "open pdf") {
				t.Errorf("error %q does not wrap the open failure", err)
			}
		})
	}
}
