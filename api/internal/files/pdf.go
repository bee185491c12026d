package files

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PageCount opens the PDF just far enough to read its page tree.
func PageCount(data []byte) (int, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("pdf open: %w", err)
	}
	return r.NumPage(), nil
}

// ExtractPages returns the plain text of pages from..to (1-based,
// inclusive). Pages that fail to decode are skipped — scanned pages have no
// text layer and that is fine, Gemini sees the full file in that case.
func ExtractPages(data []byte, from, to int) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf open: %w", err)
	}
	if from < 1 {
		from = 1
	}
	if to > r.NumPage() {
		to = r.NumPage()
	}

	var b strings.Builder
	for i := from; i <= to; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		txt, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(txt)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// PageRange is a 1-based inclusive span of pages.
type PageRange struct {
	From, To int
}

// PlanChunks splits a page count into perChunk-sized ranges. Large PDFs are
// processed chunk by chunk so a single Gemini call stays under the payload
// limit.
func PlanChunks(pages, perChunk int) []PageRange {
	if pages <= 0 {
		return nil
	}
	if perChunk <= 0 {
		perChunk = 10
	}
	var out []PageRange
	for from := 1; from <= pages; from += perChunk {
		to := from + perChunk - 1
		if to > pages {
			to = pages
		}
		out = append(out, PageRange{From: from, To: to})
	}
	return out
}
