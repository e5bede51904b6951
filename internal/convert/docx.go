package convert

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// DOCXConverter extracts paragraph text from a DOCX container by reading
// word/document.xml straight out of the ZIP. DOCX has no page boundaries in
// its flow content, so the whole document is returned as a single page.
type DOCXConverter struct{}

func (DOCXConverter) PagesText(data []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("docx open: %w", err)
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return nil, fmt.Errorf("docx: word/document.xml not found")
	}

	rc, err := doc.Open()
	if err != nil {
		return nil, fmt.Errorf("docx read: %w", err)
	}
	defer rc.Close()

	text, err := documentText(rc)
	if err != nil {
		return nil, fmt.Errorf("docx decode: %w", err)
	}
	return []string{text}, nil
}

// documentText walks the WordprocessingML token stream, collecting run text
// (<w:t>) and emitting line breaks at paragraph ends (</w:p>) and <w:br/>.
func documentText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var b strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "br":
				b.WriteByte('\n')
			case "tab":
				b.WriteByte('\t')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}
