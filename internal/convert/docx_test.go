package convert

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDOCXPagesText(t *testing.T) {
	doc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Asha Rao</w:t></w:r></w:p>
    <w:p><w:r><w:t>Senior Manager</w:t><w:br/><w:t>Mumbai</w:t></w:r></w:p>
    <w:p><w:r><w:tab/><w:t>asha@example.com</w:t></w:r></w:p>
  </w:body>
</w:document>`

	pages, err := DOCXConverter{}.PagesText(buildDOCX(t, doc))
	require.NoError(t, err)
	require.Len(t, pages, 1)

	assert.Contains(t, pages[0], "Asha Rao\n")
	assert.Contains(t, pages[0], "Senior Manager\nMumbai\n")
	assert.Contains(t, pages[0], "\tasha@example.com")
}

func TestDOCXIgnoresNonRunText(t *testing.T) {
	doc := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body><w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>Visible</w:t></w:r></w:p></w:body>
</w:document>`

	pages, err := DOCXConverter{}.PagesText(buildDOCX(t, doc))
	require.NoError(t, err)
	assert.Equal(t, "Visible\n", pages[0])
}

func TestDOCXNotAZip(t *testing.T) {
	_, err := DOCXConverter{}.PagesText([]byte("plain text, not a zip archive"))
	assert.Error(t, err)
}

func TestDOCXMissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<styles/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = DOCXConverter{}.PagesText(buf.Bytes())
	assert.ErrorContains(t, err, "word/document.xml")
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.NotNil(t, r.For("PDF"))
	assert.NotNil(t, r.For("DOCX"))
	assert.Nil(t, r.For("XLSX"))
}

func TestPDFRejectsGarbage(t *testing.T) {
	_, err := PDFConverter{}.PagesText([]byte("not a pdf"))
	assert.Error(t, err)
}
