package ingestion

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"resume.txt", FormatText},
		{"resume.MD", FormatText},
		{"job.html", FormatHTML},
		{"resume.pdf", FormatPDF},
		{"resume.docx", FormatDOCX},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatForPath(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := FormatForPath("resume.odt")
	var unsupported *UnsupportedFormatError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, ".odt", unsupported.Ext)
}

func TestLoadDocument_Text(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("Jane Doe\r\n\r\n\r\n\r\nEXPERIENCE"), 0644))

	doc, err := LoadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, FormatText, doc.Format)
	assert.Equal(t, "Jane Doe\n\nEXPERIENCE", doc.Text)
	assert.Len(t, doc.Hash, 64)
	assert.Equal(t, path, doc.Path)
}

func TestLoadDocument_HTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.html")
	require.NoError(t, os.WriteFile(path, []byte("<ul><li>Go</li></ul>"), 0644))

	doc, err := LoadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, "- Go", doc.Text)
}

func TestLoadDocument_FileNotFound(t *testing.T) {
	_, err := LoadDocument("/nonexistent/resume.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

func TestLoadDocument_UnsupportedFormat(t *testing.T) {
	_, err := LoadDocument("/nonexistent/resume.rtf")
	var unsupported *UnsupportedFormatError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, ".rtf", unsupported.Ext)
	assert.Equal(t, "/nonexistent/resume.rtf", unsupported.Path)
	assert.NotContains(t, err.Error(), "file not found")
}

func TestLoadDocument_InvalidPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0644))

	_, err := LoadDocument(path)
	assert.Error(t, err)
}

func TestFingerprint_Deterministic(t *testing.T) {
	assert.Equal(t, Fingerprint("abc"), Fingerprint("abc"))
	assert.NotEqual(t, Fingerprint("abc"), Fingerprint("abd"))
}

func TestDocxXMLToText(t *testing.T) {
	xml := `<w:body><w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p><w:p><w:r><w:t>R&amp;D Engineer</w:t></w:r></w:p></w:body>`
	assert.Equal(t, "Jane Doe\nR&D Engineer", CleanText(docxXMLToText(xml)))
}
