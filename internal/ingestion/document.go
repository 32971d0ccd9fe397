package ingestion

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Format identifies a supported source document type
type Format string

// Supported formats
const (
	FormatText Format = "text"
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// Document is a loaded source with its extracted plain text
type Document struct {
	Path   string `json:"path,omitempty"`
	Format Format `json:"format"`
	Text   string `json:"text"`
	Hash   string `json:"hash"` // SHA256 hex digest of Text
}

// UnsupportedFormatError is returned for files whose type cannot be read
type UnsupportedFormatError struct {
	Path string
	Ext  string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file type %q: %s", e.Ext, e.Path)
}

var (
	docxParagraphEndRe = regexp.MustCompile(`</w:p>|<w:br/>|<w:tab/>`)
	xmlTagRe           = regexp.MustCompile(`<[^>]+>`)
)

// FormatForPath infers the document format from a file extension
func FormatForPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".txt", ".md", ".text", "":
		return FormatText, nil
	case ".html", ".htm":
		return FormatHTML, nil
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	default:
		return "", &UnsupportedFormatError{Path: path, Ext: ext}
	}
}

// LoadDocument reads a file and extracts its text according to its extension
func LoadDocument(path string) (*Document, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	doc, err := ExtractDocument(format, data)
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", path, err)
	}
	doc.Path = path
	return doc, nil
}

// ExtractDocument extracts plain text from raw bytes of the given format
func ExtractDocument(format Format, data []byte) (*Document, error) {
	var (
		text string
		err  error
	)
	switch format {
	case FormatText:
		text = CleanText(string(data))
	case FormatHTML:
		text, err = HTMLToText(string(data))
	case FormatPDF:
		text, err = extractPDFText(data)
	case FormatDOCX:
		text, err = extractDocxText(data)
	default:
		return nil, &UnsupportedFormatError{Ext: string(format)}
	}
	if err != nil {
		return nil, err
	}
	return &Document{Format: format, Text: text, Hash: Fingerprint(text)}, nil
}

// Fingerprint returns the SHA256 hex digest of content
func Fingerprint(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}
	return CleanText(b.String()), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	xml := doc.Editable().GetContent()
	return CleanText(docxXMLToText(xml)), nil
}

func docxXMLToText(xml string) string {
	text := docxParagraphEndRe.ReplaceAllString(xml, "\n")
	text = xmlTagRe.ReplaceAllString(text, "")
	return html.UnescapeString(text)
}
