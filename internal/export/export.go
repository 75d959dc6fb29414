// Package export maps the approved question list to downloadable OOXML
// packages. The two exporters build the zip containers directly; the
// static package parts (relationships, master, layout, theme) are
// embedded and only the content parts are generated per export.
package export

import (
	"archive/zip"
	"bytes"
	"embed"
	"fmt"
)

//go:embed templates/*.xml
var templateFS embed.FS

const (
	// WordFilename is the download name of the Word export.
	WordFilename = "Question_Bank.docx"
	// SlidesFilename is the download name of the PowerPoint export.
	SlidesFilename = "Lesson_Slides.pptx"

	// WordMIME is the MIME type of the Word export.
	WordMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	// SlidesMIME is the MIME type of the PowerPoint export.
	SlidesMIME = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
)

// part is one file inside an OOXML zip container.
type part struct {
	name string
	data []byte
}

func staticPart(name, template string) (part, error) {
	data, err := templateFS.ReadFile("templates/" + template)
	if err != nil {
		return part{}, fmt.Errorf("read embedded template %s: %w", template, err)
	}
	return part{name: name, data: data}, nil
}

// buildPackage assembles the parts into a zip container.
func buildPackage(parts []part) ([]byte, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, fmt.Errorf("create zip entry %s: %w", p.name, err)
		}
		if _, err := w.Write(p.data); err != nil {
			return nil, fmt.Errorf("write zip entry %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close package: %w", err)
	}
	return buf.Bytes(), nil
}
