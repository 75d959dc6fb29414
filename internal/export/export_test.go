package export

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/knasser/eduparser/internal/i18n"
	"github.com/knasser/eduparser/internal/model"
)

func TestMain(m *testing.M) {
	if err := i18n.Init("ar"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// unzipPart opens a generated package and returns one part's content.
func unzipPart(t *testing.T, data []byte, name string) string {
	t.Helper()
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open package: %v", err)
	}
	for _, f := range r.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open part %s: %v", name, err)
		}
		defer rc.Close()
		content, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read part %s: %v", name, err)
		}
		return string(content)
	}
	t.Fatalf("part %s not found in package", name)
	return ""
}

func partNames(t *testing.T, data []byte) []string {
	t.Helper()
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open package: %v", err)
	}
	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names
}

func TestWord(t *testing.T) {
	questions := []model.Question{
		{Text: "What is 2+2?", Options: []string{"3", "4"}, Answer: "4", Kind: model.KindMultipleChoice},
		{Text: "Explain gravity.", Options: []string{}, Kind: model.KindFreeResponse},
	}

	data, err := Word(context.Background(), questions)
	if err != nil {
		t.Fatalf("Word: %v", err)
	}

	doc := unzipPart(t, data, "word/document.xml")
	for _, want := range []string{
		"بنك الأسئلة - EduParser",
		"س1: What is 2+2?",
		"- 3",
		"- 4",
		"الإجابة الصحيحة: 4",
		"س2: Explain gravity.",
		"الإجابة الصحيحة: يحتاج مراجعة",
		`w:val="008000"`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document.xml should contain %q", want)
		}
	}

	for _, name := range []string{"[Content_Types].xml", "_rels/.rels"} {
		if unzipPart(t, data, name) == "" {
			t.Errorf("part %s should not be empty", name)
		}
	}
}

func TestWordEmpty(t *testing.T) {
	data, err := Word(context.Background(), nil)
	if err != nil {
		t.Fatalf("Word: %v", err)
	}

	doc := unzipPart(t, data, "word/document.xml")
	if !strings.Contains(doc, "بنك الأسئلة - EduParser") {
		t.Error("empty document should still have the title paragraph")
	}
	if strings.Contains(doc, "س1") {
		t.Error("empty document should have no question headings")
	}
}

func TestSlides(t *testing.T) {
	questions := []model.Question{
		{Text: "What is 2+2?", Options: []string{"3", "4"}, Answer: "4", Kind: model.KindMultipleChoice},
		{Text: "", Options: []string{}, Kind: model.KindFreeResponse},
	}

	data, err := Slides(context.Background(), questions)
	if err != nil {
		t.Fatalf("Slides: %v", err)
	}

	slide1 := unzipPart(t, data, "ppt/slides/slide1.xml")
	for _, want := range []string{
		"What is 2+2?",
		">3<",
		">4<",
		"✅ الإجابة: 4",
		`val="009600"`,
	} {
		if !strings.Contains(slide1, want) {
			t.Errorf("slide1.xml should contain %q", want)
		}
	}

	slide2 := unzipPart(t, data, "ppt/slides/slide2.xml")
	if !strings.Contains(slide2, "يحتاج مراجعة") {
		t.Error("untitled answerless question should fall back to the review marker")
	}

	contentTypes := unzipPart(t, data, "[Content_Types].xml")
	for _, want := range []string{"/ppt/slides/slide1.xml", "/ppt/slides/slide2.xml"} {
		if !strings.Contains(contentTypes, want) {
			t.Errorf("[Content_Types].xml should declare %s", want)
		}
	}

	rels := unzipPart(t, data, "ppt/_rels/presentation.xml.rels")
	if !strings.Contains(rels, `Target="slides/slide2.xml"`) {
		t.Error("presentation rels should reference slide2")
	}
}

func TestSlidesEmpty(t *testing.T) {
	data, err := Slides(context.Background(), nil)
	if err != nil {
		t.Fatalf("Slides: %v", err)
	}

	for _, name := range partNames(t, data) {
		if strings.HasPrefix(name, "ppt/slides/") {
			t.Errorf("empty deck should have no slide parts, found %s", name)
		}
	}
	if !strings.Contains(unzipPart(t, data, "ppt/presentation.xml"), "sldMasterIdLst") {
		t.Error("presentation.xml should still reference the master")
	}
}

func TestExportDoesNotMutateInput(t *testing.T) {
	questions := []model.Question{{Text: "q", Options: []string{"a"}, Kind: model.KindFreeResponse}}

	if _, err := Word(context.Background(), questions); err != nil {
		t.Fatalf("Word: %v", err)
	}
	if _, err := Slides(context.Background(), questions); err != nil {
		t.Fatalf("Slides: %v", err)
	}

	if questions[0].Answer != "" {
		t.Errorf("Answer = %q, want untouched empty string", questions[0].Answer)
	}
}
