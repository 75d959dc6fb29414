package export

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/knasser/eduparser/internal/i18n"
	"github.com/knasser/eduparser/internal/model"
)

const (
	answerColor  = "008000"
	headingSize  = "32" // half-points: 16pt
	titleSize    = "40" // half-points: 20pt
	separatorRow = 50
)

// --- minimal WordprocessingML model, generated elements only ---

type wDocument struct {
	XMLName xml.Name `xml:"w:document"`
	XmlnsW  string   `xml:"xmlns:w,attr"`
	Body    wBody    `xml:"w:body"`
}

type wBody struct {
	Paragraphs []wParagraph `xml:"w:p"`
}

type wParagraph struct {
	Runs []wRun `xml:"w:r"`
}

type wRun struct {
	Props *wRunProps `xml:"w:rPr,omitempty"`
	Text  wText      `xml:"w:t"`
}

type wRunProps struct {
	Bold  *wEmpty `xml:"w:b,omitempty"`
	Size  *wVal   `xml:"w:sz,omitempty"`
	Color *wVal   `xml:"w:color,omitempty"`
}

type wEmpty struct{}

type wVal struct {
	Val string `xml:"w:val,attr"`
}

type wText struct {
	Value string `xml:",chardata"`
}

func textParagraph(text string) wParagraph {
	return wParagraph{Runs: []wRun{{Text: wText{Value: text}}}}
}

// Word renders the question list as an editable .docx: a document title,
// then per question a bold heading, one dashed paragraph per option, a
// colored answer paragraph, and a separator line. The input is read only.
func Word(ctx context.Context, questions []model.Question) ([]byte, error) {
	doc := wDocument{
		XmlnsW: "http://schemas.openxmlformats.org/wordprocessingml/2006/main",
	}

	doc.Body.Paragraphs = append(doc.Body.Paragraphs, wParagraph{
		Runs: []wRun{{
			Props: &wRunProps{Bold: &wEmpty{}, Size: &wVal{Val: titleSize}},
			Text:  wText{Value: i18n.T(ctx, "QuestionBankTitle")},
		}},
	})

	for i, q := range questions {
		heading := i18n.Td(ctx, "QuestionHeading", map[string]any{"Index": i + 1, "Text": q.Text})
		doc.Body.Paragraphs = append(doc.Body.Paragraphs, wParagraph{
			Runs: []wRun{{
				Props: &wRunProps{Bold: &wEmpty{}, Size: &wVal{Val: headingSize}},
				Text:  wText{Value: heading},
			}},
		})

		// Options render whatever the list holds, regardless of kind.
		for _, opt := range q.Options {
			doc.Body.Paragraphs = append(doc.Body.Paragraphs, textParagraph("- "+opt))
		}

		answer := q.Answer
		if !q.HasAnswer() {
			answer = i18n.T(ctx, "AnswerNeedsReview")
		}
		doc.Body.Paragraphs = append(doc.Body.Paragraphs, wParagraph{
			Runs: []wRun{{
				Props: &wRunProps{Color: &wVal{Val: answerColor}},
				Text:  wText{Value: i18n.Td(ctx, "AnswerLabel", map[string]any{"Answer": answer})},
			}},
		})

		doc.Body.Paragraphs = append(doc.Body.Paragraphs, textParagraph(strings.Repeat("-", separatorRow)))
	}

	body, err := xml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	document := append([]byte(xml.Header), body...)

	contentTypes, err := staticPart("[Content_Types].xml", "docx_content_types.xml")
	if err != nil {
		return nil, err
	}
	rels, err := staticPart("_rels/.rels", "docx_rels.xml")
	if err != nil {
		return nil, err
	}

	return buildPackage([]part{
		contentTypes,
		rels,
		{name: "word/document.xml", data: document},
	})
}
