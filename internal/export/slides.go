package export

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/knasser/eduparser/internal/i18n"
	"github.com/knasser/eduparser/internal/model"
)

const (
	slideAnswerColor = "009600"
	optionSize       = "2400" // hundredths of a point: 24pt
)

// --- minimal PresentationML model for generated slides ---

type pSlide struct {
	XMLName xml.Name `xml:"p:sld"`
	XmlnsA  string   `xml:"xmlns:a,attr"`
	XmlnsR  string   `xml:"xmlns:r,attr"`
	XmlnsP  string   `xml:"xmlns:p,attr"`
	CSld    pCSld    `xml:"p:cSld"`
}

type pCSld struct {
	SpTree pSpTree `xml:"p:spTree"`
}

type pSpTree struct {
	NvGrpSpPr pNvGrpSpPr `xml:"p:nvGrpSpPr"`
	GrpSpPr   pEmpty     `xml:"p:grpSpPr"`
	Shapes    []pShape   `xml:"p:sp"`
}

type pNvGrpSpPr struct {
	CNvPr      pCNvPr `xml:"p:cNvPr"`
	CNvGrpSpPr pEmpty `xml:"p:cNvGrpSpPr"`
	NvPr       pEmpty `xml:"p:nvPr"`
}

type pCNvPr struct {
	ID   int    `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

type pEmpty struct{}

type pShape struct {
	NvSpPr pNvSpPr `xml:"p:nvSpPr"`
	SpPr   pEmpty  `xml:"p:spPr"`
	TxBody pTxBody `xml:"p:txBody"`
}

type pNvSpPr struct {
	CNvPr pCNvPr `xml:"p:cNvPr"`
	CNvSp pEmpty `xml:"p:cNvSpPr"`
	NvPr  pNvPr  `xml:"p:nvPr"`
}

type pNvPr struct {
	Ph pPh `xml:"p:ph"`
}

type pPh struct {
	Type string `xml:"type,attr,omitempty"`
	Idx  string `xml:"idx,attr,omitempty"`
}

type pTxBody struct {
	BodyPr   pEmpty       `xml:"a:bodyPr"`
	LstStyle pEmpty       `xml:"a:lstStyle"`
	Paras    []aParagraph `xml:"a:p"`
}

type aParagraph struct {
	Runs []aRun `xml:"a:r"`
}

type aRun struct {
	Props *aRunProps `xml:"a:rPr,omitempty"`
	Text  aText      `xml:"a:t"`
}

type aRunProps struct {
	Size string      `xml:"sz,attr,omitempty"`
	Bold string      `xml:"b,attr,omitempty"`
	Fill *aSolidFill `xml:"a:solidFill,omitempty"`
}

type aSolidFill struct {
	Color aSrgbClr `xml:"a:srgbClr"`
}

type aSrgbClr struct {
	Val string `xml:"val,attr"`
}

type aText struct {
	Value string `xml:",chardata"`
}

// Slides renders the question list as a .pptx with one slide per
// question: title = question text, body = one paragraph per option
// followed by an emphasized answer paragraph. An empty list yields a deck
// with zero content slides. The input is read only.
func Slides(ctx context.Context, questions []model.Question) ([]byte, error) {
	parts := []part{
		{name: "[Content_Types].xml", data: slidesContentTypes(len(questions))},
		{name: "ppt/presentation.xml", data: presentationXML(len(questions))},
		{name: "ppt/_rels/presentation.xml.rels", data: presentationRels(len(questions))},
	}

	for _, tpl := range []struct{ name, template string }{
		{"_rels/.rels", "pptx_rels.xml"},
		{"ppt/slideMasters/slideMaster1.xml", "slide_master.xml"},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", "slide_master_rels.xml"},
		{"ppt/slideLayouts/slideLayout1.xml", "slide_layout.xml"},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", "slide_layout_rels.xml"},
		{"ppt/theme/theme1.xml", "theme.xml"},
	} {
		p, err := staticPart(tpl.name, tpl.template)
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}

	slideRels, err := templateFS.ReadFile("templates/slide_rels.xml")
	if err != nil {
		return nil, fmt.Errorf("read embedded template slide_rels.xml: %w", err)
	}

	for i, q := range questions {
		data, err := slideXML(ctx, q)
		if err != nil {
			return nil, err
		}
		parts = append(parts,
			part{name: fmt.Sprintf("ppt/slides/slide%d.xml", i+1), data: data},
			part{name: fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1), data: slideRels},
		)
	}

	return buildPackage(parts)
}

func slideXML(ctx context.Context, q model.Question) ([]byte, error) {
	title := q.Text
	if title == "" {
		title = i18n.T(ctx, "UntitledQuestion")
	}

	body := pTxBody{}
	// Options render regardless of question kind.
	for _, opt := range q.Options {
		body.Paras = append(body.Paras, aParagraph{
			Runs: []aRun{{Props: &aRunProps{Size: optionSize}, Text: aText{Value: opt}}},
		})
	}
	answer := q.Answer
	if !q.HasAnswer() {
		answer = i18n.T(ctx, "AnswerNeedsReview")
	}
	body.Paras = append(body.Paras, aParagraph{
		Runs: []aRun{{
			Props: &aRunProps{
				Bold: "1",
				Fill: &aSolidFill{Color: aSrgbClr{Val: slideAnswerColor}},
			},
			Text: aText{Value: i18n.Td(ctx, "SlideAnswerLabel", map[string]any{"Answer": answer})},
		}},
	})

	slide := pSlide{
		XmlnsA: "http://schemas.openxmlformats.org/drawingml/2006/main",
		XmlnsR: "http://schemas.openxmlformats.org/officeDocument/2006/relationships",
		XmlnsP: "http://schemas.openxmlformats.org/presentationml/2006/main",
		CSld: pCSld{SpTree: pSpTree{
			NvGrpSpPr: pNvGrpSpPr{CNvPr: pCNvPr{ID: 1, Name: ""}},
			Shapes: []pShape{
				{
					NvSpPr: pNvSpPr{
						CNvPr: pCNvPr{ID: 2, Name: "Title 1"},
						NvPr:  pNvPr{Ph: pPh{Type: "title"}},
					},
					TxBody: pTxBody{Paras: []aParagraph{
						{Runs: []aRun{{Text: aText{Value: title}}}},
					}},
				},
				{
					NvSpPr: pNvSpPr{
						CNvPr: pCNvPr{ID: 3, Name: "Content Placeholder 2"},
						NvPr:  pNvPr{Ph: pPh{Idx: "1"}},
					},
					TxBody: body,
				},
			},
		}},
	}

	data, err := xml.Marshal(slide)
	if err != nil {
		return nil, fmt.Errorf("marshal slide: %w", err)
	}
	return append([]byte(xml.Header), data...), nil
}

func slidesContentTypes(slideCount int) []byte {
	var b []byte
	b = append(b, xml.Header...)
	b = append(b, `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`...)
	b = append(b, `<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`...)
	b = append(b, `<Default Extension="xml" ContentType="application/xml"/>`...)
	b = append(b, `<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`...)
	b = append(b, `<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>`...)
	b = append(b, `<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>`...)
	b = append(b, `<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>`...)
	for i := 1; i <= slideCount; i++ {
		b = append(b, fmt.Sprintf(`<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i)...)
	}
	b = append(b, `</Types>`...)
	return b
}

func presentationXML(slideCount int) []byte {
	var b []byte
	b = append(b, xml.Header...)
	b = append(b, `<p:presentation xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`...)
	b = append(b, `<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`...)
	b = append(b, `<p:sldIdLst>`...)
	for i := 1; i <= slideCount; i++ {
		b = append(b, fmt.Sprintf(`<p:sldId id="%d" r:id="rId%d"/>`, 255+i, 1+i)...)
	}
	b = append(b, `</p:sldIdLst>`...)
	b = append(b, `<p:sldSz cx="9144000" cy="6858000"/><p:notesSz cx="6858000" cy="9144000"/>`...)
	b = append(b, `</p:presentation>`...)
	return b
}

func presentationRels(slideCount int) []byte {
	var b []byte
	b = append(b, xml.Header...)
	b = append(b, `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`...)
	b = append(b, `<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="slideMasters/slideMaster1.xml"/>`...)
	for i := 1; i <= slideCount; i++ {
		b = append(b, fmt.Sprintf(`<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>`, 1+i, i)...)
	}
	b = append(b, `</Relationships>`...)
	return b
}
