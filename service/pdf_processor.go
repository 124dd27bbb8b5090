package service

import (
	"bytes"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/Aashish23092/ocr-invoice-extraction/dto"
)

// PDFProcessor splits a PDF into the plain text of each page.
type PDFProcessor interface {
	ExtractPages(pdfData []byte, password string) (dto.PageTexts, error)
}

type pdfProcessor struct{}

func NewPDFProcessor() PDFProcessor {
	return &pdfProcessor{}
}

func (p *pdfProcessor) ExtractPages(pdfData []byte, password string) (dto.PageTexts, error) {
	r, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		// ledongthuc/pdf cannot open most encrypted files, so decrypt with
		// pdfcpu and retry. Plain files never reach pdfcpu, even with a password.
		if password == "" {
			return nil, err
		}
		decrypted, decErr := decryptPDF(pdfData, password)
		if decErr != nil {
			return nil, decErr
		}
		r, err = pdf.NewReader(bytes.NewReader(decrypted), int64(len(decrypted)))
		if err != nil {
			return nil, err
		}
	}

	totalPage := r.NumPage()
	pages := make(dto.PageTexts, 0, totalPage)

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		text, err := pageText(page)
		if err != nil {
			log.Printf("Text extraction failed for page %d: %v", pageIndex, err)
			text = ""
		}
		pages = append(pages, text)
	}

	return pages, nil
}

// Glyphs closer than this fraction of the font size are part of the same word.
// Kerning inside TJ arrays stays well below it, a space glyph does not.
const wordGapRatio = 0.2

type textLine struct {
	y     float64
	glyph []pdf.Text
}

// pageText rebuilds the page line by line from positioned glyphs. Fragments
// are joined directly unless the horizontal gap between them is wide enough
// to be a word break.
func pageText(page pdf.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed page content: %v", r)
		}
	}()

	var lines []*textLine
	for _, t := range page.Content().Text {
		line := findLine(lines, t)
		if line == nil {
			line = &textLine{y: t.Y}
			lines = append(lines, line)
		}
		line.glyph = append(line.glyph, t)
	}

	// PDF user space grows upwards, so the first line has the largest Y.
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].y > lines[j].y })

	var textBuilder strings.Builder
	for _, line := range lines {
		textBuilder.WriteString(line.String())
		textBuilder.WriteString("\n")
	}
	return textBuilder.String(), nil
}

func findLine(lines []*textLine, t pdf.Text) *textLine {
	tolerance := math.Max(t.FontSize, 1) / 2
	for _, line := range lines {
		if math.Abs(line.y-t.Y) <= tolerance {
			return line
		}
	}
	return nil
}

func (l *textLine) String() string {
	sort.SliceStable(l.glyph, func(i, j int) bool { return l.glyph[i].X < l.glyph[j].X })

	var b strings.Builder
	pendingSpace := false
	end := 0.0
	for i, g := range l.glyph {
		if strings.TrimSpace(g.S) == "" {
			pendingSpace = b.Len() > 0
			end = g.X + g.W
			continue
		}
		if i > 0 && g.X-end > wordGapRatio*math.Max(g.FontSize, 1) {
			pendingSpace = b.Len() > 0
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteString(g.S)
		end = g.X + g.W
	}
	return b.String()
}

func decryptPDF(pdfData []byte, password string) ([]byte, error) {
	conf := model.NewDefaultConfiguration()
	conf.UserPW = password
	conf.OwnerPW = password

	var out bytes.Buffer
	if err := api.Decrypt(bytes.NewReader(pdfData), &out, conf); err != nil {
		return nil, fmt.Errorf("failed to decrypt pdf: %w", err)
	}
	return out.Bytes(), nil
}
