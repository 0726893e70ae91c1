// Package pdf renders generated exams as PDF documents.
package pdf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"github.com/liemdt/zbot/internal/exam"
)

// Renderer lays out exam specs as A4 PDF documents.
type Renderer struct {
	// fontPath points to a UTF-8 TTF font (e.g. DejaVuSans.ttf). When
	// empty the built-in Helvetica is used and Vietnamese diacritics are
	// rendered best-effort through the cp1252 translator.
	fontPath string
}

// NewRenderer creates a renderer. fontPath may be empty.
func NewRenderer(fontPath string) *Renderer {
	return &Renderer{fontPath: fontPath}
}

// document bundles the fpdf handle with the font setup chosen at creation.
type document struct {
	pdf       *fpdf.Fpdf
	family    string
	translate func(string) string
}

func (r *Renderer) newDocument() *document {
	p := fpdf.New("P", "mm", "A4", "")
	p.SetMargins(15, 15, 15)
	p.SetAutoPageBreak(true, 20)

	d := &document{pdf: p, family: "Helvetica", translate: p.UnicodeTranslatorFromDescriptor("")}
	if r.fontPath != "" {
		if _, err := os.Stat(r.fontPath); err == nil {
			p.AddUTF8Font("examsans", "", r.fontPath)
			d.family = "examsans"
			d.translate = func(s string) string { return s }
		}
	}
	return d
}

// RenderFile renders the spec into a new PDF file in dir and returns its
// path. The caller owns the file and must remove it after delivery.
func (r *Renderer) RenderFile(spec *exam.Spec, dir string) (string, error) {
	f, err := os.CreateTemp(dir, "exam-*.pdf")
	if err != nil {
		return "", fmt.Errorf("pdf: create temp file: %w", err)
	}
	path := f.Name()
	_ = f.Close()

	if err := r.Render(spec, path); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

// Render writes the spec as a PDF document at path.
func (r *Renderer) Render(spec *exam.Spec, path string) error {
	d := r.newDocument()
	p := d.pdf

	p.AddPage()

	// Header block.
	p.SetFont(d.family, "B", 16)
	p.MultiCell(0, 9, d.translate(spec.Title), "", "C", false)
	p.Ln(2)

	p.SetFont(d.family, "", 11)
	meta := fmt.Sprintf("Môn: %s    Lớp: %s", spec.Subject, spec.Grade)
	if spec.Duration != "" {
		meta += fmt.Sprintf("    Thời gian: %s", spec.Duration)
	}
	p.MultiCell(0, 6, d.translate(meta), "", "C", false)

	if spec.Instructions != "" {
		p.Ln(2)
		p.SetFont(d.family, "I", 10)
		p.MultiCell(0, 5, d.translate(spec.Instructions), "", "L", false)
	}
	p.Ln(4)

	// Questions.
	for i, q := range spec.Questions {
		d.writeQuestion(q, i)
	}

	// Answer key on its own page.
	if hasAnswers(spec) {
		d.writeAnswerKey(spec)
	}

	if err := p.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("pdf: write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (d *document) writeQuestion(q exam.Question, idx int) {
	p := d.pdf

	num := q.ID
	if num <= 0 {
		num = idx + 1
	}

	p.SetFont(d.family, "B", 11)
	header := fmt.Sprintf("Câu %d", num)
	if q.Points > 0 {
		header += fmt.Sprintf(" (%.1f điểm)", q.Points)
	}
	p.MultiCell(0, 6, d.translate(header+":"), "", "L", false)

	p.SetFont(d.family, "", 11)
	p.MultiCell(0, 6, d.translate(q.Question), "", "L", false)

	for j, opt := range q.Options {
		p.MultiCell(0, 6, d.translate(fmt.Sprintf("   %c. %s", 'A'+j, opt)), "", "L", false)
	}

	if q.Type == exam.TypeEssay {
		// Writing space for essay answers.
		p.Ln(20)
	}
	p.Ln(3)
}

func (d *document) writeAnswerKey(spec *exam.Spec) {
	p := d.pdf

	p.AddPage()
	p.SetFont(d.family, "B", 14)
	p.MultiCell(0, 8, d.translate("ĐÁP ÁN"), "", "C", false)
	p.Ln(2)

	p.SetFont(d.family, "", 11)
	for i, q := range spec.Questions {
		if q.CorrectAnswer == "" {
			continue
		}
		num := q.ID
		if num <= 0 {
			num = i + 1
		}
		line := fmt.Sprintf("Câu %d: %s", num, q.CorrectAnswer)
		if q.Explanation != "" {
			line += fmt.Sprintf(" — %s", q.Explanation)
		}
		p.MultiCell(0, 6, d.translate(line), "", "L", false)
	}
}

func hasAnswers(spec *exam.Spec) bool {
	for _, q := range spec.Questions {
		if q.CorrectAnswer != "" {
			return true
		}
	}
	return false
}

// DemoSpec is a fixed document used by the PDF smoke-test endpoint.
func DemoSpec() *exam.Spec {
	return &exam.Spec{
		Title:        "ĐỀ KIỂM TRA THỬ NGHIỆM",
		Subject:      "Toán",
		Grade:        "10",
		Duration:     "45 phút",
		Instructions: "Chọn đáp án đúng nhất cho mỗi câu hỏi.",
		Questions: []exam.Question{
			{
				ID:            1,
				Type:          exam.TypeMultipleChoice,
				Question:      "Tập xác định của hàm số y = 1/x là gì?",
				Options:       []string{"R", "R \\ {0}", "(0; +∞)", "(-∞; 0)"},
				CorrectAnswer: "R \\ {0}",
				Explanation:   "Hàm số không xác định tại x = 0.",
				Points:        1,
			},
			{
				ID:       2,
				Type:     exam.TypeEssay,
				Question: "Chứng minh rằng tổng hai số lẻ là một số chẵn.",
				Points:   2,
			},
		},
	}
}
