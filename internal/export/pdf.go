/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
	"uniboard/internal/domain"
	"uniboard/internal/render"
	"uniboard/internal/storage"
)

// PDFOptions controls PDF export behavior.
// Pages are emitted at 1:1 physical scale in millimeters: a 2.54 mm pitch
// board prints with holes exactly 2.54 mm apart, so the sheet can be laid
// over a real perfboard. Sides selects which views become pages; empty
// means front only.
type PDFOptions struct {
	ShowLabels bool
	Sides      []domain.ViewSide
}

// ExportBoardPDF exports the board to a PDF placed at outPath, one page
// per requested side. A relative outPath resolves under the board's
// exports folder.
func ExportBoardPDF(h *storage.DocumentHandle, outPath string, opt PDFOptions) error {
	if h == nil || h.Doc == nil {
		return fmt.Errorf("document handle is nil")
	}
	sides := opt.Sides
	if len(sides) == 0 {
		sides = []domain.ViewSide{domain.ViewFront}
	}

	// Board pixels to millimeters: the model fixes PixelsPerMM.
	const pxToMM = 1.0 / domain.PixelsPerMM
	probe := render.BuildScene(h.Doc, render.Options{Side: sides[0], ShowLabels: opt.ShowLabels})
	mediaW := probe.Width * pxToMM
	mediaH := probe.Height * pxToMM

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: mediaW, Ht: mediaH},
		OrientationStr: "",
	})
	pdf.SetTitle("UniBoard layout", false)
	pdf.SetAuthor("UniBoard Designer", false)

	// Built-in Helvetica keeps text vector without embedding
	pdf.SetFont("Helvetica", "", 8)

	for _, side := range sides {
		sc := render.BuildScene(h.Doc, render.Options{Side: side, ShowLabels: opt.ShowLabels})
		pdf.AddPageFormat("", gofpdf.SizeType{Wd: mediaW, Ht: mediaH})

		for _, r := range sc.Rects {
			style := ""
			if r.Fill.A > 0 {
				setFillColor(pdf, r.Fill)
				style += "F"
			}
			if r.StrokeWidth > 0 {
				setDrawColor(pdf, r.Stroke)
				pdf.SetLineWidth(r.StrokeWidth * pxToMM)
				style += "D"
			}
			if style == "" {
				continue
			}
			pdf.Rect(r.X*pxToMM, r.Y*pxToMM, r.W*pxToMM, r.H*pxToMM, style)
		}
		for _, l := range sc.Lines {
			setDrawColor(pdf, l.Color)
			pdf.SetLineWidth(l.Width * pxToMM)
			pdf.SetLineCapStyle("round")
			pdf.Line(l.X1*pxToMM, l.Y1*pxToMM, l.X2*pxToMM, l.Y2*pxToMM)
		}
		for _, c := range sc.Circles {
			style := "F"
			setFillColor(pdf, c.Fill)
			if c.StrokeWidth > 0 {
				setDrawColor(pdf, c.Stroke)
				pdf.SetLineWidth(c.StrokeWidth * pxToMM)
				style = "FD"
			}
			pdf.Circle(c.CX*pxToMM, c.CY*pxToMM, c.R*pxToMM, style)
		}
		for _, lb := range sc.Labels {
			setTextColor(pdf, lb.Color)
			pdf.SetFontSize(lb.Size * pxToMM * 72.0 / 25.4) // mm to pt
			pdf.Text(lb.X*pxToMM, lb.Y*pxToMM, lb.Text)
		}
	}

	outPath = resolveOutPath(h, outPath)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func setDrawColor(pdf *gofpdf.Fpdf, c render.Color) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c render.Color) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}

func setTextColor(pdf *gofpdf.Fpdf, c render.Color) {
	pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
}
