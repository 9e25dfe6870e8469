/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"uniboard/internal/domain"
	"uniboard/internal/storage"
)

func testHandle(t *testing.T) *storage.DocumentHandle {
	t.Helper()
	doc := domain.NewDocument()
	doc.Board.SetHoles(10, 10)
	g := doc.Board.GridSizePx
	doc.Components = append(doc.Components, domain.Component{
		ID: "c-1", Kind: domain.KindResistor, X: 2 * g, Y: 2 * g,
		WidthCells: 3, HeightCells: 1, Name: "R1", Value: "10k",
	})
	doc.Wires = append(doc.Wires, domain.Wire{
		ID: "w-1", StartX: 4, StartY: 2, EndX: 4, EndY: 5, Color: domain.WireBlue,
	})
	h, err := storage.InitBoard(t.TempDir(), doc)
	if err != nil {
		t.Fatalf("InitBoard error: %v", err)
	}
	return h
}

func TestExportBoardSVG(t *testing.T) {
	h := testHandle(t)
	if err := ExportBoardSVG(h, "board.svg", SVGOptions{ShowLabels: true}); err != nil {
		t.Fatalf("ExportBoardSVG error: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(h.Root, "exports", "board.svg"))
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, "<svg") || !strings.Contains(s, "</svg>") {
		t.Fatalf("not an svg document")
	}
	if !strings.Contains(s, "<line") {
		t.Fatalf("wire segments missing")
	}
	if !strings.Contains(s, "R1 10k") {
		t.Fatalf("label missing")
	}
}

func TestExportBoardSVGEscapesText(t *testing.T) {
	h := testHandle(t)
	h.Doc.Components[0].Value = "<10k & up>"
	if err := ExportBoardSVG(h, "esc.svg", SVGOptions{ShowLabels: true}); err != nil {
		t.Fatalf("ExportBoardSVG error: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(h.Root, "exports", "esc.svg"))
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	if !strings.Contains(string(b), "&lt;10k &amp; up&gt;") {
		t.Fatalf("text not escaped: %s", b)
	}
}

func TestExportBoardPNG(t *testing.T) {
	h := testHandle(t)
	if err := ExportBoardPNG(h, "board.png", PNGOptions{ShowLabels: true, Scale: 2}); err != nil {
		t.Fatalf("ExportBoardPNG error: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(h.Root, "exports", "board.png"))
	if err != nil {
		t.Fatalf("read png: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	// 10 holes plus margin at 20.32 px/cell, times scale 2
	want := int(math.Round(11 * h.Doc.Board.GridSizePx * 2))
	if img.Bounds().Dx() != want {
		t.Fatalf("width = %d, want %d", img.Bounds().Dx(), want)
	}
}

func TestExportBoardPDFBothSides(t *testing.T) {
	h := testHandle(t)
	opt := PDFOptions{ShowLabels: true, Sides: []domain.ViewSide{domain.ViewFront, domain.ViewBack}}
	if err := ExportBoardPDF(h, "board.pdf", opt); err != nil {
		t.Fatalf("ExportBoardPDF error: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(h.Root, "exports", "board.pdf"))
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Fatalf("not a pdf file")
	}
	if len(b) == 0 {
		t.Fatalf("pdf file empty")
	}
}

func TestBatchExportWebPreset(t *testing.T) {
	h := testHandle(t)
	if err := BatchExport(h, BatchOptions{Preset: PresetWeb}); err != nil {
		t.Fatalf("BatchExport error: %v", err)
	}
	for _, p := range []string{
		filepath.Join("web", "png", "board-front.png"),
		filepath.Join("web", "svg", "board-front.svg"),
	} {
		if _, err := os.Stat(filepath.Join(h.Root, "exports", p)); err != nil {
			t.Fatalf("missing %s: %v", p, err)
		}
	}
}

func TestBatchExportAssemblyPreset(t *testing.T) {
	h := testHandle(t)
	if err := BatchExport(h, BatchOptions{Preset: PresetAssembly}); err != nil {
		t.Fatalf("BatchExport error: %v", err)
	}
	out := filepath.Join(h.Root, "exports", "assembly", "pdf", "board.pdf")
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("missing pdf: %v", err)
	}
}

func TestBatchExportRejectsUnknownFormat(t *testing.T) {
	h := testHandle(t)
	err := BatchExport(h, BatchOptions{Preset: PresetWeb, Formats: []string{"docx"}})
	if err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
