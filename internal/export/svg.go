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
	"fmt"
	"os"
	"path/filepath"

	"uniboard/internal/domain"
	"uniboard/internal/render"
	"uniboard/internal/storage"
)

// SVGOptions controls SVG export behavior.
// The coordinate system matches the board model (pixels); a viewBox is
// provided so viewers scale freely.
type SVGOptions struct {
	Side       domain.ViewSide
	ShowLabels bool
}

// ExportBoardSVG writes the board as a single SVG file at outPath.
// A relative outPath resolves under the board's exports folder.
func ExportBoardSVG(h *storage.DocumentHandle, outPath string, opt SVGOptions) error {
	if h == nil || h.Doc == nil {
		return fmt.Errorf("document handle is nil")
	}
	sc := render.BuildScene(h.Doc, render.Options{Side: opt.Side, ShowLabels: opt.ShowLabels})

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%gpx\" height=\"%gpx\" viewBox=\"0 0 %g %g\">\n", sc.Width, sc.Height, sc.Width, sc.Height)
	for _, r := range sc.Rects {
		wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"%s\" stroke=\"%s\" stroke-width=\"%g\"/>\n",
			r.X, r.Y, r.W, r.H, svgColor(r.Fill), svgColor(r.Stroke), r.StrokeWidth)
	}
	for _, l := range sc.Lines {
		wf("  <line x1=\"%g\" y1=\"%g\" x2=\"%g\" y2=\"%g\" stroke=\"%s\" stroke-width=\"%g\" stroke-linecap=\"round\"/>\n",
			l.X1, l.Y1, l.X2, l.Y2, svgColor(l.Color), l.Width)
	}
	for _, c := range sc.Circles {
		if c.StrokeWidth > 0 {
			wf("  <circle cx=\"%g\" cy=\"%g\" r=\"%g\" fill=\"%s\" stroke=\"%s\" stroke-width=\"%g\"/>\n",
				c.CX, c.CY, c.R, svgColor(c.Fill), svgColor(c.Stroke), c.StrokeWidth)
		} else {
			wf("  <circle cx=\"%g\" cy=\"%g\" r=\"%g\" fill=\"%s\"/>\n", c.CX, c.CY, c.R, svgColor(c.Fill))
		}
	}
	for _, lb := range sc.Labels {
		wf("  <text x=\"%g\" y=\"%g\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"%g\" fill=\"%s\">%s</text>\n",
			lb.X, lb.Y, lb.Size, svgColor(lb.Color), escText(lb.Text))
	}
	wf("</svg>\n")

	if werr != nil {
		return fmt.Errorf("build svg: %w", werr)
	}

	outPath = resolveOutPath(h, outPath)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

// resolveOutPath places relative outputs under <board>/exports.
func resolveOutPath(h *storage.DocumentHandle, outPath string) string {
	if filepath.IsAbs(outPath) {
		return outPath
	}
	return filepath.Join(h.Root, "exports", outPath)
}

func svgColor(c render.Color) string {
	if c.A == 0 {
		return "none"
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func escText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '&':
			out = append(out, '&', 'a', 'm', 'p', ';')
		case '<':
			out = append(out, '&', 'l', 't', ';')
		case '>':
			out = append(out, '&', 'g', 't', ';')
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}
