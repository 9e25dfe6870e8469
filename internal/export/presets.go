/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"uniboard/internal/domain"
	"uniboard/internal/storage"
)

// PresetName represents a named export preset.
type PresetName string

const (
	// PresetWeb renders scalable and raster images of the front view.
	PresetWeb PresetName = "web"
	// PresetAssembly renders print-scale PDFs of both sides for soldering.
	PresetAssembly PresetName = "assembly"
)

// BatchOptions controls batch export across multiple formats and sides.
//
// Path semantics:
//   - If OutDir is empty or relative, it is created under <board>/exports/<preset>/.
//   - PDF output is a single file board.pdf with one page per side.
//   - PNG/SVG outputs are board-front.(png|svg) and board-back.(png|svg)
//     in subfolders png/ or svg/ inside OutDir.
type BatchOptions struct {
	Preset     PresetName
	Formats    []string          // allowed: pdf, png, svg; empty means preset defaults
	Sides      []domain.ViewSide // empty means preset defaults
	Scale      float64           // when > 0 overrides raster scale
	ShowLabels *bool             // when set, overrides preset's default
	OutDir     string            // base directory for outputs (created per preset if relative)
}

// BatchExport runs exports according to the given preset.
func BatchExport(h *storage.DocumentHandle, opt BatchOptions) error {
	if h == nil || h.Doc == nil {
		return fmt.Errorf("document handle is nil")
	}

	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	for i := range formats {
		formats[i] = strings.ToLower(strings.TrimSpace(formats[i]))
	}

	sides := opt.Sides
	if len(sides) == 0 {
		sides = presetDefaultSides(opt.Preset)
	}

	labels := presetShowLabels(opt.Preset)
	if opt.ShowLabels != nil {
		labels = *opt.ShowLabels
	}

	baseOut := opt.OutDir
	if baseOut == "" {
		baseOut = string(opt.Preset)
	}
	if !filepath.IsAbs(baseOut) {
		baseOut = filepath.Join(h.Root, "exports", baseOut)
	}

	for _, f := range formats {
		switch f {
		case "pdf":
			out := filepath.Join(baseOut, "pdf", "board.pdf")
			if err := ExportBoardPDF(h, out, PDFOptions{ShowLabels: labels, Sides: sides}); err != nil {
				return fmt.Errorf("pdf: %w", err)
			}
		case "png":
			for _, side := range sides {
				out := filepath.Join(baseOut, "png", fmt.Sprintf("board-%s.png", sideName(side)))
				po := PNGOptions{Side: side, ShowLabels: labels}
				if opt.Scale > 0 {
					po.Scale = opt.Scale
				}
				if err := ExportBoardPNG(h, out, po); err != nil {
					return fmt.Errorf("png %s: %w", sideName(side), err)
				}
			}
		case "svg":
			for _, side := range sides {
				out := filepath.Join(baseOut, "svg", fmt.Sprintf("board-%s.svg", sideName(side)))
				if err := ExportBoardSVG(h, out, SVGOptions{Side: side, ShowLabels: labels}); err != nil {
					return fmt.Errorf("svg %s: %w", sideName(side), err)
				}
			}
		default:
			return fmt.Errorf("unknown format: %s", f)
		}
	}
	return nil
}

func sideName(s domain.ViewSide) string {
	if s == domain.ViewBack {
		return "back"
	}
	return "front"
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetWeb:
		return []string{"png", "svg"}
	case PresetAssembly:
		return []string{"pdf"}
	default:
		return []string{"pdf"}
	}
}

func presetDefaultSides(p PresetName) []domain.ViewSide {
	switch p {
	case PresetAssembly:
		return []domain.ViewSide{domain.ViewFront, domain.ViewBack}
	default:
		return []domain.ViewSide{domain.ViewFront}
	}
}

func presetShowLabels(p PresetName) bool {
	switch p {
	case PresetWeb:
		return true
	case PresetAssembly:
		return true
	default:
		return false
	}
}
