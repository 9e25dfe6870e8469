/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"uniboard/internal/backend"
	"uniboard/internal/config"
	"uniboard/internal/crash"
	"uniboard/internal/domain"
	"uniboard/internal/export"
	applog "uniboard/internal/log"
	"uniboard/internal/storage"
	"uniboard/internal/ui"
	"uniboard/internal/version"
)

func usage() {
	fmt.Println("UniBoard Designer")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  uniboard version|-v|--version              Show version")
	fmt.Println("  uniboard init <dir>                        Create a new board at <dir>")
	fmt.Println("  uniboard open <dir>                        Open board at <dir> and print summary")
	fmt.Println("  uniboard save <dir>                        Re-save board at <dir> (creates backup)")
	fmt.Println("  uniboard export <dir> [web|assembly]       Export the board (default: web preset)")
	fmt.Println("  uniboard search <dir> <text>               Search components and wires")
	fmt.Println("  uniboard serve                             Run the board-share server")
	fmt.Println("  uniboard ui [<dir>]                        Launch desktop UI (build with -tags fyne for full UI)")
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var h *storage.DocumentHandle
	defer func() { crash.Recover(h) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("UniBoard Designer")
			fmt.Println(version.String())
			return
		case "init":
			if len(args) < 3 {
				fmt.Println("init requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			l.Info("init board", slog.String("root", abs))
			doc := newBoardFromConfig()
			nh, err := storage.InitBoard(abs, doc)
			if err != nil {
				l.Error("init failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			h = nh
			fmt.Println("Created board at", abs)
			return
		case "open":
			if len(args) < 3 {
				fmt.Println("open requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			l.Info("open board", slog.String("root", abs))
			nh, err := storage.Open(abs)
			if err != nil {
				l.Error("open failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			h = nh
			cfg := nh.Doc.Board
			fmt.Printf("Opened board: %dx%d holes, %.2f mm pitch\n", cfg.WidthHoles, cfg.HeightHoles, cfg.PitchMM)
			fmt.Printf("Components: %d\n", len(nh.Doc.Components))
			fmt.Printf("Wires: %d\n", len(nh.Doc.Wires))
			fmt.Println("Root:", nh.Root)
			return
		case "save":
			if len(args) < 3 {
				fmt.Println("save requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			l.Info("save board", slog.String("root", abs))
			nh, err := storage.Open(abs)
			if err != nil {
				l.Error("open before save failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			h = nh
			if err := storage.Save(nh); err != nil {
				l.Error("save failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()
			if err := storage.UpdateIndex(ctx, nh.Root, nh.Doc); err != nil {
				l.Warn("index update failed", slog.Any("err", err))
			}
			fmt.Println("Saved board and created a backup of the previous manifest (if any).")
			return
		case "export":
			if len(args) < 3 {
				fmt.Println("export requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			preset := export.PresetWeb
			if len(args) >= 4 && args[3] == "assembly" {
				preset = export.PresetAssembly
			}
			nh, err := storage.Open(abs)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			h = nh
			l.Info("export board", slog.String("root", abs), slog.String("preset", string(preset)))
			if err := export.BatchExport(nh, export.BatchOptions{Preset: preset}); err != nil {
				l.Error("export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Exported to", filepath.Join(abs, "exports", string(preset)))
			return
		case "search":
			if len(args) < 4 {
				fmt.Println("search requires <dir> and <text>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			nh, err := storage.Open(abs)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			h = nh
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()
			if err := storage.BuildIndexIfEmpty(ctx, abs, nh.Doc); err != nil {
				l.Warn("index build failed", slog.Any("err", err))
			}
			results, err := storage.Search(ctx, abs, storage.SearchQuery{Text: args[3]})
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			for _, r := range results {
				fmt.Printf("%-10s %-24s hole %d,%d  %s\n", r.Type, r.Path, r.GridX, r.GridY, r.Snippet)
			}
			if len(results) == 0 {
				fmt.Println("No matches.")
			}
			return
		case "serve":
			l.Info("starting board-share server")
			if err := backend.Start(); err != nil {
				l.Error("server failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		case "ui":
			var dir string
			if len(args) >= 3 {
				dir = args[2]
			}
			if err := ui.Run(dir); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}

// newBoardFromConfig builds an empty document using the editor defaults
// from the user config.
func newBoardFromConfig() *domain.Document {
	cfg, _, err := config.Load()
	if err != nil {
		cfg = config.Defaults()
	}
	doc := domain.NewDocument()
	doc.Board.SetHoles(cfg.Editor.BoardWidthHoles, cfg.Editor.BoardHeightHoles)
	doc.Board.SetPitch(cfg.Editor.PitchMM)
	doc.ShowLabels = cfg.Editor.ShowLabels
	return doc
}
