//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"uniboard/internal/backend"
	"uniboard/internal/config"
	"uniboard/internal/crash"
	"uniboard/internal/domain"
	"uniboard/internal/editor"
	"uniboard/internal/export"
	applog "uniboard/internal/log"
	"uniboard/internal/storage"
	"uniboard/internal/version"
)

const (
	autosaveInterval  = 2 * time.Minute
	snapshotsToKeep   = 20
	recentBoardsLimit = 8
)

// Run starts the desktop editor. Pass an optional board directory to open
// immediately.
func Run(boardDir string) error {
	appCfg, backendToken, err := config.Load()
	if err != nil {
		appCfg = config.Defaults()
	}
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting UI", slog.String("version", version.String()))

	var h *storage.DocumentHandle
	defer func() { crash.Recover(h) }()

	fyneApp := app.NewWithID("uniboard")
	w := fyneApp.NewWindow("UniBoard Designer")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1200)
	winH := prefs.IntWithFallback("window.height", 800)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")

	// The editor opens on an unsaved scratch board configured from user
	// defaults; Open replaces the whole state.
	st := editor.NewState(nil)
	st.SetBoardHoles(appCfg.Editor.BoardWidthHoles, appCfg.Editor.BoardHeightHoles)
	st.SetPitch(appCfg.Editor.PitchMM)
	st.Doc.ShowLabels = appCfg.Editor.ShowLabels
	if c := domain.WireColor(appCfg.Editor.WireColor); c.Valid() {
		st.SetWireColor(c)
	}

	bc := NewBoardCanvas(st)
	scroll := container.NewScroll(bc)

	refreshStatus := func() {
		parts := []string{"tool: " + st.Mode().String()}
		if st.Mode() == editor.ModePlace {
			parts[0] += " (" + st.PlaceKind().Label() + ")"
		}
		parts = append(parts, "view: "+string(st.View))
		if st.HoverValid {
			parts = append(parts, fmt.Sprintf("hole: %d,%d", st.Hover.X, st.Hover.Y))
		}
		if !st.Sel.None() {
			parts = append(parts, fmt.Sprintf("selected: %s %s", st.Sel.Kind, st.Sel.ID))
		}
		status.SetText(strings.Join(parts, "  |  "))
	}

	// Inspector (right pane): attributes of the selected component.
	nameEntry := widget.NewEntry()
	valueEntry := widget.NewEntry()
	inspectorID := ""
	applyMeta := func() {
		if inspectorID != "" {
			st.UpdateComponentMeta(inspectorID, nameEntry.Text, valueEntry.Text)
			bc.Refresh()
		}
	}
	nameEntry.OnSubmitted = func(string) { applyMeta() }
	valueEntry.OnSubmitted = func(string) { applyMeta() }
	inspectorBox := container.NewVBox(
		widget.NewLabel("Component"),
		widget.NewForm(
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Value", valueEntry),
		),
		widget.NewButton("Apply", applyMeta),
		widget.NewButton("Rotate 90°", func() {
			st.RotateSelection()
			bc.Refresh()
		}),
		widget.NewButton("Delete", func() {
			st.DeleteSelection()
			bc.Refresh()
			refreshStatus()
		}),
	)
	inspectorBox.Hide()

	refreshInspector := func() {
		if st.Sel.Kind == domain.SelectComponent {
			if c := st.Doc.ComponentByID(st.Sel.ID); c != nil {
				if inspectorID != st.Sel.ID {
					inspectorID = st.Sel.ID
					nameEntry.SetText(c.Name)
					valueEntry.SetText(c.Value)
				}
				inspectorBox.Show()
				return
			}
		}
		inspectorID = ""
		inspectorBox.Hide()
	}

	bc.OnChange = func() {
		refreshStatus()
		refreshInspector()
	}

	// Tool palette (left pane).
	kinds := domain.Kinds()
	kindLabels := make([]string, len(kinds))
	for i, k := range kinds {
		kindLabels[i] = k.Label()
	}
	placeSelect := widget.NewSelect(kindLabels, func(label string) {
		for _, k := range kinds {
			if k.Label() == label {
				st.SetPlaceKind(k)
			}
		}
		bc.Refresh()
		refreshStatus()
	})
	placeSelect.PlaceHolder = "Place…"

	selectBtn := widget.NewButton("Select", func() {
		st.SetMode(editor.ModeSelect)
		placeSelect.ClearSelected()
		bc.Refresh()
		refreshStatus()
	})
	wireBtn := widget.NewButton("Wire", func() {
		st.SetMode(editor.ModeWire)
		placeSelect.ClearSelected()
		bc.Refresh()
		refreshStatus()
	})

	colors := domain.WireColors()
	colorLabels := make([]string, len(colors))
	for i, c := range colors {
		colorLabels[i] = string(c)
	}
	colorSelect := widget.NewSelect(colorLabels, func(label string) {
		st.SetWireColor(domain.WireColor(label))
		bc.Refresh()
	})
	colorSelect.SetSelected(string(st.WireColor))

	sideRadio := widget.NewRadioGroup([]string{"front", "back"}, func(side string) {
		st.SetViewSide(domain.ViewSide(side))
		bc.Refresh()
		refreshStatus()
	})
	sideRadio.SetSelected(string(st.View))

	labelsCheck := widget.NewCheck("Labels", func(v bool) {
		st.Doc.ShowLabels = v
		bc.Refresh()
	})
	labelsCheck.SetChecked(st.Doc.ShowLabels)

	// Board setup form.
	widthEntry := widget.NewEntry()
	heightEntry := widget.NewEntry()
	pitchEntry := widget.NewEntry()
	syncBoardForm := func() {
		widthEntry.SetText(strconv.Itoa(st.Doc.Board.WidthHoles))
		heightEntry.SetText(strconv.Itoa(st.Doc.Board.HeightHoles))
		pitchEntry.SetText(strconv.FormatFloat(st.Doc.Board.PitchMM, 'f', 2, 64))
	}
	syncBoardForm()
	applyBoard := func() {
		wv, werr := strconv.Atoi(strings.TrimSpace(widthEntry.Text))
		hv, herr := strconv.Atoi(strings.TrimSpace(heightEntry.Text))
		pv, perr := strconv.ParseFloat(strings.TrimSpace(pitchEntry.Text), 64)
		if werr == nil && herr == nil {
			st.SetBoardHoles(wv, hv)
		}
		if perr == nil {
			st.SetPitch(pv)
		}
		syncBoardForm() // reflect clamping
		bc.Refresh()
	}

	zoomLabel := widget.NewLabel("100%")
	setZoom := func(z float32) {
		bc.SetZoom(z)
		zoomLabel.SetText(fmt.Sprintf("%d%%", int(bc.Zoom()*100+0.5)))
		scroll.Refresh()
	}

	left := container.NewVBox(
		widget.NewLabel("Tools"),
		selectBtn,
		wireBtn,
		placeSelect,
		widget.NewSeparator(),
		widget.NewLabel("Wire color"),
		colorSelect,
		widget.NewSeparator(),
		widget.NewLabel("View"),
		sideRadio,
		labelsCheck,
		container.NewHBox(
			widget.NewButton("-", func() { setZoom(bc.Zoom() / 1.25) }),
			zoomLabel,
			widget.NewButton("+", func() { setZoom(bc.Zoom() * 1.25) }),
		),
		widget.NewSeparator(),
		widget.NewLabel("Board"),
		widget.NewForm(
			widget.NewFormItem("Width", widthEntry),
			widget.NewFormItem("Height", heightEntry),
			widget.NewFormItem("Pitch mm", pitchEntry),
		),
		widget.NewButton("Apply board", applyBoard),
	)

	// Board lifecycle.
	setHandle := func(nh *storage.DocumentHandle) {
		h = nh
		st = editor.NewState(h.Doc)
		bc.SetState(st)
		bc.OnChange = func() {
			refreshStatus()
			refreshInspector()
		}
		syncBoardForm()
		labelsCheck.SetChecked(st.Doc.ShowLabels)
		colorSelect.SetSelected(string(st.WireColor))
		sideRadio.SetSelected(string(st.View))
		w.SetTitle("UniBoard Designer - " + filepath.Base(h.Root))
		refreshStatus()
	}

	openBoard := func(dir string) {
		nh, err := storage.Open(dir)
		if err != nil {
			dialog.ShowError(fmt.Errorf("open board: %w", err), w)
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := storage.DetectAndRebuildIndex(ctx, dir, nh.Doc); err != nil {
			l.Warn("index check failed", slog.Any("err", err))
		}
		if err := storage.BuildIndexIfEmpty(ctx, dir, nh.Doc); err != nil {
			l.Warn("index build failed", slog.Any("err", err))
		}
		setHandle(nh)
		addRecentBoard(prefs, dir)
		l.Info("board opened", slog.String("root", dir))
		status.SetText("Opened " + dir)
	}

	saveBoard := func() {
		if h == nil {
			dialog.ShowInformation("Save", "No board directory yet. Use File > Save As.", w)
			return
		}
		if err := storage.Save(h); err != nil {
			dialog.ShowError(fmt.Errorf("save board: %w", err), w)
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := storage.UpdateIndex(ctx, h.Root, h.Doc); err != nil {
			l.Warn("index update failed", slog.Any("err", err))
		}
		status.SetText("Saved " + h.BoardPath)
	}

	pickFolder := func(cb func(dir string)) {
		dialog.ShowFolderOpen(func(list fyne.ListableURI, err error) {
			if err != nil || list == nil {
				return
			}
			cb(list.Path())
		}, w)
	}

	saveAs := func() {
		pickFolder(func(dir string) {
			if h == nil {
				nh, err := storage.InitBoard(dir, st.Doc)
				if err != nil {
					dialog.ShowError(fmt.Errorf("init board: %w", err), w)
					return
				}
				setHandle(nh)
				addRecentBoard(prefs, dir)
				status.SetText("Saved " + nh.BoardPath)
				return
			}
			if err := storage.SaveAs(h, dir); err != nil {
				dialog.ShowError(fmt.Errorf("save as: %w", err), w)
				return
			}
			setHandle(h)
			addRecentBoard(prefs, dir)
			status.SetText("Saved " + h.BoardPath)
		})
	}

	requireHandle := func() bool {
		if h == nil {
			dialog.ShowInformation("Export", "Save the board first so exports have a home.", w)
			return false
		}
		return true
	}

	exportDialog := func() {
		if !requireHandle() {
			return
		}
		format := widget.NewSelect([]string{"svg", "png", "pdf", "web preset", "assembly preset"}, nil)
		format.SetSelected("svg")
		side := widget.NewSelect([]string{"front", "back"}, nil)
		side.SetSelected(string(st.View))
		items := []*widget.FormItem{
			widget.NewFormItem("Format", format),
			widget.NewFormItem("Side", side),
		}
		dialog.ShowForm("Export", "Export", "Cancel", items, func(ok bool) {
			if !ok {
				return
			}
			vs := domain.ViewSide(side.Selected)
			var err error
			var out string
			switch format.Selected {
			case "svg":
				out = fmt.Sprintf("board-%s.svg", vs)
				err = export.ExportBoardSVG(h, out, export.SVGOptions{Side: vs, ShowLabels: st.Doc.ShowLabels})
			case "png":
				out = fmt.Sprintf("board-%s.png", vs)
				err = export.ExportBoardPNG(h, out, export.PNGOptions{Side: vs, ShowLabels: st.Doc.ShowLabels})
			case "pdf":
				out = "board.pdf"
				err = export.ExportBoardPDF(h, out, export.PDFOptions{ShowLabels: st.Doc.ShowLabels, Sides: []domain.ViewSide{vs}})
			case "web preset":
				out = "web/"
				err = export.BatchExport(h, export.BatchOptions{Preset: export.PresetWeb})
			case "assembly preset":
				out = "assembly/"
				err = export.BatchExport(h, export.BatchOptions{Preset: export.PresetAssembly})
			}
			if err != nil {
				dialog.ShowError(fmt.Errorf("export: %w", err), w)
				return
			}
			status.SetText("Exported " + filepath.Join(h.Root, "exports", out))
			l.Info("export done", slog.String("format", format.Selected))
		}, w)
	}

	// Board sharing against the optional backend, enabled when a base URL
	// is configured.
	shareClient := func() *backend.Client {
		if appCfg.Backend.BaseURL == "" {
			return nil
		}
		return backend.NewClient(appCfg.Backend.BaseURL, backendToken)
	}
	pushBoard := func() {
		cli := shareClient()
		if cli == nil {
			dialog.ShowInformation("Share", "Configure backend.base_url (or UBD_BACKEND_URL) to push boards.", w)
			return
		}
		if !requireHandle() {
			return
		}
		name := filepath.Base(h.Root)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		res, err := cli.PutBoard(ctx, name, name, h.Doc)
		if err != nil {
			dialog.ShowError(fmt.Errorf("push board: %w", err), w)
			return
		}
		status.SetText(fmt.Sprintf("Pushed %s (v%d)", res.StableID, res.Version))
	}
	pullBoard := func() {
		cli := shareClient()
		if cli == nil {
			dialog.ShowInformation("Share", "Configure backend.base_url (or UBD_BACKEND_URL) to pull boards.", w)
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		boards, err := cli.ListBoards(ctx)
		if err != nil {
			dialog.ShowError(fmt.Errorf("list boards: %w", err), w)
			return
		}
		if len(boards) == 0 {
			dialog.ShowInformation("Share", "No boards on the server.", w)
			return
		}
		names := make([]string, len(boards))
		for i, b := range boards {
			names[i] = fmt.Sprintf("%s (v%d)", b.StableID, b.Version)
		}
		pick := widget.NewSelect(names, nil)
		pick.SetSelected(names[0])
		dialog.ShowForm("Pull board", "Pull", "Cancel", []*widget.FormItem{
			widget.NewFormItem("Board", pick),
		}, func(ok bool) {
			if !ok {
				return
			}
			idx := pick.SelectedIndex()
			if idx < 0 {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			env, err := cli.GetBoard(ctx, boards[idx].StableID)
			if err != nil {
				dialog.ShowError(fmt.Errorf("pull board: %w", err), w)
				return
			}
			doc, err := env.Document()
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if h != nil {
				h.Doc = doc
				setHandle(h)
			} else {
				st = editor.NewState(doc)
				bc.SetState(st)
				syncBoardForm()
				refreshStatus()
			}
			status.SetText("Pulled " + env.StableID)
		}, w)
	}

	// Menus.
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Board…", func() { pickFolder(openBoard) }),
		fyne.NewMenuItem("Save", saveBoard),
		fyne.NewMenuItem("Save As…", saveAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export…", exportDialog),
	)
	for _, recent := range loadRecentBoards(prefs) {
		dir := recent
		fileMenu.Items = append(fileMenu.Items, fyne.NewMenuItem("Recent: "+filepath.Base(dir), func() { openBoard(dir) }))
	}
	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Delete Selection", func() {
			st.DeleteSelection()
			bc.Refresh()
			refreshStatus()
		}),
		fyne.NewMenuItem("Rotate Selection", func() {
			st.RotateSelection()
			bc.Refresh()
		}),
		fyne.NewMenuItem("Cancel Gesture", func() {
			st.CancelGesture()
			bc.Refresh()
			refreshStatus()
		}),
	)
	shareMenu := fyne.NewMenu("Share",
		fyne.NewMenuItem("Push Board", pushBoard),
		fyne.NewMenuItem("Pull Board…", pullBoard),
	)
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			dialog.ShowInformation("UniBoard Designer", "Version "+version.String(), w)
		}),
	)
	w.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, shareMenu, helpMenu))

	// Keyboard shortcuts work when no entry has focus.
	w.Canvas().SetOnTypedKey(func(e *fyne.KeyEvent) {
		switch e.Name {
		case fyne.KeyEscape:
			st.Escape()
			placeSelect.ClearSelected()
			bc.Refresh()
			refreshStatus()
		case fyne.KeyDelete, fyne.KeyBackspace:
			if w.Canvas().Focused() == nil {
				st.DeleteSelection()
				bc.Refresh()
				refreshStatus()
			}
		case fyne.KeyR:
			if w.Canvas().Focused() == nil {
				st.RotateSelection()
				bc.Refresh()
			}
		}
	})

	// Periodic snapshot autosave into the board's local index.
	stopAutosave := make(chan struct{})
	go func() {
		t := time.NewTicker(autosaveInterval)
		defer t.Stop()
		for {
			select {
			case <-stopAutosave:
				return
			case <-t.C:
				if h == nil {
					continue
				}
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				if err := storage.SaveSnapshot(ctx, h, time.Now()); err != nil {
					l.Warn("autosave snapshot failed", slog.Any("err", err))
				} else if _, err := storage.PruneOldSnapshots(ctx, h, snapshotsToKeep); err != nil {
					l.Warn("snapshot prune failed", slog.Any("err", err))
				}
				cancel()
			}
		}
	}()

	w.SetOnClosed(func() {
		close(stopAutosave)
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
	})

	w.SetContent(container.NewBorder(nil, status, left, inspectorBox, scroll))

	if boardDir != "" {
		openBoard(boardDir)
	}
	refreshStatus()
	w.ShowAndRun()
	return nil
}

func loadRecentBoards(p fyne.Preferences) []string {
	raw := p.StringWithFallback("recent.boards", "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(raw, "\n") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func saveRecentBoards(p fyne.Preferences, items []string) {
	if len(items) > recentBoardsLimit {
		items = items[:recentBoardsLimit]
	}
	p.SetString("recent.boards", strings.Join(items, "\n"))
}

func addRecentBoard(p fyne.Preferences, path string) {
	items := loadRecentBoards(p)
	out := []string{path}
	for _, it := range items {
		if it != path {
			out = append(out, it)
		}
	}
	saveRecentBoards(p, out)
}
