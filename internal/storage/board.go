/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	gojsonschema "github.com/xeipuuv/gojsonschema"
	"uniboard/internal/domain"
)

const (
	BoardFileName  = "board.json"
	BackupsDirName = "backups"
)

// Standard subfolders created alongside board.json.
var standardSubDirs = []string{
	"exports",
	BackupsDirName,
}

//go:embed board.schema.json
var boardSchemaBytes []byte

// DocumentHandle keeps track of the board state loaded/saved from disk.
// Root is the board directory containing board.json and subfolders.
// Doc holds the in-memory representation of the document.
type DocumentHandle struct {
	Root      string
	BoardPath string
	Doc       *domain.Document
}

// InitBoard creates a new board directory at root (creating it if it doesn't exist),
// scaffolds the standard subfolders, and writes the given document transactionally.
func InitBoard(root string, doc *domain.Document) (*DocumentHandle, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("root path is required")
	}
	if doc == nil {
		doc = domain.NewDocument()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create board root: %w", err)
	}
	for _, d := range standardSubDirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return nil, fmt.Errorf("create subdir %s: %w", d, err)
		}
	}

	h := &DocumentHandle{
		Root:      root,
		BoardPath: filepath.Join(root, BoardFileName),
		Doc:       doc,
	}
	if err := Save(h); err != nil {
		return nil, err
	}
	return h, nil
}

// Open loads an existing board from the given root directory.
// If the current document cannot be read, parsed, or fails schema validation,
// it will attempt the last backup. The error path never returns a partially
// populated document.
func Open(root string) (*DocumentHandle, error) {
	bpath := filepath.Join(root, BoardFileName)
	b, err := os.ReadFile(bpath)
	if err != nil {
		doc, berr := openFromLatestBackup(root)
		if berr != nil {
			return nil, fmt.Errorf("open board: %w; backup attempt: %v", err, berr)
		}
		return &DocumentHandle{Root: root, BoardPath: bpath, Doc: doc}, nil
	}
	doc, derr := decodeDocument(b)
	if derr != nil {
		bdoc, berr := openFromLatestBackup(root)
		if berr != nil {
			return nil, fmt.Errorf("parse board: %w; backup attempt: %v", derr, berr)
		}
		return &DocumentHandle{Root: root, BoardPath: bpath, Doc: bdoc}, nil
	}
	return &DocumentHandle{Root: root, BoardPath: bpath, Doc: doc}, nil
}

// decodeDocument validates raw bytes against the embedded JSON schema, then
// unmarshals and normalizes them into a fresh document.
func decodeDocument(b []byte) (*domain.Document, error) {
	if err := ValidateDocumentBytes(b); err != nil {
		return nil, err
	}
	doc := domain.NewDocument()
	if err := json.Unmarshal(b, doc); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	doc.Normalize()
	return doc, nil
}

// ValidateDocumentBytes checks raw board JSON against the embedded schema.
// Structural errors are reported together in a single error value.
func ValidateDocumentBytes(b []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(boardSchemaBytes)
	docLoader := gojsonschema.NewBytesLoader(b)
	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("schema validate: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("document does not conform to schema: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// Save writes the current DocumentHandle.Doc to disk with transactional semantics
// and a timestamped backup of the previous document (if present).
func Save(h *DocumentHandle) error {
	if h == nil {
		return errors.New("nil DocumentHandle")
	}
	if h.Root == "" || h.BoardPath == "" {
		return errors.New("invalid DocumentHandle: missing paths")
	}
	if h.Doc == nil {
		return errors.New("invalid DocumentHandle: nil document")
	}
	// Marshal in human-readable form
	data, err := json.MarshalIndent(h.Doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	data = append(data, '\n')

	// Ensure backups dir exists
	bdir := filepath.Join(h.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return fmt.Errorf("ensure backups dir: %w", err)
	}

	// If a current document exists, copy it to a timestamped backup before replacing
	if _, statErr := os.Stat(h.BoardPath); statErr == nil {
		stamp := time.Now().Format("20060102-150405")
		bname := fmt.Sprintf("%s.%s.bak", BoardFileName, stamp)
		bpath := filepath.Join(bdir, bname)
		if cerr := copyFile(h.BoardPath, bpath); cerr != nil {
			return fmt.Errorf("backup current board: %w", cerr)
		}
	}

	// Transactional write: to temp file in same directory, then rename over target
	dir := filepath.Dir(h.BoardPath)
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", BoardFileName, os.Getpid(), rand.Int()))
	if werr := writeFileSync(temp, data); werr != nil {
		return fmt.Errorf("write temp board: %w", werr)
	}
	// On Windows, replace by removing destination first if needed
	if _, err := os.Stat(h.BoardPath); err == nil {
		_ = os.Remove(h.BoardPath)
	}
	if rerr := os.Rename(temp, h.BoardPath); rerr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace board: %w", rerr)
	}
	return nil
}

// SaveAs writes the document to a new root folder, scaffolding structure if needed, and updates the handle.
func SaveAs(h *DocumentHandle, newRoot string) error {
	if h == nil {
		return errors.New("nil DocumentHandle")
	}
	if newRoot == "" {
		return errors.New("new root is empty")
	}
	if err := os.MkdirAll(newRoot, 0o755); err != nil {
		return fmt.Errorf("create new root: %w", err)
	}
	for _, d := range standardSubDirs {
		if err := os.MkdirAll(filepath.Join(newRoot, d), 0o755); err != nil {
			return fmt.Errorf("create subdir %s: %w", d, err)
		}
	}
	h.Root = newRoot
	h.BoardPath = filepath.Join(newRoot, BoardFileName)
	return Save(h)
}

// AutosaveCrashSnapshot dumps the in-memory document to a timestamped autosave
// file inside the backups directory. It is called from the crash handler, so it
// deliberately bypasses the regular save path and its backup rotation.
func AutosaveCrashSnapshot(h *DocumentHandle) (string, error) {
	if h == nil || h.Doc == nil {
		return "", errors.New("nil DocumentHandle")
	}
	if h.Root == "" {
		return "", errors.New("invalid DocumentHandle: missing root")
	}
	data, err := json.MarshalIndent(h.Doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal autosave: %w", err)
	}
	data = append(data, '\n')
	bdir := filepath.Join(h.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return "", fmt.Errorf("ensure backups dir: %w", err)
	}
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(bdir, fmt.Sprintf("autosave-%s.json", stamp))
	if err := writeFileSync(path, data); err != nil {
		return "", fmt.Errorf("write autosave: %w", err)
	}
	return path, nil
}

// writeFileSync writes data to a file, ensures it is flushed to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}
	return nil
}

// copyFile copies a file from src to dst (overwrites dst if exists).
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	if err := df.Sync(); err != nil {
		return err
	}
	return nil
}

// openFromLatestBackup tries to open the latest timestamped backup.
func openFromLatestBackup(root string) (*domain.Document, error) {
	bdir := filepath.Join(root, BackupsDirName)
	ents, err := os.ReadDir(bdir)
	if err != nil {
		return nil, fmt.Errorf("read backups dir: %w", err)
	}
	var candidates []string
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, BoardFileName+".") && strings.HasSuffix(name, ".bak") {
			candidates = append(candidates, filepath.Join(bdir, name))
		}
	}
	if len(candidates) == 0 {
		return nil, errors.New("no backups found")
	}
	sort.Strings(candidates) // timestamp in name yields lexicographic order
	latest := candidates[len(candidates)-1]
	b, err := os.ReadFile(latest)
	if err != nil {
		return nil, fmt.Errorf("read latest backup: %w", err)
	}
	doc, err := decodeDocument(b)
	if err != nil {
		return nil, fmt.Errorf("parse latest backup: %w", err)
	}
	return doc, nil
}
