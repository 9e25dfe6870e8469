/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package backend

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"
)

// TestE2E_BoardUploadAndFetch runs a round trip through the HTTP API:
// issue a token, upload a board, list it, fetch it, and search its documents.
func TestE2E_BoardUploadAndFetch(t *testing.T) {
	db := openPGForTest(t)
	defer func() { _ = db.Close() }()

	const secret = "e2e-secret"
	srv := httptest.NewServer(newServeMux(db, secret))
	defer srv.Close()

	tok, err := signToken(secret, "e2e", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("signToken: %v", err)
	}
	cli := NewClient(srv.URL, tok)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	doc := parityDocument()
	stableID := "e2e-" + time.Now().Format("20060102150405.000000000")
	t.Cleanup(func() {
		_, _ = db.Exec(`DELETE FROM boards WHERE stable_id = $1`, stableID)
	})

	put, err := cli.PutBoard(ctx, stableID, "E2E Board", doc)
	if err != nil {
		t.Fatalf("PutBoard: %v", err)
	}
	if put.Version != 1 {
		t.Fatalf("expected version 1 on first upload, got %d", put.Version)
	}

	// Second upload bumps the version.
	put2, err := cli.PutBoard(ctx, stableID, "E2E Board", doc)
	if err != nil {
		t.Fatalf("PutBoard (2nd): %v", err)
	}
	if put2.Version != 2 {
		t.Fatalf("expected version 2 on re-upload, got %d", put2.Version)
	}

	boards, err := cli.ListBoards(ctx)
	if err != nil {
		t.Fatalf("ListBoards: %v", err)
	}
	found := false
	for _, b := range boards {
		if b.StableID == stableID {
			found = true
		}
	}
	if !found {
		t.Fatalf("uploaded board missing from list")
	}

	env, err := cli.GetBoard(ctx, stableID)
	if err != nil {
		t.Fatalf("GetBoard: %v", err)
	}
	got, err := env.Document()
	if err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if len(got.Components) != len(doc.Components) || len(got.Wires) != len(doc.Wires) {
		t.Fatalf("round trip mismatch: %d components %d wires", len(got.Components), len(got.Wires))
	}

	// Server-side documents were rebuilt on upload.
	var n int
	if err := db.QueryRowContext(ctx, `SELECT count(*) FROM documents d JOIN boards b ON b.id = d.board_id WHERE b.stable_id = $1`, stableID).Scan(&n); err != nil {
		t.Fatalf("count documents: %v", err)
	}
	want := 1 + len(doc.Components) + len(doc.Wires)
	if n != want {
		t.Fatalf("expected %d documents, got %d", want, n)
	}
}
