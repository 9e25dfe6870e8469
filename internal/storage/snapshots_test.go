/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestSnapshotLifecycle(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	h, err := InitBoard(root, sampleDocument())
	if err != nil {
		t.Fatalf("InitBoard error: %v", err)
	}

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		h.Doc.Components[0].Value = strings.Repeat("k", i+1)
		if err := SaveSnapshot(ctx, h, base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("SaveSnapshot %d error: %v", i, err)
		}
	}

	blob, ts, err := GetLatestSnapshot(ctx, h)
	if err != nil {
		t.Fatalf("GetLatestSnapshot error: %v", err)
	}
	if !ts.Equal(base.Add(4 * time.Minute)) {
		t.Fatalf("latest ts = %v", ts)
	}
	if !strings.Contains(string(blob), `"kkkkk"`) {
		t.Fatalf("latest blob is not the newest document")
	}

	list, err := ListSnapshots(ctx, h, 3)
	if err != nil {
		t.Fatalf("ListSnapshots error: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("list len = %d, want 3", len(list))
	}
	if !list[0].TS.After(list[2].TS) {
		t.Fatalf("list not newest-first")
	}

	n, err := PruneOldSnapshots(ctx, h, 2)
	if err != nil {
		t.Fatalf("PruneOldSnapshots error: %v", err)
	}
	if n != 3 {
		t.Fatalf("pruned %d, want 3", n)
	}
	rest, err := ListSnapshots(ctx, h, 10)
	if err != nil {
		t.Fatalf("ListSnapshots after prune error: %v", err)
	}
	if len(rest) != 2 {
		t.Fatalf("remaining = %d, want 2", len(rest))
	}
}

func TestGetLatestSnapshotEmpty(t *testing.T) {
	root := t.TempDir()
	h, err := InitBoard(root, sampleDocument())
	if err != nil {
		t.Fatalf("InitBoard error: %v", err)
	}
	blob, ts, err := GetLatestSnapshot(context.Background(), h)
	if err != nil {
		t.Fatalf("GetLatestSnapshot error: %v", err)
	}
	if blob != nil || !ts.IsZero() {
		t.Fatalf("expected empty result, got %v %v", blob, ts)
	}
}
