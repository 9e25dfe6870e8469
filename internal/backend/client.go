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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"uniboard/internal/domain"
)

// Client is a minimal HTTP client for the board-share API.
// The desktop app uses it behind a feature flag to push and pull boards.
type Client struct {
	BaseURL string
	Token   string // bearer token
	client  *http.Client
}

// NewClient creates a new backend client. baseURL may include a trailing slash; it will be normalized.
func NewClient(baseURL string, token string) *Client {
	b := strings.TrimRight(baseURL, "/")
	return &Client{
		BaseURL: b,
		Token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, dest any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server %s %s: %s", method, u.Path, resp.Status)
	}
	if dest == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(dest)
}

// Board is a minimal projection for listing.
type Board struct {
	ID        int64     `json:"id"`
	StableID  string    `json:"stable_id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int64     `json:"version"`
}

// BoardEnvelope matches the server response for a single board fetch.
type BoardEnvelope struct {
	ID        int64           `json:"id"`
	StableID  string          `json:"stable_id"`
	Name      string          `json:"name"`
	Version   int64           `json:"version"`
	UpdatedAt time.Time       `json:"updated_at"`
	Doc       json.RawMessage `json:"doc"`
}

// Document decodes the envelope payload into a normalized board document.
func (e *BoardEnvelope) Document() (*domain.Document, error) {
	doc := domain.NewDocument()
	if err := json.Unmarshal(e.Doc, doc); err != nil {
		return nil, fmt.Errorf("decode board doc: %w", err)
	}
	doc.Normalize()
	return doc, nil
}

// ListBoards returns available boards (newest first).
func (c *Client) ListBoards(ctx context.Context) ([]Board, error) {
	var list []Board
	if err := c.doJSON(ctx, http.MethodGet, "/api/boards", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetBoard fetches a board by its stable id.
func (c *Client) GetBoard(ctx context.Context, stableID string) (*BoardEnvelope, error) {
	var env BoardEnvelope
	path := "/api/boards/" + url.PathEscape(stableID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// PutBoardResult reports the stored version after an upload.
type PutBoardResult struct {
	ID       int64  `json:"id"`
	StableID string `json:"stable_id"`
	Version  int64  `json:"version"`
}

// PutBoard uploads a board document under the given stable id, creating or
// replacing the server copy.
func (c *Client) PutBoard(ctx context.Context, stableID, name string, doc *domain.Document) (*PutBoardResult, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode board doc: %w", err)
	}
	body := map[string]any{"name": name, "doc": json.RawMessage(raw)}
	var res PutBoardResult
	path := "/api/boards/" + url.PathEscape(stableID)
	if err := c.doJSON(ctx, http.MethodPut, path, body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
