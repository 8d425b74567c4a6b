// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package bulletin implements the external append-only log interface
// a poll publishes its Merkle root to and reads submitted votes from,
// per spec.md §6. The reference adapter targets an Etherscan-style
// block explorer API.
package bulletin

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/scantegrity/pollcore/internal/ballots"
	"github.com/scantegrity/pollcore/internal/pollerr"
)

// Log is the append-only bulletin board a poll publishes its Merkle
// root to and reads submitted vote transactions from.
type Log interface {
	Publish(ctx context.Context, root [32]byte) (handle string, err error)
	FetchTransactions(ctx context.Context, address, startDate, endDate string) ([]Transaction, error)
}

// Transaction is one on-chain transaction of interest: its input
// payload, hex-prefixed with "0x".
type Transaction struct {
	Hash  string
	Input string
}

// explorerResponse mirrors an Etherscan-style "account transaction
// list" response.
type explorerResponse struct {
	Status  string                `json:"status"`
	Message string                `json:"message"`
	Result  []explorerTransaction `json:"result"`
}

type explorerTransaction struct {
	Hash  string `json:"hash"`
	Input string `json:"input"`
}

// HTTPExplorer is a Log backed by an Etherscan-compatible HTTP API.
type HTTPExplorer struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewHTTPExplorer builds an HTTPExplorer with a 30-second default
// client timeout.
func NewHTTPExplorer(baseURL, apiKey string) *HTTPExplorer {
	return &HTTPExplorer{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Publish records root as a transaction's input data and returns its
// transaction hash. Submission is fire-and-forget per spec.md §5: the
// core does not poll for confirmation.
func (e *HTTPExplorer) Publish(ctx context.Context, root [32]byte) (string, error) {
	payload := "0x" + hex.EncodeToString(root[:])
	q := url.Values{}
	q.Set("module", "account")
	q.Set("action", "publish")
	q.Set("data", payload)
	q.Set("apikey", e.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", pollerr.New(pollerr.ErrExternalIoError, "build publish request: %v", err)
	}
	resp, err := e.Client.Do(req)
	if err != nil {
		return "", pollerr.New(pollerr.ErrExternalIoError, "publish merkle root: %v", err)
	}
	defer resp.Body.Close()

	var parsed struct {
		Result string `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", pollerr.New(pollerr.ErrExternalIoError, "decode publish response: %v", err)
	}
	return parsed.Result, nil
}

// FetchTransactions retrieves every transaction sent to address
// between startDate and endDate.
func (e *HTTPExplorer) FetchTransactions(ctx context.Context, address, startDate, endDate string) ([]Transaction, error) {
	q := url.Values{}
	q.Set("module", "account")
	q.Set("action", "txlist")
	q.Set("address", address)
	q.Set("startdate", startDate)
	q.Set("enddate", endDate)
	q.Set("apikey", e.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, pollerr.New(pollerr.ErrExternalIoError, "build fetch request: %v", err)
	}
	resp, err := e.Client.Do(req)
	if err != nil {
		return nil, pollerr.New(pollerr.ErrExternalIoError, "fetch transactions: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pollerr.New(pollerr.ErrExternalIoError, "read fetch response: %v", err)
	}
	var parsed explorerResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, pollerr.New(pollerr.ErrExternalIoError, "decode fetch response: %v", err)
	}

	out := make([]Transaction, len(parsed.Result))
	for i, t := range parsed.Result {
		out[i] = Transaction{Hash: t.Hash, Input: t.Input}
	}
	return out, nil
}

// submittedVote is the UTF-8 JSON payload carried in a transaction's
// input field.
type submittedVote struct {
	VoteCode string `json:"votecode"`
}

// ParseVotePayload decodes a transaction's hex-prefixed input field
// into the vote code it carries.
func ParseVotePayload(input string) (ballots.VoteCode, error) {
	trimmed := strings.TrimPrefix(input, "0x")
	raw, err := hex.DecodeString(trimmed)
	if err != nil {
		return ballots.VoteCode{}, pollerr.New(pollerr.ErrCodecError, "decode vote payload hex: %v", err)
	}
	var payload submittedVote
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ballots.VoteCode{}, pollerr.New(pollerr.ErrCodecError, "decode vote payload json: %v", err)
	}
	vc, err := ballots.ParseVoteCode(payload.VoteCode)
	if err != nil {
		return ballots.VoteCode{}, err
	}
	return vc, nil
}

// EncodeVotePayload renders a vote code as the hex-prefixed JSON
// payload a voter's wallet would submit in a transaction's input
// field.
func EncodeVotePayload(vc ballots.VoteCode) string {
	raw, _ := json.Marshal(submittedVote{VoteCode: vc.String()})
	return "0x" + hex.EncodeToString(raw)
}
