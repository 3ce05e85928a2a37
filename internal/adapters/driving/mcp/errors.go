// Package mcp provides an MCP (Model Context Protocol) server adapter for paperrank.
// It lets AI assistants rank the stored corpus, fetch paper summaries, and inspect
// ingestion state.
package mcp

import "errors"

// ErrMissingRanker is returned when the ranking service is not provided.
var ErrMissingRanker = errors.New("mcp: ranking service is required")
