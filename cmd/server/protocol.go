// Package main provides a TCP and HTTP SQL server for FlatDB.
package main

import (
	"encoding/json"

	"github.com/nickyhof/FlatDB/db"
)

// Request represents a SQL query from the client.
type Request struct {
	Query string `json:"query"`
}

// Response represents the server's response to a query.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Type    string          `json:"type,omitempty"` // "query", "commit", "auth" or "tables"
	Result  json.RawMessage `json:"result,omitempty"`
}

// QueryResponse contains tabular query results.
type QueryResponse struct {
	Columns     []string   `json:"columns"`
	Data        [][]string `json:"data"`
	RecordsRead int        `json:"records_read"`
	TimeMs      float64    `json:"time_ms"`
	Transaction string     `json:"transaction,omitempty"`
}

// CommitResponse contains mutation operation results.
type CommitResponse struct {
	RecordsWritten int     `json:"records_written,omitempty"`
	RecordsDeleted int     `json:"records_deleted,omitempty"`
	TimeMs         float64 `json:"time_ms"`
	Transaction    string  `json:"transaction,omitempty"`
}

// AuthResponse is returned after a successful AUTH command.
type AuthResponse struct {
	Authenticated bool   `json:"authenticated"`
	Identity      string `json:"identity"`
	ExpiresIn     int    `json:"expires_in,omitempty"`
}

// TablesResponse lists the stored tables.
type TablesResponse struct {
	Tables []string `json:"tables"`
}

// EncodeResponse serializes a Response to JSON with a newline.
func EncodeResponse(resp Response) ([]byte, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// DecodeRequest parses a JSON request from a byte slice.
func DecodeRequest(data []byte) (Request, error) {
	var req Request
	err := json.Unmarshal(data, &req)
	return req, err
}

func errorResponse(responseType string, err error) Response {
	return Response{
		Success: false,
		Type:    responseType,
		Error:   err.Error(),
	}
}

func successResponse(responseType string, result any) Response {
	data, err := json.Marshal(result)
	if err != nil {
		return errorResponse(responseType, err)
	}
	return Response{
		Success: true,
		Type:    responseType,
		Result:  data,
	}
}

// resultResponse converts an engine result to its wire form.
func resultResponse(result db.Result) Response {
	switch r := result.(type) {
	case db.QueryResult:
		data := r.Data
		if data == nil {
			data = [][]string{}
		}
		return successResponse("query", QueryResponse{
			Columns:     r.Columns,
			Data:        data,
			RecordsRead: r.RecordsRead,
			TimeMs:      r.ExecutionTimeSec * 1000,
			Transaction: r.Transaction.Id,
		})

	case db.CommitResult:
		return successResponse("commit", CommitResponse{
			RecordsWritten: r.RecordsWritten,
			RecordsDeleted: r.RecordsDeleted,
			TimeMs:         r.ExecutionTimeSec * 1000,
			Transaction:    r.Transaction.Id,
		})

	default:
		return Response{
			Success: true,
			Type:    "unknown",
		}
	}
}
