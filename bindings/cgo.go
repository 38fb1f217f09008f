package main

/*
#include <stdlib.h>
*/
import "C"
import (
	"context"
	"encoding/json"
	"sync"
	"unsafe"

	"github.com/nickyhof/FlatDB"
	"github.com/nickyhof/FlatDB/core"
	"github.com/nickyhof/FlatDB/db"
	"github.com/nickyhof/FlatDB/logger"
)

var bindingIdentity = core.Identity{
	Name:  "FlatDB Python",
	Email: "python@flatdb.local",
}

// Handle represents an open database instance
type Handle struct {
	instance *FlatDB.Instance
	engine   *db.Engine
}

var (
	handlesMu  sync.Mutex
	handles    = make(map[int]*Handle)
	nextHandle = 1
)

// Response mirrors the server protocol for consistency
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Type    string          `json:"type,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

type QueryResponse struct {
	Columns     []string   `json:"columns"`
	Data        [][]string `json:"data"`
	RecordsRead int        `json:"records_read"`
	TimeMs      float64    `json:"time_ms"`
	Transaction string     `json:"transaction,omitempty"`
}

type CommitResponse struct {
	RecordsWritten int     `json:"records_written,omitempty"`
	RecordsDeleted int     `json:"records_deleted,omitempty"`
	TimeMs         float64 `json:"time_ms"`
	Transaction    string  `json:"transaction,omitempty"`
}

func register(instance *FlatDB.Instance) C.int {
	handlesMu.Lock()
	defer handlesMu.Unlock()

	handle := nextHandle
	nextHandle++
	handles[handle] = &Handle{
		instance: instance,
		engine:   instance.Engine(bindingIdentity),
	}
	return C.int(handle)
}

func lookup(handle C.int) (*Handle, bool) {
	handlesMu.Lock()
	defer handlesMu.Unlock()
	h, ok := handles[int(handle)]
	return h, ok
}

//export flatdb_open
func flatdb_open(dsn *C.char) C.int {
	goDSN := C.GoString(dsn)

	instance, err := FlatDB.OpenDSN(context.Background(), goDSN)
	if err != nil {
		logger.Error("failed to open storage", "data", goDSN, "error", err)
		return -1
	}
	return register(instance)
}

//export flatdb_open_memory
func flatdb_open_memory() C.int {
	instance, err := FlatDB.OpenDSN(context.Background(), "mem://")
	if err != nil {
		return -1
	}
	return register(instance)
}

//export flatdb_close
func flatdb_close(handle C.int) {
	handlesMu.Lock()
	h, ok := handles[int(handle)]
	delete(handles, int(handle))
	handlesMu.Unlock()

	if ok {
		h.instance.Close()
	}
}

//export flatdb_execute
func flatdb_execute(handle C.int, query *C.char) *C.char {
	h, ok := lookup(handle)
	if !ok {
		return makeErrorResponse("Invalid handle")
	}

	result, err := h.engine.Execute(C.GoString(query))
	if err != nil {
		return makeErrorResponse(err.Error())
	}

	var resp Response

	switch r := result.(type) {
	case db.QueryResult:
		data := r.Data
		if data == nil {
			data = [][]string{}
		}
		payload, _ := json.Marshal(QueryResponse{
			Columns:     r.Columns,
			Data:        data,
			RecordsRead: r.RecordsRead,
			TimeMs:      r.ExecutionTimeSec * 1000,
			Transaction: r.Transaction.Id,
		})
		resp = Response{Success: true, Type: "query", Result: payload}

	case db.CommitResult:
		payload, _ := json.Marshal(CommitResponse{
			RecordsWritten: r.RecordsWritten,
			RecordsDeleted: r.RecordsDeleted,
			TimeMs:         r.ExecutionTimeSec * 1000,
			Transaction:    r.Transaction.Id,
		})
		resp = Response{Success: true, Type: "commit", Result: payload}

	default:
		resp = Response{Success: true, Type: "unknown"}
	}

	jsonData, _ := json.Marshal(resp)
	return C.CString(string(jsonData))
}

//export flatdb_free
func flatdb_free(ptr *C.char) {
	C.free(unsafe.Pointer(ptr))
}

func makeErrorResponse(msg string) *C.char {
	jsonData, _ := json.Marshal(Response{Success: false, Error: msg})
	return C.CString(string(jsonData))
}

func main() {}
