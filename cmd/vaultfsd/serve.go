package main

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/vaultfs/vaultfs/pkg/fsservice"
	"github.com/vaultfs/vaultfs/pkg/logging"
	"github.com/vaultfs/vaultfs/pkg/timeutil"
)

// idleWarningInterval is how long serveStdio waits between requests before
// logging a reminder that it's still alive and waiting on stdin.
const idleWarningInterval = 10 * time.Minute

// request is one line of the demonstration stdio protocol: an operation
// name plus a raw path and pattern, covering just enough of the surface in
// spec.md §6 to exercise the service end to end. It is explicitly not a
// tool-calling protocol implementation.
type request struct {
	Op      string `json:"op"`
	Path    string `json:"path"`
	Pattern string `json:"pattern,omitempty"`
}

type response struct {
	ID    string      `json:"id"`
	Op    string      `json:"op"`
	Ok    bool        `json:"ok"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// serveStdio reads newline-delimited JSON requests from stdin and writes
// newline-delimited JSON responses to stdout, dispatching each request to
// the service. Responses are written in request order, each tagged with a
// freshly generated ID; requests carry no ID of their own.
func serveStdio(service *fsservice.Service, logger *logging.Logger) error {
	lines := make(chan []byte)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
		for scanner.Scan() {
			line := append([]byte(nil), scanner.Bytes()...)
			lines <- line
		}
		scanErr <- scanner.Err()
		close(lines)
	}()

	encoder := json.NewEncoder(os.Stdout)
	idle := time.NewTimer(idleWarningInterval)
	defer idle.Stop()

	for {
		select {
		case line, ok := <-lines:
			if !ok {
				if err := <-scanErr; err != nil && err != io.EOF {
					logger.Errorf("stdin read failed: %s", err.Error())
					return err
				}
				return nil
			}
			timeutil.StopAndDrainTimer(idle)
			idle.Reset(idleWarningInterval)

			if len(line) == 0 {
				continue
			}

			var req request
			id := uuid.NewString()
			if err := json.Unmarshal(line, &req); err != nil {
				emit(encoder, response{ID: id, Ok: false, Error: "invalid request: " + err.Error()})
				continue
			}

			data, err := dispatch(service, req)
			resp := response{ID: id, Op: req.Op}
			if err != nil {
				resp.Error = err.Error()
			} else {
				resp.Ok = true
				resp.Data = data
			}
			emit(encoder, resp)
		case <-idle.C:
			logger.Infof("still waiting on stdin, no requests in the last %s", idleWarningInterval)
			idle.Reset(idleWarningInterval)
		}
	}
}

func emit(encoder *json.Encoder, resp response) {
	_ = encoder.Encode(resp)
}

// dispatch routes a demonstration request to the corresponding service
// operation. It covers a representative slice of §6's surface; extending it
// to the full operation catalog is transport/schema work explicitly placed
// out of scope for the core.
func dispatch(service *fsservice.Service, req request) (interface{}, error) {
	switch req.Op {
	case "read_text_file":
		return service.ReadTextFile(req.Path)
	case "get_file_stats":
		return service.GetFileStats(req.Path)
	case "list_directory":
		return service.ListDirectory(req.Path)
	case "list_allowed_directories":
		return service.AllowedDirectories(), nil
	case "directory_tree":
		tree, reachedMaxDepth, err := service.DirectoryTree(req.Path, 0, 0)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"tree": tree, "reachedMaxDepth": reachedMaxDepth}, nil
	case "calculate_directory_size":
		return service.CalculateDirectorySize(req.Path)
	case "find_empty_directories":
		return service.FindEmptyDirectories(req.Path, nil)
	case "content_search":
		return service.ContentSearch(req.Pattern, req.Path, false)
	default:
		return nil, unsupportedOperation(req.Op)
	}
}
