package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/logdeck/core/internal/config"
	"github.com/logdeck/core/internal/dlog"
	"github.com/logdeck/core/internal/errs"
	"github.com/logdeck/core/internal/filterset"
	"github.com/logdeck/core/internal/protocol"
	"github.com/logdeck/core/internal/session"
)

// runCommandLoop reads one JSON request per stdin line until EOF or ctx is
// cancelled, dispatching each to controller and writing exactly one
// response line per request (spec §6).
func runCommandLoop(ctx context.Context, controller *session.Controller, out *bufio.Writer, outMu *sync.Mutex) {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req protocol.Request
		if err := json.Unmarshal(line, &req); err != nil {
			dlog.Warn("malformed request line:", err)
			continue
		}
		if len(req.ID) == 0 {
			// A frontend that omits "id" still gets a correlated response;
			// it just can't pre-compute what the id will be.
			req.ID, _ = json.Marshal(uuid.NewString())
		}

		resp := handle(ctx, controller, req)
		writeResponse(out, outMu, resp)
	}
	if err := scanner.Err(); err != nil {
		dlog.Error("stdin read error:", err)
	}
}

func handle(ctx context.Context, controller *session.Controller, req protocol.Request) (resp protocol.Response) {
	defer func() {
		if r := recover(); r != nil {
			dlog.Error("panic while handling", req.Command, r)
			resp = protocol.Response{ID: req.ID, OK: false, Error: &protocol.ErrorInfo{Kind: "Internal", Message: "internal error"}}
		}
	}()

	result, err := dispatch(ctx, controller, req)
	if err != nil {
		return protocol.Response{ID: req.ID, OK: false, Error: toErrorInfo(err)}
	}
	return protocol.Response{ID: req.ID, OK: true, Result: result}
}

func dispatch(ctx context.Context, controller *session.Controller, req protocol.Request) (interface{}, error) {
	switch req.Command {
	case protocol.CommandOpenFile:
		var p struct {
			Path string `json:"path"`
		}
		if err := json.Unmarshal(req.Payload, &p); err != nil {
			return nil, err
		}
		return controller.OpenFile(ctx, p.Path)

	case protocol.CommandApplyFilters:
		var p applyFiltersPayload
		if err := json.Unmarshal(req.Payload, &p); err != nil {
			return nil, err
		}
		res, err := controller.ApplyFilters(p.Filters, p.SearchQuery)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"visible_count": res.VisibleCount,
			"filter_counts": res.FilterCounts,
		}, nil

	case protocol.CommandGetLogLines:
		var p struct {
			StartIndex int `json:"start_index"`
			Count      int `json:"count"`
		}
		if err := json.Unmarshal(req.Payload, &p); err != nil {
			return nil, err
		}
		return controller.GetLogLines(p.StartIndex, p.Count)

	case protocol.CommandStartAdb:
		var p applyFiltersPayload
		if err := json.Unmarshal(req.Payload, &p); err != nil {
			return nil, err
		}
		if err := controller.StartStream(ctx, p.Filters, p.SearchQuery); err != nil {
			return nil, err
		}
		return struct{}{}, nil

	case protocol.CommandStopAdb:
		if err := controller.StopStream(); err != nil {
			return nil, err
		}
		return struct{}{}, nil

	case protocol.CommandGetMinimapData:
		var p struct {
			applyFiltersPayload
			Buckets int `json:"buckets"`
		}
		if err := json.Unmarshal(req.Payload, &p); err != nil {
			return nil, err
		}
		buckets := p.Buckets
		if buckets <= 0 {
			buckets = config.Engine.MinimapDefaultBuckets
		}
		return controller.GetMinimapData(p.Filters, p.SearchQuery, buckets)

	default:
		return nil, errors.New("unknown command: " + req.Command)
	}
}

type applyFiltersPayload struct {
	Filters     []filterset.Filter `json:"filters"`
	SearchQuery string             `json:"search_query"`
}

func toErrorInfo(err error) *protocol.ErrorInfo {
	kind := "Internal"
	switch {
	case errs.Is(err, errs.ErrOpenFailed):
		kind = "OpenFailed"
	case errs.Is(err, errs.ErrMapFailed):
		kind = "MapFailed"
	case errs.Is(err, errs.ErrInvalidFilterRegex):
		kind = "InvalidFilterRegex"
	case errs.Is(err, errs.ErrInvalidSearchRegex):
		kind = "InvalidSearchRegex"
	case errs.Is(err, errs.ErrNoSource):
		kind = "NoSource"
	case errs.Is(err, errs.ErrStreamStartFailed):
		kind = "StreamStartFailed"
	}
	return &protocol.ErrorInfo{Kind: kind, Message: err.Error()}
}

func writeResponse(out *bufio.Writer, outMu *sync.Mutex, resp protocol.Response) {
	b, err := json.Marshal(resp)
	if err != nil {
		dlog.Error("failed to encode response:", err)
		return
	}
	outMu.Lock()
	defer outMu.Unlock()
	out.Write(b)
	out.WriteByte('\n')
	out.Flush()
}

func drainEvents(ctx context.Context, events <-chan session.Event, out *bufio.Writer, outMu *sync.Mutex) {
	for {
		select {
		case e, ok := <-events:
			if !ok {
				return
			}
			writeEvent(out, outMu, e)
		case <-ctx.Done():
			return
		}
	}
}

func writeEvent(out *bufio.Writer, outMu *sync.Mutex, e session.Event) {
	b, err := json.Marshal(protocol.Event{Event: e.Name, Data: e.Data})
	if err != nil {
		dlog.Error("failed to encode event:", err)
		return
	}
	outMu.Lock()
	defer outMu.Unlock()
	out.Write(b)
	out.WriteByte('\n')
	out.Flush()
}
