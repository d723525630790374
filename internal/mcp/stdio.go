// ABOUTME: Newline-delimited JSON transport over a reader and writer pair.
// ABOUTME: Each request runs in its own goroutine so a long tool call never blocks the next one.

package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
)

// ServeStdio reads one JSON-RPC message per line from r and writes one reply
// per line to w. It returns nil at end of input after in-flight calls finish,
// or the context error if ctx ends first. A line over MaxRequestBodySize is
// skipped with an invalid request error and serving continues.
func (s *Server) ServeStdio(ctx context.Context, r io.Reader, w io.Writer) error {
	var (
		wg      sync.WaitGroup
		writeMu sync.Mutex
	)
	enc := json.NewEncoder(w)

	reply := func(resp *JSONRPCResponse) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := enc.Encode(resp); err != nil {
			s.logger.Warn("failed to write JSON-RPC response", "error", err)
		}
	}

	lines := make(chan []byte)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		br := bufio.NewReaderSize(r, 64*1024)
		for {
			raw, oversized, err := readMessage(br, MaxRequestBodySize)
			if oversized {
				s.logger.Warn("discarding oversized message", "limit", MaxRequestBodySize)
				reply(errorResponse(nil, JSONRPCInvalidRequest, "request too large"))
			} else if line := bytes.TrimSpace(raw); len(line) > 0 {
				select {
				case lines <- line:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					readErr <- err
				}
				return
			}
		}
	}()

	s.logger.Info("serving MCP over stdio")

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()

		case msg, ok := <-lines:
			if !ok {
				wg.Wait()
				select {
				case err := <-readErr:
					if err != nil {
						return fmt.Errorf("reading input: %w", err)
					}
				default:
				}
				s.logger.Info("input closed")
				return nil
			}

			wg.Add(1)
			go func() {
				defer wg.Done()
				if resp := s.Handle(ctx, msg); resp != nil {
					reply(resp)
				}
			}()
		}
	}
}

// readMessage reads one newline-terminated message from br into a fresh
// slice. A message longer than limit is consumed to its newline and reported
// as oversized with no bytes returned.
func readMessage(br *bufio.Reader, limit int) ([]byte, bool, error) {
	var (
		buf       []byte
		oversized bool
	)
	for {
		chunk, err := br.ReadSlice('\n')
		if !oversized {
			size := len(buf) + len(chunk)
			if len(chunk) > 0 && chunk[len(chunk)-1] == '\n' {
				size--
			}
			if size > limit {
				oversized = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return buf, oversized, err
	}
}
