// Package session turns a connection into a place to run plan trees. A
// Session remembers the one piece of state a statement's planning depends
// on -- vector_index_match_method -- the way a real connection keeps
// per-connection settings across statements.
package session

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/coraldb/coraldb/internal/catalog"
	"github.com/coraldb/coraldb/internal/execution"
	"github.com/coraldb/coraldb/internal/metrics"
	"github.com/coraldb/coraldb/internal/optimizer"
	"github.com/coraldb/coraldb/internal/plan"
	"github.com/coraldb/coraldb/internal/storage"
)

var validMatchMethods = map[string]bool{
	"":        true,
	"default": true,
	"hnsw":    true,
	"ivfflat": true,
	"none":    true,
}

// Session holds the per-connection state a Server dispatches statements
// against.
type Session struct {
	mu          sync.Mutex
	matchMethod string
}

// SetVectorIndexMatchMethod validates and stores the session variable the
// optimizer's Rule B consults before rewriting a TopN into a
// VectorIndexScan.
func (s *Session) SetVectorIndexMatchMethod(method string) error {
	if !validMatchMethods[method] {
		return fmt.Errorf("session: unknown vector_index_match_method %q", method)
	}
	s.mu.Lock()
	s.matchMethod = method
	s.mu.Unlock()
	return nil
}

func (s *Session) vectorIndexMatchMethod() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matchMethod
}

// Server is the RPC-reachable collaborator: a catalog, a logger, and a
// metrics registry, playing the role a connection-scoped struct wrapping
// an index and a WAL would in a single-table server, generalized here to
// a whole catalog of tables and indexes.
type Server struct {
	Catalog *catalog.Catalog
	Logger  *zap.Logger
	Metrics *metrics.Registry
}

// ExecuteRequest carries a plan tree built by a client. The session it runs
// under is the caller's connection (see sessionPool in grpc.go), not a field
// of the request. Sent in place of SQL text, since no parser/binder is
// part of this repo's scope -- the plan tree is the wire contract instead.
type ExecuteRequest struct {
	Plan plan.Node
}

// ExecuteResponse carries the tuples an Execute call produced, or an error
// message if it failed. Errors cross the wire as strings rather than a Go
// error value because gob cannot decode the unexported state inside most
// error types.
type ExecuteResponse struct {
	Tuples []storage.Tuple
	Err    string
}

// SetSessionVarRequest sets one session variable by name. The only
// variable a session currently recognizes is vector_index_match_method.
type SetSessionVarRequest struct {
	Name  string
	Value string
}

type SetSessionVarResponse struct {
	Err string
}

// Execute optimizes req.Plan under sess's current
// vector_index_match_method and runs it to completion.
func (srv *Server) Execute(sess *Session, req *ExecuteRequest) *ExecuteResponse {
	start := time.Now()
	opt := &optimizer.Optimizer{
		Catalog:                srv.Catalog,
		VectorIndexMatchMethod: sess.vectorIndexMatchMethod(),
	}
	optimized := opt.Optimize(req.Plan)

	exec, err := execution.Build(&execution.Context{Catalog: srv.Catalog, Metrics: srv.Metrics}, optimized)
	if err != nil {
		srv.recordOutcome(start, "build_error")
		return &ExecuteResponse{Err: err.Error()}
	}

	tuples, err := execution.Run(exec)
	if err != nil {
		srv.recordOutcome(start, "exec_error")
		return &ExecuteResponse{Err: err.Error()}
	}

	srv.recordOutcome(start, "ok")
	return &ExecuteResponse{Tuples: tuples}
}

func (srv *Server) recordOutcome(start time.Time, outcome string) {
	if srv.Metrics == nil {
		return
	}
	srv.Metrics.QueriesTotal.WithLabelValues(outcome).Inc()
	srv.Metrics.QueryLatency.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}
