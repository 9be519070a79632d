package session

import (
	"context"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/peer"
)

// sessionPool hands out a *Session per connection, keyed on the peer
// address grpc-go's stream context exposes. A real driver would carry a
// session id explicitly; this server infers one from the connection
// instead, since nothing here implements authentication.
type sessionPool struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func newSessionPool() *sessionPool {
	return &sessionPool{sessions: make(map[string]*Session)}
}

func (p *sessionPool) get(key string) *Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.sessions[key]
	if !ok {
		s = &Session{}
		p.sessions[key] = s
	}
	return s
}

// grpcHandler adapts Server to grpc.ServiceDesc's unary handler shape.
// There is no .proto file behind this service -- see codec.go -- so the
// ServiceDesc below is written by hand instead of generated by
// protoc-gen-go-grpc.
type grpcHandler struct {
	*Server
	pool *sessionPool
}

func peerKey(ctx context.Context) string {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return "default"
	}
	return p.Addr.String()
}

func (h *grpcHandler) execute(ctx context.Context, req *ExecuteRequest) (*ExecuteResponse, error) {
	sess := h.pool.get(peerKey(ctx))
	return h.Server.Execute(sess, req), nil
}

func (h *grpcHandler) setSessionVar(ctx context.Context, req *SetSessionVarRequest) (*SetSessionVarResponse, error) {
	sess := h.pool.get(peerKey(ctx))
	if req.Name != "vector_index_match_method" {
		return &SetSessionVarResponse{Err: "session: unknown session variable " + req.Name}, nil
	}
	if err := sess.SetVectorIndexMatchMethod(req.Value); err != nil {
		return &SetSessionVarResponse{Err: err.Error()}, nil
	}
	return &SetSessionVarResponse{}, nil
}

// ServiceName is the gRPC service name this ServiceDesc registers under.
const ServiceName = "coraldb.Session"

// NewServiceDesc builds the grpc.ServiceDesc for srv. Handed to
// grpc.Server.RegisterService in place of a generated
// RegisterSessionServer function.
func NewServiceDesc(srv *Server) *grpc.ServiceDesc {
	h := &grpcHandler{Server: srv, pool: newSessionPool()}

	return &grpc.ServiceDesc{
		ServiceName: ServiceName,
		HandlerType: (*any)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "Execute",
				Handler: func(_ any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					req := new(ExecuteRequest)
					if err := dec(req); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return h.execute(ctx, req)
					}
					info := &grpc.UnaryServerInfo{Server: h, FullMethod: ServiceName + "/Execute"}
					return interceptor(ctx, req, info, func(ctx context.Context, req any) (any, error) {
						return h.execute(ctx, req.(*ExecuteRequest))
					})
				},
			},
			{
				MethodName: "SetSessionVar",
				Handler: func(_ any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					req := new(SetSessionVarRequest)
					if err := dec(req); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return h.setSessionVar(ctx, req)
					}
					info := &grpc.UnaryServerInfo{Server: h, FullMethod: ServiceName + "/SetSessionVar"}
					return interceptor(ctx, req, info, func(ctx context.Context, req any) (any, error) {
						return h.setSessionVar(ctx, req.(*SetSessionVarRequest))
					})
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "session.proto",
	}
}
