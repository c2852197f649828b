// Package rpcapi exposes the hybrid index over gRPC without a
// protobuf/codegen step: methods exchange plain JSON-tagged Go structs
// (see internal/codec), and the service is wired up by hand as a
// grpc.ServiceDesc instead of a generated _grpc.pb.go.
package rpcapi

import (
	"context"

	"google.golang.org/grpc"

	"github.com/arjunmehta/hybridpgm/internal/codec"
)

// Key is the key type exposed over the wire. The hybrid orchestrator is
// generic over cmp.Ordered, but an RPC surface needs one concrete type;
// int64 mirrors the teacher's own RPC layer, which fixes its key type
// at int64 for the same reason.
type Key = int64

type LookupRequest struct {
	Key Key `json:"key"`
}

type LookupResponse struct {
	Value uint64 `json:"value"`
	Found bool   `json:"found"`
}

type InsertRequest struct {
	Key   Key    `json:"key"`
	Value uint64 `json:"value"`
}

type InsertResponse struct {
	Ok bool `json:"ok"`
}

type RangeSumRequest struct {
	Lo Key `json:"lo"`
	Hi Key `json:"hi"`
}

type RangeSumResponse struct {
	Sum uint64 `json:"sum"`
}

type SizeResponse struct {
	Bytes int `json:"bytes"`
}

type VariantsResponse struct {
	Variants []string `json:"variants"`
}

type Empty struct{}

// Server is the interface a hybrid-index-backed gRPC server implements.
// cmd/server wraps *hybrid.Orchestrator[int64] to satisfy it.
type Server interface {
	Lookup(context.Context, *LookupRequest) (*LookupResponse, error)
	Insert(context.Context, *InsertRequest) (*InsertResponse, error)
	RangeSum(context.Context, *RangeSumRequest) (*RangeSumResponse, error)
	Size(context.Context, *Empty) (*SizeResponse, error)
	Variants(context.Context, *Empty) (*VariantsResponse, error)
}

// ServiceDesc is registered with grpc.Server via RegisterServer, the
// hand-written stand-in for a generated RegisterXServer function.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: "hybridpgm.Index",
	HandlerType: (*Server)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Lookup", Handler: lookupHandler},
		{MethodName: "Insert", Handler: insertHandler},
		{MethodName: "RangeSum", Handler: rangeSumHandler},
		{MethodName: "Size", Handler: sizeHandler},
		{MethodName: "Variants", Handler: variantsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "internal/rpcapi/rpcapi.go",
}

// RegisterServer registers srv against s, analogous to a generated
// pb.RegisterXServer call.
func RegisterServer(s grpc.ServiceRegistrar, srv Server) {
	s.RegisterService(&ServiceDesc, srv)
}

func lookupHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(LookupRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(Server).Lookup(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/hybridpgm.Index/Lookup"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(Server).Lookup(ctx, req.(*LookupRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func insertHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(InsertRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(Server).Insert(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/hybridpgm.Index/Insert"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(Server).Insert(ctx, req.(*InsertRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func rangeSumHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(RangeSumRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(Server).RangeSum(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/hybridpgm.Index/RangeSum"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(Server).RangeSum(ctx, req.(*RangeSumRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func sizeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(Empty)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(Server).Size(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/hybridpgm.Index/Size"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(Server).Size(ctx, req.(*Empty))
	}
	return interceptor(ctx, req, info, handler)
}

func variantsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(Empty)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(Server).Variants(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/hybridpgm.Index/Variants"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(Server).Variants(ctx, req.(*Empty))
	}
	return interceptor(ctx, req, info, handler)
}

// CallOption selects the JSON codec on the client side, the counterpart
// to grpc.ForceServerCodec on the server.
func CallOption() grpc.CallOption {
	return grpc.CallContentSubtype(codec.Name)
}
