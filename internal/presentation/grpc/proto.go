package grpc

// proto.go defines the gRPC server interface for
// seedsmetrics.loanmetrics.v1.LoanMetricsService. Messages travel with the
// JSON codec registered in json_codec.go.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const serviceName = "seedsmetrics.loanmetrics.v1.LoanMetricsService"

// Full method names, used by interceptors.
const (
	MethodComputeSnapshot    = "/" + serviceName + "/ComputeSnapshot"
	MethodGetSnapshot        = "/" + serviceName + "/GetSnapshot"
	MethodPreviewSnapshot    = "/" + serviceName + "/PreviewSnapshot"
	MethodRecomputePortfolio = "/" + serviceName + "/RecomputePortfolio"
)

// LoanMetricsServiceServer is the server API for LoanMetricsService.
type LoanMetricsServiceServer interface {
	ComputeSnapshot(context.Context, *ComputeSnapshotRequest) (*SnapshotReply, error)
	GetSnapshot(context.Context, *GetSnapshotRequest) (*SnapshotReply, error)
	PreviewSnapshot(context.Context, *PreviewSnapshotRequest) (*SnapshotReply, error)
	RecomputePortfolio(context.Context, *RecomputePortfolioRequest) (*RecomputePortfolioReply, error)
	mustEmbedUnimplementedLoanMetricsServiceServer()
}

// UnimplementedLoanMetricsServiceServer provides forward-compatible default implementations.
type UnimplementedLoanMetricsServiceServer struct{}

func (UnimplementedLoanMetricsServiceServer) ComputeSnapshot(context.Context, *ComputeSnapshotRequest) (*SnapshotReply, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ComputeSnapshot not implemented")
}
func (UnimplementedLoanMetricsServiceServer) GetSnapshot(context.Context, *GetSnapshotRequest) (*SnapshotReply, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetSnapshot not implemented")
}
func (UnimplementedLoanMetricsServiceServer) PreviewSnapshot(context.Context, *PreviewSnapshotRequest) (*SnapshotReply, error) {
	return nil, status.Errorf(codes.Unimplemented, "method PreviewSnapshot not implemented")
}
func (UnimplementedLoanMetricsServiceServer) RecomputePortfolio(context.Context, *RecomputePortfolioRequest) (*RecomputePortfolioReply, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RecomputePortfolio not implemented")
}
func (UnimplementedLoanMetricsServiceServer) mustEmbedUnimplementedLoanMetricsServiceServer() {}

// RegisterLoanMetricsServiceServer registers the LoanMetricsServiceServer with the gRPC server.
func RegisterLoanMetricsServiceServer(s *grpclib.Server, srv LoanMetricsServiceServer) {
	s.RegisterService(&_LoanMetricsService_serviceDesc, srv) //nolint:revive // gRPC handler registration
}

//nolint:revive // gRPC handler registration
var _LoanMetricsService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*LoanMetricsServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "ComputeSnapshot", Handler: _LoanMetricsService_ComputeSnapshot_Handler},       //nolint:revive // gRPC handler registration
		{MethodName: "GetSnapshot", Handler: _LoanMetricsService_GetSnapshot_Handler},               //nolint:revive // gRPC handler registration
		{MethodName: "PreviewSnapshot", Handler: _LoanMetricsService_PreviewSnapshot_Handler},       //nolint:revive // gRPC handler registration
		{MethodName: "RecomputePortfolio", Handler: _LoanMetricsService_RecomputePortfolio_Handler}, //nolint:revive // gRPC handler registration
	},
	Streams: []grpclib.StreamDesc{},
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanMetricsService_ComputeSnapshot_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(ComputeSnapshotRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanMetricsServiceServer).ComputeSnapshot(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: MethodComputeSnapshot,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanMetricsServiceServer).ComputeSnapshot(ctx, req.(*ComputeSnapshotRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanMetricsService_GetSnapshot_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetSnapshotRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanMetricsServiceServer).GetSnapshot(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: MethodGetSnapshot,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanMetricsServiceServer).GetSnapshot(ctx, req.(*GetSnapshotRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanMetricsService_PreviewSnapshot_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(PreviewSnapshotRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanMetricsServiceServer).PreviewSnapshot(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: MethodPreviewSnapshot,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanMetricsServiceServer).PreviewSnapshot(ctx, req.(*PreviewSnapshotRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanMetricsService_RecomputePortfolio_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(RecomputePortfolioRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanMetricsServiceServer).RecomputePortfolio(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: MethodRecomputePortfolio,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanMetricsServiceServer).RecomputePortfolio(ctx, req.(*RecomputePortfolioRequest))
	}
	return interceptor(ctx, in, info, handler)
}
