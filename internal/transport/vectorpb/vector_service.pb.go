// Code generated manually for bootstrap. Replace with protoc-generated code for production.
package vectorpb

import (
	context "context"

	grpc "google.golang.org/grpc"
	codes "google.golang.org/grpc/codes"
	status "google.golang.org/grpc/status"
)

// Compile-time assertions.
var _ context.Context
var _ grpc.ClientConnInterface

const _ = grpc.SupportPackageIsVersion7

type EmbeddingRequest struct {
	Text      string `protobuf:"bytes,1,opt,name=text,proto3" json:"text,omitempty"`
	ModelName string `protobuf:"bytes,2,opt,name=model_name,json=modelName,proto3" json:"model_name,omitempty"`
}

type EmbeddingResponse struct {
	Vector           []float32 `protobuf:"fixed32,1,rep,packed,name=vector,proto3" json:"vector,omitempty"`
	ModelName        string    `protobuf:"bytes,2,opt,name=model_name,json=modelName,proto3" json:"model_name,omitempty"`
	Dimension        int32     `protobuf:"varint,3,opt,name=dimension,proto3" json:"dimension,omitempty"`
	ProcessingTimeMs float64   `protobuf:"fixed64,4,opt,name=processing_time_ms,json=processingTimeMs,proto3" json:"processing_time_ms,omitempty"`
}

type EmbeddingBatchRequest struct {
	Texts     []string `protobuf:"bytes,1,rep,name=texts,proto3" json:"texts,omitempty"`
	ModelName string   `protobuf:"bytes,2,opt,name=model_name,json=modelName,proto3" json:"model_name,omitempty"`
}

type EmbeddingBatchResponse struct {
	Embeddings []*EmbeddingResponse `protobuf:"bytes,1,rep,name=embeddings,proto3" json:"embeddings,omitempty"`
}

type SearchIndexRequest struct {
	QueryVector []float32 `protobuf:"fixed32,1,rep,packed,name=query_vector,json=queryVector,proto3" json:"query_vector,omitempty"`
	TopK        int32     `protobuf:"varint,2,opt,name=top_k,json=topK,proto3" json:"top_k,omitempty"`
	ShardKey    string    `protobuf:"bytes,3,opt,name=shard_key,json=shardKey,proto3" json:"shard_key,omitempty"`
	Nprobe      int32     `protobuf:"varint,4,opt,name=nprobe,proto3" json:"nprobe,omitempty"`
}

type SearchResult struct {
	Id           int64   `protobuf:"varint,1,opt,name=id,proto3" json:"id,omitempty"`
	Score        float32 `protobuf:"fixed32,2,opt,name=score,proto3" json:"score,omitempty"`
	MetadataJson string  `protobuf:"bytes,3,opt,name=metadata_json,json=metadataJson,proto3" json:"metadata_json,omitempty"`
}

type SearchIndexResponse struct {
	Results         []*SearchResult `protobuf:"bytes,1,rep,name=results,proto3" json:"results,omitempty"`
	ShardKey        string          `protobuf:"bytes,2,opt,name=shard_key,json=shardKey,proto3" json:"shard_key,omitempty"`
	SearchLatencyMs float64         `protobuf:"fixed64,3,opt,name=search_latency_ms,json=searchLatencyMs,proto3" json:"search_latency_ms,omitempty"`
	CacheHit        bool            `protobuf:"varint,4,opt,name=cache_hit,json=cacheHit,proto3" json:"cache_hit,omitempty"`
}

type IndexInfoRequest struct {
	ShardKey string `protobuf:"bytes,1,opt,name=shard_key,json=shardKey,proto3" json:"shard_key,omitempty"`
}

type ShardInfo struct {
	ShardKey       string `protobuf:"bytes,1,opt,name=shard_key,json=shardKey,proto3" json:"shard_key,omitempty"`
	TotalVectors   int64  `protobuf:"varint,2,opt,name=total_vectors,json=totalVectors,proto3" json:"total_vectors,omitempty"`
	Dimension      int32  `protobuf:"varint,3,opt,name=dimension,proto3" json:"dimension,omitempty"`
	IndexType      string `protobuf:"bytes,4,opt,name=index_type,json=indexType,proto3" json:"index_type,omitempty"`
	IsTrained      bool   `protobuf:"varint,5,opt,name=is_trained,json=isTrained,proto3" json:"is_trained,omitempty"`
	IndexSizeBytes int64  `protobuf:"varint,6,opt,name=index_size_bytes,json=indexSizeBytes,proto3" json:"index_size_bytes,omitempty"`
}

type IndexInfoResponse struct {
	Shards []*ShardInfo `protobuf:"bytes,1,rep,name=shards,proto3" json:"shards,omitempty"`
}

type ReloadIndexRequest struct {
	ShardKey string `protobuf:"bytes,1,opt,name=shard_key,json=shardKey,proto3" json:"shard_key,omitempty"`
}

type ReloadIndexResponse struct {
	Success        bool     `protobuf:"varint,1,opt,name=success,proto3" json:"success,omitempty"`
	Message        string   `protobuf:"bytes,2,opt,name=message,proto3" json:"message,omitempty"`
	ReloadedShards []string `protobuf:"bytes,3,rep,name=reloaded_shards,json=reloadedShards,proto3" json:"reloaded_shards,omitempty"`
}

// Client API for EmbeddingService
type EmbeddingServiceClient interface {
	GenerateEmbedding(ctx context.Context, in *EmbeddingRequest, opts ...grpc.CallOption) (*EmbeddingResponse, error)
	GenerateEmbeddingBatch(ctx context.Context, in *EmbeddingBatchRequest, opts ...grpc.CallOption) (*EmbeddingBatchResponse, error)
}

type embeddingServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewEmbeddingServiceClient(cc grpc.ClientConnInterface) EmbeddingServiceClient {
	return &embeddingServiceClient{cc}
}

func (c *embeddingServiceClient) GenerateEmbedding(ctx context.Context, in *EmbeddingRequest, opts ...grpc.CallOption) (*EmbeddingResponse, error) {
	out := new(EmbeddingResponse)
	err := c.cc.Invoke(ctx, "/vector.EmbeddingService/GenerateEmbedding", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *embeddingServiceClient) GenerateEmbeddingBatch(ctx context.Context, in *EmbeddingBatchRequest, opts ...grpc.CallOption) (*EmbeddingBatchResponse, error) {
	out := new(EmbeddingBatchResponse)
	err := c.cc.Invoke(ctx, "/vector.EmbeddingService/GenerateEmbeddingBatch", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Server API for EmbeddingService
type EmbeddingServiceServer interface {
	GenerateEmbedding(context.Context, *EmbeddingRequest) (*EmbeddingResponse, error)
	GenerateEmbeddingBatch(context.Context, *EmbeddingBatchRequest) (*EmbeddingBatchResponse, error)
}

// UnimplementedEmbeddingServiceServer can be embedded for forward compatibility.
type UnimplementedEmbeddingServiceServer struct{}

func (*UnimplementedEmbeddingServiceServer) GenerateEmbedding(context.Context, *EmbeddingRequest) (*EmbeddingResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GenerateEmbedding not implemented")
}

func (*UnimplementedEmbeddingServiceServer) GenerateEmbeddingBatch(context.Context, *EmbeddingBatchRequest) (*EmbeddingBatchResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GenerateEmbeddingBatch not implemented")
}

func RegisterEmbeddingServiceServer(s *grpc.Server, srv EmbeddingServiceServer) {
	s.RegisterService(&_EmbeddingService_serviceDesc, srv)
}

func _EmbeddingService_GenerateEmbedding_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(EmbeddingRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EmbeddingServiceServer).GenerateEmbedding(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/vector.EmbeddingService/GenerateEmbedding",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(EmbeddingServiceServer).GenerateEmbedding(ctx, req.(*EmbeddingRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _EmbeddingService_GenerateEmbeddingBatch_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(EmbeddingBatchRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EmbeddingServiceServer).GenerateEmbeddingBatch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/vector.EmbeddingService/GenerateEmbeddingBatch",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(EmbeddingServiceServer).GenerateEmbeddingBatch(ctx, req.(*EmbeddingBatchRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var _EmbeddingService_serviceDesc = grpc.ServiceDesc{
	ServiceName: "vector.EmbeddingService",
	HandlerType: (*EmbeddingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GenerateEmbedding",
			Handler:    _EmbeddingService_GenerateEmbedding_Handler,
		},
		{
			MethodName: "GenerateEmbeddingBatch",
			Handler:    _EmbeddingService_GenerateEmbeddingBatch_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "vector_service.proto",
}

// Client API for IndexService
type IndexServiceClient interface {
	SearchIndex(ctx context.Context, in *SearchIndexRequest, opts ...grpc.CallOption) (*SearchIndexResponse, error)
	GetIndexInfo(ctx context.Context, in *IndexInfoRequest, opts ...grpc.CallOption) (*IndexInfoResponse, error)
	ReloadIndex(ctx context.Context, in *ReloadIndexRequest, opts ...grpc.CallOption) (*ReloadIndexResponse, error)
}

type indexServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewIndexServiceClient(cc grpc.ClientConnInterface) IndexServiceClient {
	return &indexServiceClient{cc}
}

func (c *indexServiceClient) SearchIndex(ctx context.Context, in *SearchIndexRequest, opts ...grpc.CallOption) (*SearchIndexResponse, error) {
	out := new(SearchIndexResponse)
	err := c.cc.Invoke(ctx, "/vector.IndexService/SearchIndex", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *indexServiceClient) GetIndexInfo(ctx context.Context, in *IndexInfoRequest, opts ...grpc.CallOption) (*IndexInfoResponse, error) {
	out := new(IndexInfoResponse)
	err := c.cc.Invoke(ctx, "/vector.IndexService/GetIndexInfo", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *indexServiceClient) ReloadIndex(ctx context.Context, in *ReloadIndexRequest, opts ...grpc.CallOption) (*ReloadIndexResponse, error) {
	out := new(ReloadIndexResponse)
	err := c.cc.Invoke(ctx, "/vector.IndexService/ReloadIndex", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Server API for IndexService
type IndexServiceServer interface {
	SearchIndex(context.Context, *SearchIndexRequest) (*SearchIndexResponse, error)
	GetIndexInfo(context.Context, *IndexInfoRequest) (*IndexInfoResponse, error)
	ReloadIndex(context.Context, *ReloadIndexRequest) (*ReloadIndexResponse, error)
}

// UnimplementedIndexServiceServer can be embedded for forward compatibility.
type UnimplementedIndexServiceServer struct{}

func (*UnimplementedIndexServiceServer) SearchIndex(context.Context, *SearchIndexRequest) (*SearchIndexResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SearchIndex not implemented")
}

func (*UnimplementedIndexServiceServer) GetIndexInfo(context.Context, *IndexInfoRequest) (*IndexInfoResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetIndexInfo not implemented")
}

func (*UnimplementedIndexServiceServer) ReloadIndex(context.Context, *ReloadIndexRequest) (*ReloadIndexResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ReloadIndex not implemented")
}

func RegisterIndexServiceServer(s *grpc.Server, srv IndexServiceServer) {
	s.RegisterService(&_IndexService_serviceDesc, srv)
}

func _IndexService_SearchIndex_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(SearchIndexRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IndexServiceServer).SearchIndex(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/vector.IndexService/SearchIndex",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(IndexServiceServer).SearchIndex(ctx, req.(*SearchIndexRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _IndexService_GetIndexInfo_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(IndexInfoRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IndexServiceServer).GetIndexInfo(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/vector.IndexService/GetIndexInfo",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(IndexServiceServer).GetIndexInfo(ctx, req.(*IndexInfoRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _IndexService_ReloadIndex_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ReloadIndexRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IndexServiceServer).ReloadIndex(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/vector.IndexService/ReloadIndex",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(IndexServiceServer).ReloadIndex(ctx, req.(*ReloadIndexRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var _IndexService_serviceDesc = grpc.ServiceDesc{
	ServiceName: "vector.IndexService",
	HandlerType: (*IndexServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "SearchIndex",
			Handler:    _IndexService_SearchIndex_Handler,
		},
		{
			MethodName: "GetIndexInfo",
			Handler:    _IndexService_GetIndexInfo_Handler,
		},
		{
			MethodName: "ReloadIndex",
			Handler:    _IndexService_ReloadIndex_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "vector_service.proto",
}
