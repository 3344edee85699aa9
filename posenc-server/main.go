// The positional encoding server computes graph positional encodings over gRPC.
// Results are kept in a memory-bounded cache and, for full encodings, on disk
// next to the adjacency table.

package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/juju/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/lynxkite/lynxkite/posenc/pe"
)

func NewServer(defaults pe.Options, matrixCache *MatrixCache) *Server {
	return &Server{matrixCache: matrixCache, defaults: defaults}
}

func (s *Server) Compute(ctx context.Context, in *ComputeRequest) (*ComputeReply, error) {
	opInst := in.Operation
	log.Printf("Computing %v.", opInst.Operation.Class)
	op, exists := operationRepository[opInst.Operation.Class]
	if !exists {
		return nil, errors.NotSupportedf("operation %q", opInst.Operation.Class)
	}
	ea := EntityAccessor{ctx: ctx, opInst: &opInst, server: s}
	if err := op.execute(&ea); err != nil {
		return nil, errors.Annotatef(err, "%v", opInst.Operation.Class)
	}
	if opInst.GUID != "" {
		s.matrixCache.Set(opInst.GUID, ea.result)
	}
	return &ComputeReply{Rows: ea.result.Rows, Cols: ea.result.Cols}, nil
}

func (s *Server) GetMatrix(ctx context.Context, in *GetMatrixRequest) (*GetMatrixReply, error) {
	m, exists := s.matrixCache.Get(in.Guid)
	if !exists {
		return nil, errors.NotFoundf("matrix %v", in.Guid)
	}
	return &GetMatrixReply{Rows: m.Rows, Cols: m.Cols, Data: m.Data}, nil
}

func (s *Server) HasInMemory(ctx context.Context, in *HasInMemoryRequest) (*HasInMemoryReply, error) {
	_, exists := s.matrixCache.Get(in.Guid)
	return &HasInMemoryReply{HasInMemory: exists}, nil
}

func (s *Server) HasOnDisk(ctx context.Context, in *HasOnDiskRequest) (*HasOnDiskReply, error) {
	has, err := pe.HasOnDisk(in.AdjacencyPath, in.Dim)
	if err != nil {
		return nil, err
	}
	return &HasOnDiskReply{HasOnDisk: has}, nil
}

func (s *Server) Clear(ctx context.Context, in *ClearRequest) (*ClearReply, error) {
	switch in.Domain {
	case "Memory":
		s.matrixCache.Clear()
	case "Disk":
		if err := pe.Remove(in.AdjacencyPath, in.Dim); err != nil {
			return nil, err
		}
	default:
		return nil, errors.NotValidf("domain %q", in.Domain)
	}
	return &ClearReply{}, nil
}

func main() {
	port := os.Getenv("POSENC_PORT")
	if port == "" {
		log.Fatalf("Please set POSENC_PORT.")
	}
	debugPort := os.Getenv("POSENC_DEBUG_PORT")
	if debugPort != "" {
		go func() error {
			return http.ListenAndServe(fmt.Sprintf(":%s", debugPort), nil)
		}()
	}
	defaults := pe.DefaultOptions()
	if config := os.Getenv("POSENC_CONFIG"); config != "" {
		var err error
		if defaults, err = pe.LoadConfig(config); err != nil {
			log.Fatalf("failed to read config: %v", err)
		}
	}
	keydir := os.Getenv("POSENC_CERT_DIR")
	var s *grpc.Server
	if keydir != "" {
		creds, err := credentials.NewServerTLSFromFile(keydir+"/cert.pem", keydir+"/private-key.pem")
		if err != nil {
			log.Fatalf("failed to read credentials: %v", err)
		}
		s = grpc.NewServer(grpc.Creds(creds))
	} else {
		s = grpc.NewServer()
	}
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	RegisterPositionalEncoderServer(s, NewServer(defaults, NewMatrixCache(cachedMatricesMaxMem)))
	log.Printf("Positional encoding server listening on port %v", port)
	if err := s.Serve(lis); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
