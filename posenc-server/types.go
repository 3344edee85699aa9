// Types used by the positional encoding server.
package main

import (
	"github.com/juju/errors"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lynxkite/lynxkite/posenc/pe"
)

type Server struct {
	matrixCache *MatrixCache
	// Parameters missing from a request are taken from here.
	defaults pe.Options
}

// GUID names a computed matrix in the memory cache.
type GUID string

type OperationDescription struct {
	Class string
	Data  map[string]interface{}
}

type OperationInstance struct {
	GUID      GUID
	Operation OperationDescription
}

// Requests and replies travel as google.protobuf.Struct messages with
// lowerCamelCase fields. Missing fields take their zero value.
type fields map[string]interface{}

func (f fields) str(name string) (string, error) {
	v, exists := f[name]
	if !exists || v == nil {
		return "", nil
	}
	return asString(name, v)
}

func (f fields) int(name string) (int, error) {
	v, exists := f[name]
	if !exists || v == nil {
		return 0, nil
	}
	return asInt(name, v)
}

type ComputeRequest struct {
	Operation OperationInstance
}

// The request looks like {"guid": ..., "operation": {"class": ..., "data": {...}}}.
func (r *ComputeRequest) fromStruct(s *structpb.Struct) error {
	f := fields(s.AsMap())
	guid, err := f.str("guid")
	if err != nil {
		return err
	}
	op, ok := f["operation"].(map[string]interface{})
	if !ok {
		return errors.NotValidf("compute request without operation")
	}
	class, err := fields(op).str("class")
	if err != nil {
		return err
	}
	data, ok := op["data"].(map[string]interface{})
	if !ok && op["data"] != nil {
		return errors.NotValidf("operation data %v", op["data"])
	}
	r.Operation = OperationInstance{
		GUID:      GUID(guid),
		Operation: OperationDescription{Class: class, Data: data},
	}
	return nil
}

type ComputeReply struct {
	Rows int
	Cols int
}

func (r *ComputeReply) toStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{"rows": r.Rows, "cols": r.Cols})
}

type GetMatrixRequest struct {
	Guid GUID
}

func (r *GetMatrixRequest) fromStruct(s *structpb.Struct) error {
	guid, err := fields(s.AsMap()).str("guid")
	r.Guid = GUID(guid)
	return err
}

type GetMatrixReply struct {
	Rows int
	Cols int
	// Row-major values.
	Data []float64
}

func (r *GetMatrixReply) toStruct() (*structpb.Struct, error) {
	data := make([]interface{}, len(r.Data))
	for i, v := range r.Data {
		data[i] = v
	}
	return structpb.NewStruct(map[string]interface{}{"rows": r.Rows, "cols": r.Cols, "data": data})
}

type HasInMemoryRequest struct {
	Guid GUID
}

func (r *HasInMemoryRequest) fromStruct(s *structpb.Struct) error {
	guid, err := fields(s.AsMap()).str("guid")
	r.Guid = GUID(guid)
	return err
}

type HasInMemoryReply struct {
	HasInMemory bool
}

func (r *HasInMemoryReply) toStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{"hasInMemory": r.HasInMemory})
}

type HasOnDiskRequest struct {
	AdjacencyPath string
	Dim           int
}

func (r *HasOnDiskRequest) fromStruct(s *structpb.Struct) error {
	f := fields(s.AsMap())
	var err error
	if r.AdjacencyPath, err = f.str("adjacencyPath"); err != nil {
		return err
	}
	r.Dim, err = f.int("dim")
	return err
}

type HasOnDiskReply struct {
	HasOnDisk bool
}

func (r *HasOnDiskReply) toStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{"hasOnDisk": r.HasOnDisk})
}

// ClearRequest drops the memory cache (Domain "Memory") or one cached
// encoding on disk (Domain "Disk").
type ClearRequest struct {
	Domain        string
	AdjacencyPath string
	Dim           int
}

func (r *ClearRequest) fromStruct(s *structpb.Struct) error {
	f := fields(s.AsMap())
	var err error
	if r.Domain, err = f.str("domain"); err != nil {
		return err
	}
	if r.AdjacencyPath, err = f.str("adjacencyPath"); err != nil {
		return err
	}
	r.Dim, err = f.int("dim")
	return err
}

type ClearReply struct{}

func (r *ClearReply) toStruct() (*structpb.Struct, error) {
	return &structpb.Struct{}, nil
}
