package xrabi

import (
	"github.com/kinectxr/runtime/internal/xrcore"
	"github.com/kinectxr/runtime/pkg/xrtypes"
)

// NegotiateStructureType tags the two records exchanged during loader
// negotiation, mirroring XrNegotiateLoaderInfo/XrNegotiateRuntimeRequest's
// struct-type fields.
type NegotiateStructureType string

const (
	StructTypeLoaderInfo     NegotiateStructureType = "XR_LOADER_INTERFACE_STRUCT_LOADER_INFO"
	StructTypeRuntimeRequest NegotiateStructureType = "XR_LOADER_INTERFACE_STRUCT_RUNTIME_REQUEST"
)

// CurrentLoaderInterfaceVersion is the only loader-runtime interface
// version this runtime speaks.
const CurrentLoaderInterfaceVersion uint32 = 1

// loaderInfoStructSize and runtimeRequestStructSize are the sizes
// cmd/kinect-openxr-runtime's cgo layer reads out of the real C structs
// before populating NegotiateLoaderInfo; checked here as part of
// structure-tag validation.
const (
	loaderInfoStructSize     uint64 = 40
	runtimeRequestStructSize uint64 = 24
)

// NegotiateLoaderInfo mirrors the fields of XrNegotiateLoaderInfo the
// loader passes into NegotiateLoaderRuntimeInterface.
type NegotiateLoaderInfo struct {
	StructType          NegotiateStructureType
	StructVersion       uint32
	StructSize          uint64
	MinInterfaceVersion uint32
	MaxInterfaceVersion uint32
	MinApiVersion       uint64
	MaxApiVersion       uint64
}

// NegotiateRuntimeRequest mirrors the fields of XrNegotiateRuntimeRequest
// this runtime fills in on a successful negotiation. The loader's
// GetInstanceProcAddr function pointer itself is filled in by
// cmd/kinect-openxr-runtime, which is the only package holding an actual
// C function pointer.
type NegotiateRuntimeRequest struct {
	StructType              NegotiateStructureType
	StructVersion           uint32
	StructSize              uint64
	RuntimeInterfaceVersion uint32
	RuntimeApiVersion       uint64
}

// Negotiate validates info's structure tag, version, size, and
// interface/API version ranges against what this runtime supports, and
// on success returns the filled runtime-request record. Any mismatch
// returns InitializationFailed.
func Negotiate(info NegotiateLoaderInfo) (NegotiateRuntimeRequest, xrtypes.Result) {
	if info.StructType != StructTypeLoaderInfo {
		return NegotiateRuntimeRequest{}, xrtypes.ErrInitializationFailed
	}
	if info.StructVersion != CurrentLoaderInterfaceVersion {
		return NegotiateRuntimeRequest{}, xrtypes.ErrInitializationFailed
	}
	if info.StructSize != loaderInfoStructSize {
		return NegotiateRuntimeRequest{}, xrtypes.ErrInitializationFailed
	}
	if CurrentLoaderInterfaceVersion < info.MinInterfaceVersion || CurrentLoaderInterfaceVersion > info.MaxInterfaceVersion {
		return NegotiateRuntimeRequest{}, xrtypes.ErrInitializationFailed
	}
	if xrcore.CurrentApiVersion < info.MinApiVersion || xrcore.CurrentApiVersion > info.MaxApiVersion {
		return NegotiateRuntimeRequest{}, xrtypes.ErrInitializationFailed
	}

	return NegotiateRuntimeRequest{
		StructType:              StructTypeRuntimeRequest,
		StructVersion:           CurrentLoaderInterfaceVersion,
		StructSize:              runtimeRequestStructSize,
		RuntimeInterfaceVersion: CurrentLoaderInterfaceVersion,
		RuntimeApiVersion:       xrcore.CurrentApiVersion,
	}, xrtypes.Success
}
