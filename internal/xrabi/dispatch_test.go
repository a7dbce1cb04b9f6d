package xrabi

import (
	"testing"

	"github.com/kinectxr/runtime/internal/xrcore"
	"github.com/kinectxr/runtime/pkg/xrtypes"
)

func TestGetInstanceProcAddrUnknownName(t *testing.T) {
	d := NewDispatcher(xrcore.New())
	if _, result := d.GetInstanceProcAddr(xrtypes.NullHandle, "xrNotARealFunction"); result != xrtypes.ErrFunctionUnsupported {
		t.Fatalf("expected ErrFunctionUnsupported, got %v", result)
	}
}

func TestGetInstanceProcAddrInstanceAgnosticAllowsNullHandle(t *testing.T) {
	d := NewDispatcher(xrcore.New())
	id, result := d.GetInstanceProcAddr(xrtypes.NullHandle, "xrCreateInstance")
	if result != xrtypes.Success {
		t.Fatalf("expected Success, got %v", result)
	}
	if id != FuncCreateInstance {
		t.Fatalf("expected FuncCreateInstance, got %v", id)
	}
}

func TestGetInstanceProcAddrRequiresValidInstance(t *testing.T) {
	c := xrcore.New()
	d := NewDispatcher(c)

	if _, result := d.GetInstanceProcAddr(xrtypes.NullHandle, "xrDestroyInstance"); result != xrtypes.ErrHandleInvalid {
		t.Fatalf("expected ErrHandleInvalid for null handle, got %v", result)
	}
	if _, result := d.GetInstanceProcAddr(xrtypes.Handle(9999), "xrDestroyInstance"); result != xrtypes.ErrHandleInvalid {
		t.Fatalf("expected ErrHandleInvalid for unknown handle, got %v", result)
	}

	inst, result := c.CreateInstance(xrcore.InstanceCreateInfo{
		StructType: xrcore.StructTypeInstanceCreateInfo,
		ApiVersion: xrcore.CurrentApiVersion,
	})
	if result != xrtypes.Success {
		t.Fatalf("CreateInstance failed: %v", result)
	}
	id, result := d.GetInstanceProcAddr(inst, "xrDestroyInstance")
	if result != xrtypes.Success {
		t.Fatalf("expected Success for a live instance, got %v", result)
	}
	if id != FuncDestroyInstance {
		t.Fatalf("expected FuncDestroyInstance, got %v", id)
	}
}

func TestFunctionTableCoversEveryRuntimeCoreEntryPoint(t *testing.T) {
	// One entry per public xrcore method name this dispatcher must be able
	// to resolve.
	want := []string{
		"xrGetInstanceProcAddr",
		"xrEnumerateInstanceExtensionProperties",
		"xrEnumerateApiLayerProperties",
		"xrCreateInstance",
		"xrDestroyInstance",
		"xrPollEvent",
		"xrGetSystem",
		"xrGetSystemProperties",
		"xrEnumerateViewConfigurations",
		"xrGetViewConfigurationProperties",
		"xrEnumerateReferenceSpaceTypes",
		"xrGetMetalGraphicsRequirementsKHR",
		"xrCreateSession",
		"xrDestroySession",
		"xrBeginSession",
		"xrEndSession",
		"xrCreateReferenceSpace",
		"xrDestroySpace",
		"xrEnumerateSwapchainFormats",
		"xrCreateSwapchain",
		"xrDestroySwapchain",
		"xrEnumerateSwapchainImages",
		"xrAcquireSwapchainImage",
		"xrWaitSwapchainImage",
		"xrReleaseSwapchainImage",
		"xrWaitFrame",
		"xrBeginFrame",
		"xrEndFrame",
		"xrLocateViews",
	}
	for _, name := range want {
		if _, ok := functionTable[name]; !ok {
			t.Errorf("functionTable missing entry point %q", name)
		}
	}
	if len(functionTable) != len(want) {
		t.Errorf("functionTable has %d entries, want %d", len(functionTable), len(want))
	}
}
