// Command xr-diag is a diagnostic tool for installers and bug reports: it
// probes the Kinect device, dumps or installs the OpenXR runtime manifest,
// and runs a handshake against internal/xrcore without needing a real
// OpenXR application or loader in the loop.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kinectxr/runtime/internal/device"
	"github.com/kinectxr/runtime/internal/graphics"
	"github.com/kinectxr/runtime/internal/manifest"
	"github.com/kinectxr/runtime/internal/xrcore"
	"github.com/kinectxr/runtime/pkg/xrtypes"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: xr-diag <device|manifest|handshake> [args]")
		return
	}

	switch os.Args[1] {
	case "device":
		testDevice()
	case "manifest":
		testManifest(os.Args[2:])
	case "handshake":
		testHandshake()
	default:
		fmt.Println("Unknown command:", os.Args[1])
	}
}

func testDevice() {
	fmt.Println("=== Probing Kinect device 0 ===")
	dev := device.New()
	handlers := device.FrameHandler{
		OnDepth: func(depth []uint16, timestamp uint32) {},
		OnVideo: func(rgb []byte, timestamp uint32) {},
		OnError: func(err error) { fmt.Printf("stream error: %v\n", err) },
	}
	if err := dev.Initialize(0, handlers); err != nil {
		fmt.Printf("Initialize failed: %v\n", err)
		return
	}
	defer dev.Close()
	fmt.Println("Device initialized:", dev.State())

	angle, err := dev.ReadTilt()
	if err != nil {
		fmt.Printf("ReadTilt failed: %v\n", err)
	} else {
		fmt.Printf("Current tilt angle: %d degrees\n", angle)
	}

	accel, err := dev.ReadAccelerometer()
	if err != nil {
		fmt.Printf("ReadAccelerometer failed: %v\n", err)
	} else {
		fmt.Printf("Accelerometer: x=%.2f y=%.2f z=%.2f m/s^2\n", accel.X, accel.Y, accel.Z)
	}

	fmt.Println("Device probe OK")
}

func testManifest(args []string) {
	if len(args) > 0 && args[0] == "install" {
		if len(args) < 2 {
			fmt.Println("Usage: xr-diag manifest install <library-path>")
			return
		}
		path, err := manifest.Install(args[1])
		if err != nil {
			fmt.Printf("Install failed: %v\n", err)
			return
		}
		fmt.Println("Installed manifest at", path)
		return
	}

	fmt.Println("=== Locating runtime manifest ===")
	path, err := manifest.Locate()
	if err != nil {
		fmt.Printf("Locate failed: %v\n", err)
		return
	}
	m, err := manifest.Read(path)
	if err != nil {
		fmt.Printf("Read failed: %v\n", err)
		return
	}
	b, _ := json.MarshalIndent(m, "", "  ")
	fmt.Println("Path:", path)
	fmt.Println(string(b))
}

func testHandshake() {
	fmt.Println("=== Running loader handshake against the runtime core ===")
	core := xrcore.New()

	instance, result := core.CreateInstance(xrcore.InstanceCreateInfo{
		StructType:      xrcore.StructTypeInstanceCreateInfo,
		ApplicationName: "xr-diag",
		EngineName:      "xr-diag",
		ApiVersion:      xrcore.CurrentApiVersion,
	})
	if !result.IsSuccess() {
		fmt.Printf("CreateInstance failed: %s\n", result.String())
		return
	}
	defer core.DestroyInstance(instance)
	fmt.Println("CreateInstance OK, handle =", instance)

	system, result := core.GetSystem(instance, xrtypes.FormFactorHeadMountedDisplay)
	if !result.IsSuccess() {
		fmt.Printf("GetSystem failed: %s\n", result.String())
		return
	}
	fmt.Println("GetSystem OK, handle =", system)

	props, result := core.GetSystemProperties(system)
	if !result.IsSuccess() {
		fmt.Printf("GetSystemProperties failed: %s\n", result.String())
		return
	}
	fmt.Printf("System: %s (vendor 0x%04X), max swapchain %dx%d\n",
		props.SystemName, props.VendorID, props.MaxSwapchainWidth, props.MaxSwapchainHeight)

	session, result := core.CreateSession(instance, xrcore.SessionCreateInfo{
		StructType: xrcore.StructTypeSessionCreateInfo,
		SystemID:   system,
		Next: &xrcore.GraphicsBindingMetal{
			StructType:   xrcore.StructTypeGraphicsBindingMetal,
			CommandQueue: graphics.CommandQueue(1),
		},
	})
	if !result.IsSuccess() {
		fmt.Printf("CreateSession failed: %s\n", result.String())
		return
	}
	defer core.DestroySession(session)
	fmt.Println("CreateSession OK, handle =", session)

	event, result := core.PollEvent(instance)
	if result.IsSuccess() {
		fmt.Printf("Event: kind=%v session=%v state=%v\n", event.Kind, event.Session, event.State)
	}

	fmt.Println("Handshake OK")
}
