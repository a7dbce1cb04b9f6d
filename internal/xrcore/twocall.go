package xrcore

import "github.com/kinectxr/runtime/pkg/xrtypes"

// twoCall implements the standard OpenXR enumeration contract: a first
// call with capacityInput == 0 reports the count with no data returned;
// a call with an insufficient capacity reports SizeInsufficient; a call
// with sufficient capacity returns the first count entries and Success.
func twoCall[T any](capacityInput int, items []T) (countOutput int, output []T, result xrtypes.Result) {
	countOutput = len(items)
	switch {
	case capacityInput == 0:
		return countOutput, nil, xrtypes.Success
	case capacityInput < countOutput:
		return countOutput, nil, xrtypes.ErrSizeInsufficient
	default:
		return countOutput, items, xrtypes.Success
	}
}
