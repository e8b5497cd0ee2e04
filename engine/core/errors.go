package core

import (
	"errors"
)

var (
	ErrSwapchainBooting = errors.New("swapchain resized or recreated, booting")
	ErrNotInitialized   = errors.New("subsystem not initialized")
	ErrUnknownBackend   = errors.New("unknown renderer backend")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrFrameNotStarted  = errors.New("frame not started")
	ErrInvalidAsset     = errors.New("invalid asset")
	ErrUnknown          = errors.New("unknown")
)
