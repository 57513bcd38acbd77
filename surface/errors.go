// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"fmt"
	"image"
)

// Errors returned by Surface and the texture backends.
//
// Every texture or draw failure reported by a toolkit is wrapped in one of
// these. The surface has no degraded mode, so callers treat them as fatal.
var (
	// ErrNilFactory is returned when New is called without a TextureFactory.
	ErrNilFactory = errors.New("surface: nil texture factory")

	// ErrNilBuffer is returned when New is called without a shared buffer.
	ErrNilBuffer = errors.New("surface: nil shared buffer")

	// ErrInvalidDimensions is returned for a buffer with zero area.
	ErrInvalidDimensions = errors.New("surface: invalid dimensions")

	// ErrSurfaceClosed is returned when a closed surface is used.
	ErrSurfaceClosed = errors.New("surface: surface is closed")

	// ErrTextureCreation wraps texture allocation failures.
	ErrTextureCreation = errors.New("surface: texture creation failed")

	// ErrTextureUpdate wraps texture upload failures.
	ErrTextureUpdate = errors.New("surface: texture update failed")

	// ErrDraw wraps blit failures reported by a TextureDrawer.
	ErrDraw = errors.New("surface: draw failed")

	// ErrInvalidScale is returned for a non-positive draw scale.
	ErrInvalidScale = errors.New("surface: scale must be positive")

	// ErrUnsupportedFormat is returned by backends for formats they cannot store.
	ErrUnsupportedFormat = errors.New("surface: unsupported texture format")

	// ErrForeignTexture is returned by a drawer given a texture from another backend.
	ErrForeignTexture = errors.New("surface: texture belongs to another backend")

	// ErrNilTarget is returned by a drawer without a destination.
	ErrNilTarget = errors.New("surface: nil draw target")

	// ErrTextureDestroyed is returned when writing to a destroyed texture.
	ErrTextureDestroyed = errors.New("surface: texture destroyed")

	// ErrInvalidRegion matches every *RegionError.
	ErrInvalidRegion = errors.New("surface: invalid texture region")

	// ErrNoBackendAvailable is returned when no texture backend can be created.
	ErrNoBackendAvailable = errors.New("surface: no backend available")
)

// RegionError describes a WriteRegion call that does not fit its texture
// or whose data is too short for the given stride.
type RegionError struct {
	Region        image.Rectangle
	Width, Height int
	Reason        string
}

func (e *RegionError) Error() string {
	return fmt.Sprintf("surface: region %v in %dx%d texture: %s", e.Region, e.Width, e.Height, e.Reason)
}

// Is reports whether target is ErrInvalidRegion.
func (e *RegionError) Is(target error) bool {
	return target == ErrInvalidRegion
}

// BackendNotFoundError indicates a named backend is not registered.
type BackendNotFoundError struct {
	Name string
}

func (e *BackendNotFoundError) Error() string {
	return "surface: backend not found: " + e.Name
}

// BackendUnavailableError indicates a backend exists but is not available.
type BackendUnavailableError struct {
	Name string
}

func (e *BackendUnavailableError) Error() string {
	return "surface: backend unavailable: " + e.Name
}
