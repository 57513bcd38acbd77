// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package surface keeps a display texture in step with a paint.Buffer and
// draws it into host drawing contexts.
//
// The data flow is:
//
//	paint.Buffer (BGRA bytes) -> SyncRegion -> Texture -> Draw -> TextureDrawer
//
// # Region Uploads
//
// SyncRegion uploads only the part of the buffer that intersects the
// visible rectangle. The upload is one contiguous byte range from the
// top-left pixel of the region to its bottom-right pixel, passed with the
// stride of the whole buffer. Textures rebuild each row of the region from
// that stride; a stride equal to the region width would shear the image.
//
// # Backends
//
// A backend is a TextureFactory plus a matching TextureDrawer:
//
//   - ImageFactory / ImageDrawer (this package): in-memory images, scaled
//     with golang.org/x/image/draw
//   - surface/ggsurface: gg image buffers drawn through a gg.Context
//   - surface/halsurface: GPU textures on the wgpu HAL
//
// Backends register in a Registry by name and priority; NewFactory picks
// the best one that initializes with the host's device provider.
//
// # Ownership
//
// A Surface owns its factory and its single texture until Close. The
// texture format is fixed (Format, BGRA8) and the size never changes.
//
// # Errors
//
// Toolkit failures are returned wrapped in ErrTextureCreation,
// ErrTextureUpdate or ErrDraw. There is no retry or partial redraw; hosts
// treat them as fatal for the canvas.
package surface
