// Package serialization implements the native .dense checkpoint format.
//
// A .dense file is a single record pairing a model's architecture
// description with its learned parameters:
//
//	Format Structure:
//	  [4 bytes: Magic "DNSE"]
//	  [4 bytes: Version (uint32 LE)]
//	  [4 bytes: Flags (uint32 LE)]
//	  [8 bytes: Header Size (uint64 LE)]
//	  [Header: JSON metadata, including the architecture record]
//	  [Tensor data: raw little-endian bytes, 64-byte aligned]
//
// The JSON header records the input and output dimensionality and the
// ordered hidden-layer widths alongside per-tensor metadata (name, dtype,
// shape, offset, size), so a reader can rebuild a matching model before
// applying the stored parameters. Files are written once and never updated
// in place.
//
// Most callers should use the checkpoint package instead of this one; it
// layers the model reconstruction and exact shape-match contract on top of
// the raw container.
package serialization
