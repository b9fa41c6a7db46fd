// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package media reads container and stream metadata from media files.
//
// Files are sniffed by their leading bytes before being handed to FFmpeg
// (through reisen), so non-media input is rejected without opening a
// demuxer. The resulting Report only exposes validated values: rationals
// with a zero denominator and negative durations read as unknown.
package media
