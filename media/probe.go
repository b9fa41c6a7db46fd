// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package media

import (
	"errors"
	"fmt"

	"github.com/cogentcore/reisen"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"

	"github.com/gogpu/hellowindow"
)

var (
	// ErrNoInput is returned when no path is given.
	ErrNoInput = errors.New("media: no input file")

	// ErrNotMedia is returned for files that are neither audio nor video.
	ErrNotMedia = errors.New("media: not an audio or video file")
)

// Sniff identifies the container of path from its leading bytes.
func Sniff(path string) (types.Type, error) {
	if path == "" {
		return filetype.Unknown, ErrNoInput
	}
	kind, err := filetype.MatchFile(path)
	if err != nil {
		return filetype.Unknown, fmt.Errorf("media: sniff %s: %w", path, err)
	}
	if kind.MIME.Type != "video" && kind.MIME.Type != "audio" {
		return kind, fmt.Errorf("%w: %s is %q", ErrNotMedia, path, kind.MIME.Value)
	}
	return kind, nil
}

// Probe opens path with FFmpeg and collects its metadata. The file is
// sniffed first.
func Probe(path string) (*Report, error) {
	kind, err := Sniff(path)
	if err != nil {
		return nil, err
	}

	m, err := reisen.NewMedia(path)
	if err != nil {
		return nil, fmt.Errorf("media: open %s: %w", path, err)
	}
	defer m.Close()

	r := &Report{
		Path:   path,
		Format: m.FormatName(),
		MIME:   kind.MIME.Value,
	}
	if d, err := m.Duration(); err == nil {
		r.Duration = d
	}
	for _, s := range m.Streams() {
		r.Streams = append(r.Streams, streamInfo(s))
	}
	hellowindow.Logger().Debug("media probed",
		"path", path,
		"format", r.Format,
		"streams", len(r.Streams))
	return r, nil
}

func streamInfo(s reisen.Stream) Stream {
	info := Stream{
		Index:     s.Index(),
		Kind:      kindOf(s.Type()),
		Codec:     s.CodecName(),
		CodecLong: s.CodecLongName(),
		BitRate:   s.BitRate(),
	}
	info.TimeBase.Num, info.TimeBase.Den = s.TimeBase()
	info.FrameRate.Num, info.FrameRate.Den = s.FrameRate()
	if d, err := s.Duration(); err == nil && d > 0 {
		info.Duration = d
	}
	switch v := s.(type) {
	case *reisen.VideoStream:
		info.Width, info.Height = v.Width(), v.Height()
	case *reisen.AudioStream:
		info.SampleRate, info.Channels = v.SampleRate(), v.ChannelCount()
	}
	return info
}

func kindOf(t reisen.StreamType) Kind {
	switch t {
	case reisen.StreamVideo:
		return KindVideo
	case reisen.StreamAudio:
		return KindAudio
	default:
		return KindUnknown
	}
}
