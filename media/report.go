// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package media

import (
	"fmt"
	"io"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Kind classifies a stream.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindVideo
	KindAudio
)

func (k Kind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindAudio:
		return "audio"
	default:
		return "unknown"
	}
}

// Rational is a fraction as reported by the demuxer.
type Rational struct {
	Num, Den int
}

// Valid reports whether the denominator is non-zero.
func (r Rational) Valid() bool { return r.Den != 0 }

// Float returns the value, or false if r is not valid.
func (r Rational) Float() (float64, bool) {
	if !r.Valid() {
		return 0, false
	}
	return float64(r.Num) / float64(r.Den), true
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// Stream is the metadata of one stream.
type Stream struct {
	Index     int
	Kind      Kind
	Codec     string
	CodecLong string
	TimeBase  Rational
	FrameRate Rational
	Duration  time.Duration
	BitRate   int64

	// Video only.
	Width, Height int

	// Audio only.
	SampleRate, Channels int
}

// Resolution returns the frame size of a video stream.
func (s Stream) Resolution() (w, h int, ok bool) {
	if s.Kind != KindVideo || s.Width <= 0 || s.Height <= 0 {
		return 0, 0, false
	}
	return s.Width, s.Height, true
}

// Audio returns the channel count and sample rate of an audio stream.
func (s Stream) Audio() (channels, sampleRate int, ok bool) {
	if s.Kind != KindAudio || s.Channels <= 0 || s.SampleRate <= 0 {
		return 0, 0, false
	}
	return s.Channels, s.SampleRate, true
}

// Report is the metadata of a media file.
type Report struct {
	Path     string
	Format   string
	MIME     string
	Duration time.Duration
	Streams  []Stream
}

// StreamBitRate returns the sum of the stream bit rates in bits per second.
// The container's own bit rate is not available from the demuxer binding.
func (r *Report) StreamBitRate() int64 {
	var total int64
	for _, s := range r.Streams {
		if s.BitRate > 0 {
			total += s.BitRate
		}
	}
	return total
}

// ByKind returns the streams of kind k in index order.
func (r *Report) ByKind(k Kind) []Stream {
	var out []Stream
	for _, s := range r.Streams {
		if s.Kind == k {
			out = append(out, s)
		}
	}
	return out
}

// Print writes r to w in a human-readable layout. Numbers are formatted for
// tag.
func (r *Report) Print(w io.Writer, tag language.Tag) error {
	p := message.NewPrinter(tag)
	pw := &printer{p: p, w: w}

	pw.printf("Input file: %s\n", r.Path)
	pw.printf("format %s (%s), duration %s, stream bit_rate sum %d\n",
		r.Format, r.MIME, durationString(r.Duration), r.StreamBitRate())
	for _, s := range r.Streams {
		pw.printf("stream %d: %s\n", s.Index, s.Kind)
		pw.printf("\ttime_base %s\n", s.TimeBase)
		if s.FrameRate.Valid() {
			pw.printf("\tframe_rate %s\n", s.FrameRate)
		}
		pw.printf("\tduration %s\n", durationString(s.Duration))
		if w, h, ok := s.Resolution(); ok {
			pw.printf("\tresolution %d x %d\n", w, h)
		}
		if ch, rate, ok := s.Audio(); ok {
			pw.printf("\t%d channels, sample rate %d\n", ch, rate)
		}
		if s.CodecLong != "" {
			pw.printf("\tcodec %s (%s) bit_rate %d\n", s.Codec, s.CodecLong, s.BitRate)
		} else {
			pw.printf("\tcodec %s bit_rate %d\n", s.Codec, s.BitRate)
		}
	}
	return pw.err
}

type printer struct {
	p   *message.Printer
	w   io.Writer
	err error
}

func (pw *printer) printf(format string, args ...any) {
	if pw.err != nil {
		return
	}
	_, pw.err = pw.p.Fprintf(pw.w, format, args...)
}

func durationString(d time.Duration) string {
	if d <= 0 {
		return "unknown"
	}
	return d.Round(time.Millisecond).String()
}
