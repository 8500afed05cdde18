// Package liveplay is an optional live-monitor playback sink used by
// the --monitor CLI flag to hear frozen output as it's produced instead
// of only after the output file is written.
package liveplay

/*------------------------------------------------------------------
 *
 * Purpose:	PortAudio output stream sink for monitoring processed
 *		hops in real time. Entirely optional: a Sink is only
 *		opened when the CLI's --monitor flag is given.
 *
 *----------------------------------------------------------------*/

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// Sink is a live-monitor PortAudio output stream.
type Sink struct {
	stream   *portaudio.Stream
	channels int
	buf      []float32
}

// Open starts a PortAudio output stream at sampleRate with the given
// channel count, as a blocking-write stream whose buffer holds hopSize
// interleaved frames per Write.
func Open(sampleRate float64, channels, hopSize int) (*Sink, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("liveplay: initializing PortAudio: %w", err)
	}

	s := &Sink{channels: channels, buf: make([]float32, hopSize*channels)}

	stream, err := portaudio.OpenDefaultStream(0, channels, sampleRate, hopSize, &s.buf)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("liveplay: opening output stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("liveplay: starting output stream: %w", err)
	}

	s.stream = stream
	return s, nil
}

// Write plays one hop's worth of interleaved samples. len(samples) must
// equal hopSize*channels as passed to Open.
func (s *Sink) Write(samples []float64) error {
	for i, v := range samples {
		s.buf[i] = float32(v)
	}

	if err := s.stream.Write(); err != nil {
		return fmt.Errorf("liveplay: writing output stream: %w", err)
	}

	return nil
}

// Close stops playback and releases PortAudio resources.
func (s *Sink) Close() error {
	if s.stream == nil {
		return nil
	}

	err := s.stream.Close()
	portaudio.Terminate()
	s.stream = nil

	if err != nil {
		return fmt.Errorf("liveplay: closing output stream: %w", err)
	}

	return nil
}
