// Package config loads transcode job configuration files. Jobs are YAML
// documents decoded strictly: unknown fields are rejected, and unset fields
// receive explicit defaults.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zsiec/transcode/codec"
	"github.com/zsiec/transcode/media"
)

// Job describes one transcode run: where the compressed input comes from,
// where re-encoded output goes, and how each engine session is configured.
type Job struct {
	Input   string  `yaml:"input"`
	Output  string  `yaml:"output"`
	Decoder string  `yaml:"decoder"`
	Encoder Encoder `yaml:"encoder"`
}

// Encoder holds the encode session parameters for a job.
type Encoder struct {
	Codec       string            `yaml:"codec"`
	Width       int               `yaml:"width"`
	Height      int               `yaml:"height"`
	BitRate     int64             `yaml:"bit_rate"`
	FrameRate   int               `yaml:"frame_rate"`
	GOPSize     int               `yaml:"gop_size"`
	MaxBFrames  int               `yaml:"max_b_frames"`
	PixelFormat string            `yaml:"pixel_format"`
	Options     map[string]string `yaml:"options,omitempty"`
}

// Load reads and validates a job file.
func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job file: %w", err)
	}

	var job Job
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&job); err != nil {
		return nil, fmt.Errorf("decode job file: %w", err)
	}

	job.setDefaults()
	if err := job.validate(); err != nil {
		return nil, err
	}
	return &job, nil
}

func (j *Job) setDefaults() {
	if j.Decoder == "" {
		j.Decoder = "mpv"
	}
	if j.Encoder.Codec == "" {
		j.Encoder.Codec = j.Decoder
	}
	if j.Encoder.BitRate == 0 {
		j.Encoder.BitRate = 400_000
	}
	if j.Encoder.FrameRate == 0 {
		j.Encoder.FrameRate = 25
	}
	if j.Encoder.GOPSize == 0 {
		j.Encoder.GOPSize = 12
	}
	if j.Encoder.PixelFormat == "" {
		j.Encoder.PixelFormat = "yuv420p"
	}
}

func (j *Job) validate() error {
	if j.Input == "" {
		return fmt.Errorf("config: input is required")
	}
	if j.Output == "" {
		return fmt.Errorf("config: output is required")
	}
	if j.Encoder.Width <= 0 || j.Encoder.Height <= 0 {
		return fmt.Errorf("config: encoder dimensions %dx%d are invalid",
			j.Encoder.Width, j.Encoder.Height)
	}
	if _, err := media.ParseFormat(j.Encoder.PixelFormat); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// SessionConfig converts the encoder job settings into an engine session
// configuration.
func (e Encoder) SessionConfig() (codec.Config, error) {
	f, err := media.ParseFormat(e.PixelFormat)
	if err != nil {
		return codec.Config{}, err
	}
	return codec.Config{
		Width:       e.Width,
		Height:      e.Height,
		PixelFormat: f,
		BitRate:     e.BitRate,
		FrameRate:   e.FrameRate,
		GOPSize:     e.GOPSize,
		MaxBFrames:  e.MaxBFrames,
		Options:     e.Options,
	}, nil
}
