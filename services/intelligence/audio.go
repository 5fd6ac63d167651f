package ai

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"cloud.google.com/go/speech/apiv1/speechpb"
)

const (
	wavePCMFormat   = 1
	opusSampleRate  = 48000
	convertedRate   = 16000
	defaultFilename = "audio.webm"
)

type waveHeader struct {
	RiffTag       [4]byte
	FileSize      uint32
	WaveTag       [4]byte
	FmtTag        [4]byte
	FmtSize       uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

func parseWaveHeader(data []byte) (*waveHeader, error) {
	if len(data) < 44 {
		return nil, errors.New("invalid WAV header length")
	}
	var header waveHeader
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &header); err != nil {
		return nil, err
	}
	if string(header.RiffTag[:]) != "RIFF" || string(header.WaveTag[:]) != "WAVE" {
		return nil, errors.New("missing RIFF/WAVE tags")
	}
	return &header, nil
}

// audioFormat describes how an upload is handed to the recognizer.
type audioFormat struct {
	Encoding   speechpb.RecognitionConfig_AudioEncoding
	SampleRate int32 // 0 lets the recognizer read it from the file header
	Channels   int32
	Convert    bool // transcode to 16 kHz mono PCM first
}

// detectAudioFormat picks a recognizer encoding from the filename hint and,
// for WAV, the header. Anything unrecognised is transcoded with ffmpeg.
func detectAudioFormat(filename string, data []byte) audioFormat {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".wav":
		header, err := parseWaveHeader(data)
		if err != nil || header.AudioFormat != wavePCMFormat || header.BitsPerSample != 16 {
			return audioFormat{Convert: true}
		}
		return audioFormat{
			Encoding:   speechpb.RecognitionConfig_LINEAR16,
			SampleRate: int32(header.SampleRate),
			Channels:   int32(header.NumChannels),
		}
	case ".flac":
		return audioFormat{Encoding: speechpb.RecognitionConfig_FLAC}
	case ".webm":
		return audioFormat{Encoding: speechpb.RecognitionConfig_WEBM_OPUS, SampleRate: opusSampleRate}
	case ".ogg", ".opus":
		return audioFormat{Encoding: speechpb.RecognitionConfig_OGG_OPUS, SampleRate: opusSampleRate}
	default:
		return audioFormat{Convert: true}
	}
}

// convertAudio transcodes data to 16 kHz mono LINEAR16 WAV using ffmpeg.
func convertAudio(ctx context.Context, data []byte, filename string) ([]byte, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, fmt.Errorf("ffmpeg not found in system PATH: %v", err)
	}

	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".bin"
	}
	tempInput, err := os.CreateTemp("", "consultation-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tempInput.Name())
	defer tempInput.Close()

	if _, err := tempInput.Write(data); err != nil {
		return nil, fmt.Errorf("failed to save audio file: %w", err)
	}

	tempOutput, err := os.CreateTemp("", "converted-*.wav")
	if err != nil {
		return nil, fmt.Errorf("failed to create output temp file: %w", err)
	}
	defer os.Remove(tempOutput.Name())
	tempOutput.Close()

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y",
		"-i", tempInput.Name(),
		"-acodec", "pcm_s16le",
		"-ac", "1",
		"-ar", fmt.Sprint(convertedRate),
		tempOutput.Name(),
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg conversion failed: %s", stderr.String())
	}
	return os.ReadFile(tempOutput.Name())
}
