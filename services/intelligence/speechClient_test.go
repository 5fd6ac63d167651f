package ai

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"
	"time"

	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/durationpb"
)

func word(text string, tag int32, start, end float64) *speechpb.WordInfo {
	return &speechpb.WordInfo{
		Word:       text,
		SpeakerTag: tag,
		StartTime:  durationpb.New(time.Duration(start * float64(time.Second))),
		EndTime:    durationpb.New(time.Duration(end * float64(time.Second))),
	}
}

func TestBuildTranscriptionGroupsSpeakers(t *testing.T) {
	results := []*speechpb.SpeechRecognitionResult{
		{Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: "How are you feeling today I have a cough"}}},
		{
			LanguageCode: "en-us",
			Alternatives: []*speechpb.SpeechRecognitionAlternative{{
				Words: []*speechpb.WordInfo{
					word("How", 1, 0, 0.3),
					word("are", 1, 0.3, 0.5),
					word("you?", 1, 0.5, 0.9),
					word("I", 2, 1.2, 1.3),
					word("have", 2, 1.3, 1.5),
					word("a", 2, 1.5, 1.6),
					word("cough.", 2, 1.6, 2.1),
					word("Since", 1, 2.5, 2.8),
					word("when?", 1, 2.8, 3.2),
				},
			}},
		},
	}

	got := buildTranscription(results, "en-US")

	require.Len(t, got.Segments, 3)
	assert.Equal(t, "A", got.Segments[0].Speaker)
	assert.Equal(t, "How are you?", got.Segments[0].Text)
	assert.Equal(t, "B", got.Segments[1].Speaker)
	assert.Equal(t, "I have a cough.", got.Segments[1].Text)
	assert.InDelta(t, 1.2, got.Segments[1].Start, 0.001)
	assert.InDelta(t, 2.1, got.Segments[1].End, 0.001)
	assert.Equal(t, "seg_2", got.Segments[2].ID)
	assert.InDelta(t, 3.2, got.Duration, 0.001)
	assert.Equal(t, "How are you? I have a cough. Since when?", got.Text)
	assert.Equal(t, "en-us", got.Language)
}

func TestBuildTranscriptionWithoutDiarization(t *testing.T) {
	results := []*speechpb.SpeechRecognitionResult{
		{Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: "first part"}}},
		{Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: " second part "}}},
		{},
	}

	got := buildTranscription(results, "en-US")
	assert.Empty(t, got.Segments)
	assert.NotNil(t, got.Segments)
	assert.Equal(t, "first part second part", got.Text)
	assert.Equal(t, "en-US", got.Language)
}

func TestSpeakerLabel(t *testing.T) {
	assert.Equal(t, "A", speakerLabel(1))
	assert.Equal(t, "C", speakerLabel(3))
	assert.Equal(t, "Unknown", speakerLabel(0))
}

func pcmWave(t *testing.T, format, bits uint16, rate uint32) []byte {
	t.Helper()
	var buf bytes.Buffer
	h := waveHeader{
		FmtSize:       16,
		AudioFormat:   format,
		NumChannels:   1,
		SampleRate:    rate,
		ByteRate:      rate * 2,
		BlockAlign:    2,
		BitsPerSample: bits,
	}
	copy(h.RiffTag[:], "RIFF")
	copy(h.WaveTag[:], "WAVE")
	copy(h.FmtTag[:], "fmt ")
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, h))
	buf.WriteString("data")
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(0)))
	return buf.Bytes()
}

func TestDetectAudioFormat(t *testing.T) {
	pcm := detectAudioFormat("visit.wav", pcmWave(t, 1, 16, 44100))
	assert.False(t, pcm.Convert)
	assert.Equal(t, speechpb.RecognitionConfig_LINEAR16, pcm.Encoding)
	assert.Equal(t, int32(44100), pcm.SampleRate)
	assert.Equal(t, int32(1), pcm.Channels)

	ieee := detectAudioFormat("visit.wav", pcmWave(t, 3, 32, 44100))
	assert.True(t, ieee.Convert)

	assert.True(t, detectAudioFormat("visit.wav", []byte("short")).Convert)
	assert.Equal(t, speechpb.RecognitionConfig_WEBM_OPUS, detectAudioFormat("recording.webm", nil).Encoding)
	assert.Equal(t, speechpb.RecognitionConfig_OGG_OPUS, detectAudioFormat("recording.OGG", nil).Encoding)
	assert.Equal(t, speechpb.RecognitionConfig_FLAC, detectAudioFormat("recording.flac", nil).Encoding)
	assert.True(t, detectAudioFormat("recording.m4a", nil).Convert)
}

func TestParseWaveHeader(t *testing.T) {
	h, err := parseWaveHeader(pcmWave(t, 1, 16, 16000))
	require.NoError(t, err)
	assert.Equal(t, uint32(16000), h.SampleRate)

	bad := pcmWave(t, 1, 16, 16000)
	copy(bad[0:4], "JUNK")
	_, err = parseWaveHeader(bad)
	assert.Error(t, err)
}

func stubTranscriber(converted []byte, calls *int) *GoogleTranscriber {
	return &GoogleTranscriber{
		cfg:    SpeechConfig{Language: "en-US", MaxSpeakers: 2},
		logger: zap.NewNop(),
		convert: func(ctx context.Context, data []byte, filename string) ([]byte, error) {
			return converted, nil
		},
		recognize: func(ctx context.Context, req *speechpb.LongRunningRecognizeRequest) (*speechpb.LongRunningRecognizeResponse, error) {
			*calls++
			return &speechpb.LongRunningRecognizeResponse{}, nil
		},
	}
}

func TestTranscribeRejectsOversizedConvertedAudio(t *testing.T) {
	calls := 0
	g := stubTranscriber(make([]byte, MaxInlineAudioBytes+1), &calls)

	_, err := g.Transcribe(context.Background(), []byte("small m4a"), "visit.m4a")
	assert.ErrorIs(t, err, ErrAudioTooLarge)
	assert.Contains(t, err.Error(), "after conversion")
	assert.Zero(t, calls)
}

func TestTranscribeSendsConvertedAudio(t *testing.T) {
	calls := 0
	g := stubTranscriber(make([]byte, 1024), &calls)

	var sent *speechpb.LongRunningRecognizeRequest
	g.recognize = func(ctx context.Context, req *speechpb.LongRunningRecognizeRequest) (*speechpb.LongRunningRecognizeResponse, error) {
		sent = req
		return &speechpb.LongRunningRecognizeResponse{}, nil
	}

	got, err := g.Transcribe(context.Background(), []byte("small m4a"), "visit.m4a")
	require.NoError(t, err)
	assert.NotNil(t, got)
	require.NotNil(t, sent)
	assert.Equal(t, speechpb.RecognitionConfig_LINEAR16, sent.GetConfig().GetEncoding())
	assert.Equal(t, int32(convertedRate), sent.GetConfig().GetSampleRateHertz())
	assert.Len(t, sent.GetAudio().GetContent(), 1024)
}
