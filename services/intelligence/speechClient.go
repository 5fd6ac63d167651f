package ai

import (
	"context"
	"fmt"
	"strings"

	"beamhealth/models"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const speechProvider = "speech"

// MaxInlineAudioBytes is the largest payload Speech-to-Text accepts as
// inline content.
const MaxInlineAudioBytes = 10 << 20

// Transcriber turns consultation audio into a diarized transcription.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (*models.Transcription, error)
}

// SpeechConfig tunes the Google recognizer.
type SpeechConfig struct {
	Language    string
	Model       string
	MaxSpeakers int
}

// GoogleTranscriber calls Google Cloud Speech-to-Text with speaker diarization.
type GoogleTranscriber struct {
	client *speech.Client
	cfg    SpeechConfig
	logger *zap.Logger

	convert   func(ctx context.Context, data []byte, filename string) ([]byte, error)
	recognize func(ctx context.Context, req *speechpb.LongRunningRecognizeRequest) (*speechpb.LongRunningRecognizeResponse, error)
}

// NewGoogleTranscriber creates the speech client once for the process lifetime.
func NewGoogleTranscriber(ctx context.Context, credentialsFile string, cfg SpeechConfig, logger *zap.Logger) (*GoogleTranscriber, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize speech client: %w", err)
	}
	if cfg.MaxSpeakers < 1 {
		cfg.MaxSpeakers = 2
	}
	g := &GoogleTranscriber{client: client, cfg: cfg, logger: logger, convert: convertAudio}
	g.recognize = g.longRunningRecognize
	return g, nil
}

func (g *GoogleTranscriber) Close() error {
	return g.client.Close()
}

func (g *GoogleTranscriber) Transcribe(ctx context.Context, audio []byte, filename string) (*models.Transcription, error) {
	format := detectAudioFormat(filename, audio)
	if format.Convert {
		g.logger.Debug("Converting audio before recognition", zap.String("filename", filename))
		converted, err := g.convert(ctx, audio, filename)
		if err != nil {
			return nil, newProviderError(speechProvider, fmt.Errorf("audio conversion failed: %w", err))
		}
		audio = converted
		format = audioFormat{Encoding: speechpb.RecognitionConfig_LINEAR16, SampleRate: convertedRate, Channels: 1}
	}
	if len(audio) > MaxInlineAudioBytes {
		return nil, fmt.Errorf("%w: %d bytes after conversion, the recognizer accepts at most %d; upload a shorter or compressed (webm, ogg, flac) recording",
			ErrAudioTooLarge, len(audio), MaxInlineAudioBytes)
	}

	req := &speechpb.LongRunningRecognizeRequest{
		Config: g.recognitionConfig(format),
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	}

	resp, err := g.recognize(ctx, req)
	if err != nil {
		return nil, newProviderError(speechProvider, fmt.Errorf("speech recognition failed: %w", err))
	}
	return buildTranscription(resp.GetResults(), g.cfg.Language), nil
}

func (g *GoogleTranscriber) longRunningRecognize(ctx context.Context, req *speechpb.LongRunningRecognizeRequest) (*speechpb.LongRunningRecognizeResponse, error) {
	op, err := g.client.LongRunningRecognize(ctx, req)
	if err != nil {
		return nil, err
	}
	return op.Wait(ctx)
}

func (g *GoogleTranscriber) recognitionConfig(format audioFormat) *speechpb.RecognitionConfig {
	cfg := &speechpb.RecognitionConfig{
		Encoding:                   format.Encoding,
		SampleRateHertz:            format.SampleRate,
		AudioChannelCount:          format.Channels,
		LanguageCode:               g.cfg.Language,
		EnableAutomaticPunctuation: true,
		EnableWordTimeOffsets:      true,
		DiarizationConfig: &speechpb.SpeakerDiarizationConfig{
			EnableSpeakerDiarization: true,
			MinSpeakerCount:          1,
			MaxSpeakerCount:          int32(g.cfg.MaxSpeakers),
		},
	}
	if g.cfg.Model != "" {
		cfg.Model = g.cfg.Model
	}
	return cfg
}

// buildTranscription groups diarized words into speaker turns. With
// diarization on, the final result carries every word tagged with its
// speaker; earlier results only carry the running transcript.
func buildTranscription(results []*speechpb.SpeechRecognitionResult, language string) *models.Transcription {
	out := &models.Transcription{Segments: []models.TranscriptSegment{}, Language: language}

	var (
		plain []string
		words []*speechpb.WordInfo
	)
	for _, result := range results {
		if result.GetLanguageCode() != "" {
			out.Language = result.GetLanguageCode()
		}
		alts := result.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		if tagged := alts[0].GetWords(); len(tagged) > 0 && tagged[0].GetSpeakerTag() > 0 {
			words = tagged
			continue
		}
		if t := strings.TrimSpace(alts[0].GetTranscript()); t != "" {
			plain = append(plain, t)
		}
	}

	for _, w := range words {
		speaker := speakerLabel(w.GetSpeakerTag())
		start := w.GetStartTime().AsDuration().Seconds()
		end := w.GetEndTime().AsDuration().Seconds()

		n := len(out.Segments)
		if n > 0 && out.Segments[n-1].Speaker == speaker {
			out.Segments[n-1].Text += " " + w.GetWord()
			out.Segments[n-1].End = end
		} else {
			out.Segments = append(out.Segments, models.TranscriptSegment{
				ID:      fmt.Sprintf("seg_%d", n),
				Speaker: speaker,
				Text:    w.GetWord(),
				Start:   start,
				End:     end,
			})
		}
		if end > out.Duration {
			out.Duration = end
		}
	}

	if len(out.Segments) > 0 {
		texts := make([]string, 0, len(out.Segments))
		for _, seg := range out.Segments {
			texts = append(texts, seg.Text)
		}
		out.Text = strings.Join(texts, " ")
	} else {
		out.Text = strings.Join(plain, " ")
	}
	return out
}

// speakerLabel maps diarization tags 1, 2, ... to "A", "B", ...
func speakerLabel(tag int32) string {
	if tag < 1 || tag > 26 {
		return "Unknown"
	}
	return string(rune('A' + tag - 1))
}
