package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const unknownSpeaker = "Unknown"

// TranscriptText flattens a transcription payload into prompt text.
// Diarized payloads become "speaker: text" lines, payloads with only
// "text" use it as is, and a bare JSON string is taken verbatim.
func TranscriptText(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}

	switch trimmed[0] {
	case '{':
		return objectTranscriptText(trimmed)
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidTranscription, err)
		}
		return s, nil
	default:
		return string(trimmed), nil
	}
}

func objectTranscriptText(data []byte) (string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidTranscription, err)
	}

	if rawSegments, ok := fields["segments"]; ok {
		var segments []struct {
			Speaker *string     `json:"speaker"`
			Text    interface{} `json:"text"`
		}
		if err := json.Unmarshal(rawSegments, &segments); err != nil {
			return "", fmt.Errorf("%w: segments: %v", ErrInvalidTranscription, err)
		}
		lines := make([]string, 0, len(segments))
		for _, seg := range segments {
			speaker := unknownSpeaker
			if seg.Speaker != nil {
				speaker = *seg.Speaker
			}
			text := ""
			if seg.Text != nil {
				text = fmt.Sprint(seg.Text)
			}
			lines = append(lines, speaker+": "+text)
		}
		return strings.Join(lines, "\n"), nil
	}

	if rawText, ok := fields["text"]; ok {
		var text interface{}
		if err := json.Unmarshal(rawText, &text); err != nil {
			return "", fmt.Errorf("%w: text: %v", ErrInvalidTranscription, err)
		}
		if text == nil {
			return "", nil
		}
		return fmt.Sprint(text), nil
	}
	return "", nil
}

// BuildSummaryPrompt assembles the encounter-summary request for the model.
func BuildSummaryPrompt(patientName, transcript string) string {
	return fmt.Sprintf(`Based on the following medical consultation transcription, generate a comprehensive encounter summary.

Patient: %s
Transcription:
%s

Please provide a structured encounter summary with the following sections:
1. Visit Summary - Brief overview of the visit
2. Diagnostic Assessment - Assessment and diagnosis
3. Treatment & Care Plan - Treatment plan and medications
4. Automatic Follow-Up - Recommended follow-up duration (e.g., "2 weeks", "1 month", "3 days", "6 months") and reason
5. Patient Instructions - Clear instructions for the patient
6. Follow-Up Questions - Suggest 3-5 relevant questions the doctor can ask the patient during follow-up visits to assess progress, monitor symptoms, or gather additional information

Format as JSON with these exact keys: %s

Note:
- follow_up_duration should be a duration string like "2 weeks" or "1 month", NOT a specific date.
- follow_up_questions should be an array of strings, each representing a suggested question.`,
		patientName, transcript, strings.Join(summaryKeys, ", "))
}
