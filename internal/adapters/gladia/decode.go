package gladia

import (
	"encoding/json"
	"fmt"

	"podscribe/internal/core/domain"
)

// Payload shapes of a terminal poll response. The result substructure is
// nested under "result" in current API responses, but older payloads
// carried metadata/transcription at the top level; both are accepted.
type resultEnvelope struct {
	Status        string                `json:"status"`
	ErrorCode     string                `json:"error_code"`
	ErrorMessage  string                `json:"error_message"`
	Result        *resultPayload        `json:"result"`
	Metadata      *metadataPayload      `json:"metadata"`
	Transcription *transcriptionPayload `json:"transcription"`
}

type resultPayload struct {
	Metadata      *metadataPayload      `json:"metadata"`
	Transcription *transcriptionPayload `json:"transcription"`
}

type metadataPayload struct {
	AudioDuration    float64 `json:"audio_duration"`
	DistinctChannels int     `json:"number_of_distinct_channels"`
}

type transcriptionPayload struct {
	Languages  []string           `json:"languages"`
	Utterances []utterancePayload `json:"utterances"`
}

type utterancePayload struct {
	Text       string  `json:"text"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence"`
	Speaker    int     `json:"speaker"`
}

// decodeTranscript performs a tolerant decode of a done payload. Missing
// substructure is recorded as a warning rather than failing the run; a
// partially populated transcript is still a success.
func decodeTranscript(raw []byte) *domain.Transcript {
	transcript := &domain.Transcript{Raw: raw}

	var envelope resultEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		transcript.Warnings = append(transcript.Warnings,
			fmt.Sprintf("result payload is not valid JSON: %v", err))
		return transcript
	}

	metadata := envelope.Metadata
	transcription := envelope.Transcription
	if envelope.Result != nil {
		metadata = envelope.Result.Metadata
		transcription = envelope.Result.Transcription
	}

	if metadata == nil {
		transcript.Warnings = append(transcript.Warnings, "metadata not found in response structure")
	} else {
		transcript.Metadata.AudioDuration = metadata.AudioDuration
		transcript.Metadata.ChannelCount = metadata.DistinctChannels
	}

	if transcription == nil {
		transcript.Warnings = append(transcript.Warnings, "transcription data not found in response structure")
		return transcript
	}

	if len(transcription.Languages) > 0 {
		transcript.Metadata.Language = transcription.Languages[0]
	} else {
		transcript.Warnings = append(transcript.Warnings, "no detected language in response")
	}

	if transcription.Utterances == nil {
		transcript.Warnings = append(transcript.Warnings, "no utterances in response")
		return transcript
	}

	transcript.Utterances = make([]domain.Utterance, 0, len(transcription.Utterances))
	for _, u := range transcription.Utterances {
		transcript.Utterances = append(transcript.Utterances, domain.Utterance{
			Text:       u.Text,
			Start:      u.Start,
			End:        u.End,
			Confidence: u.Confidence,
			Speaker:    u.Speaker,
		})
	}

	return transcript
}

// decodeError extracts the service's error code and message from a
// terminal error payload.
func decodeError(raw []byte) (code, message string) {
	var envelope resultEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return "unknown", "no details provided"
	}
	code, message = envelope.ErrorCode, envelope.ErrorMessage
	if code == "" {
		code = "unknown"
	}
	if message == "" {
		message = "no details provided"
	}
	return code, message
}
