package transcribe

import (
	"bytes"
	"context"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// ITranscriber is the transcript-only fallback used when the recognition
// service is down. It returns raw text and nothing else: command mapping
// stays with the recognition backend, so fallback results never match.
type ITranscriber interface {
	TranscribeSample(ctx context.Context, sample []byte, filename string, language string) (string, error)
}

type transcriptionService struct {
	client *openai.Client
}

func New() ITranscriber {
	client := openai.NewClient(os.Getenv("OPENAI_API_KEY"))
	return &transcriptionService{client: client}
}

func (t *transcriptionService) TranscribeSample(ctx context.Context, sample []byte, filename string, language string) (string, error) {
	req := openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: filename,
		Reader:   bytes.NewReader(sample),
		Language: language,
	}

	resp, err := t.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", err
	}

	return resp.Text, nil
}
