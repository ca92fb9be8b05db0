package openai

import (
	"bytes"
	"context"

	sdk "github.com/sashabaranov/go-openai"
)

// Transcribe uploads a WAV clip to the audio transcription endpoint
func (c *Client) Transcribe(ctx context.Context, wav []byte) (string, error) {
	var resp sdk.AudioResponse
	err := c.call(ctx, "transcribe", func(ctx context.Context) (err error) {
		resp, err = c.api.CreateTranscription(ctx, sdk.AudioRequest{
			Model:    c.opts.AudioModel,
			FilePath: "audio.wav",
			Reader:   bytes.NewReader(wav),
			Format:   sdk.AudioResponseFormatJSON,
		})
		return err
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}
