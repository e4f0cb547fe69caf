package aisdk

import (
	"context"
	"errors"
	"io"
)

// ReadStream passes each chunk of stream to fn until the stream ends, fn
// fails or ctx is done. A nil chunk ends the stream like io.EOF. The stream
// is closed before ReadStream returns.
func ReadStream(ctx context.Context, stream StreamInterface, fn func(*StreamChunk) error) error {
	defer stream.Close()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		chunk, err := stream.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if chunk == nil {
			return nil
		}

		if err := fn(chunk); err != nil {
			return err
		}
	}
}

// StreamAggregator collects the metadata of a streamed reply. Content is
// not kept here; fragments belong to the session accumulator.
type StreamAggregator struct {
	ID      string
	Created int64
	Model   string

	FinishReason string
	Usage        *Usage
	Chunks       int
	Bytes        int
}

// NewStreamAggregator creates a new stream aggregator.
func NewStreamAggregator() *StreamAggregator {
	return &StreamAggregator{}
}

// AddChunk processes a stream chunk and updates the aggregated state.
func (a *StreamAggregator) AddChunk(chunk *StreamChunk) {
	if chunk == nil {
		return
	}
	if a.ID == "" {
		a.ID = chunk.ID
	}
	if a.Created == 0 {
		a.Created = chunk.Created
	}
	if a.Model == "" {
		a.Model = chunk.Model
	}
	if chunk.Usage != nil {
		a.Usage = chunk.Usage
	}

	a.Chunks++
	a.Bytes += len(chunk.Fragment())

	if len(chunk.Choices) > 0 && chunk.Choices[0].FinishReason != "" {
		a.FinishReason = chunk.Choices[0].FinishReason
	}
}
