package image

import (
	"errors"
	"fmt"
	"io"

	"github.com/docker/docker/pkg/jsonmessage"
)

// drainMessages reads a daemon progress stream to the end, echoing it to out.
// An errorDetail message in the stream is returned wrapped in sentinel.
func drainMessages(body io.Reader, out io.Writer, sentinel error) error {
	if out == nil {
		out = io.Discard
	}

	err := jsonmessage.DisplayJSONMessagesStream(body, out, 0, false, nil)
	if err == nil {
		return nil
	}

	var jsonErr *jsonmessage.JSONError
	if errors.As(err, &jsonErr) {
		return fmt.Errorf("%w: %s", sentinel, jsonErr.Message)
	}

	return fmt.Errorf("%w: reading daemon output: %w", sentinel, err)
}
