package assets

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// throttledReader paces reads through a token-bucket limiter so asset
// downloads do not saturate the link of a serving process.
type throttledReader struct {
	r       io.Reader
	limiter *rate.Limiter
	ctx     context.Context
}

func (t *throttledReader) Read(p []byte) (int, error) {
	// Never request more tokens than the bucket can hold.
	if burst := t.limiter.Burst(); len(p) > burst {
		p = p[:burst]
	}

	n, err := t.r.Read(p)
	if n > 0 {
		if waitErr := t.limiter.WaitN(t.ctx, n); waitErr != nil {
			return n, waitErr
		}
	}
	return n, err
}
