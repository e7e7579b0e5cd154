package requestcontext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	assert.Empty(t, RequestID(context.Background()))

	ctx := WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", RequestID(ctx))

	ctx = context.WithValue(context.Background(), ContextKeyRequestID, 42)
	assert.Empty(t, RequestID(ctx), "non-string values are ignored")
}
