package clients

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAPIMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		fallback string
		want     string
	}{
		{
			name:     "plain string detail",
			err:      &APIError{StatusCode: 400, Body: []byte(`{"detail":"Session has not started"}`)},
			fallback: "fallback",
			want:     "Session has not started",
		},
		{
			name:     "validation list takes first message",
			err:      &APIError{StatusCode: 422, Body: []byte(`{"detail":[{"msg":"email is invalid"},{"msg":"code required"}]}`)},
			fallback: "fallback",
			want:     "email is invalid",
		},
		{
			name:     "empty detail falls back",
			err:      &APIError{StatusCode: 400, Body: []byte(`{"detail":""}`)},
			fallback: "fallback",
			want:     "fallback",
		},
		{
			name:     "unparseable body falls back",
			err:      &APIError{StatusCode: 500, Body: []byte(`<html>oops</html>`)},
			fallback: "fallback",
			want:     "fallback",
		},
		{
			name:     "empty validation list falls back",
			err:      &APIError{StatusCode: 422, Body: []byte(`{"detail":[]}`)},
			fallback: "fallback",
			want:     "fallback",
		},
		{
			name:     "non-API error falls back",
			err:      errors.New("connection refused"),
			fallback: "fallback",
			want:     "fallback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAPIMessage(tt.err, tt.fallback))
		})
	}
}
