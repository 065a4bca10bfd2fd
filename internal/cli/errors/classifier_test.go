package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind ErrorKind
	}{
		{"nil error", nil, ErrorKind("")},
		{"auth 401", fmt.Errorf("unexpected status code: 401"), ErrorKindAuth},
		{"missing config", fmt.Errorf("MISSING_CONFIG: SUPABASE_URL must be set"), ErrorKindAuth},
		{"connection refused", fmt.Errorf("dial tcp 127.0.0.1:3100: connection refused"), ErrorKindOffline},
		{"timeout", fmt.Errorf("context deadline exceeded (Client.Timeout)"), ErrorKindOffline},
		{"unknown server", fmt.Errorf("unknown server: github"), ErrorKindNotFound},
		{"404", fmt.Errorf("unexpected status code: 404"), ErrorKindNotFound},
		{"cli exit", fmt.Errorf("exit status 2"), ErrorKindCLIExit},
		{"http generic", fmt.Errorf("http: server closed idle connection"), ErrorKindHTTP},
		{"other", fmt.Errorf("something odd happened"), ErrorKindOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := Classify(tt.err)
			assert.Equal(t, tt.kind, classified.Kind)
			if tt.err != nil {
				assert.Equal(t, tt.err.Error(), classified.Message)
				assert.NotEmpty(t, classified.Hint)
			}
		})
	}
}
