package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		bucket  string
		key     string
		wantErr bool
	}{
		{"bucket and key", "s3://reports/run-123.json", "reports", "run-123.json", false},
		{"nested key", "s3://reports/ci/staging/run-123.json", "reports", "ci/staging/run-123.json", false},
		{"missing scheme", "reports/run-123.json", "", "", true},
		{"wrong scheme", "https://reports/run.json", "", "", true},
		{"bucket only", "s3://reports", "", "", true},
		{"empty key", "s3://reports/", "", "", true},
		{"empty bucket", "s3:///run.json", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, key, err := ParseURL(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.key, key)
		})
	}
}
