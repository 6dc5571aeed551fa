package lapp_test

import (
	"testing"
	"time"

	"github.com/advdv/lhttp/lapp"
	"github.com/stretchr/testify/assert"
)

func TestTimeoutConfig_ServerTimeouts(t *testing.T) {
	headroom := lapp.DefaultTimeoutHeadroom // 2s

	tests := []struct {
		name                  string
		requestTimeout        time.Duration
		headroom              time.Duration
		wantReadHeaderTimeout time.Duration
		wantReadTimeout       time.Duration
		wantWriteTimeout      time.Duration
		wantIdleTimeout       time.Duration
	}{
		{
			name:                  "short request timeout (1s) uses default headroom",
			requestTimeout:        1 * time.Second,
			headroom:              0, // use default
			wantReadHeaderTimeout: 3 * time.Second,
			wantReadTimeout:       3 * time.Second,
			wantWriteTimeout:      3 * time.Second,
			wantIdleTimeout:       6 * time.Second,
		},
		{
			name:                  "typical request timeout (30s) uses default headroom",
			requestTimeout:        30 * time.Second,
			headroom:              0,
			wantReadHeaderTimeout: 5 * time.Second, // capped at 5s
			wantReadTimeout:       30*time.Second + headroom,
			wantWriteTimeout:      30*time.Second + headroom,
			wantIdleTimeout:       2 * (30*time.Second + headroom),
		},
		{
			name:                  "custom headroom (1s)",
			requestTimeout:        30 * time.Second,
			headroom:              1 * time.Second,
			wantReadHeaderTimeout: 5 * time.Second,
			wantReadTimeout:       31 * time.Second,
			wantWriteTimeout:      31 * time.Second,
			wantIdleTimeout:       62 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := lapp.TimeoutConfig{
				RequestTimeout: tt.requestTimeout,
				Headroom:       tt.headroom,
			}

			readHeader, read, write, idle := tc.ServerTimeouts()

			assert.Equal(t, tt.wantReadHeaderTimeout, readHeader)
			assert.Equal(t, tt.wantReadTimeout, read)
			assert.Equal(t, tt.wantWriteTimeout, write)
			assert.Equal(t, tt.wantIdleTimeout, idle)
		})
	}
}
