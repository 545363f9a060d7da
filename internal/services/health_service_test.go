package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikepulse/internal/dataset"
)

type fakeHub struct{ clients int }

func (f fakeHub) ClientCount() int { return f.clients }

func TestHealthService_ReadinessCheck(t *testing.T) {
	tests := []struct {
		name       string
		data       DatasetProbe
		wantStatus string
	}{
		{
			name:       "dataset loads",
			data:       newTestService(&fakeSource{tables: sampleTables()}),
			wantStatus: "ready",
		},
		{
			name:       "dataset fails",
			data:       newTestService(&fakeSource{err: &dataset.LoadError{Path: "day.csv", Err: errors.New("gone")}}),
			wantStatus: "not_ready",
		},
		{
			name:       "no dataset",
			data:       nil,
			wantStatus: "not_ready",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hs := NewHealthService(BuildInfo{Version: "1.2.3"}, tt.data, fakeHub{clients: 2}, quietLogger())
			status := hs.ReadinessCheck(context.Background())
			assert.Equal(t, tt.wantStatus, status.Status)
			assert.Equal(t, "1.2.3", status.Version)
			require.Contains(t, status.Services, "data")
			require.Contains(t, status.Services, "websocket")
		})
	}
}

func TestHealthService_Version(t *testing.T) {
	hs := NewHealthService(BuildInfo{Version: "1.2.3", BuildTime: "2024-01-01", BuildID: "abc"}, nil, nil, quietLogger())
	v := hs.Version()
	assert.Equal(t, "1.2.3", v["version"])
	assert.Equal(t, "2024-01-01", v["build_time"])
	assert.Equal(t, "abc", v["build_id"])
}

func TestHealthService_Liveness(t *testing.T) {
	hs := NewHealthService(BuildInfo{Version: "dev"}, nil, nil, quietLogger())
	status := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", status.Status)
	assert.Contains(t, status.Runtime, "goroutines")
	assert.Equal(t, "ok", hs.HealthCheck(context.Background()).Status)
}
