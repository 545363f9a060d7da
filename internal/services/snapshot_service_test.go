package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bikepulse/internal/dataset"
)

type mockCapturer struct {
	mock.Mock
}

func (m *mockCapturer) Capture(ctx context.Context, url string) ([]byte, error) {
	args := m.Called(ctx, url)
	if b := args.Get(0); b != nil {
		return b.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestDashboardURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		req  dataset.RangeRequest
		want string
	}{
		{"no range", "http://127.0.0.1:8080", dataset.RangeRequest{}, "http://127.0.0.1:8080/"},
		{"start only", "http://localhost:8080/", dataset.RangeRequest{Start: day(3)}, "http://localhost:8080/?start=2011-01-03"},
		{"both", "http://localhost:8080", dataset.RangeRequest{Start: day(3), End: day(8)}, "http://localhost:8080/?end=2011-01-08&start=2011-01-03"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DashboardURL(tt.base, tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSnapshotService_Capture(t *testing.T) {
	capturer := &mockCapturer{}
	capturer.On("Capture", mock.Anything, "http://localhost:8080/?start=2011-01-03").
		Return([]byte("png"), nil).Once()

	svc := NewSnapshotService(capturer, true, "http://localhost:8080", nil, quietLogger())
	png, err := svc.Capture(context.Background(), dataset.RangeRequest{Start: day(3)})
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), png)
	capturer.AssertExpectations(t)
}

func TestSnapshotService_CaptureError(t *testing.T) {
	capturer := &mockCapturer{}
	capturer.On("Capture", mock.Anything, mock.Anything).Return(nil, errors.New("chrome crashed"))

	svc := NewSnapshotService(capturer, true, "http://localhost:8080", nil, quietLogger())
	_, err := svc.Capture(context.Background(), dataset.RangeRequest{})
	assert.EqualError(t, err, "chrome crashed")
}

func TestSnapshotService_Disabled(t *testing.T) {
	capturer := &mockCapturer{}
	svc := NewSnapshotService(capturer, false, "http://localhost:8080", nil, quietLogger())

	assert.False(t, svc.Enabled())
	_, err := svc.Capture(context.Background(), dataset.RangeRequest{})
	assert.ErrorIs(t, err, ErrSnapshotDisabled)
	capturer.AssertNotCalled(t, "Capture", mock.Anything, mock.Anything)
}
