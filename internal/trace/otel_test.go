package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutput(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		line    string
		want    Output
		wantErr error
	}{
		{
			name: "empty",
			line: "",
			want: Output{},
		},
		{
			name: "none",
			line: "none",
			want: Output{},
		},
		{
			name: "defaults",
			line: "otel",
			want: defaultOutput(),
		},
		{
			name: "http url",
			line: "otel=http://collector:4318/v1/traces,header.Authorization=token abc",
			want: Output{
				Enabled:  true,
				Proto:    ProtoHTTP,
				Endpoint: "collector:4318",
				URLPath:  "/v1/traces",
				Insecure: true,
				Headers:  map[string]string{"Authorization": "token abc"},
			},
		},
		{
			name: "https url",
			line: "otel=https://collector/v1/traces",
			want: Output{
				Enabled:  true,
				Proto:    ProtoHTTP,
				Endpoint: "collector",
				URLPath:  "/v1/traces",
				Headers:  map[string]string{},
			},
		},
		{
			name: "grpc host",
			line: "otel=collector:4317,proto=grpc",
			want: Output{
				Enabled:  true,
				Proto:    ProtoGRPC,
				Endpoint: "collector:4317",
				Insecure: true,
				Headers:  map[string]string{},
			},
		},
		{
			name:    "other output",
			line:    "jaeger=collector",
			wantErr: ErrInvalidTracesOutput,
		},
		{
			name:    "bad proto",
			line:    "otel,proto=udp",
			wantErr: ErrInvalidProto,
		},
		{
			name:    "bad scheme",
			line:    "otel=ftp://collector",
			wantErr: ErrInvalidURLScheme,
		},
		{
			name:    "grpc with path",
			line:    "otel=https://collector/v1/traces,proto=grpc",
			wantErr: ErrInvalidGRPCWithURLPath,
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseOutput(tc.line)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFromConfigLineDisabled(t *testing.T) {
	t.Parallel()

	for _, line := range []string{"", "none"} {
		tp, err := FromConfigLine(context.Background(), line)
		require.NoError(t, err)
		assert.NoError(t, tp.Shutdown(context.Background()))
	}
}

func TestFromConfigLineUnknownKey(t *testing.T) {
	t.Parallel()

	_, err := FromConfigLine(context.Background(), "otel,sampler=always")
	require.ErrorContains(t, err, "unknown otel config key sampler")
}
