package metric

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTagValue(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "no special characters",
			input:    "bert-base-uncased",
			expected: "bert-base-uncased",
		},
		{
			name:     "url paths keep slashes",
			input:    "/next-sentence-prediction",
			expected: "/next-sentence-prediction",
		},
		{
			name:     "grpc method",
			input:    "/inference.GRPCInferenceService/ModelInfer",
			expected: "/inference.GRPCInferenceService/ModelInfer",
		},
		{
			name:     "host and port",
			input:    "triton.svc:8001",
			expected: "triton.svc_8001",
		},
		{
			name:     "all special characters combined",
			input:    "test:value with/spaces\\and,commas|pipes@at#hash",
			expected: "test_value_with/spaces_and_commas_pipes_at_hash",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeTagValue(tt.input))
		})
	}
}

func TestBuildTag(t *testing.T) {
	tags := BuildTag(
		NewTag(TagModelName, "bert-base-uncased"),
		NewTag(TagOutcome, "no mask"),
	)
	assert.Equal(t, []string{"model_name:bert-base-uncased", "outcome:no_mask"}, tags)

	UpdateTags(&tags, NewTag(TagCacheResult, "hit"))
	assert.Equal(t, "cache_result:hit", tags[2])
}

func TestBuildExternalGRPCServiceTags(t *testing.T) {
	tags := BuildExternalGRPCServiceTags("predator", "/inference.GRPCInferenceService/ModelInfer", 14)
	assert.Equal(t, []string{
		"communication_protocol:grpc",
		"external_service:predator",
		"method:/inference.GRPCInferenceService/ModelInfer",
		"grpc_status_code:14",
	}, tags)
}

func TestBuildApiRequestTags(t *testing.T) {
	tags := BuildApiRequestTags("/api/v1/fill-mask", "GET", 400)
	assert.Equal(t, []string{
		"communication_protocol:http",
		"path:/api/v1/fill-mask",
		"method:GET",
		"http_status_code:400",
	}, tags)
}
