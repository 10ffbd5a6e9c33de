package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExportRequest_Validate_Success(t *testing.T) {
	req := &ExportRequest{
		LogGroupName: "/aws/rds/instance/prod/postgresql",
		S3BucketName: "log-archive",
		AWSRegion:    "eu-west-1",
	}

	assert.NoError(t, req.Validate())
}

func TestExportRequest_Validate_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		req  ExportRequest
	}{
		{"missing log group", ExportRequest{S3BucketName: "b", AWSRegion: "r"}},
		{"missing bucket", ExportRequest{LogGroupName: "g", AWSRegion: "r"}},
		{"missing region", ExportRequest{LogGroupName: "g", S3BucketName: "b"}},
		{"negative min size", ExportRequest{LogGroupName: "g", S3BucketName: "b", AWSRegion: "r", MinSize: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.req.Validate())
		})
	}
}

func TestExportRequest_Defaults(t *testing.T) {
	// Prefix and min size are optional in the wire format.
	var req ExportRequest
	err := json.Unmarshal([]byte(`{"log_group_name":"g","s3_bucket_name":"b","aws_region":"r"}`), &req)
	assert.NoError(t, err)
	assert.NoError(t, req.Validate())
	assert.Equal(t, "", req.LogPrefix)
	assert.Equal(t, 0, req.MinSize)
}
