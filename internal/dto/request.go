package dto

import "fmt"

// ExportRequest is the structured form of the five job inputs, shared by
// the Lambda and SQS invocation surfaces. Field names match the original
// operator-facing contract.
type ExportRequest struct {
	LogGroupName string `json:"log_group_name"`
	S3BucketName string `json:"s3_bucket_name"`
	AWSRegion    string `json:"aws_region"`
	LogPrefix    string `json:"log_prefix"`
	MinSize      int    `json:"min_size"`
}

// Validate checks the required fields and rejects a negative size filter.
// LogPrefix and MinSize are optional and default to "" and 0.
func (r *ExportRequest) Validate() error {
	if r.LogGroupName == "" {
		return fmt.Errorf("log_group_name is required")
	}
	if r.S3BucketName == "" {
		return fmt.Errorf("s3_bucket_name is required")
	}
	if r.AWSRegion == "" {
		return fmt.Errorf("aws_region is required")
	}
	if r.MinSize < 0 {
		return fmt.Errorf("min_size must be non-negative, got %d", r.MinSize)
	}
	return nil
}
