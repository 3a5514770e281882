package utils

import "os"

var (
	// DATASTORE selects where table files live: "disk" or "s3"
	DATASTORE  = GetEnvOrDefault("DATASTORE", "disk")
	TABLE_ROOT = GetEnvOrDefault("TABLE_ROOT", ".")

	// REGION restricts CLI reads of array columns, "lower:upper" like "0,0:1,1"
	REGION = os.Getenv("REGION")

	AWS_DEFAULT_REGION = GetEnvOrDefault("AWS_DEFAULT_REGION", "us-east-1")

	S3_BUCKET_NAME = os.Getenv("S3_BUCKET_NAME")
	S3_ENDPOINT    = os.Getenv("S3_ENDPOINT")
	S3_MAX_RETRIES = GetEnvOrDefaultInt("S3_MAX_RETRIES", 5)
)
