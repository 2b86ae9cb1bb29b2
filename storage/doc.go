// Package storage provides object storage for exported transcripts with
// pluggable backends.
//
// # Backends
//
//   - storage/local: local filesystem, for development and single-node setups
//   - storage/s3: Amazon S3 and S3-compatible services via aws-sdk-go-v2
//   - storage/minio: MinIO via minio-go
//
// # Configuration
//
//	storage:
//	  enabled: true
//	  provider: "minio"
//	  backends:
//	    minio:
//	      endpoint: "localhost:9000"
//	      bucket: "transcripts"
package storage
