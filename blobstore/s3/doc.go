// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("nngrid/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
// # Features
//
//   - Multipart uploads for large result blobs
//   - CRC32C integrity checks on single-part uploads
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
