// Package hash provides checksums for uploaded blobs and content digests for
// jobs.
//
// CRC32-Castagnoli is the checksum S3 verifies on upload; Go's crc32 package
// uses hardware instructions for it when available:
//
//	checksum := hash.CRC32C(data)
//
// Digests are xxhash64 in hex:
//
//	digest := hash.Digest(jobBlob)
package hash
