// Package s3 provides an S3 implementation of the medium.ObjectStore interface.
//
// # Usage
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	store, _ := s3.New(awss3.NewFromConfig(cfg), "my-bucket", s3.WithPrefix("volumes/"))
//
//	obj, _ := medium.OpenObject(ctx, store, "disk-0")
//	f, _ := buffile.Open(obj)
//
// # Features
//
//   - Uploads through the S3 transfer manager (multipart for large parts)
//   - Automatic pagination for listing
//   - Size lookups through HeadObject
//   - Configurable prefix for multi-tenant isolation
package s3
