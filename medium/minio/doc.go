// Package minio provides a medium.ObjectStore implementation using the MinIO client.
//
// MinIO is an S3-compatible object storage system. This package uses the
// official MinIO Go client, so it also works against Ceph, SeaweedFS, Garage
// and other S3-compatible servers without pulling in the AWS SDK.
//
// # Basic Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := miniostore.New(client, "my-bucket", miniostore.WithPrefix("volumes/"))
//	obj, err := medium.OpenObject(ctx, store, "disk0")
//	f, err := buffile.Open(obj)
package minio
