package collections

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// Object storage lives in two tables: buckets and the objects inside them.
// Uploads into a missing bucket fail with a distinguished "bucket not found"
// so clients can attempt an auto-create and retry.

var errBucketNotFound = errors.New("bucket not found")

type StoredObject struct {
	Bucket      string
	Name        string
	ContentType string
	Data        []byte
}

func CreateBucket(ctx context.Context, name string, public bool) error {
	_, err := pool.Exec(ctx, `
		INSERT INTO storage_buckets (name, public) VALUES ($1,$2)
		ON CONFLICT (name) DO NOTHING
	`, name, public)

	return err
}

func bucketExists(ctx context.Context, name string) (bool, error) {
	var public bool
	err := pool.QueryRow(ctx, `SELECT public FROM storage_buckets WHERE name=$1`, name).Scan(&public)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

func PutObject(ctx context.Context, obj StoredObject) error {
	exists, err := bucketExists(ctx, obj.Bucket)
	if err != nil {
		return err
	}
	if !exists {
		return errBucketNotFound
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO storage_objects (bucket, name, content_type, data)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (bucket, name) DO UPDATE SET content_type=EXCLUDED.content_type, data=EXCLUDED.data
	`, obj.Bucket, obj.Name, obj.ContentType, obj.Data)

	return err
}

// GetPublicObject fetches an object from a public bucket. Objects in private
// buckets behave as if they do not exist.
func GetPublicObject(ctx context.Context, bucket, name string) (StoredObject, error) {
	obj := StoredObject{Bucket: bucket, Name: name}
	err := pool.QueryRow(ctx, `
		SELECT o.content_type, o.data
		FROM storage_objects o
		JOIN storage_buckets b ON b.name = o.bucket
		WHERE o.bucket=$1 AND o.name=$2 AND b.public
	`, bucket, name).Scan(&obj.ContentType, &obj.Data)

	return obj, err
}
