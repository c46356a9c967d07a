package entity

import "time"

type BlobInfo struct {
	Name string
	Size int64
	// CreatedAt is the store-reported write time: mtime for local files (Go has
	// no portable birth time), LastModified for object stores. Blobs are written
	// once, so it matches creation in practice.
	CreatedAt time.Time
}
