package entity

import "time"

// UploadedFile is the metadata record kept for every image written to the blob store.
// FilePath is the public path (e.g. /uploads/1718000000000.png) and is also the value
// stored in the path cache.
type UploadedFile struct {
	ID               string    `json:"id" gorm:"type:uuid;primaryKey"`
	FileName         string    `json:"fileName" gorm:"type:varchar(255);not null"`
	OriginalName     string    `json:"originalName" gorm:"type:varchar(512)"`
	UploadTime       time.Time `json:"uploadTime" gorm:"not null;index"`
	FileCreationTime time.Time `json:"fileCreationTime"`
	FilePath         string    `json:"filePath" gorm:"type:varchar(1024);not null;index"`
	Size             int64     `json:"size" gorm:"not null"`
	ContentType      string    `json:"contentType" gorm:"type:varchar(255)"`
}

func (UploadedFile) TableName() string {
	return "uploaded_files"
}
