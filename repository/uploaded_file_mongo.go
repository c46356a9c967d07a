package repository

import (
	"context"
	"errors"
	"time"

	"github.com/tnqbao/gau-gallery-service/entity"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type uploadedFileDocument struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	FileName         string             `bson:"fileName"`
	OriginalName     string             `bson:"originalName,omitempty"`
	UploadTime       time.Time          `bson:"uploadTime"`
	FileCreationTime time.Time          `bson:"fileCreationTime"`
	FilePath         string             `bson:"filePath"`
	Size             int64              `bson:"size"`
	ContentType      string             `bson:"contentType,omitempty"`
}

func toDocument(f *entity.UploadedFile) uploadedFileDocument {
	return uploadedFileDocument{
		FileName:         f.FileName,
		OriginalName:     f.OriginalName,
		UploadTime:       f.UploadTime,
		FileCreationTime: f.FileCreationTime,
		FilePath:         f.FilePath,
		Size:             f.Size,
		ContentType:      f.ContentType,
	}
}

func (d uploadedFileDocument) toEntity() *entity.UploadedFile {
	return &entity.UploadedFile{
		ID:               d.ID.Hex(),
		FileName:         d.FileName,
		OriginalName:     d.OriginalName,
		UploadTime:       d.UploadTime,
		FileCreationTime: d.FileCreationTime,
		FilePath:         d.FilePath,
		Size:             d.Size,
		ContentType:      d.ContentType,
	}
}

type MongoUploadedFileRepository struct {
	collection *mongo.Collection
}

func NewMongoUploadedFileRepository(collection *mongo.Collection) *MongoUploadedFileRepository {
	return &MongoUploadedFileRepository{collection: collection}
}

// CreateMany inserts all files with a single InsertMany and writes the
// generated ObjectIDs back onto the inserted entities.
func (r *MongoUploadedFileRepository) CreateMany(ctx context.Context, files []*entity.UploadedFile) (int, error) {
	if len(files) == 0 {
		return 0, nil
	}
	docs := make([]interface{}, len(files))
	ids := make([]primitive.ObjectID, len(files))
	for i, f := range files {
		doc := toDocument(f)
		doc.ID = primitive.NewObjectID()
		ids[i] = doc.ID
		docs[i] = doc
	}

	result, err := r.collection.InsertMany(ctx, docs)
	inserted := 0
	if result != nil {
		inserted = len(result.InsertedIDs)
	}
	for i := 0; i < inserted && i < len(files); i++ {
		files[i].ID = ids[i].Hex()
	}
	return inserted, err
}

func (r *MongoUploadedFileRepository) FindByID(ctx context.Context, id string) (*entity.UploadedFile, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrRecordNotFound
	}

	var doc uploadedFileDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *MongoUploadedFileRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrRecordNotFound
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}
