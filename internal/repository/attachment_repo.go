package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/weecode/credenciamento-empresa/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AttachmentRepository struct {
	coll *mongo.Collection
}

func NewAttachmentRepository(db *mongo.Database) *AttachmentRepository {
	return &AttachmentRepository{coll: db.Collection("company_attachments")}
}

func (r *AttachmentRepository) Create(ctx context.Context, a *models.Attachment) (string, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	if _, err := r.coll.InsertOne(ctx, a); err != nil {
		return "", err
	}
	return a.ID, nil
}

func (r *AttachmentRepository) GetByID(ctx context.Context, id string) (*models.Attachment, error) {
	var a models.Attachment
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListByCompany devolve os anexos da empresa. Com onlyActive, versões
// substituídas ficam de fora (é o que a listagem pública mostra).
func (r *AttachmentRepository) ListByCompany(ctx context.Context, companyID string, documentID int, onlyActive bool) ([]models.Attachment, error) {
	filter := bson.M{"company_id": companyID}
	if documentID != 0 {
		filter["document_id"] = documentID
	}
	if onlyActive {
		filter["attachment_status_id"] = bson.M{"$ne": models.AttachmentSuperseded}
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	list := []models.Attachment{}
	for cur.Next(ctx) {
		var a models.Attachment
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, cur.Err()
}

// UpdateReview grava o resultado da análise de um anexo.
func (r *AttachmentRepository) UpdateReview(ctx context.Context, id string, status models.AttachmentStatus, note string) error {
	res, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"attachment_status_id": status,
		"note":                 note,
		"updated_at":           time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SupersedeOthers marca como substituídas todas as versões do mesmo
// (empresa, documento) exceto a recém-criada.
func (r *AttachmentRepository) SupersedeOthers(ctx context.Context, companyID string, documentID int, keepID string) error {
	_, err := r.coll.UpdateMany(ctx,
		bson.M{
			"company_id":           companyID,
			"document_id":          documentID,
			"_id":                  bson.M{"$ne": keepID},
			"attachment_status_id": bson.M{"$ne": models.AttachmentSuperseded},
		},
		bson.M{"$set": bson.M{
			"attachment_status_id": models.AttachmentSuperseded,
			"updated_at":           time.Now(),
		}},
	)
	return err
}
