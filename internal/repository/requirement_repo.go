package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/weecode/credenciamento-empresa/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type RequirementRepository struct {
	coll *mongo.Collection
}

func NewRequirementRepository(db *mongo.Database) *RequirementRepository {
	return &RequirementRepository{coll: db.Collection("document_requirements")}
}

// Find localiza a exigência que liga um documento ao tipo de empresa.
func (r *RequirementRepository) Find(ctx context.Context, companyTypeID, documentID int) (*models.DocumentRequirement, error) {
	var req models.DocumentRequirement
	err := r.coll.FindOne(ctx, bson.M{
		"company_type_id": companyTypeID,
		"document_id":     documentID,
	}).Decode(&req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *RequirementRepository) Create(ctx context.Context, req *models.DocumentRequirement) (string, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if _, err := r.coll.InsertOne(ctx, req); err != nil {
		return "", err
	}
	return req.ID, nil
}
