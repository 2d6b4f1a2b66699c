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

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection("users")}
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) (string, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	if _, err := r.coll.InsertOne(ctx, u); err != nil {
		return "", err
	}
	return u.ID, nil
}

// ListContacts devolve os contatos (tipo 2) de uma empresa.
func (r *UserRepository) ListContacts(ctx context.Context, companyID string) ([]models.User, error) {
	return r.list(ctx, bson.M{
		"company_id":   companyID,
		"user_type_id": models.UserTypeContact,
	})
}

// ListStaff devolve todos os analistas internos (tipo 1).
func (r *UserRepository) ListStaff(ctx context.Context) ([]models.User, error) {
	return r.list(ctx, bson.M{"user_type_id": models.UserTypeStaff})
}

func (r *UserRepository) list(ctx context.Context, filter bson.M) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	list := []models.User{}
	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, cur.Err()
}

// Enable habilita o contato e grava o hash da senha emitida.
func (r *UserRepository) Enable(ctx context.Context, id string, passwordHash string) error {
	res, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"user_status_id": models.UserEnabled,
		"password_hash":  passwordHash,
		"updated_at":     time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
