package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/weecode/credenciamento-empresa/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrDuplicateCNPJ = errors.New("cnpj already exists")
	ErrNotFound      = errors.New("not found")

	// ErrStatusConflict indica que o status atual mudou entre a leitura e a
	// gravação; a transição perdeu a corrida e deve ser rejeitada.
	ErrStatusConflict = errors.New("company status changed concurrently")
)

type CompanyRepository struct {
	coll *mongo.Collection
}

func NewCompanyRepository(db *mongo.Database) *CompanyRepository {
	return &CompanyRepository{coll: db.Collection("companies")}
}

func (r *CompanyRepository) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys: bson.D{{Key: "cnpj", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetName("uniq_cnpj"),
	}
	_, err := r.coll.Indexes().CreateOne(ctx, model)
	if err == nil {
		return nil
	}
	// Se já existir com outra opção, tenta dropar e recriar
	if ce, ok := err.(mongo.CommandError); ok && ce.Code == 85 { // IndexOptionsConflict
		if _, dropErr := r.coll.Indexes().DropOne(ctx, "uniq_cnpj"); dropErr != nil {
			return fmt.Errorf("drop index uniq_cnpj: %w", dropErr)
		}
		_, createErr := r.coll.Indexes().CreateOne(ctx, model)
		return createErr
	}
	return err
}

func (r *CompanyRepository) Create(ctx context.Context, c *models.Company) (string, error) {
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	res, err := r.coll.InsertOne(ctx, c)
	if err != nil {
		if we, ok := err.(mongo.WriteException); ok {
			for _, e := range we.WriteErrors {
				if e.Code == 11000 {
					return "", ErrDuplicateCNPJ
				}
			}
		}
		return "", err
	}
	id, _ := res.InsertedID.(string) // _id é o CNPJ sanitizado
	return id, nil
}

func (r *CompanyRepository) GetByID(ctx context.Context, id string) (*models.Company, error) {
	var c models.Company
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CompanyRepository) GetAll(ctx context.Context, status models.CompanyStatus, limit, skip int64) ([]models.Company, error) {
	filter := bson.M{}
	if status != 0 {
		filter["company_status_id"] = status
	}
	opts := options.Find().SetLimit(limit).SetSkip(skip).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	list := []models.Company{}
	for cur.Next(ctx) {
		var c models.Company
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, cur.Err()
}

// UpdateStatus grava o novo status condicionado ao status atual esperado.
// O filtro por "from" transforma a sequência checa-depois-grava em uma
// escrita atômica: se outra requisição mudou o status no meio do caminho o
// filtro não casa e a transição falha com ErrStatusConflict. sectorID > 0
// atribui o setor na mesma escrita (transição para "aguardando documentos").
func (r *CompanyRepository) UpdateStatus(ctx context.Context, id string, from, to models.CompanyStatus, sectorID int) error {
	set := bson.M{
		"company_status_id": to,
		"updated_at":        time.Now(),
	}
	if sectorID > 0 {
		set["sector_id"] = sectorID
	}
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "company_status_id": from},
		bson.M{"$set": set},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// empresa sumiu ou o status mudou; distingue para o chamador
		if _, gerr := r.GetByID(ctx, id); gerr != nil {
			return gerr
		}
		return ErrStatusConflict
	}
	return nil
}

func (r *CompanyRepository) Delete(ctx context.Context, id string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
