package admin

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/weecode/credenciamento-empresa/internal/models"
	"github.com/weecode/credenciamento-empresa/internal/repository"
)

//go:embed seeds/accreditation.json
var seedJSON []byte

type seedData struct {
	Staff []struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"staff"`
	Requirements []struct {
		CompanyTypeID       int    `json:"company_type_id"`
		DocumentID          int    `json:"document_id"`
		DocumentDescription string `json:"document_description"`
		ValidityDays        int    `json:"validity_days"`
	} `json:"requirements"`
}

// Idempotente: cria o que não existir; o que já existir é ignorado.
func Seed(ctx context.Context, users *repository.UserRepository, requirements *repository.RequirementRepository, log *slog.Logger) error {
	var data seedData
	if err := json.Unmarshal(seedJSON, &data); err != nil {
		return err
	}

	staff, err := users.ListStaff(ctx)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(staff))
	for _, u := range staff {
		known[u.Email] = true
	}

	for _, s := range data.Staff {
		if known[s.Email] {
			log.Info("seed_staff_exists", "email", s.Email)
			continue
		}
		u := models.User{
			Name:   s.Name,
			Email:  s.Email,
			Type:   models.UserTypeStaff,
			Status: models.UserEnabled,
		}
		ictx, cancel := context.WithTimeout(ctx, 3*time.Second)
		_, err := users.Create(ictx, &u)
		cancel()
		if err != nil {
			return err
		}
		log.Info("seed_staff_created", "email", s.Email)
	}

	for _, r := range data.Requirements {
		ictx, cancel := context.WithTimeout(ctx, 3*time.Second)
		_, err := requirements.Find(ictx, r.CompanyTypeID, r.DocumentID)
		cancel()
		if err == nil {
			log.Info("seed_requirement_exists", "company_type_id", r.CompanyTypeID, "document_id", r.DocumentID)
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		req := models.DocumentRequirement{
			CompanyTypeID:       r.CompanyTypeID,
			DocumentID:          r.DocumentID,
			DocumentDescription: r.DocumentDescription,
			ValidityDays:        r.ValidityDays,
		}
		ictx, cancel = context.WithTimeout(ctx, 3*time.Second)
		_, err = requirements.Create(ictx, &req)
		cancel()
		if err != nil {
			return err
		}
		log.Info("seed_requirement_created", "company_type_id", r.CompanyTypeID, "document_id", r.DocumentID)
	}

	log.Info("seed_done", "staff", len(data.Staff), "requirements", len(data.Requirements))
	return nil
}
