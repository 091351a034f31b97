package catalogRepo

import (
	"context"

	"medibook/database"
	"medibook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// CatalogRepository exposes the registry reads the booking engine needs:
// doctors, branches and the services whose durations drive slot stepping.
// Registry management itself is owned by other services.
type CatalogRepository interface {
	GetDoctorByID(ctx context.Context, id string) (*models.Doctor, error)
	GetBranchByID(ctx context.Context, id string) (*models.Branch, error)
	GetServiceByID(ctx context.Context, id string) (*models.HospitalService, error)
}

type mongoCatalogRepo struct {
	doctorColl  *mongo.Collection
	branchColl  *mongo.Collection
	serviceColl *mongo.Collection
}

// NewMongoCatalogRepo constructs a new MongoDB CatalogRepository.
func NewMongoCatalogRepo() CatalogRepository {
	db := database.DB()
	return &mongoCatalogRepo{
		doctorColl:  db.Collection("doctors"),
		branchColl:  db.Collection("branches"),
		serviceColl: db.Collection("services"),
	}
}
