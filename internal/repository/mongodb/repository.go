package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kuttybrothers/fleetdesk/internal/domain/models"
)

// ErrNoSnapshot is returned when no report has been archived yet.
var ErrNoSnapshot = errors.New("no archived stock report")

// Repository defines the interface for report storage.
type Repository interface {
	SaveStockSnapshot(ctx context.Context, snapshot models.StockReportSnapshot) error
	LatestStockSnapshot(ctx context.Context, path string) (models.StockReportSnapshot, error)
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: "stock_reports",
	}, nil
}

// SaveStockSnapshot archives a generated stock report.
func (r *MongoDBRepository) SaveStockSnapshot(ctx context.Context, snapshot models.StockReportSnapshot) error {
	_, err := r.collection().InsertOne(ctx, snapshot)
	if err != nil {
		return fmt.Errorf("failed to insert stock report: %w", err)
	}
	return nil
}

// LatestStockSnapshot returns the most recently generated report for path.
func (r *MongoDBRepository) LatestStockSnapshot(ctx context.Context, path string) (models.StockReportSnapshot, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "generated_at", Value: -1}})

	var snapshot models.StockReportSnapshot
	err := r.collection().FindOne(ctx, bson.M{"path": path}, opts).Decode(&snapshot)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.StockReportSnapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return models.StockReportSnapshot{}, fmt.Errorf("failed to load latest stock report: %w", err)
	}
	return snapshot, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoDBRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}
