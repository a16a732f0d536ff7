package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/aquafarm/internal/domain/models"
	"github.com/mamadbah2/aquafarm/internal/service/analytics"
)

const (
	reportsCollection     = "reports"
	submissionsCollection = "benchmark_submissions"
)

var _ analytics.Source = (*Repository)(nil)

// Repository reads farm collections and stores generated reports and
// anonymous benchmark submissions.
type Repository struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

// NewRepository connects to MongoDB and verifies the connection.
func NewRepository(ctx context.Context, uri, dbName string, logger *zap.Logger) (*Repository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return NewRepositoryWithClient(client, dbName, logger), nil
}

// NewRepositoryWithClient wraps an already connected client.
func NewRepositoryWithClient(client *mongo.Client, dbName string, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{
		client: client,
		db:     client.Database(dbName),
		logger: logger,
	}
}

func (r *Repository) Units(ctx context.Context, accountID string) ([]models.ProductionUnit, error) {
	return findAll[models.ProductionUnit](ctx, r, analytics.TableCages, accountID)
}

func (r *Repository) FeedingSessions(ctx context.Context, accountID string) ([]models.FeedingSession, error) {
	return findAll[models.FeedingSession](ctx, r, analytics.TableFeedings, accountID)
}

func (r *Repository) Sales(ctx context.Context, accountID string) ([]models.Sale, error) {
	return findAll[models.Sale](ctx, r, analytics.TableSales, accountID)
}

func (r *Repository) CostEntries(ctx context.Context, accountID string) ([]models.CostEntry, error) {
	return findAll[models.CostEntry](ctx, r, analytics.TableCosts, accountID)
}

func (r *Repository) MortalityEvents(ctx context.Context, accountID string) ([]models.MortalityEvent, error) {
	return findAll[models.MortalityEvent](ctx, r, analytics.TableMortalities, accountID)
}

func (r *Repository) WaterQuality(ctx context.Context, accountID string) ([]models.WaterQualitySample, error) {
	return findAll[models.WaterQualitySample](ctx, r, analytics.TableWaterQuality, accountID)
}

func (r *Repository) Cycles(ctx context.Context, accountID string) ([]models.ProductionCycle, error) {
	return findAll[models.ProductionCycle](ctx, r, analytics.TableCycles, accountID)
}

// findAll loads every document of collection owned by accountID, ordered by
// id. Documents that fail to decode or validate are dropped.
func findAll[T models.Validator](ctx context.Context, r *Repository, collection, accountID string) ([]T, error) {
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cursor, err := r.db.Collection(collection).Find(ctx, bson.M{"user_id": accountID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var rows []T
	for cursor.Next(ctx) {
		var row T
		if err := cursor.Decode(&row); err != nil {
			id, _ := cursor.Current.Lookup("id").StringValueOK()
			r.logger.Debug("skip undecodable document",
				zap.String("collection", collection),
				zap.String("id", id),
				zap.Error(err))
			continue
		}
		rows = append(rows, row)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", collection, err)
	}

	return models.KeepValid(rows, func(_ T, err error) {
		r.logger.Debug("skip invalid document", zap.String("collection", collection), zap.Error(err))
	}), nil
}

// SaveReport archives a generated report.
func (r *Repository) SaveReport(ctx context.Context, report models.StoredReport) error {
	if _, err := r.db.Collection(reportsCollection).InsertOne(ctx, report); err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

// SaveSubmission stores an anonymous benchmark sample.
func (r *Repository) SaveSubmission(ctx context.Context, sub models.BenchmarkSubmission) error {
	if _, err := r.db.Collection(submissionsCollection).InsertOne(ctx, sub); err != nil {
		return fmt.Errorf("failed to insert benchmark submission: %w", err)
	}
	return nil
}

// SubmissionScores returns the composite scores submitted for species and
// region. An empty region matches every region.
func (r *Repository) SubmissionScores(ctx context.Context, species, region string) ([]float64, error) {
	filter := bson.M{"species": species}
	if region != "" {
		filter["region"] = region
	}
	opts := options.Find().SetProjection(bson.M{"score": 1, "_id": 0})

	cursor, err := r.db.Collection(submissionsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find benchmark submissions: %w", err)
	}

	var docs []struct {
		Score float64 `bson:"score"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode benchmark submissions: %w", err)
	}

	scores := make([]float64, len(docs))
	for i, d := range docs {
		scores[i] = d.Score
	}
	return scores, nil
}

// Close closes the MongoDB connection.
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
