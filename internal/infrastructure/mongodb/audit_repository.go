// Package mongodb persiste la bitácora de auditoría en MongoDB (colección audit_log).
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

// AuditCollection nombre de la colección de bitácora.
const AuditCollection = "audit_log"

var _ repository.AuditRepository = (*AuditRepository)(nil)

// Config conexión a MongoDB.
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	MaxPoolSize    uint64
}

// Connect abre el cliente y verifica la conexión con Ping al primario.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, error) {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout)
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb: conectar: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongodb: ping: %w", err)
	}
	return client, nil
}

// AuditRepository implementa repository.AuditRepository.
type AuditRepository struct {
	coll *mongo.Collection
}

// NewAuditRepository usa la colección audit_log de la base indicada.
func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(AuditCollection)}
}

// EnsureIndexes crea el índice de consulta (empresa, entidad, id, fecha desc). Es idempotente.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "company_id", Value: 1},
			{Key: "entity", Value: 1},
			{Key: "entity_id", Value: 1},
			{Key: "at", Value: -1},
		},
	})
	if err != nil {
		return fmt.Errorf("mongodb: índices de bitácora: %w", err)
	}
	return nil
}

func (r *AuditRepository) Append(ctx context.Context, e entity.AuditEntry) error {
	if _, err := r.coll.InsertOne(ctx, e); err != nil {
		return fmt.Errorf("mongodb: insertar bitácora: %w", err)
	}
	return nil
}

// List devuelve las entradas más recientes primero, filtradas por entidad e id si vienen.
func (r *AuditRepository) List(ctx context.Context, companyID, entityName, entityID string, limit int) ([]entity.AuditEntry, error) {
	filter := bson.D{{Key: "company_id", Value: companyID}}
	if entityName != "" {
		filter = append(filter, bson.E{Key: "entity", Value: entityName})
	}
	if entityID != "" {
		filter = append(filter, bson.E{Key: "entity_id", Value: entityID})
	}
	opts := options.Find().SetSort(bson.D{{Key: "at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb: consultar bitácora: %w", err)
	}
	defer cur.Close(ctx)

	var out []entity.AuditEntry
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("mongodb: leer bitácora: %w", err)
	}
	return out, nil
}
