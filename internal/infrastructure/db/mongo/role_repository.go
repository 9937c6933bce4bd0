package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/securelog/admin-api/internal/core/domain"
)

const rolesCollection = "roles"

// RoleRepository implements ports.RoleRepository on MongoDB. Role names are
// stored in their string form and converted back at this boundary.
type RoleRepository struct {
	coll     *mongo.Collection
	counters *counters
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{
		coll:     db.Collection(rolesCollection),
		counters: newCounters(db),
	}
}

type roleDocument struct {
	ID       int64  `bson:"_id"`
	RoleName string `bson:"role_name"`
}

// EnsureIndexes creates the unique role_name index.
func (r *RoleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "role_name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *RoleRepository) FindByName(ctx context.Context, name domain.AppRole) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc roleDocument
	if err := r.coll.FindOne(ctx, bson.M{"role_name": name.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", domain.ErrRoleNotFound, name)
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return doc.toDomain()
}

func (r *RoleRepository) Create(ctx context.Context, name domain.AppRole) (*domain.Role, error) {
	if !name.Valid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrRoleNotFound, name)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.counters.next(ctx, rolesCollection)
	if err != nil {
		return nil, err
	}

	doc := roleDocument{ID: id, RoleName: name.String()}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrRoleExists, name)
		}
		return nil, fmt.Errorf("insert role: %w", err)
	}
	return doc.toDomain()
}

func (r *RoleRepository) List(ctx context.Context) ([]*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find roles: %w", err)
	}
	defer cur.Close(ctx)

	var docs []roleDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode roles: %w", err)
	}

	roles := make([]*domain.Role, 0, len(docs))
	for i := range docs {
		role, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}

func (d *roleDocument) toDomain() (*domain.Role, error) {
	name, err := domain.ParseAppRole(d.RoleName)
	if err != nil {
		return nil, fmt.Errorf("role %d: %w", d.ID, err)
	}
	return &domain.Role{ID: d.ID, Name: name}, nil
}
