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

const accountsCollection = "accounts"

// AccountRepository implements ports.AccountRepository on MongoDB. Username
// and email uniqueness is enforced by unique indexes, see EnsureIndexes.
type AccountRepository struct {
	coll     *mongo.Collection
	counters *counters
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{
		coll:     db.Collection(accountsCollection),
		counters: newCounters(db),
	}
}

type accountDocument struct {
	ID           int64  `bson:"_id"`
	Username     string `bson:"username"`
	Email        string `bson:"email"`
	PasswordHash string `bson:"password_hash"`

	AccountNonLocked      bool `bson:"account_non_locked"`
	AccountNonExpired     bool `bson:"account_non_expired"`
	CredentialsNonExpired bool `bson:"credentials_non_expired"`
	Enabled               bool `bson:"enabled"`

	CredentialsExpiryDate time.Time `bson:"credentials_expiry_date"`
	AccountExpiryDate     time.Time `bson:"account_expiry_date"`

	TwoFactorEnabled bool   `bson:"two_factor_enabled"`
	SignUpMethod     string `bson:"sign_up_method"`

	RoleID   int64  `bson:"role_id"`
	RoleName string `bson:"role_name"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// EnsureIndexes creates the unique username and email indexes.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *AccountRepository) List(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find accounts: %w", err)
	}
	defer cur.Close(ctx)

	var docs []accountDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}

	users := make([]*domain.User, 0, len(docs))
	for i := range docs {
		u, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	u, err := r.findOne(ctx, bson.M{"_id": id})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: id %d", domain.ErrUserNotFound, id)
	}
	return u, err
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, err := r.findOne(ctx, bson.M{"username": username})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: username %q", domain.ErrUserNotFound, username)
	}
	return u, err
}

func (r *AccountRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, bson.M{"username": username})
}

func (r *AccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, bson.M{"email": email})
}

func (r *AccountRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.counters.next(ctx, accountsCollection)
	if err != nil {
		return nil, err
	}

	doc := newAccountDocument(user)
	doc.ID = id
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: username or email is already in use", domain.ErrUserExists)
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}

	return doc.toDomain()
}

func (r *AccountRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := newAccountDocument(user)
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": user.ID}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: username or email is already in use", domain.ErrUserExists)
		}
		return nil, fmt.Errorf("replace account: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, fmt.Errorf("%w: id %d", domain.ErrUserNotFound, user.ID)
	}

	return doc.toDomain()
}

func (r *AccountRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: id %d", domain.ErrUserNotFound, id)
	}
	return nil
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc accountDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return doc.toDomain()
}

func (r *AccountRepository) exists(ctx context.Context, filter bson.M) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count accounts: %w", err)
	}
	return n > 0, nil
}

func newAccountDocument(u *domain.User) accountDocument {
	return accountDocument{
		ID:                    u.ID,
		Username:              u.Username,
		Email:                 u.Email,
		PasswordHash:          u.Password,
		AccountNonLocked:      u.AccountNonLocked,
		AccountNonExpired:     u.AccountNonExpired,
		CredentialsNonExpired: u.CredentialsNonExpired,
		Enabled:               u.Enabled,
		CredentialsExpiryDate: u.CredentialsExpiryDate.UTC(),
		AccountExpiryDate:     u.AccountExpiryDate.UTC(),
		TwoFactorEnabled:      u.TwoFactorEnabled,
		SignUpMethod:          u.SignUpMethod,
		RoleID:                u.Role.ID,
		RoleName:              u.Role.Name.String(),
		CreatedAt:             u.CreatedAt.UTC(),
		UpdatedAt:             u.UpdatedAt.UTC(),
	}
}

func (d *accountDocument) toDomain() (*domain.User, error) {
	role, err := domain.ParseAppRole(d.RoleName)
	if err != nil {
		return nil, fmt.Errorf("account %d: %w", d.ID, err)
	}
	return &domain.User{
		ID:                    d.ID,
		Username:              d.Username,
		Email:                 d.Email,
		Password:              d.PasswordHash,
		AccountNonLocked:      d.AccountNonLocked,
		AccountNonExpired:     d.AccountNonExpired,
		CredentialsNonExpired: d.CredentialsNonExpired,
		Enabled:               d.Enabled,
		CredentialsExpiryDate: d.CredentialsExpiryDate.UTC(),
		AccountExpiryDate:     d.AccountExpiryDate.UTC(),
		TwoFactorEnabled:      d.TwoFactorEnabled,
		SignUpMethod:          d.SignUpMethod,
		Role:                  domain.Role{ID: d.RoleID, Name: role},
		CreatedAt:             d.CreatedAt.UTC(),
		UpdatedAt:             d.UpdatedAt.UTC(),
	}, nil
}
