package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tu-usuario/venturelink-api/internal/domain"
	"github.com/tu-usuario/venturelink-api/internal/domain/entity"
	"github.com/tu-usuario/venturelink-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// userDoc proyección BSON de entity.User. Los campos de recuperación se
// omiten cuando están vacíos para que el documento refleje el invariante
// ambos-o-ninguno.
type userDoc struct {
	ID               string    `bson:"_id"`
	Email            string    `bson:"email"`
	PasswordHash     string    `bson:"password_hash"`
	Role             string    `bson:"role"`
	ResetCode        string    `bson:"reset_code,omitempty"`
	ResetCodeExpires time.Time `bson:"reset_code_expires,omitempty"`
	CreatedAt        time.Time `bson:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at"`
}

// UserRepo implementación del puerto UserRepository sobre el document store.
type UserRepo struct {
	col *mongo.Collection
}

// NewUserRepository construye el adaptador de persistencia para usuarios y
// asegura el índice único de email (la unicidad es un invariante del store,
// no del caso de uso).
func NewUserRepository(db *mongo.Database) (*UserRepo, error) {
	col := db.Collection("users")
	_, err := col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("crear índice de email: %w", err)
	}
	return &UserRepo{col: col}, nil
}

// Create persiste un nuevo usuario. Email duplicado devuelve
// domain.ErrEmailAlreadyExists.
func (r *UserRepo) Create(user *entity.User) error {
	_, err := r.col.InsertOne(context.Background(), toDoc(user))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindByID obtiene un usuario por ID; (nil, nil) si no existe.
func (r *UserRepo) FindByID(id string) (*entity.User, error) {
	return r.findOne(bson.M{"_id": id})
}

// FindByEmail obtiene un usuario por email; (nil, nil) si no existe.
func (r *UserRepo) FindByEmail(email string) (*entity.User, error) {
	return r.findOne(bson.M{"email": email})
}

// Save reemplaza el documento completo del usuario en una sola escritura
// atómica (la consistencia bajo operaciones concurrentes sobre el mismo
// usuario se delega a la atomicidad por documento del store).
func (r *UserRepo) Save(user *entity.User) error {
	res, err := r.col.ReplaceOne(context.Background(), bson.M{"_id": user.ID}, toDoc(user))
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// List lista usuarios ordenados por fecha de creación descendente.
func (r *UserRepo) List(limit, offset int) ([]*entity.User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))
	cur, err := r.col.Find(context.Background(), bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(context.Background())

	var list []*entity.User
	for cur.Next(context.Background()) {
		var d userDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		list = append(list, fromDoc(&d))
	}
	return list, cur.Err()
}

func (r *UserRepo) findOne(filter bson.M) (*entity.User, error) {
	var d userDoc
	err := r.col.FindOne(context.Background(), filter).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return fromDoc(&d), nil
}

func toDoc(u *entity.User) *userDoc {
	return &userDoc{
		ID:               u.ID,
		Email:            u.Email,
		PasswordHash:     u.PasswordHash,
		Role:             u.Role,
		ResetCode:        u.ResetCode,
		ResetCodeExpires: u.ResetCodeExpires,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

func fromDoc(d *userDoc) *entity.User {
	return &entity.User{
		ID:               d.ID,
		Email:            d.Email,
		PasswordHash:     d.PasswordHash,
		Role:             d.Role,
		ResetCode:        d.ResetCode,
		ResetCodeExpires: d.ResetCodeExpires,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}
