package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shopfront/internal/domain"
	"shopfront/internal/repository"
)

type userDocument struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Email    string             `bson:"email"`
	Password string             `bson:"password"`
	CartData bson.RawValue      `bson:"cartData,omitempty"`
	Date     time.Time          `bson:"date"`
}

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) repository.UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

func (r *UserRepository) Init(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	res, err := r.coll.InsertOne(ctx, bson.M{
		"name":     user.Name,
		"email":    user.Email,
		"password": user.PasswordHash,
		"cartData": user.Cart.Slice(),
		"date":     user.CreatedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert user %s: %w", user.Email, repository.ErrAlreadyExists)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("insert user: unexpected id type %T", res.InsertedID)
	}
	user.ID = oid.Hex()
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) UpdateCart(ctx context.Context, id string, cart domain.Cart) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("update cart for user %s: %w", id, repository.ErrNotFound)
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"cartData": cart.Slice()}},
	)
	if err != nil {
		return fmt.Errorf("update cart: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update cart for user %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain()
}

func (d userDocument) toDomain() (*domain.User, error) {
	cart, err := decodeCart(d.CartData)
	if err != nil {
		return nil, fmt.Errorf("decode cart for user %s: %w", d.ID.Hex(), err)
	}
	return &domain.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.Password,
		Cart:         cart,
		CreatedAt:    d.Date,
	}, nil
}

// decodeCart reads cartData stored either as an array of quantities or as a
// document keyed by slot number, which is how older records were written.
func decodeCart(raw bson.RawValue) (domain.Cart, error) {
	var cart domain.Cart

	switch raw.Type {
	case 0, bsontype.Null, bsontype.Undefined:
		return cart, nil
	case bsontype.Array:
		values, err := raw.Array().Values()
		if err != nil {
			return cart, err
		}
		if len(values) > domain.CartSlots {
			return cart, fmt.Errorf("cart has %d slots, want at most %d", len(values), domain.CartSlots)
		}
		for i, v := range values {
			qty, ok := v.AsInt64OK()
			if !ok {
				return cart, fmt.Errorf("slot %d: non-numeric quantity of type %s", i, v.Type)
			}
			if err := domain.ValidQuantity(i, int(qty)); err != nil {
				return domain.Cart{}, err
			}
			cart[i] = int(qty)
		}
		return cart, nil
	case bsontype.EmbeddedDocument:
		elems, err := raw.Document().Elements()
		if err != nil {
			return cart, err
		}
		for _, elem := range elems {
			slot, err := strconv.Atoi(elem.Key())
			if err != nil || slot < 0 || slot >= domain.CartSlots {
				return cart, fmt.Errorf("%w: %q", domain.ErrInvalidSlot, elem.Key())
			}
			qty, ok := elem.Value().AsInt64OK()
			if !ok {
				return cart, fmt.Errorf("slot %d: non-numeric quantity of type %s", slot, elem.Value().Type)
			}
			if err := domain.ValidQuantity(slot, int(qty)); err != nil {
				return domain.Cart{}, err
			}
			cart[slot] = int(qty)
		}
		return cart, nil
	default:
		return cart, fmt.Errorf("unsupported cart type %s", raw.Type)
	}
}
