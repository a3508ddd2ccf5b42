package mongodb

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"shopfront/internal/domain"
)

func cartField(t *testing.T, value any) bson.RawValue {
	t.Helper()
	raw, err := bson.Marshal(bson.M{"cartData": value})
	require.NoError(t, err)
	return bson.Raw(raw).Lookup("cartData")
}

func TestDecodeCartArray(t *testing.T) {
	cart, err := decodeCart(cartField(t, []int{0, 2, 5}))
	require.NoError(t, err)
	assert.Equal(t, 2, cart[1])
	assert.Equal(t, 5, cart[2])
}

func TestDecodeCartLegacyDocument(t *testing.T) {
	legacy := bson.D{}
	for i := 0; i < domain.CartSlots; i++ {
		legacy = append(legacy, bson.E{Key: strconv.Itoa(i), Value: float64(0)})
	}
	legacy[42].Value = float64(3)

	cart, err := decodeCart(cartField(t, legacy))
	require.NoError(t, err)
	assert.Equal(t, 3, cart[42])
	assert.Equal(t, 0, cart[41])
}

func TestDecodeCartRejectsBadInput(t *testing.T) {
	_, err := decodeCart(cartField(t, bson.D{{Key: "300", Value: 1}}))
	assert.ErrorIs(t, err, domain.ErrInvalidSlot)

	_, err = decodeCart(cartField(t, []string{"a"}))
	assert.Error(t, err)

	_, err = decodeCart(cartField(t, "nope"))
	assert.Error(t, err)

	_, err = decodeCart(cartField(t, make([]int, domain.CartSlots+1)))
	assert.Error(t, err)
}

func TestDecodeCartRejectsNegativeQuantities(t *testing.T) {
	_, err := decodeCart(cartField(t, []int{0, -2}))
	assert.ErrorIs(t, err, domain.ErrNegativeQuantity)

	_, err = decodeCart(cartField(t, bson.D{{Key: "4", Value: float64(-1)}}))
	assert.ErrorIs(t, err, domain.ErrNegativeQuantity)
}

func TestDecodeCartMissing(t *testing.T) {
	cart, err := decodeCart(bson.RawValue{})
	require.NoError(t, err)
	assert.Equal(t, domain.NewCart(), cart)
}

func TestUserDocumentToDomain(t *testing.T) {
	oid := primitive.NewObjectID()
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := userDocument{
		ID:       oid,
		Name:     "ann",
		Email:    "ann@example.com",
		Password: "secret",
		CartData: cartField(t, []int{1}),
		Date:     now,
	}

	user, err := doc.toDomain()
	require.NoError(t, err)
	assert.Equal(t, oid.Hex(), user.ID)
	assert.Equal(t, "secret", user.PasswordHash)
	assert.Equal(t, 1, user.Cart[0])
	assert.Equal(t, now, user.CreatedAt)
}
