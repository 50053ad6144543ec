package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCompileEmptyBuilderMatchesEverything(t *testing.T) {
	filter := NewBuilder().Compile()
	assert.Empty(t, filter)
}

func TestCompileDropsAbsentCriteria(t *testing.T) {
	filter := NewBuilder().
		Add("name", Exact, "").
		Add("brand", Substring, "").
		Add("isPaid", TriState, "").
		AddRange("price", NumberRange, "", "").
		AddRange("createdAt", DateRange, "", "").
		Compile()
	assert.Empty(t, filter)
}

func TestCompileExact(t *testing.T) {
	filter := NewBuilder().Add("email", Exact, "user@example.com").Compile()
	assert.Equal(t, bson.M{"email": "user@example.com"}, filter)
}

func TestCompileID(t *testing.T) {
	oid := primitive.NewObjectID()

	filter := NewBuilder().Add("_id", ID, oid.Hex()).Compile()
	assert.Equal(t, bson.M{"_id": oid}, filter)

	// A malformed hex id contributes nothing rather than matching nothing.
	filter = NewBuilder().Add("_id", ID, "not-a-hex-id").Compile()
	assert.Empty(t, filter)
}

func TestCompileSubstringIsCaseInsensitive(t *testing.T) {
	filter := NewBuilder().Add("name", Substring, "kitten").Compile()
	assert.Equal(t, bson.M{"name": primitive.Regex{Pattern: "kitten", Options: "i"}}, filter)
}

func TestCompileNumberRange(t *testing.T) {
	tests := []struct {
		name string
		min  string
		max  string
		want bson.M
	}{
		{"both bounds", "100", "500", bson.M{"price": bson.M{"$gte": 100.0, "$lte": 500.0}}},
		{"lone min ignored", "100", "", bson.M{}},
		{"lone max ignored", "", "500", bson.M{}},
		{"unparseable bound ignored", "100", "lots", bson.M{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := NewBuilder().AddRange("price", NumberRange, tt.min, tt.max).Compile()
			assert.Equal(t, tt.want, filter)
		})
	}
}

func TestCompileDateRange(t *testing.T) {
	filter := NewBuilder().
		AddRange("createdAt", DateRange, "2024-01-01", "2024-12-31").
		Compile()

	cond, ok := filter["createdAt"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), cond["$gte"])
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), cond["$lte"])

	// Lone bounds are ignored entirely, same as numeric ranges.
	filter = NewBuilder().AddRange("createdAt", DateRange, "2024-01-01", "").Compile()
	assert.Empty(t, filter)
}

func TestCompileDateRangeAcceptsRFC3339(t *testing.T) {
	filter := NewBuilder().
		AddRange("createdAt", DateRange, "2024-06-01T10:30:00Z", "2024-06-02T10:30:00Z").
		Compile()
	require.Contains(t, filter, "createdAt")
}

func TestCompileTriState(t *testing.T) {
	tests := []struct {
		value string
		want  bson.M
	}{
		{"all", bson.M{}},
		{"true", bson.M{"isPaid": true}},
		{"false", bson.M{"isPaid": false}},
		{"maybe", bson.M{}},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			filter := NewBuilder().Add("isPaid", TriState, tt.value).Compile()
			assert.Equal(t, tt.want, filter)
		})
	}
}

func TestCompileMinNumber(t *testing.T) {
	filter := NewBuilder().Add("rating", MinNumber, "4").Compile()
	assert.Equal(t, bson.M{"rating": bson.M{"$gte": 4.0}}, filter)
}

func TestCompileResolvedCondition(t *testing.T) {
	oid := primitive.NewObjectID()
	filter := NewBuilder().Condition("user", oid).Compile()
	assert.Equal(t, bson.M{"user": oid}, filter)
}

func TestCompileCombinesCriteriaIntoOneConjunction(t *testing.T) {
	oid := primitive.NewObjectID()
	filter := NewBuilder().
		Add("isDelivered", TriState, "false").
		AddRange("totalPrice", NumberRange, "10", "20").
		Add("paymentMethod", Exact, "PayPal").
		Condition("user", oid).
		Compile()

	assert.Equal(t, bson.M{
		"isDelivered":   false,
		"totalPrice":    bson.M{"$gte": 10.0, "$lte": 20.0},
		"paymentMethod": "PayPal",
		"user":          oid,
	}, filter)
}
