package productRepo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"discts/database"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const conditionFailedType = "com.amazonaws.dynamodb.v20120810#ConditionalCheckFailedException"

// stubDynamo answers UpdateItem calls the way DynamoDB does for a
// conditional decrement, keyed by the requested productId.
func stubDynamo(t *testing.T, stocks map[string]int) *dynamodb.Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "DynamoDB_20120810.UpdateItem", r.Header.Get("X-Amz-Target"))

		var req struct {
			Key map[string]struct {
				S string `json:"S"`
			} `json:"Key"`
			ExpressionAttributeValues map[string]struct {
				N string `json:"N"`
			} `json:"ExpressionAttributeValues"`
			ReturnValuesOnConditionCheckFailure string `json:"ReturnValuesOnConditionCheckFailure"`
		}
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		assert.Equal(t, "ALL_OLD", req.ReturnValuesOnConditionCheckFailure)

		var qty int
		for _, v := range req.ExpressionAttributeValues {
			qty, _ = strconv.Atoi(v.N)
		}

		id := req.Key["productId"].S
		w.Header().Set("Content-Type", "application/x-amz-json-1.0")
		stock, ok := stocks[id]
		switch {
		case !ok:
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"__type":  conditionFailedType,
				"message": "The conditional request failed",
			})
		case stock < qty:
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"__type":  conditionFailedType,
				"message": "The conditional request failed",
				"Item": map[string]interface{}{
					"productId": map[string]string{"S": id},
					"stock":     map[string]string{"N": strconv.Itoa(stock)},
				},
			})
		default:
			stocks[id] = stock - qty
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"Attributes": map[string]interface{}{
					"stock": map[string]string{"N": strconv.Itoa(stocks[id])},
				},
			})
		}
	}))
	t.Cleanup(srv.Close)

	return dynamodb.New(dynamodb.Options{
		Region:           "us-east-1",
		BaseEndpoint:     aws.String(srv.URL),
		Credentials:      credentials.NewStaticCredentialsProvider("test", "test", ""),
		RetryMaxAttempts: 1,
	})
}

func TestDynamoProductRepo_DecrementStock(t *testing.T) {
	ctx := context.Background()
	client := stubDynamo(t, map[string]int{"prod-1": 5})
	repo := NewDynamoProductRepo(client, "discts")

	left, err := repo.DecrementStock(ctx, "prod-1", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, left)

	t.Run("insufficient stock", func(t *testing.T) {
		_, err := repo.DecrementStock(ctx, "prod-1", 3)
		assert.ErrorIs(t, err, database.ErrConditionFailed)
	})

	t.Run("missing product", func(t *testing.T) {
		_, err := repo.DecrementStock(ctx, "prod-404", 1)
		assert.ErrorIs(t, err, database.ErrNotFound)
	})
}
