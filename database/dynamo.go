package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"discts/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// NewDynamoClient builds a DynamoDB client. Explicit credentials from the
// configuration win over the default AWS credential chain.
func NewDynamoClient(ctx context.Context, cfg *config.Config) (*dynamodb.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSAccessKey != "" && cfg.AWSSecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKey, cfg.AWSSecretAccessKey, cfg.AWSSessionToken),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	})
	return client, nil
}

// TableSpec names a table and its string hash key.
type TableSpec struct {
	Name    string
	HashKey string
}

// EnsureTables creates any missing table with on-demand billing and waits
// until it is active.
func EnsureTables(ctx context.Context, client *dynamodb.Client, specs ...TableSpec) error {
	existing := make(map[string]bool)
	paginator := dynamodb.NewListTablesPaginator(client, &dynamodb.ListTablesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to list tables: %w", err)
		}
		for _, name := range page.TableNames {
			existing[name] = true
		}
	}

	for _, spec := range specs {
		if existing[spec.Name] {
			zap.L().Info("DynamoDB table exists", zap.String("table", spec.Name))
			continue
		}

		_, err := client.CreateTable(ctx, &dynamodb.CreateTableInput{
			TableName: aws.String(spec.Name),
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String(spec.HashKey), KeyType: types.KeyTypeHash},
			},
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String(spec.HashKey), AttributeType: types.ScalarAttributeTypeS},
			},
			BillingMode: types.BillingModePayPerRequest,
		})
		if err != nil {
			var inUse *types.ResourceInUseException
			if errors.As(err, &inUse) {
				continue
			}
			return fmt.Errorf("failed to create table %s: %w", spec.Name, err)
		}

		waiter := dynamodb.NewTableExistsWaiter(client)
		if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(spec.Name)}, 2*time.Minute); err != nil {
			return fmt.Errorf("table %s did not become active: %w", spec.Name, err)
		}
		zap.L().Info("Created DynamoDB table", zap.String("table", spec.Name))
	}
	return nil
}

// IsConditionalCheckFailed reports whether err is DynamoDB's rejection of a
// ConditionExpression.
func IsConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
