package productRepo

import (
	"context"

	"discts/database"
	"discts/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/pkg/errors"
)

const hashKey = "productId"

// DynamoProductRepo implements ProductRepository on a DynamoDB table keyed
// by productId.
type DynamoProductRepo struct {
	client *dynamodb.Client
	table  string
}

// NewDynamoProductRepo returns a ProductRepository backed by DynamoDB.
func NewDynamoProductRepo(client *dynamodb.Client, table string) ProductRepository {
	return &DynamoProductRepo{client: client, table: table}
}

func (r *DynamoProductRepo) key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{hashKey: &types.AttributeValueMemberS{Value: id}}
}

func (r *DynamoProductRepo) Create(ctx context.Context, product *models.Product) error {
	item, err := attributevalue.MarshalMap(product)
	if err != nil {
		return errors.Wrap(err, "failed to marshal product")
	}
	cond := expression.AttributeNotExists(expression.Name(hashKey))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return errors.Wrap(err, "failed to build condition")
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.table),
		Item:                     item,
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		return errors.Wrapf(err, "failed to create product %s", product.ProductID)
	}
	return nil
}

func (r *DynamoProductRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.table),
		Key:            r.key(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch product %s", id)
	}
	if out.Item == nil {
		return nil, database.ErrNotFound
	}
	var product models.Product
	if err := attributevalue.UnmarshalMap(out.Item, &product); err != nil {
		return nil, errors.Wrap(err, "failed to decode product")
	}
	return &product, nil
}

func (r *DynamoProductRepo) GetAll(ctx context.Context) ([]models.Product, error) {
	return r.scan(ctx, &dynamodb.ScanInput{TableName: aws.String(r.table)})
}

func (r *DynamoProductRepo) SearchByName(ctx context.Context, fragment string) ([]models.Product, error) {
	filter := expression.Name("name").Contains(fragment)
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build name filter")
	}
	return r.scan(ctx, &dynamodb.ScanInput{
		TableName:                 aws.String(r.table),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
}

func (r *DynamoProductRepo) scan(ctx context.Context, input *dynamodb.ScanInput) ([]models.Product, error) {
	products := []models.Product{}
	paginator := dynamodb.NewScanPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan products")
		}
		var batch []models.Product
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, errors.Wrap(err, "failed to decode products")
		}
		products = append(products, batch...)
	}
	return products, nil
}

type fieldValue struct {
	name  string
	value interface{}
}

// updateFields lists the attributes a partial update writes.
func updateFields(upd models.ProductUpdate) []fieldValue {
	var sets []fieldValue
	if upd.Name != nil {
		sets = append(sets, fieldValue{"name", *upd.Name})
	}
	if upd.Stock != nil {
		sets = append(sets, fieldValue{"stock", *upd.Stock})
	}
	if upd.Price != nil {
		sets = append(sets, fieldValue{"price", *upd.Price})
	}
	if upd.BatchNumber != nil {
		sets = append(sets, fieldValue{"batchNumber", *upd.BatchNumber})
	}
	if upd.ManufacturingDate != nil {
		sets = append(sets, fieldValue{"manufacturingDate", *upd.ManufacturingDate})
	}
	if upd.ExpiryDate != nil {
		sets = append(sets, fieldValue{"expiryDate", *upd.ExpiryDate})
	}
	return sets
}

func (r *DynamoProductRepo) Update(ctx context.Context, id string, upd models.ProductUpdate) error {
	sets := updateFields(upd)
	if len(sets) == 0 {
		return nil
	}

	update := expression.Set(expression.Name(sets[0].name), expression.Value(sets[0].value))
	for _, s := range sets[1:] {
		update = update.Set(expression.Name(s.name), expression.Value(s.value))
	}
	cond := expression.AttributeExists(expression.Name(hashKey))
	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return errors.Wrap(err, "failed to build update")
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       r.key(id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if database.IsConditionalCheckFailed(err) {
		return database.ErrNotFound
	}
	if err != nil {
		return errors.Wrapf(err, "failed to update product %s", id)
	}
	return nil
}

func (r *DynamoProductRepo) DecrementStock(ctx context.Context, id string, qty int) (int, error) {
	update := expression.Set(expression.Name("stock"), expression.Name("stock").Minus(expression.Value(qty)))
	cond := expression.AttributeExists(expression.Name(hashKey)).
		And(expression.Name("stock").GreaterThanEqual(expression.Value(qty)))
	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return 0, errors.Wrap(err, "failed to build decrement")
	}

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                           aws.String(r.table),
		Key:                                 r.key(id),
		UpdateExpression:                    expr.Update(),
		ConditionExpression:                 expr.Condition(),
		ExpressionAttributeNames:            expr.Names(),
		ExpressionAttributeValues:           expr.Values(),
		ReturnValues:                        types.ReturnValueUpdatedNew,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			if len(ccf.Item) == 0 {
				return 0, database.ErrNotFound
			}
			return 0, database.ErrConditionFailed
		}
		return 0, errors.Wrapf(err, "failed to decrement stock of %s", id)
	}

	var updated struct {
		Stock int `dynamodbav:"stock"`
	}
	if err := attributevalue.UnmarshalMap(out.Attributes, &updated); err != nil {
		return 0, errors.Wrap(err, "failed to decode updated stock")
	}
	return updated.Stock, nil
}

func (r *DynamoProductRepo) IncrementStock(ctx context.Context, id string, qty int) error {
	update := expression.Add(expression.Name("stock"), expression.Value(qty))
	cond := expression.AttributeExists(expression.Name(hashKey))
	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return errors.Wrap(err, "failed to build increment")
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       r.key(id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if database.IsConditionalCheckFailed(err) {
		return database.ErrNotFound
	}
	if err != nil {
		return errors.Wrapf(err, "failed to increment stock of %s", id)
	}
	return nil
}

func (r *DynamoProductRepo) Delete(ctx context.Context, id string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key:       r.key(id),
	})
	if err != nil {
		return errors.Wrapf(err, "failed to delete product %s", id)
	}
	return nil
}

func (r *DynamoProductRepo) Ping(ctx context.Context) error {
	_, err := r.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(r.table)})
	return err
}
