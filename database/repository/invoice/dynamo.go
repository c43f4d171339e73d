package invoiceRepo

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

// DynamoInvoiceRepo implements InvoiceRepository on a DynamoDB table keyed
// by invoiceId.
type DynamoInvoiceRepo struct {
	client *dynamodb.Client
	table  string
}

// NewDynamoInvoiceRepo returns an InvoiceRepository backed by DynamoDB.
func NewDynamoInvoiceRepo(client *dynamodb.Client, table string) InvoiceRepository {
	return &DynamoInvoiceRepo{client: client, table: table}
}

func (r *DynamoInvoiceRepo) key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{"invoiceId": &types.AttributeValueMemberS{Value: id}}
}

func (r *DynamoInvoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	item, err := attributevalue.MarshalMap(invoice)
	if err != nil {
		return errors.Wrap(err, "failed to marshal invoice")
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return errors.Wrapf(err, "failed to save invoice %s", invoice.InvoiceID)
	}
	return nil
}

func (r *DynamoInvoiceRepo) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       r.key(id),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch invoice %s", id)
	}
	if out.Item == nil {
		return nil, database.ErrNotFound
	}
	var invoice models.Invoice
	if err := attributevalue.UnmarshalMap(out.Item, &invoice); err != nil {
		return nil, errors.Wrap(err, "failed to decode invoice")
	}
	return &invoice, nil
}

func (r *DynamoInvoiceRepo) GetAll(ctx context.Context) ([]models.Invoice, error) {
	return r.scan(ctx, nil)
}

func (r *DynamoInvoiceRepo) GetByCustomerID(ctx context.Context, customerID string) ([]models.Invoice, error) {
	cond := expression.Name("customerId").Equal(expression.Value(customerID))
	return r.scan(ctx, &cond)
}

func (r *DynamoInvoiceRepo) GetCreatedBefore(ctx context.Context, cutoff string) ([]models.Invoice, error) {
	cond := expression.Name("createdAt").LessThan(expression.Value(cutoff))
	return r.scan(ctx, &cond)
}

func (r *DynamoInvoiceRepo) scan(ctx context.Context, filter *expression.ConditionBuilder) ([]models.Invoice, error) {
	input := &dynamodb.ScanInput{TableName: aws.String(r.table)}
	if filter != nil {
		expr, err := expression.NewBuilder().WithFilter(*filter).Build()
		if err != nil {
			return nil, errors.Wrap(err, "failed to build invoice filter")
		}
		input.FilterExpression = expr.Filter()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}

	invoices := []models.Invoice{}
	paginator := dynamodb.NewScanPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan invoices")
		}
		var batch []models.Invoice
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, errors.Wrap(err, "failed to decode invoices")
		}
		invoices = append(invoices, batch...)
	}
	return invoices, nil
}

func (r *DynamoInvoiceRepo) Delete(ctx context.Context, id string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key:       r.key(id),
	})
	if err != nil {
		return errors.Wrapf(err, "failed to delete invoice %s", id)
	}
	return nil
}

func (r *DynamoInvoiceRepo) Ping(ctx context.Context) error {
	_, err := r.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(r.table)})
	return err
}
