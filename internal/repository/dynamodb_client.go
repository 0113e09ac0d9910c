package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"fraud-alert-agent/internal/domain"
)

const (
	pkPrefixCustomer  = "CUSTOMER#"
	pkPrefixCall      = "CALL#"
	skCase            = "CASE"
	skSession         = "SESSION"
	defaultSessionTTL = time.Hour
)

// dynamodbAPI is the minimal DynamoDB interface required by Client.
// Defined here for testability.
type dynamodbAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Client wraps the fraud case table and the call state table.
type Client struct {
	api        dynamodbAPI
	casesTable string
	stateTable string
	sessionTTL time.Duration
	now        func() time.Time
}

type Option func(*Client)

// WithSessionTTL sets how long an idle call snapshot survives in the state table.
func WithSessionTTL(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.sessionTTL = d
		}
	}
}

// New creates a new repository Client.
func New(api dynamodbAPI, casesTable, stateTable string, opts ...Option) (*Client, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(casesTable) == "" {
		return nil, errors.New("repository: cases table name must not be empty")
	}
	if strings.TrimSpace(stateTable) == "" {
		return nil, errors.New("repository: state table name must not be empty")
	}
	c := &Client{
		api:        api,
		casesTable: casesTable,
		stateTable: stateTable,
		sessionTTL: defaultSessionTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// customerPK returns the partition key of a case row.
func customerPK(customerKey string) string {
	return pkPrefixCustomer + domain.CustomerKey(customerKey)
}

func caseKey(customerKey string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: customerPK(customerKey)},
		"SK": &types.AttributeValueMemberS{Value: skCase},
	}
}

// FindCase reads the case row for a normalized customer key.
func (c *Client) FindCase(ctx context.Context, customerKey string) (domain.Case, error) {
	if domain.CustomerKey(customerKey) == "" {
		return domain.Case{}, fmt.Errorf("repository: FindCase: %w", domain.ErrCaseNotFound)
	}
	out, err := c.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(c.casesTable),
		Key:            caseKey(customerKey),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return domain.Case{}, fmt.Errorf("repository: FindCase get item: %w", err)
	}
	if out == nil || len(out.Item) == 0 {
		return domain.Case{}, fmt.Errorf("repository: FindCase %q: %w", domain.CustomerKey(customerKey), domain.ErrCaseNotFound)
	}
	fc, err := itemToCase(out.Item)
	if err != nil {
		return domain.Case{}, fmt.Errorf("repository: FindCase unmarshal: %w", err)
	}
	return fc, nil
}

// SaveCase overwrites status, lastUpdated and outcomeNote of an existing row.
// It never creates a row; a missing row yields domain.ErrNotPersisted.
func (c *Client) SaveCase(ctx context.Context, fc domain.Case) error {
	if domain.CustomerKey(fc.CustomerKey) == "" {
		return fmt.Errorf("repository: SaveCase: empty customer key: %w", domain.ErrNotPersisted)
	}
	_, err := c.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(c.casesTable),
		Key:                 caseKey(fc.CustomerKey),
		UpdateExpression:    aws.String("SET #status = :status, lastUpdated = :updated, outcomeNote = :note"),
		ConditionExpression: aws.String("attribute_exists(PK)"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status":  &types.AttributeValueMemberS{Value: string(fc.Status)},
			":updated": &types.AttributeValueMemberS{Value: fc.LastUpdated},
			":note":    optionalStr(fc.OutcomeNote),
		},
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return fmt.Errorf("repository: SaveCase %q: %w", domain.CustomerKey(fc.CustomerKey), domain.ErrNotPersisted)
		}
		return fmt.Errorf("repository: SaveCase: %w", err)
	}
	return nil
}

// InsertCase creates a case row unless one already exists for the customer.
// It reports whether the row was written.
func (c *Client) InsertCase(ctx context.Context, fc domain.Case) (bool, error) {
	if domain.CustomerKey(fc.CustomerKey) == "" {
		return false, errors.New("repository: InsertCase: customer key is required")
	}
	_, err := c.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(c.casesTable),
		Item:                caseItem(fc),
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return false, nil
		}
		return false, fmt.Errorf("repository: InsertCase: %w", err)
	}
	return true, nil
}

// CountCases returns the number of case rows in the cases table.
func (c *Client) CountCases(ctx context.Context) (int, error) {
	total := 0
	var startKey map[string]types.AttributeValue
	for {
		out, err := c.api.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(c.casesTable),
			Select:            types.SelectCount,
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return 0, fmt.Errorf("repository: CountCases scan: %w", err)
		}
		if out == nil {
			return total, nil
		}
		total += int(out.Count)
		if len(out.LastEvaluatedKey) == 0 {
			return total, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// ListCases returns every case row.
func (c *Client) ListCases(ctx context.Context) ([]domain.Case, error) {
	var cases []domain.Case
	var startKey map[string]types.AttributeValue
	for {
		out, err := c.api.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(c.casesTable),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("repository: ListCases scan: %w", err)
		}
		if out == nil {
			return cases, nil
		}
		for _, item := range out.Items {
			fc, err := itemToCase(item)
			if err != nil {
				return nil, fmt.Errorf("repository: ListCases unmarshal: %w", err)
			}
			cases = append(cases, fc)
		}
		if len(out.LastEvaluatedKey) == 0 {
			return cases, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

func caseAttrs(fc domain.Case) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"customerKey":         &types.AttributeValueMemberS{Value: domain.CustomerKey(fc.CustomerKey)},
		"customerName":        &types.AttributeValueMemberS{Value: fc.CustomerName},
		"securityIdentifier":  &types.AttributeValueMemberS{Value: fc.SecurityIdentifier},
		"cardSuffix":          &types.AttributeValueMemberS{Value: fc.CardSuffix},
		"status":              &types.AttributeValueMemberS{Value: string(fc.Status)},
		"transactionMerchant": &types.AttributeValueMemberS{Value: fc.Transaction.Merchant},
		"transactionTime":     &types.AttributeValueMemberS{Value: fc.Transaction.Time},
		"transactionAmount":   &types.AttributeValueMemberS{Value: fc.Transaction.Amount},
		"transactionCategory": &types.AttributeValueMemberS{Value: fc.Transaction.Category},
		"transactionSource":   &types.AttributeValueMemberS{Value: fc.Transaction.Source},
		"location":            &types.AttributeValueMemberS{Value: fc.Transaction.Location},
		"securityQuestion":    &types.AttributeValueMemberS{Value: fc.SecurityQuestion},
		"securityAnswer":      &types.AttributeValueMemberS{Value: fc.SecurityAnswer},
		"lastUpdated":         &types.AttributeValueMemberS{Value: fc.LastUpdated},
		"outcomeNote":         optionalStr(fc.OutcomeNote),
	}
}

func caseItem(fc domain.Case) map[string]types.AttributeValue {
	item := caseAttrs(fc)
	item["PK"] = &types.AttributeValueMemberS{Value: customerPK(fc.CustomerKey)}
	item["SK"] = &types.AttributeValueMemberS{Value: skCase}
	return item
}

// itemToCase converts a DynamoDB case row to a Case.
func itemToCase(item map[string]types.AttributeValue) (domain.Case, error) {
	return decodeCase(item, true)
}

// decodeCase reads the case attributes. Call snapshots omit securityAnswer, so
// it is only required for case rows.
func decodeCase(item map[string]types.AttributeValue, withAnswer bool) (domain.Case, error) {
	key, err := strAttr(item, "customerKey")
	if err != nil {
		return domain.Case{}, err
	}
	status, err := strAttr(item, "status")
	if err != nil {
		return domain.Case{}, err
	}
	if !domain.CaseStatus(status).Valid() {
		return domain.Case{}, fmt.Errorf("repository: unknown case status %q", status)
	}
	question, err := strAttr(item, "securityQuestion")
	if err != nil {
		return domain.Case{}, err
	}
	answer := optStrAttr(item, "securityAnswer")
	if withAnswer {
		if answer, err = strAttr(item, "securityAnswer"); err != nil {
			return domain.Case{}, err
		}
	}

	return domain.Case{
		CustomerKey:        key,
		CustomerName:       optStrAttr(item, "customerName"),
		SecurityIdentifier: optStrAttr(item, "securityIdentifier"),
		CardSuffix:         optStrAttr(item, "cardSuffix"),
		Status:             domain.CaseStatus(status),
		Transaction: domain.Transaction{
			Merchant: optStrAttr(item, "transactionMerchant"),
			Time:     optStrAttr(item, "transactionTime"),
			Amount:   optStrAttr(item, "transactionAmount"),
			Category: optStrAttr(item, "transactionCategory"),
			Source:   optStrAttr(item, "transactionSource"),
			Location: optStrAttr(item, "location"),
		},
		SecurityQuestion: question,
		SecurityAnswer:   answer,
		LastUpdated:      optStrAttr(item, "lastUpdated"),
		OutcomeNote:      optStrAttr(item, "outcomeNote"),
	}, nil
}

func optionalStr(s string) types.AttributeValue {
	if s == "" {
		return &types.AttributeValueMemberNULL{Value: true}
	}
	return &types.AttributeValueMemberS{Value: s}
}

func strAttr(item map[string]types.AttributeValue, key string) (string, error) {
	v, ok := item[key]
	if !ok {
		return "", fmt.Errorf("repository: missing attribute %q", key)
	}
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("repository: attribute %q is not a string", key)
	}
	return s.Value, nil
}

// optStrAttr returns the string value of key, or "" when absent or NULL.
func optStrAttr(item map[string]types.AttributeValue, key string) string {
	if s, ok := item[key].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func intAttr(item map[string]types.AttributeValue, key string) (int64, error) {
	v, ok := item[key]
	if !ok {
		return 0, fmt.Errorf("repository: missing attribute %q", key)
	}
	n, ok := v.(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("repository: attribute %q is not a number", key)
	}
	parsed, err := strconv.ParseInt(n.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("repository: parse attribute %q: %w", key, err)
	}
	return parsed, nil
}
