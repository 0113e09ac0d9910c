package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"fraud-alert-agent/internal/domain"
)

// callPK returns the partition key of a call snapshot.
func callPK(callID string) string {
	return pkPrefixCall + callID
}

func sessionKey(callID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: callPK(callID)},
		"SK": &types.AttributeValueMemberS{Value: skSession},
	}
}

// GetSession loads the snapshot of an in-progress call. It returns nil, nil
// when the call is unknown or its snapshot has expired.
func (c *Client) GetSession(ctx context.Context, callID string) (*domain.Session, error) {
	if strings.TrimSpace(callID) == "" {
		return nil, errors.New("repository: GetSession: call id is required")
	}
	out, err := c.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(c.stateTable),
		Key:            sessionKey(callID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("repository: GetSession get item: %w", err)
	}
	if out == nil || len(out.Item) == 0 {
		return nil, nil
	}

	// DynamoDB TTL deletion is lazy; expired items can still be returned.
	if ttl, err := intAttr(out.Item, "ttl"); err == nil && ttl < c.now().Unix() {
		return nil, nil
	}

	sess, err := itemToSession(out.Item)
	if err != nil {
		return nil, fmt.Errorf("repository: GetSession unmarshal: %w", err)
	}
	return sess, nil
}

// PutSession writes or replaces the snapshot of a call.
func (c *Client) PutSession(ctx context.Context, sess *domain.Session) error {
	if sess == nil || strings.TrimSpace(sess.CallID) == "" {
		return errors.New("repository: PutSession: call id is required")
	}
	_, err := c.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.stateTable),
		Item:      c.sessionItem(sess),
	})
	if err != nil {
		return fmt.Errorf("repository: PutSession: %w", err)
	}
	return nil
}

// DeleteSession discards the snapshot of a finished call.
func (c *Client) DeleteSession(ctx context.Context, callID string) error {
	if strings.TrimSpace(callID) == "" {
		return errors.New("repository: DeleteSession: call id is required")
	}
	_, err := c.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(c.stateTable),
		Key:       sessionKey(callID),
	})
	if err != nil {
		return fmt.Errorf("repository: DeleteSession: %w", err)
	}
	return nil
}

func (c *Client) sessionItem(sess *domain.Session) map[string]types.AttributeValue {
	item := sessionKey(sess.CallID)
	item["callId"] = &types.AttributeValueMemberS{Value: sess.CallID}
	item["verification"] = &types.AttributeValueMemberS{Value: string(sess.Verification)}
	item["stage"] = &types.AttributeValueMemberS{Value: string(sess.Stage)}
	item["ttl"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", c.now().Add(c.sessionTTL).Unix())}
	if sess.Case != nil {
		// The security answer stays in the cases table only.
		attrs := caseAttrs(*sess.Case)
		delete(attrs, "securityAnswer")
		item["case"] = &types.AttributeValueMemberM{Value: attrs}
	}
	return item
}

func itemToSession(item map[string]types.AttributeValue) (*domain.Session, error) {
	callID, err := strAttr(item, "callId")
	if err != nil {
		return nil, err
	}
	verification, err := strAttr(item, "verification")
	if err != nil {
		return nil, err
	}
	stage, err := strAttr(item, "stage")
	if err != nil {
		return nil, err
	}

	sess := &domain.Session{
		CallID:       callID,
		Verification: domain.VerificationState(verification),
		Stage:        domain.CallStage(stage),
	}
	if raw, ok := item["case"]; ok {
		m, ok := raw.(*types.AttributeValueMemberM)
		if !ok {
			return nil, errors.New("repository: attribute \"case\" is not a map")
		}
		fc, err := decodeCase(m.Value, false)
		if err != nil {
			return nil, err
		}
		sess.Case = &fc
	}
	return sess, nil
}
