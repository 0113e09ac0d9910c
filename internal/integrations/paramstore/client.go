// Package paramstore reads configuration documents, such as the case seed
// snapshot, from AWS SSM Parameter Store.
package paramstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// ErrNotFound is returned when the parameter does not exist.
var ErrNotFound = errors.New("paramstore: parameter not found")

// *ssm.Client satisfies ssmAPI.
type ssmAPI interface {
	GetParameter(ctx context.Context, in *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// Getter reads one parameter value by name.
type Getter interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

// Client resolves parameter names under a fixed path prefix.
type Client struct {
	api    ssmAPI
	prefix string
}

// New creates a Client. Relative names passed to GetParameter are joined onto
// prefix; names that start with "/" are used as given.
func New(api ssmAPI, prefix string) (*Client, error) {
	if api == nil {
		return nil, errors.New("paramstore: api must not be nil")
	}
	prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	if prefix != "" && !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return &Client{api: api, prefix: prefix}, nil
}

// Path returns the fully qualified parameter name for name.
func (c *Client) Path(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, "/") || c.prefix == "" {
		return name
	}
	return c.prefix + "/" + strings.TrimLeft(name, "/")
}

func (c *Client) GetParameter(ctx context.Context, name string) (string, error) {
	if c.api == nil {
		return "", errors.New("paramstore: client not initialized")
	}
	if strings.TrimSpace(name) == "" {
		return "", errors.New("paramstore: name is required")
	}
	path := c.Path(name)

	withDecryption := true
	out, err := c.api.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           &path,
		WithDecryption: &withDecryption,
	})
	if err != nil {
		var notFound *types.ParameterNotFound
		if errors.As(err, &notFound) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("paramstore: get parameter %q: %w", path, err)
	}
	if out == nil || out.Parameter == nil || out.Parameter.Value == nil {
		return "", fmt.Errorf("paramstore: parameter %q has no value", path)
	}
	return *out.Parameter.Value, nil
}
