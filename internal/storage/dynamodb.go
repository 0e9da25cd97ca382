package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDB attribute names.
const (
	AttrKey       = "Key"
	AttrValue     = "Value"
	AttrExpiresAt = "ExpiresAt"
)

// DynamoConfig selects the table and how to reach DynamoDB.
type DynamoConfig struct {
	Table     string
	Region    string
	Endpoint  string // non-empty for DynamoDB Local
	AccessKey string
	SecretKey string
}

// dynamoItem is one key-value entry. ExpiresAt is epoch seconds and is
// registered as the table's TTL attribute.
type dynamoItem struct {
	Key       string `dynamodbav:"Key"`
	Value     string `dynamodbav:"Value"`
	ExpiresAt int64  `dynamodbav:"ExpiresAt,omitempty"`
}

// DynamoStore keeps entries in a single DynamoDB table keyed by Key.
type DynamoStore struct {
	client *dynamodb.Client
	table  string
	logger *slog.Logger
	now    func() time.Time
}

// NewDynamoStore loads AWS configuration and creates a DynamoStore. When an
// endpoint is configured, static credentials are used (DynamoDB Local);
// otherwise the default credential chain applies.
func NewDynamoStore(ctx context.Context, cfg DynamoConfig, logger *slog.Logger) (*DynamoStore, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.Endpoint != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	logger.Info("DynamoDB store initialized",
		slog.String("table", cfg.Table),
		slog.String("region", cfg.Region),
		slog.String("endpoint", cfg.Endpoint))

	return &DynamoStore{client: client, table: cfg.Table, logger: logger, now: time.Now}, nil
}

var _ Store = (*DynamoStore)(nil)

// Get reads with strong consistency so an index written moments ago is seen.
// DynamoDB deletes expired items lazily, so expiry is also checked here.
func (s *DynamoStore) Get(ctx context.Context, key string) (string, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			AttrKey: &types.AttributeValueMemberS{Value: key},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("storage: dynamodb get %q: %w", key, err)
	}
	if out.Item == nil {
		return "", ErrNotFound
	}

	var item dynamoItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return "", fmt.Errorf("storage: dynamodb unmarshal %q: %w", key, err)
	}
	if item.ExpiresAt > 0 && item.ExpiresAt <= s.now().Unix() {
		return "", ErrNotFound
	}
	return item.Value, nil
}

func (s *DynamoStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	item := dynamoItem{Key: key, Value: value}
	if ttl > 0 {
		item.ExpiresAt = s.now().Add(ttl).Unix()
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("storage: dynamodb marshal %q: %w", key, err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("storage: dynamodb put %q: %w", key, err)
	}
	return nil
}

func (s *DynamoStore) Ping(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.table),
	})
	if err != nil {
		return fmt.Errorf("DynamoDB health check failed: %w", err)
	}
	return nil
}

// EnsureTable creates the table with on-demand billing when it does not
// exist, waits for it to become active and enables TTL on ExpiresAt.
func (s *DynamoStore) EnsureTable(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.table),
	})
	if err == nil {
		s.logger.Info("DynamoDB table already exists", slog.String("table", s.table))
		return nil
	}
	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return fmt.Errorf("describe table: %w", err)
	}

	_, err = s.client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(s.table),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(AttrKey), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(AttrKey), KeyType: types.KeyTypeHash},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	waiter := dynamodb.NewTableExistsWaiter(s.client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.table),
	}, 60*time.Second); err != nil {
		return fmt.Errorf("wait for table: %w", err)
	}

	_, err = s.client.UpdateTimeToLive(ctx, &dynamodb.UpdateTimeToLiveInput{
		TableName: aws.String(s.table),
		TimeToLiveSpecification: &types.TimeToLiveSpecification{
			AttributeName: aws.String(AttrExpiresAt),
			Enabled:       aws.Bool(true),
		},
	})
	if err != nil {
		return fmt.Errorf("enable ttl: %w", err)
	}

	s.logger.Info("DynamoDB table created", slog.String("table", s.table))
	return nil
}

// Close is a no-op; the SDK client holds no resources that need releasing.
func (s *DynamoStore) Close() error {
	return nil
}
