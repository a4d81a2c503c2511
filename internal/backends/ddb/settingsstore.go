package ddb

import (
	"context"

	"hsforms/internal/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbTypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const DefaultScope = "hubspot-forms"

// SettingsStore keeps the settings as a single item (PK=SETTINGS#<scope>, SK=PROFILE).
type SettingsStore struct {
	table string
	scope string
	cli   *dynamodb.Client
}

func NewSettingsStore(table string, cli *dynamodb.Client) *SettingsStore {
	// Creates the table only if it doesn't exist.
	// We ignore the error if the table already exists.
	createTableIfNotExists(cli, table)
	return &SettingsStore{table: table, scope: DefaultScope, cli: cli}
}

func (s *SettingsStore) key() map[string]ddbTypes.AttributeValue {
	return map[string]ddbTypes.AttributeValue{
		"PK": &ddbTypes.AttributeValueMemberS{Value: pkSettings(s.scope)},
		"SK": &ddbTypes.AttributeValueMemberS{Value: skProfile()},
	}
}

func (s *SettingsStore) GetSettings(ctx context.Context) (types.Settings, error) {
	out, err := s.cli.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      &s.table,
		Key:            s.key(),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return types.Settings{}, types.Err(types.ErrDataStoreAccess, err, "")
	}
	if out.Item == nil {
		return types.Settings{}, types.ErrNotFound
	}
	var settings types.Settings
	if err := attributevalue.UnmarshalMap(out.Item, &settings); err != nil {
		return types.Settings{}, types.Err(types.ErrDataStoreAccess, err, "invalid stored settings")
	}
	return settings, nil
}

func (s *SettingsStore) PutSettings(ctx context.Context, settings types.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	item, err := attributevalue.MarshalMap(struct {
		PK string `dynamodbav:"PK"`
		SK string `dynamodbav:"SK"`
		types.Settings
	}{
		PK:       pkSettings(s.scope),
		SK:       skProfile(),
		Settings: settings,
	})
	if err != nil {
		return err
	}
	_, err = s.cli.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.table,
		Item:      item,
	})
	if err != nil {
		return types.Err(types.ErrDataStoreAccess, err, "")
	}
	return nil
}

func (s *SettingsStore) ClearSettings(ctx context.Context) error {
	_, err := s.cli.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &s.table,
		Key:       s.key(),
	})
	if err != nil {
		return types.Err(types.ErrDataStoreAccess, err, "")
	}
	return nil
}
