package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/ryadom/ryadom/internal/models"
	"github.com/sirupsen/logrus"
)

type EventRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *logrus.Logger
}

func NewEventRepository(client *dynamodb.Client, tableName string, logger *logrus.Logger) *EventRepository {
	return &EventRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	item, err := attributevalue.MarshalMap(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	item["PK"] = &types.AttributeValueMemberS{Value: event.GetPK()}
	item["SK"] = &types.AttributeValueMemberS{Value: event.GetSK()}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})

	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrConflict
		}
		r.logger.WithError(err).Error("Failed to create event in DynamoDB")
		return fmt.Errorf("failed to create event: %w", err)
	}

	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	event := &models.Event{ID: id}

	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: event.GetPK()},
			"SK": &types.AttributeValueMemberS{Value: event.GetSK()},
		},
	})

	if err != nil {
		r.logger.WithError(err).Error("Failed to get event from DynamoDB")
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	if result.Item == nil {
		return nil, ErrNotFound
	}

	var dbEvent models.Event
	if err := attributevalue.UnmarshalMap(result.Item, &dbEvent); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	return &dbEvent, nil
}

func (r *EventRepository) List(ctx context.Context) ([]models.Event, error) {
	result, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(r.tableName),
		FilterExpression: aws.String("begins_with(PK, :pk_prefix) AND SK = :sk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk_prefix": &types.AttributeValueMemberS{Value: "EVENT#"},
			":sk":        &types.AttributeValueMemberS{Value: "METADATA"},
		},
	})

	if err != nil {
		r.logger.WithError(err).Error("Failed to scan events from DynamoDB")
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	var events []models.Event
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal events: %w", err)
	}

	return events, nil
}

func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	item, err := attributevalue.MarshalMap(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	item["PK"] = &types.AttributeValueMemberS{Value: event.GetPK()}
	item["SK"] = &types.AttributeValueMemberS{Value: event.GetSK()}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})

	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrNotFound
		}
		r.logger.WithError(err).Error("Failed to update event in DynamoDB")
		return fmt.Errorf("failed to update event: %w", err)
	}

	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	event := &models.Event{ID: id}

	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: event.GetPK()},
			"SK": &types.AttributeValueMemberS{Value: event.GetSK()},
		},
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})

	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrNotFound
		}
		r.logger.WithError(err).Error("Failed to delete event from DynamoDB")
		return fmt.Errorf("failed to delete event: %w", err)
	}

	return nil
}
