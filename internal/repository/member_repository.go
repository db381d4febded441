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

type MemberRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *logrus.Logger
}

func NewMemberRepository(client *dynamodb.Client, tableName string, logger *logrus.Logger) *MemberRepository {
	return &MemberRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// Add inserts a membership. The item key is (event, user), so the
// conditional put is the storage-level uniqueness constraint that resolves
// concurrent duplicate-member races.
func (r *MemberRepository) Add(ctx context.Context, member *models.Member) error {
	item, err := attributevalue.MarshalMap(member)
	if err != nil {
		return fmt.Errorf("failed to marshal member: %w", err)
	}

	item["PK"] = &types.AttributeValueMemberS{Value: member.GetPK()}
	item["SK"] = &types.AttributeValueMemberS{Value: member.GetSK()}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(SK)"),
	})

	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrConflict
		}
		r.logger.WithError(err).Error("Failed to add member in DynamoDB")
		return fmt.Errorf("failed to add member: %w", err)
	}

	return nil
}

func (r *MemberRepository) ListByEvent(ctx context.Context, eventID string) ([]models.Member, error) {
	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk_prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":        &types.AttributeValueMemberS{Value: "EVENT#" + eventID},
			":sk_prefix": &types.AttributeValueMemberS{Value: "MEMBER#"},
		},
	})

	if err != nil {
		r.logger.WithError(err).Error("Failed to query members from DynamoDB")
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	var members []models.Member
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &members); err != nil {
		return nil, fmt.Errorf("failed to unmarshal members: %w", err)
	}

	return members, nil
}
