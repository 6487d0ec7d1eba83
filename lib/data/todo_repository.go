package data

import (
	"context"
	"errors"
	"fmt"

	"todobackend/lib/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sirupsen/logrus"
)

// ErrTodoNotFound is returned when an update targets a (userId, todoId) key
// that does not exist in the table.
var ErrTodoNotFound = errors.New("todo not found")

// TodoRepository defines the interface for todo item operations.
// Every operation is scoped by the owning user's id.
type TodoRepository interface {
	GetTodos(ctx context.Context, userID string) ([]models.TodoItem, error)
	CreateTodo(ctx context.Context, todo models.TodoItem) (models.TodoItem, error)
	UpdateTodo(ctx context.Context, userID, todoID string, update models.TodoUpdate) error
	DeleteTodo(ctx context.Context, userID, todoID string) error
}

// DynamoDBClientInterface covers the DynamoDB operations the DAO performs
type DynamoDBClientInterface interface {
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// TodoDao implements TodoRepository against a DynamoDB table keyed by
// (userId, todoId)
type TodoDao struct {
	DB        DynamoDBClientInterface
	TableName string
	Logger    *logrus.Logger
}

// GetTodos returns every todo whose partition key equals userID. An owner
// with no items gets an empty slice, never an error.
func (dao *TodoDao) GetTodos(ctx context.Context, userID string) ([]models.TodoItem, error) {
	keyCond := expression.Key("userId").Equal(expression.Value(userID))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build query expression: %w", err)
	}

	output, err := dao.DB.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(dao.TableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		dao.Logger.WithError(err).WithFields(logrus.Fields{
			"user_id":   userID,
			"operation": "GetTodos",
		}).Error("Failed to query todos")
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}

	todos := make([]models.TodoItem, 0, len(output.Items))
	if err := attributevalue.UnmarshalListOfMaps(output.Items, &todos); err != nil {
		return nil, fmt.Errorf("failed to unmarshal todos: %w", err)
	}

	return todos, nil
}

// CreateTodo writes the item unconditionally. The caller guarantees todoId
// uniqueness via random generation, so no existence check is made.
func (dao *TodoDao) CreateTodo(ctx context.Context, todo models.TodoItem) (models.TodoItem, error) {
	av, err := attributevalue.MarshalMap(todo)
	if err != nil {
		return models.TodoItem{}, fmt.Errorf("failed to marshal todo: %w", err)
	}

	_, err = dao.DB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(dao.TableName),
		Item:      av,
	})
	if err != nil {
		dao.Logger.WithError(err).WithFields(logrus.Fields{
			"user_id":   todo.UserID,
			"todo_id":   todo.TodoID,
			"operation": "CreateTodo",
		}).Error("Failed to create todo")
		return models.TodoItem{}, fmt.Errorf("failed to create todo: %w", err)
	}

	return todo, nil
}

// UpdateTodo sets exactly the three mutable fields (name, dueDate, done).
// The attribute_exists condition surfaces a missing item as ErrTodoNotFound
// instead of silently upserting.
func (dao *TodoDao) UpdateTodo(ctx context.Context, userID, todoID string, update models.TodoUpdate) error {
	upd := expression.
		Set(expression.Name("name"), expression.Value(update.Name)).
		Set(expression.Name("dueDate"), expression.Value(update.DueDate)).
		Set(expression.Name("done"), expression.Value(update.Done))
	cond := expression.AttributeExists(expression.Name("userId"))

	expr, err := expression.NewBuilder().WithUpdate(upd).WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("failed to build update expression: %w", err)
	}

	_, err = dao.DB.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(dao.TableName),
		Key:                       todoKey(userID, todoID),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return ErrTodoNotFound
		}
		dao.Logger.WithError(err).WithFields(logrus.Fields{
			"user_id":   userID,
			"todo_id":   todoID,
			"operation": "UpdateTodo",
		}).Error("Failed to update todo")
		return fmt.Errorf("failed to update todo: %w", err)
	}

	return nil
}

// DeleteTodo removes the item. Deleting a nonexistent key is not an error.
func (dao *TodoDao) DeleteTodo(ctx context.Context, userID, todoID string) error {
	_, err := dao.DB.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(dao.TableName),
		Key:       todoKey(userID, todoID),
	})
	if err != nil {
		dao.Logger.WithError(err).WithFields(logrus.Fields{
			"user_id":   userID,
			"todo_id":   todoID,
			"operation": "DeleteTodo",
		}).Error("Failed to delete todo")
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	return nil
}

func todoKey(userID, todoID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
		"todoId": &types.AttributeValueMemberS{Value: todoID},
	}
}
