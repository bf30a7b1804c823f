package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jayrweg/afya-plus/entity"
)

// SaveOrder upserts an order document keyed by its confirmation token.
func (m *MongoDB) SaveOrder(ctx context.Context, order *entity.Order) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(ordersCollection)

	filter := bson.D{{Key: "token", Value: order.Token}}
	update := bson.D{{Key: "$set", Value: order}}
	opts := options.Update().SetUpsert(true)

	_, err = collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// UpdateOrderStatus sets the status of the order with the given token.
func (m *MongoDB) UpdateOrderStatus(ctx context.Context, token string, status entity.OrderStatus) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(ordersCollection)

	filter := bson.D{{Key: "token", Value: token}}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "status", Value: status}}}}

	_, err = collection.UpdateOne(ctx, filter, update)
	return err
}

// GetOrderByToken fetches a single archived order, or nil when absent.
func (m *MongoDB) GetOrderByToken(ctx context.Context, token string) (*entity.Order, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(ordersCollection)

	filter := bson.D{{Key: "token", Value: token}}

	var order entity.Order
	err = collection.FindOne(ctx, filter).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, m.findError(err)
	}

	return &order, nil
}
