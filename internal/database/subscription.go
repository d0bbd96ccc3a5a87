package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"AstroBot/entity"
	"AstroBot/internal/lib/validate"
)

func (m *MongoDB) UpsertSubscription(sub *entity.Subscription) error {
	if err := validate.Struct(sub); err != nil {
		return err
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now()
	}

	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(subscriptionsCollection)
	filter := bson.D{{Key: "chat_id", Value: sub.ChatId}}
	update := bson.M{"$set": sub}

	_, err = collection.UpdateOne(m.ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return err
	}

	return nil
}

func (m *MongoDB) DeleteSubscription(chatId int64) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(subscriptionsCollection)
	filter := bson.D{{Key: "chat_id", Value: chatId}}

	_, err = collection.DeleteOne(m.ctx, filter)
	if err != nil {
		return err
	}

	return nil
}

func (m *MongoDB) GetSubscription(chatId int64) (*entity.Subscription, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(subscriptionsCollection)
	filter := bson.D{{Key: "chat_id", Value: chatId}}

	var sub entity.Subscription
	err = collection.FindOne(m.ctx, filter).Decode(&sub)
	if err != nil {
		return nil, m.findError(err)
	}

	return &sub, nil
}

func (m *MongoDB) ListSubscriptions() ([]entity.Subscription, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(subscriptionsCollection)

	cursor, err := collection.Find(m.ctx, bson.D{})
	if err != nil {
		return nil, m.findError(err)
	}
	defer cursor.Close(m.ctx)

	var subs []entity.Subscription
	if err = cursor.All(m.ctx, &subs); err != nil {
		return nil, err
	}

	return subs, nil
}

func (m *MongoDB) CountSubscriptions() (int64, error) {
	connection, err := m.connect()
	if err != nil {
		return 0, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(subscriptionsCollection)

	count, err := collection.CountDocuments(m.ctx, bson.D{})
	if err != nil {
		return 0, err
	}

	return count, nil
}
