package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"AstroBot/entity"
	"AstroBot/internal/lib/validate"
)

func (m *MongoDB) UpsertProfile(profile *entity.Profile) error {
	if err := validate.Struct(profile); err != nil {
		return err
	}
	profile.UpdatedAt = time.Now()

	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(profilesCollection)
	filter := bson.D{{Key: "chat_id", Value: profile.ChatId}}
	update := bson.M{"$set": profile}

	_, err = collection.UpdateOne(m.ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return err
	}

	return nil
}

func (m *MongoDB) GetProfile(chatId int64) (*entity.Profile, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(profilesCollection)
	filter := bson.D{{Key: "chat_id", Value: chatId}}

	var profile entity.Profile
	err = collection.FindOne(m.ctx, filter).Decode(&profile)
	if err != nil {
		return nil, m.findError(err)
	}

	return &profile, nil
}
