package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"talentlink/data/database/mgo/mongoutil"
	"talentlink/module/network/model"
	errs "talentlink/tools/errs"
)

type MongoConnectionStore struct {
	DB *mongo.Database
}

func (s *MongoConnectionStore) coll() *mongo.Collection {
	return s.DB.Collection((*model.Connection)(nil).TableName())
}

func (s *MongoConnectionStore) Insert(ctx context.Context, c *model.Connection) error {
	_, err := s.coll().InsertOne(ctx, c)
	return mongoutil.WrapError(err, "insert connection", "request_id", c.RequestID)
}

func (s *MongoConnectionStore) Get(ctx context.Context, requestID string) (*model.Connection, error) {
	var c model.Connection
	err := s.coll().FindOne(ctx, bson.M{"request_id": requestID}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrRecordNotFound.WrapMsg("connection", "request_id", requestID)
	}
	if err != nil {
		return nil, mongoutil.WrapError(err, "find connection", "request_id", requestID)
	}
	return &c, nil
}

// MarkHandled: 过滤条件带上 status=pending，终态行天然打不中，保证状态机单向。
func (s *MongoConnectionStore) MarkHandled(ctx context.Context, requestID, status string) (bool, error) {
	res, err := s.coll().UpdateOne(ctx,
		bson.M{"request_id": requestID, "status": model.StatusPending},
		bson.M{"$set": bson.M{"status": status, "handle_time": time.Now()}},
	)
	if err != nil {
		return false, mongoutil.WrapError(err, "mark connection handled", "request_id", requestID)
	}
	return res.ModifiedCount > 0, nil
}

func (s *MongoConnectionStore) ListInvolving(ctx context.Context, viewerID string) ([]*model.Connection, error) {
	cur, err := s.coll().Find(ctx, bson.M{
		"$or": bson.A{
			bson.M{"sender_id": viewerID},
			bson.M{"receiver_id": viewerID},
		},
	})
	if err != nil {
		return nil, mongoutil.WrapError(err, "list connections", "viewer_id", viewerID)
	}
	var out []*model.Connection
	if err := cur.All(ctx, &out); err != nil {
		return nil, mongoutil.WrapError(err, "decode connections")
	}
	return out, nil
}

func (s *MongoConnectionStore) HasLivePending(ctx context.Context, senderID, receiverID string) (bool, error) {
	err := s.coll().FindOne(ctx, bson.M{
		"sender_id":   senderID,
		"receiver_id": receiverID,
		"status":      model.StatusPending,
	}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, mongoutil.WrapError(err, "check pending connection")
	}
	return true, nil
}
