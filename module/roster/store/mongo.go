package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"talentlink/data/database/mgo/mongoutil"
	"talentlink/module/roster/model"
	errs "talentlink/tools/errs"
)

type MongoGroupStore struct {
	DB *mongo.Database
}

func (s *MongoGroupStore) coll() *mongo.Collection {
	return s.DB.Collection((*model.Group)(nil).TableName())
}

func (s *MongoGroupStore) Insert(ctx context.Context, g *model.Group) error {
	_, err := s.coll().InsertOne(ctx, g)
	return mongoutil.WrapError(err, "insert group", "group_id", g.GroupID)
}

func (s *MongoGroupStore) Get(ctx context.Context, groupID string) (*model.Group, error) {
	var g model.Group
	err := s.coll().FindOne(ctx, bson.M{"group_id": groupID}).Decode(&g)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrRecordNotFound.WrapMsg("group", "group_id", groupID)
	}
	if err != nil {
		return nil, mongoutil.WrapError(err, "find group", "group_id", groupID)
	}
	return &g, nil
}

func (s *MongoGroupStore) ListByIDs(ctx context.Context, groupIDs []string) ([]*model.Group, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}
	cur, err := s.coll().Find(ctx, bson.M{"group_id": bson.M{"$in": groupIDs}})
	if err != nil {
		return nil, mongoutil.WrapError(err, "list groups by ids")
	}
	var out []*model.Group
	if err := cur.All(ctx, &out); err != nil {
		return nil, mongoutil.WrapError(err, "decode groups")
	}
	return out, nil
}

func (s *MongoGroupStore) ListByOwner(ctx context.Context, ownerID string) ([]*model.Group, error) {
	cur, err := s.coll().Find(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return nil, mongoutil.WrapError(err, "list groups by owner", "owner_id", ownerID)
	}
	var out []*model.Group
	if err := cur.All(ctx, &out); err != nil {
		return nil, mongoutil.WrapError(err, "decode groups")
	}
	return out, nil
}

func (s *MongoGroupStore) Update(ctx context.Context, g *model.Group) error {
	res, err := s.coll().UpdateOne(ctx,
		bson.M{"group_id": g.GroupID},
		bson.M{"$set": bson.M{
			"name":          g.Name,
			"member_ids":    g.MemberIDs,
			"mode":          g.Mode,
			"ref_group_ids": g.RefGroupIDs,
			"is_hot_list":   g.IsHotList,
			"is_job":        g.IsJob,
			"is_candidate":  g.IsCandidate,
			"update_time":   g.UpdateTime,
		}},
	)
	if err != nil {
		return mongoutil.WrapError(err, "update group", "group_id", g.GroupID)
	}
	if res.MatchedCount == 0 {
		return errs.ErrRecordNotFound.WrapMsg("group", "group_id", g.GroupID)
	}
	return nil
}

func (s *MongoGroupStore) Delete(ctx context.Context, groupID string) error {
	_, err := s.coll().DeleteOne(ctx, bson.M{"group_id": groupID})
	return mongoutil.WrapError(err, "delete group", "group_id", groupID)
}

type MongoHotListStore struct {
	DB *mongo.Database
}

func (s *MongoHotListStore) coll() *mongo.Collection {
	return s.DB.Collection((*model.HotList)(nil).TableName())
}

// ReplaceForGroup 先清后建。两步之间崩溃会留下空窗，但重跑会收敛，
// 调用方（组变更）天然会重跑。
func (s *MongoHotListStore) ReplaceForGroup(ctx context.Context, groupID string, rows []*model.HotList) error {
	if _, err := s.coll().DeleteMany(ctx, bson.M{"group_id": groupID}); err != nil {
		return mongoutil.WrapError(err, "clear hot list", "group_id", groupID)
	}
	if len(rows) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(rows))
	for _, r := range rows {
		docs = append(docs, r)
	}
	_, err := s.coll().InsertMany(ctx, docs)
	return mongoutil.WrapError(err, "insert hot list", "group_id", groupID)
}

func (s *MongoHotListStore) DeleteForGroup(ctx context.Context, groupID string) error {
	_, err := s.coll().DeleteMany(ctx, bson.M{"group_id": groupID})
	return mongoutil.WrapError(err, "delete hot list", "group_id", groupID)
}

func (s *MongoHotListStore) ListForViewer(ctx context.Context, viewerID string) ([]*model.HotList, error) {
	cur, err := s.coll().Find(ctx, bson.M{
		"viewer_id": bson.M{"$in": bson.A{viewerID, model.WildcardViewer}},
	})
	if err != nil {
		return nil, mongoutil.WrapError(err, "list hot list", "viewer_id", viewerID)
	}
	var out []*model.HotList
	if err := cur.All(ctx, &out); err != nil {
		return nil, mongoutil.WrapError(err, "decode hot list")
	}
	return out, nil
}
