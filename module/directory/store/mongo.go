package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"talentlink/data/database/mgo/mongoutil"
	"talentlink/module/directory/model"
	errs "talentlink/tools/errs"
)

type MongoAccountStore struct {
	DB *mongo.Database
}

func (s *MongoAccountStore) coll() *mongo.Collection {
	return s.DB.Collection((*model.Account)(nil).TableName())
}

func (s *MongoAccountStore) Get(ctx context.Context, accountID string) (*model.Account, error) {
	var a model.Account
	err := s.coll().FindOne(ctx, bson.M{"account_id": accountID}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrRecordNotFound.WrapMsg("account", "account_id", accountID)
	}
	if err != nil {
		return nil, mongoutil.WrapError(err, "find account", "account_id", accountID)
	}
	return &a, nil
}

func (s *MongoAccountStore) ListCommunity(ctx context.Context, membership, excludeFamilyID string) ([]*model.Account, error) {
	filter := bson.M{
		"$or": bson.A{
			bson.M{"membership": membership},
			bson.M{"additional_memberships": membership},
		},
	}
	if excludeFamilyID != "" {
		filter["family_id"] = bson.M{"$ne": excludeFamilyID}
	}
	cur, err := s.coll().Find(ctx, filter)
	if err != nil {
		return nil, mongoutil.WrapError(err, "list community", "membership", membership)
	}
	var out []*model.Account
	if err := cur.All(ctx, &out); err != nil {
		return nil, mongoutil.WrapError(err, "decode community")
	}
	return out, nil
}

func (s *MongoAccountStore) ListCandidates(ctx context.Context) ([]*model.Account, error) {
	cur, err := s.coll().Find(ctx, bson.M{"is_candidate": true})
	if err != nil {
		return nil, mongoutil.WrapError(err, "list candidates")
	}
	var out []*model.Account
	if err := cur.All(ctx, &out); err != nil {
		return nil, mongoutil.WrapError(err, "decode candidates")
	}
	return out, nil
}

// AddExposedTo 用 $addToSet 做并集追加；并发写者之间无需读-改-写。
func (s *MongoAccountStore) AddExposedTo(ctx context.Context, accountID string, granteeIDs ...string) error {
	if len(granteeIDs) == 0 {
		return nil
	}
	_, err := s.coll().UpdateOne(ctx,
		bson.M{"account_id": accountID},
		bson.M{"$addToSet": bson.M{"exposed_to": bson.M{"$each": granteeIDs}}},
	)
	return mongoutil.WrapError(err, "grant exposure", "account_id", accountID)
}

func (s *MongoAccountStore) RemoveExposedTo(ctx context.Context, accountID string, granteeIDs ...string) error {
	if len(granteeIDs) == 0 {
		return nil
	}
	_, err := s.coll().UpdateOne(ctx,
		bson.M{"account_id": accountID},
		bson.M{"$pull": bson.M{"exposed_to": bson.M{"$in": granteeIDs}}},
	)
	return mongoutil.WrapError(err, "revoke exposure", "account_id", accountID)
}

func (s *MongoAccountStore) AddBlockedBy(ctx context.Context, accountID, blockerID string) error {
	_, err := s.coll().UpdateOne(ctx,
		bson.M{"account_id": accountID},
		bson.M{"$addToSet": bson.M{"blocked_by": blockerID}},
	)
	return mongoutil.WrapError(err, "add blocked_by", "account_id", accountID)
}

func (s *MongoAccountStore) RemoveBlockedBy(ctx context.Context, accountID, blockerID string) error {
	_, err := s.coll().UpdateOne(ctx,
		bson.M{"account_id": accountID},
		bson.M{"$pull": bson.M{"blocked_by": blockerID}},
	)
	return mongoutil.WrapError(err, "remove blocked_by", "account_id", accountID)
}

type MongoJobStore struct {
	DB *mongo.Database
}

func (s *MongoJobStore) coll() *mongo.Collection {
	return s.DB.Collection((*model.Job)(nil).TableName())
}

func (s *MongoJobStore) Get(ctx context.Context, jobID string) (*model.Job, error) {
	var j model.Job
	err := s.coll().FindOne(ctx, bson.M{"job_id": jobID}).Decode(&j)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrRecordNotFound.WrapMsg("job", "job_id", jobID)
	}
	if err != nil {
		return nil, mongoutil.WrapError(err, "find job", "job_id", jobID)
	}
	return &j, nil
}

func (s *MongoJobStore) ListActive(ctx context.Context) ([]*model.Job, error) {
	cur, err := s.coll().Find(ctx, bson.M{"is_visible": true, "is_archived": false})
	if err != nil {
		return nil, mongoutil.WrapError(err, "list active jobs")
	}
	var out []*model.Job
	if err := cur.All(ctx, &out); err != nil {
		return nil, mongoutil.WrapError(err, "decode jobs")
	}
	return out, nil
}

func (s *MongoJobStore) ListByGroup(ctx context.Context, groupID string) ([]*model.Job, error) {
	cur, err := s.coll().Find(ctx, bson.M{"group_ids": groupID})
	if err != nil {
		return nil, mongoutil.WrapError(err, "list jobs by group", "group_id", groupID)
	}
	var out []*model.Job
	if err := cur.All(ctx, &out); err != nil {
		return nil, mongoutil.WrapError(err, "decode jobs")
	}
	return out, nil
}

func (s *MongoJobStore) AddExposedTo(ctx context.Context, jobID string, memberIDs ...string) error {
	if len(memberIDs) == 0 {
		return nil
	}
	_, err := s.coll().UpdateOne(ctx,
		bson.M{"job_id": jobID},
		bson.M{"$addToSet": bson.M{"exposed_to": bson.M{"$each": memberIDs}}},
	)
	return mongoutil.WrapError(err, "job grant exposure", "job_id", jobID)
}

func (s *MongoJobStore) RemoveExposedTo(ctx context.Context, jobID string, memberIDs ...string) error {
	if len(memberIDs) == 0 {
		return nil
	}
	_, err := s.coll().UpdateOne(ctx,
		bson.M{"job_id": jobID},
		bson.M{"$pull": bson.M{"exposed_to": bson.M{"$in": memberIDs}}},
	)
	return mongoutil.WrapError(err, "job revoke exposure", "job_id", jobID)
}

func (s *MongoJobStore) RemoveGroupRef(ctx context.Context, groupID string) error {
	_, err := s.coll().UpdateMany(ctx,
		bson.M{"group_ids": groupID},
		bson.M{"$pull": bson.M{"group_ids": groupID}},
	)
	return mongoutil.WrapError(err, "remove group ref", "group_id", groupID)
}
