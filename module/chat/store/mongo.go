package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"talentlink/data/database/mgo/mongoutil"
	"talentlink/module/chat/model"
	errs "talentlink/tools/errs"
)

type MongoRequestStore struct {
	DB *mongo.Database
}

func (s *MongoRequestStore) coll() *mongo.Collection {
	return s.DB.Collection((*model.ChatRequest)(nil).TableName())
}

func (s *MongoRequestStore) Insert(ctx context.Context, r *model.ChatRequest) error {
	_, err := s.coll().InsertOne(ctx, r)
	return mongoutil.WrapError(err, "insert chat request", "request_id", r.RequestID)
}

func (s *MongoRequestStore) Get(ctx context.Context, requestID string) (*model.ChatRequest, error) {
	var r model.ChatRequest
	err := s.coll().FindOne(ctx, bson.M{"request_id": requestID}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrRecordNotFound.WrapMsg("chat request", "request_id", requestID)
	}
	if err != nil {
		return nil, mongoutil.WrapError(err, "find chat request", "request_id", requestID)
	}
	return &r, nil
}

func (s *MongoRequestStore) ListPending(ctx context.Context, employerID, candidateID string) ([]*model.ChatRequest, error) {
	cur, err := s.coll().Find(ctx, bson.M{
		"employer_id":  employerID,
		"candidate_id": candidateID,
		"is_accepted":  false,
		"is_rejected":  false,
	})
	if err != nil {
		return nil, mongoutil.WrapError(err, "list pending chat requests")
	}
	var out []*model.ChatRequest
	if err := cur.All(ctx, &out); err != nil {
		return nil, mongoutil.WrapError(err, "decode chat requests")
	}
	return out, nil
}

// MarkAllHandled: 过滤条件排除终态行，重复执行无副作用。
func (s *MongoRequestStore) MarkAllHandled(ctx context.Context, employerID, candidateID string, accepted bool) error {
	set := bson.M{"handle_time": time.Now()}
	if accepted {
		set["is_accepted"] = true
	} else {
		set["is_rejected"] = true
	}
	_, err := s.coll().UpdateMany(ctx,
		bson.M{
			"employer_id":  employerID,
			"candidate_id": candidateID,
			"is_accepted":  false,
			"is_rejected":  false,
		},
		bson.M{"$set": set},
	)
	return mongoutil.WrapError(err, "mark chat requests handled")
}

func (s *MongoRequestStore) ListByParty(ctx context.Context, accountID string) ([]*model.ChatRequest, error) {
	cur, err := s.coll().Find(ctx, bson.M{
		"$or": bson.A{
			bson.M{"pa_id": accountID},
			bson.M{"employer_id": accountID},
			bson.M{"candidate_id": accountID},
		},
	})
	if err != nil {
		return nil, mongoutil.WrapError(err, "list chat requests", "account_id", accountID)
	}
	var out []*model.ChatRequest
	if err := cur.All(ctx, &out); err != nil {
		return nil, mongoutil.WrapError(err, "decode chat requests")
	}
	return out, nil
}

type MongoConversationStore struct {
	DB *mongo.Database
}

func (s *MongoConversationStore) coll() *mongo.Collection {
	return s.DB.Collection((*model.Conversation)(nil).TableName())
}

func (s *MongoConversationStore) Get(ctx context.Context, conversationID string) (*model.Conversation, error) {
	var c model.Conversation
	err := s.coll().FindOne(ctx, bson.M{"conversation_id": conversationID}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrRecordNotFound.WrapMsg("conversation", "conversation_id", conversationID)
	}
	if err != nil {
		return nil, mongoutil.WrapError(err, "find conversation", "conversation_id", conversationID)
	}
	return &c, nil
}

func (s *MongoConversationStore) FindByKey(ctx context.Context, candidateID, employerID, jobID string) (*model.Conversation, error) {
	var c model.Conversation
	err := s.coll().FindOne(ctx, bson.M{
		"candidate_id": candidateID,
		"employer_id":  employerID,
		"job_id":       jobID,
	}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrRecordNotFound.WrapMsg("conversation",
			"candidate_id", candidateID, "employer_id", employerID, "job_id", jobID)
	}
	if err != nil {
		return nil, mongoutil.WrapError(err, "find conversation by key")
	}
	return &c, nil
}

// CreateOrActivate: 自然键 upsert。$setOnInsert 带上种子消息，重复触发只会
// 重复置 is_exposed=true。
func (s *MongoConversationStore) CreateOrActivate(ctx context.Context, c *model.Conversation) (*model.Conversation, error) {
	after := options.After
	res := s.coll().FindOneAndUpdate(ctx,
		bson.M{
			"candidate_id": c.CandidateID,
			"employer_id":  c.EmployerID,
			"job_id":       c.JobID,
		},
		bson.M{
			"$set": bson.M{"is_exposed": true, "update_time": time.Now()},
			"$setOnInsert": bson.M{
				"conversation_id":       c.ConversationID,
				"pa_id":                 c.PAID,
				"has_candidate_deleted": false,
				"has_employer_deleted":  false,
				"is_candidate_blocked":  false,
				"is_employer_blocked":   false,
				"messages":              c.Messages,
				"create_time":           c.CreateTime,
			},
		},
		&options.FindOneAndUpdateOptions{
			Upsert:         boolPtr(true),
			ReturnDocument: &after,
		},
	)
	var out model.Conversation
	if err := res.Decode(&out); err != nil {
		return nil, mongoutil.WrapError(err, "create or activate conversation")
	}
	return &out, nil
}

func boolPtr(v bool) *bool { return &v }

func (s *MongoConversationStore) AppendMessage(ctx context.Context, conversationID string, m model.Message) error {
	res, err := s.coll().UpdateOne(ctx,
		bson.M{"conversation_id": conversationID},
		bson.M{
			"$push": bson.M{"messages": m},
			"$set":  bson.M{"update_time": time.Now()},
		},
	)
	if err != nil {
		return mongoutil.WrapError(err, "append message", "conversation_id", conversationID)
	}
	if res.MatchedCount == 0 {
		return errs.ErrRecordNotFound.WrapMsg("conversation", "conversation_id", conversationID)
	}
	return nil
}

func (s *MongoConversationStore) MarkRead(ctx context.Context, conversationID, readerID string) error {
	_, err := s.coll().UpdateOne(ctx,
		bson.M{"conversation_id": conversationID},
		bson.M{"$set": bson.M{"messages.$[m].is_read": true}},
		options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{
				bson.M{"m.to_id": readerID, "m.is_read": false},
			},
		}),
	)
	return mongoutil.WrapError(err, "mark read", "conversation_id", conversationID)
}

func (s *MongoConversationStore) SetDeleted(ctx context.Context, conversationID, role string) error {
	field := "has_employer_deleted"
	if role == model.RoleCandidate {
		field = "has_candidate_deleted"
	}
	_, err := s.coll().UpdateOne(ctx,
		bson.M{"conversation_id": conversationID},
		bson.M{"$set": bson.M{
			field:                            true,
			"messages.$[].delivery." + field: true,
		}},
	)
	return mongoutil.WrapError(err, "set deleted", "conversation_id", conversationID)
}

// SetBlocked: 同一有序对的所有会话（每个职位一条线程）统一翻拉黑位。
// 只动会话实时旗标，不碰历史消息快照。
func (s *MongoConversationStore) SetBlocked(ctx context.Context, candidateID, employerID, role string, value bool) error {
	field := "is_employer_blocked"
	if role == model.RoleCandidate {
		field = "is_candidate_blocked"
	}
	_, err := s.coll().UpdateMany(ctx,
		bson.M{"candidate_id": candidateID, "employer_id": employerID},
		bson.M{"$set": bson.M{field: value}},
	)
	return mongoutil.WrapError(err, "set blocked", "candidate_id", candidateID, "employer_id", employerID)
}

func (s *MongoConversationStore) FindAnyBetween(ctx context.Context, aID, bID string) (*model.Conversation, error) {
	var c model.Conversation
	err := s.coll().FindOne(ctx, bson.M{
		"$or": bson.A{
			bson.M{"candidate_id": aID, "employer_id": bID},
			bson.M{"candidate_id": bID, "employer_id": aID},
		},
	}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrRecordNotFound.WrapMsg("conversation between pair")
	}
	if err != nil {
		return nil, mongoutil.WrapError(err, "find conversation between pair")
	}
	return &c, nil
}

func (s *MongoConversationStore) ListFor(ctx context.Context, viewerID string) ([]*model.Conversation, error) {
	cur, err := s.coll().Find(ctx, bson.M{
		"$or": bson.A{
			bson.M{"candidate_id": viewerID},
			bson.M{"employer_id": viewerID},
		},
	})
	if err != nil {
		return nil, mongoutil.WrapError(err, "list conversations", "viewer_id", viewerID)
	}
	var out []*model.Conversation
	if err := cur.All(ctx, &out); err != nil {
		return nil, mongoutil.WrapError(err, "decode conversations")
	}
	return out, nil
}
