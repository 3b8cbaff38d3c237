package model

import (
	"time"
)

// Job 表示雇主发布的职位。曝光策略与账号共用 ExposurePolicy；
// GroupIDs 记录该职位的曝光由哪些名单组支撑，组变更时按差量回写 ExposedTo。
type Job struct {
	JobID   string `bson:"job_id"` // PK
	OwnerID string `bson:"owner_id"`
	Title   string `bson:"title"`

	ExposurePolicy `bson:",inline"`

	GroupIDs []string `bson:"group_ids"` // 支撑曝光的 roster 组

	IsInternship bool `bson:"is_internship"`
	ForFreshers  bool `bson:"for_freshers"`

	IsVisible  bool `bson:"is_visible"`
	IsArchived bool `bson:"is_archived"`

	CreateTime time.Time `bson:"create_time"`
	UpdateTime time.Time `bson:"update_time"`
}

func (*Job) TableName() string { return "job" }

// Active 在招：可见且未归档。
func (j *Job) Active() bool { return j.IsVisible && !j.IsArchived }
