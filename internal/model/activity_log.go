package model

// Activity actions
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Activity outcomes
const (
	OutcomeOK        = "ok"
	OutcomeDuplicate = "duplicate"
	OutcomeFailed    = "failed"
)

// ActivityLog records one configuration mutation issued through the console (table activity_logs)
type ActivityLog struct {
	ActivityLogID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Username      string `gorm:"type:varchar(100);not null"                     json:"username"`
	Role          string `gorm:"type:varchar(20);not null"                      json:"role"`
	Action        string `gorm:"type:varchar(20);not null"                      json:"action"`
	ConfigID      string `gorm:"type:varchar(64)"                               json:"config_id,omitempty"`
	Title         string `gorm:"type:varchar(200);index"                        json:"title"`
	Branch        string `gorm:"type:varchar(20)"                               json:"branch"`
	Outcome       string `gorm:"type:varchar(20);not null"                      json:"outcome"`
	Message       string `gorm:"type:text"                                      json:"message,omitempty"`
	RequestID     string `gorm:"type:varchar(64)"                               json:"request_id,omitempty"`
	BaseModel
}

// TableName table name
func (ActivityLog) TableName() string { return "activity_logs" }
