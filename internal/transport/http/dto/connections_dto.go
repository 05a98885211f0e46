package dto

import "time"

type SendRequestRequest struct {
	RecipientID int64  `json:"recipientId"`
	TeachSkill  string `json:"teachSkill"`
	LearnSkill  string `json:"learnSkill"`
}

type RespondRequestRequest struct {
	RequestID int64  `json:"requestId"`
	Status    string `json:"status"`
}

type ConnectionResponse struct {
	ID        int64     `json:"id"`
	User1ID   int64     `json:"user1Id"`
	User2ID   int64     `json:"user2Id"`
	Skill1    string    `json:"skill1"`
	Skill2    string    `json:"skill2"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SenderProfileResponse struct {
	UserID    int64    `json:"userId"`
	Name      string   `json:"name"`
	Skills    []string `json:"skills"`
	Interests []string `json:"interests"`
	Timezone  string   `json:"timezone,omitempty"`
}

type PendingRequestResponse struct {
	ConnectionResponse
	Sender SenderProfileResponse `json:"sender"`
}

type ConnectionEnvelope struct {
	Success bool               `json:"success"`
	Data    ConnectionResponse `json:"data"`
}

type ConnectionsEnvelope struct {
	Success bool                 `json:"success"`
	Data    []ConnectionResponse `json:"data"`
}

type PendingRequestsEnvelope struct {
	Success bool                     `json:"success"`
	Data    []PendingRequestResponse `json:"data"`
}

type UnmatchRequest struct {
	ConnectionID int64 `json:"connectionId"`
}

type EndConnectionResponse struct {
	Success         bool `json:"success"`
	RemovedMeetings int  `json:"removedMeetings"`
}
