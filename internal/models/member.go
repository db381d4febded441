package models

// Membership roles. The set is closed; anything else is rejected before any
// network or database call.
const (
	RoleParticipant = "participant"
	RoleOrganizer   = "organizer"
	RolePartner     = "partner"
)

func IsValidRole(role string) bool {
	switch role {
	case RoleParticipant, RoleOrganizer, RolePartner:
		return true
	}
	return false
}

type Member struct {
	ID      string `json:"id" dynamodbav:"id"`
	EventID string `json:"event_id" dynamodbav:"event_id"`
	UserID  string `json:"user_id" dynamodbav:"user_id"`
	Role    string `json:"role" dynamodbav:"role"`
}

// Members of one event share a partition; uniqueness of (event, user) is the
// item key itself.
func (m *Member) GetPK() string {
	return "EVENT#" + m.EventID
}

func (m *Member) GetSK() string {
	return "MEMBER#" + m.UserID
}
