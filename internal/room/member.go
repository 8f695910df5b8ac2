package room

import (
	"time"

	"github.com/ANANDU-2000/PeerLearningPlatform/pkg/interfaces"
	"github.com/ANANDU-2000/PeerLearningPlatform/pkg/types"
)

// Member is one participant's live connection state within a room.
// ConnID is the server-generated connection handle; a room never holds
// two members with the same ConnID.
type Member struct {
	ConnID   string
	UserID   string
	UserName string
	Role     string
	Conn     interfaces.Conn
	JoinedAt time.Time
}

// NewMember builds a member for an authorized connection.
func NewMember(connID, userID, userName, role string, conn interfaces.Conn) *Member {
	return &Member{
		ConnID:   connID,
		UserID:   userID,
		UserName: userName,
		Role:     role,
		Conn:     conn,
		JoinedAt: time.Now(),
	}
}

// IsMentor reports whether the member holds the mentor role.
func (m *Member) IsMentor() bool {
	return m.Role == types.RoleMentor
}

// Participant returns the member's public snapshot.
func (m *Member) Participant() types.Participant {
	return types.Participant{
		UserID:   m.UserID,
		UserName: m.UserName,
		Role:     m.Role,
		JoinedAt: m.JoinedAt,
	}
}
