package model

import "time"

// MemberRole is a household member's role.
type MemberRole string

const (
	RoleOwner  MemberRole = "OWNER"
	RoleMember MemberRole = "MEMBER"
)

// Member is one user belonging to a household.
type Member struct {
	UserID   string     `json:"userId"`
	Name     string     `json:"name"`
	Role     MemberRole `json:"role"`
	JoinedAt time.Time  `json:"joinedAt"`
}

// Household groups users sharing one ledger. A local store holds at most one
// household, stored under a well-known key.
type Household struct {
	ID         string    `json:"id"`
	Rev        string    `json:"rev"`
	Name       string    `json:"name"`
	OwnerID    string    `json:"ownerId"`
	InviteCode string    `json:"inviteCode"`
	Members    []Member  `json:"members"`
	CreatedAt  time.Time `json:"createdAt"`
}

// User identifies the person performing operations in a session.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
