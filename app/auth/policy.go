package auth

// Action is something an identity may or may not be allowed to do.
type Action string

const (
	CreatePost Action = "create_post"
	EditPost   Action = "edit_post"
	DeletePost Action = "delete_post"
	Comment    Action = "comment"
)

// Policy decides whether an identity may perform an action.
type Policy interface {
	Allows(id Identity, action Action) bool
}

// AdminPolicy lets a single account manage posts and any logged-in user comment.
type AdminPolicy struct {
	AdminID int
}

func (p AdminPolicy) Allows(id Identity, action Action) bool {
	if !id.Authenticated() {
		return false
	}
	switch action {
	case CreatePost, EditPost, DeletePost:
		return id.ID == p.AdminID
	case Comment:
		return true
	}
	return false
}

// IsAdmin reports whether id may manage posts under policy.
func IsAdmin(policy Policy, id Identity) bool {
	return policy != nil && policy.Allows(id, CreatePost)
}
