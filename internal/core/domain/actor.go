package domain

const (
	RoleAdmin  = "admin"
	RoleDriver = "driver"
	RoleClient = "client"
)

// Actor is the authenticated caller of an operation. It is supplied by the
// transport layer; the core never authenticates on its own.
type Actor struct {
	ID   string
	Role string
}

func (a Actor) IsAdmin() bool  { return a.Role == RoleAdmin }
func (a Actor) IsDriver() bool { return a.Role == RoleDriver }
