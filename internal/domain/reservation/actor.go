package reservation

import "github.com/BruksfildServices01/barber-reservations/internal/httperr"

type Role string

const (
	RoleClient Role = "client"
	RoleBarber Role = "barber"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleClient || r == RoleBarber || r == RoleAdmin
}

// Actor is the caller of a gateway operation. It is always passed
// explicitly; nothing below the HTTP layer reads it from ambient state.
type Actor struct {
	Role Role
	ID   uint
}

func Client(id uint) Actor { return Actor{Role: RoleClient, ID: id} }
func Barber(id uint) Actor { return Actor{Role: RoleBarber, ID: id} }
func Admin(id uint) Actor  { return Actor{Role: RoleAdmin, ID: id} }

func (a Actor) Validate() error {
	if !a.Role.Valid() || a.ID == 0 {
		return httperr.NotAuthorized("invalid_actor")
	}
	return nil
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
