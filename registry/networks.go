package registry

// Well-known network names. The set is open: any other non-empty name is
// accepted on write.
const (
	Internal = "internal"
	External = "external"
	Broker   = "broker"
)

// Networks lists the well-known network names.
var Networks = []string{Internal, External, Broker}

// AuthServiceID is the id under which the login service registers itself.
const AuthServiceID = "login"
