package globals

import (
	"os"
)

var JwtSecret = []byte(jwtSecret())

func jwtSecret() string {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return s
	}
	return "dev_secret_change_me"
}

// Context keys
type ContextKey string

const UserIDKey ContextKey = "userId"
const RolesKey ContextKey = "roles"

// Roles carried in JWT claims.
const (
	RoleConsumer  = "consumer"
	RoleProducer  = "producer"
	RoleDeliverer = "deliverer"
	RoleAdmin     = "admin"
)
