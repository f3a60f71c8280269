package envelope

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/rezonia/szamlazz-go/internal/model"
	"github.com/rezonia/szamlazz-go/internal/wire"
)

// Credentials authenticate agent requests with either an agent key or a
// user/password pair. The zero value is not usable.
type Credentials struct {
	apiKey   string
	user     string
	password string
}

// APIKey creates agent-key credentials
func APIKey(key string) (Credentials, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Credentials{}, model.NewValidationError("APIKey", nil, "required", "agent key must not be empty")
	}
	return Credentials{apiKey: key}, nil
}

// UserPassword creates user/password credentials
func UserPassword(user, password string) (Credentials, error) {
	if strings.TrimSpace(user) == "" {
		return Credentials{}, model.NewValidationError("User", nil, "required", "user must not be empty")
	}
	if strings.TrimSpace(password) == "" {
		return Credentials{}, model.NewValidationError("Password", nil, "required", "password must not be empty")
	}
	return Credentials{user: user, password: password}, nil
}

// NewCredentials picks the authentication form from loosely supplied values.
// Exactly one of apiKey and the user/password pair must be given.
func NewCredentials(apiKey, user, password string) (Credentials, error) {
	hasKey := strings.TrimSpace(apiKey) != ""
	hasUser := strings.TrimSpace(user) != "" || strings.TrimSpace(password) != ""
	switch {
	case hasKey && hasUser:
		return Credentials{}, model.NewValidationError("Credentials", nil, "exclusive", "give either an agent key or a user/password pair, not both")
	case hasKey:
		return APIKey(apiKey)
	case hasUser:
		return UserPassword(user, password)
	default:
		return Credentials{}, model.NewValidationError("Credentials", nil, "required", "agent key or user/password pair is required")
	}
}

// IsZero reports whether no credentials were set
func (c Credentials) IsZero() bool {
	return c.apiKey == "" && c.user == ""
}

// UsesAPIKey reports whether the agent-key form is in use
func (c Credentials) UsesAPIKey() bool {
	return c.apiKey != ""
}

// String masks the secret parts
func (c Credentials) String() string {
	switch {
	case c.apiKey != "":
		return "api-key(***)"
	case c.user != "":
		return "user(" + c.user + ")"
	default:
		return "none"
	}
}

func (c Credentials) appendTo(parent *etree.Element) {
	if c.apiKey != "" {
		parent.CreateElement(wire.AgentKey).SetText(c.apiKey)
		return
	}
	parent.CreateElement(wire.User).SetText(c.user)
	parent.CreateElement(wire.Password).SetText(c.password)
}
