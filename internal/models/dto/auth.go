package dto

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/hongminglow/taskdesk/internal/models"
	"github.com/hongminglow/taskdesk/internal/service"
)

// Millis is a millisecond count decoded leniently from a JSON number or a
// string with a leading integer ("1500", "1500ms"). Anything else decodes as
// 0 so a malformed delay never fails the request it is attached to.
type Millis int

func (m *Millis) UnmarshalJSON(data []byte) error {
	*m = 0
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	switch v := raw.(type) {
	case float64:
		*m = Millis(math.Max(0, math.Min(v, math.MaxInt32)))
	case string:
		*m = Millis(ParseMillis(v))
	}
	return nil
}

// ParseMillis reads the leading integer of value, ignoring surrounding
// whitespace and any trailing text. Values without one, or negative values,
// yield 0. Results saturate at math.MaxInt32.
func ParseMillis(value string) int {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "+")
	n := 0
	for _, r := range value {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		if n >= math.MaxInt32 {
			return math.MaxInt32
		}
	}
	return n
}

type LoginRequest struct {
	UserID   string `json:"userId"`
	Password string `json:"password"`
	DelayMs  Millis `json:"delayMs,omitempty"`
}

// Credentials is a validated login request.
type Credentials struct {
	UserID   string
	Password string
}

// Parse validates the request.
func (r LoginRequest) Parse() (Credentials, error) {
	userID := strings.TrimSpace(r.UserID)
	if userID == "" || r.Password == "" {
		return Credentials{}, service.Invalid("userId and password are required")
	}
	return Credentials{UserID: userID, Password: r.Password}, nil
}

// UserView is the public projection of a user returned at login.
type UserView struct {
	UserID     string      `json:"userId"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Role       models.Role `json:"role"`
	Department string      `json:"department"`
}

// NewUserView projects user for the login response.
func NewUserView(user models.User) UserView {
	return UserView{
		UserID:     user.UserID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		Department: user.Department,
	}
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}
