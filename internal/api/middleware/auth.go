package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-BeautyBookingService/internal/api/handlers"
)

// Role роль пользователя
type Role string

const (
	RoleUser     Role = "user"
	RoleOperator Role = "operator"
)

// Заголовки, которым доверяем при выключенном JWT
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

const (
	msgMissingCredentials = "требуется авторизация"
	msgInvalidToken       = "некорректный токен"
	msgOperatorOnly       = "доступно только операторам"
)

var (
	// ErrMissingCredentials запрос без токена и без заголовков пользователя
	ErrMissingCredentials = errors.New("middleware: missing credentials")

	// ErrInvalidToken токен не прошел проверку
	ErrInvalidToken = errors.New("middleware: invalid token")
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	roleKey
)

// Claims JWT claims: sub = id пользователя, role = user | operator
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Auth определяет пользователя запроса.
// С заданным секретом требует Bearer JWT (HS256), без него доверяет заголовкам X-User-ID / X-User-Role.
type Auth struct {
	secret []byte
	logger Logger
}

// NewAuth создает middleware аутентификации
func NewAuth(secret string, logger Logger) *Auth {
	return &Auth{secret: []byte(secret), logger: logger}
}

// Middleware кладет id и роль пользователя в контекст запроса
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, role, err := a.authenticate(r)
		if err != nil {
			a.logger.Warn("%s %s - authentication failed: %v", r.Method, r.URL.Path, err)
			if errors.Is(err, ErrMissingCredentials) {
				handlers.RespondUnauthorized(w, msgMissingCredentials)
			} else {
				handlers.RespondUnauthorized(w, msgInvalidToken)
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), userID, role)))
	})
}

// RequireOperator пропускает только операторов. Ставится после Middleware.
func (a *Auth) RequireOperator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsOperator(r.Context()) {
			userID, _ := GetUserID(r.Context())
			a.logger.Warn("%s %s - operator role required, user=%s", r.Method, r.URL.Path, userID)
			handlers.RespondForbidden(w, msgOperatorOnly)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *Auth) authenticate(r *http.Request) (uuid.UUID, Role, error) {
	if len(a.secret) == 0 {
		return fromHeaders(r)
	}

	header := r.Header.Get("Authorization")
	if header == "" {
		return uuid.Nil, "", ErrMissingCredentials
	}
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return uuid.Nil, "", fmt.Errorf("%w: expected bearer scheme", ErrInvalidToken)
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil || !token.Valid {
		return uuid.Nil, "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("%w: subject is not a uuid", ErrInvalidToken)
	}
	return userID, parseRole(claims.Role), nil
}

func fromHeaders(r *http.Request) (uuid.UUID, Role, error) {
	raw := r.Header.Get(HeaderUserID)
	if raw == "" {
		return uuid.Nil, "", ErrMissingCredentials
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("%w: %s is not a uuid", ErrInvalidToken, HeaderUserID)
	}
	return userID, parseRole(r.Header.Get(HeaderUserRole)), nil
}

func parseRole(s string) Role {
	if Role(strings.ToLower(s)) == RoleOperator {
		return RoleOperator
	}
	return RoleUser
}

// WithUser кладет пользователя в контекст
func WithUser(ctx context.Context, userID uuid.UUID, role Role) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}

// GetUserID возвращает id пользователя из контекста
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	return userID, ok
}

// GetRole возвращает роль пользователя из контекста
func GetRole(ctx context.Context) Role {
	role, ok := ctx.Value(roleKey).(Role)
	if !ok {
		return RoleUser
	}
	return role
}

// IsOperator сообщает, является ли пользователь оператором
func IsOperator(ctx context.Context) bool {
	return GetRole(ctx) == RoleOperator
}
