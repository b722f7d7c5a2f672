package appstate

import (
	"fmt"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/mssola/user_agent"
	"github.com/pkg/errors"
)

type Claims struct {
	jwt.RegisteredClaims
	Session string `json:"sid"`
	Role    string `json:"role"`
}

// Login 创建会话并签发 TOKEN
func (c *Container) Login(userID, role, userAgent string) (*Session, string, error) {
	if _, ok := c.roles[role]; !ok {
		return nil, "", errors.Wrapf(ErrUnknownRole, "'%s'", role)
	}

	ua := user_agent.New(userAgent)
	osinfo := ua.OSInfo()
	name, version := ua.Browser()

	now := c.now()
	s := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Role:      role,
		Browser:   fmt.Sprintf("%s %s", name, version),
		OS:        fmt.Sprintf("%s %s", osinfo.Name, osinfo.Version),
		CreatedAt: now,
		ExpiresAt: now.Add(c.cfg.TTL),
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.cfg.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
		Session: s.ID,
		Role:    role,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.cfg.Secret)
	if err != nil {
		return nil, "", errors.Wrap(err, "签发 TOKEN")
	}

	c.mu.Lock()
	c.sessions[s.ID] = s
	c.mu.Unlock()

	xlog.WithField("user", userID).WithField("role", role).Infof("登录成功, %s, %s", s.Browser, s.OS)
	return s, token, nil
}

func (c *Container) parse(token string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation())
	_, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return c.cfg.Secret, nil
	})
	if err != nil {
		return nil, errors.Wrap(ErrInvalidToken, err.Error())
	}
	// 有效期按容器的时钟检查
	now := c.now()
	if !claims.VerifyExpiresAt(now, true) {
		return nil, errors.Wrap(ErrInvalidToken, "已过期")
	}
	if !claims.VerifyIssuer(c.cfg.Issuer, true) {
		return nil, errors.Wrap(ErrInvalidToken, "签发者不匹配")
	}
	return claims, nil
}

// Authenticate 验证 TOKEN, 会话必须仍然存在
func (c *Container) Authenticate(token string) (*Session, error) {
	claims, err := c.parse(token)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	s, ok := c.sessions[claims.Session]
	c.mu.RUnlock()
	if !ok || !c.now().Before(s.ExpiresAt) {
		return nil, ErrNoSession
	}
	return s, nil
}

// Logout 删除会话和它的草稿
func (c *Container) Logout(token string) error {
	s, err := c.Authenticate(token)
	if err != nil {
		return err
	}
	c.mu.Lock()
	delete(c.sessions, s.ID)
	delete(c.drafts, s.ID)
	c.mu.Unlock()

	xlog.WithField("user", s.UserID).Info("退出登录")
	return nil
}
