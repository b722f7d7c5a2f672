package model

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"xorm.io/xorm"
)

var ErrLogin = errors.New("账号不存在或已停用")

// FindLogin 按邮箱查找在职员工
func FindLogin(ctx context.Context, session *xorm.Session, email string) (*Employee, error) {
	var e Employee
	has, err := session.Context(ctx).Where("email = ? AND active = ?", strings.ToLower(email), true).Get(&e)
	if err != nil {
		return nil, errors.Wrap(err, "查询员工")
	}
	if !has {
		return nil, ErrLogin
	}
	return &e, nil
}
