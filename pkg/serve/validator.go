package serve

import (
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type customValidator struct {
	validate *validator.Validate
}

func NewCustomValidator() echo.Validator {
	validate := validator.New()
	validate.RegisterValidation("colkey", colkeyValidator)
	return &customValidator{validate: validate}
}

func (cv *customValidator) Validate(i any) error {
	err := cv.validate.Struct(i)
	if err == nil {
		return nil
	}
	if errs, ok := err.(validator.ValidationErrors); ok {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, translateError(e))
		}
		return echo.NewHTTPError(http.StatusBadRequest, strings.Join(msgs, ", "))
	}
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}

// 列 key: 字母开头, 可以是点分路径
var colkeyRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z0-9_]+)*$`)

func colkeyValidator(fl validator.FieldLevel) bool {
	return colkeyRe.MatchString(fl.Field().String())
}

func translateError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s 为必填项", e.Field())
	case "email":
		return fmt.Sprintf("%s 格式不正确", e.Field())
	case "gte":
		return fmt.Sprintf("%s 必须大于等于 %s", e.Field(), e.Param())
	case "oneof":
		return fmt.Sprintf("%s 必须是 [%s] 之一", e.Field(), e.Param())
	case "colkey":
		return fmt.Sprintf("%s 不是有效的列名", e.Field())
	default:
		return fmt.Sprintf("%s 校验失败", e.Field())
	}
}

// customBinder 绑定后去除字符串首尾空白
type customBinder struct {
	echo.DefaultBinder
}

func NewCustomBinder() echo.Binder {
	return &customBinder{}
}

func (cb *customBinder) Bind(i any, c echo.Context) error {
	if err := cb.DefaultBinder.Bind(i, c); err != nil {
		return err
	}
	trimValue(reflect.ValueOf(i))
	return nil
}

func trimValue(v reflect.Value) {
	if !v.IsValid() {
		return
	}
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		if !v.IsNil() {
			trimValue(v.Elem())
		}
	case reflect.String:
		if v.CanSet() {
			v.SetString(strings.TrimSpace(v.String()))
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			trimValue(v.Field(i))
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			trimValue(v.Index(i))
		}
	case reflect.Map:
		// map 的值不可寻址, 只处理 map[string]string
		if v.Type().Elem().Kind() != reflect.String {
			return
		}
		for _, k := range v.MapKeys() {
			v.SetMapIndex(k, reflect.ValueOf(strings.TrimSpace(v.MapIndex(k).String())).Convert(v.Type().Elem()))
		}
	}
}
