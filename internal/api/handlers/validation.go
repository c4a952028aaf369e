package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/langchou/atlas/internal/config"
)

// newValidator 创建请求校验器，radius 规则使用配置中的上下限
func newValidator(cfg *config.Config) *validator.Validate {
	v := validator.New()

	// 错误信息使用 JSON 字段名
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("radius", func(fl validator.FieldLevel) bool {
		r := fl.Field().Int()
		return r >= int64(cfg.MinRadius) && r <= int64(cfg.MaxRadius)
	})

	return v
}

// validationMessage 将校验错误转换为可读信息
func (h *Handler) validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "min", "max":
			msgs = append(msgs, fmt.Sprintf("%s must have length %s %s", fe.Field(), boundWord(fe.Tag()), fe.Param()))
		case "latitude":
			msgs = append(msgs, fmt.Sprintf("%s must be between -90 and 90", fe.Field()))
		case "longitude":
			msgs = append(msgs, fmt.Sprintf("%s must be between -180 and 180", fe.Field()))
		case "radius":
			msgs = append(msgs, fmt.Sprintf("%s must be between %d and %d meters", fe.Field(), h.cfg.MinRadius, h.cfg.MaxRadius))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

func boundWord(tag string) string {
	if tag == "min" {
		return ">="
	}
	return "<="
}
