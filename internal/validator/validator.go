package validator

import (
	"net/url"
	"slices"
)

// Validator 类型中存放校验错误
type Validator struct {
	Errors map[string]string
}

// New 构造函数，返回新的 Validator 实例
func New() *Validator {
	return &Validator{
		Errors: make(map[string]string),
	}
}

// Valid 函数在 errors 为空时返回 true
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError map 中新增一条错误信息，同一个 key 只保留第一条
func (v *Validator) AddError(key, message string) {
	if _, exists := v.Errors[key]; !exists {
		v.Errors[key] = message
	}
}

// Check 在校验未通过时增加一条错误消息
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// In 当值在指定的列表中时返回 true
func In(value string, list ...string) bool {
	return PermittedValue(value, list...)
}

// PermittedValue 泛型版本的 In
func PermittedValue[T comparable](value T, permittedValues ...T) bool {
	return slices.Contains(permittedValues, value)
}

// URL 在传入值是带 scheme 的绝对 URL 时返回 true，不检查是否可访问
func URL(value string) bool {
	u, err := url.Parse(value)
	if err != nil {
		return false
	}

	return u.Scheme != "" && (u.Host != "" || u.Opaque != "")
}
