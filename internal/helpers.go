package internal

import (
	"reflect"
	"strconv"
)

// ContextValue returns the value stored under key, or the zero value of T.
func ContextValue[T any](c Context, key any) T {
	v, _ := c.Get(key).(T)
	return v
}

// ParamType lists the kinds a route argument can be converted to.
type ParamType interface {
	~string | ~int | ~int64 | ~float64 | ~bool
}

// Param returns a typed route argument. Values that fail to parse
// yield the zero value of T.
func Param[T ParamType](c Context, name string) T {
	var zero T
	return ParamDefault(c, name, zero)
}

// ParamDefault returns a typed route argument or defaultValue when the
// argument is absent or unparsable.
func ParamDefault[T ParamType](c Context, name string, defaultValue T) T {
	raw := c.Param(name)
	if raw == "" {
		return defaultValue
	}
	v, err := parseParam[T](raw)
	if err != nil {
		return defaultValue
	}
	return v
}

// parseParam converts raw by the underlying kind of T, so named types such
// as `type UserID int64` work too.
func parseParam[T ParamType](raw string) (T, error) {
	var out T
	v := reflect.ValueOf(&out).Elem()

	switch v.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, v.Type().Bits())
		if err != nil {
			return out, err
		}
		v.SetInt(n)
	case reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return out, err
		}
		v.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return out, err
		}
		v.SetBool(b)
	}
	return out, nil
}
