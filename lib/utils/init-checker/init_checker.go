package initchecker

import (
	"reflect"

	"github.com/pkg/errors"
)

// Check takes name/value pairs and fails on the first nil dependency.
func Check(pairs ...any) error {
	if len(pairs)%2 != 0 {
		return errors.New("odd number of arguments")
	}
	for idx := 0; idx < len(pairs); idx += 2 {
		name, ok := pairs[idx].(string)
		if !ok {
			return errors.Errorf("argument %d must be a dependency name", idx)
		}
		if isNil(pairs[idx+1]) {
			return errors.Errorf("%s dependency not initialized", name)
		}
	}
	return nil
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Func, reflect.Interface, reflect.Chan, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}
