package config

import (
	"reflect"
	"strconv"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

var durationType = reflect.TypeOf(time.Duration(0))

// Unmarshal decodes v into conf. Durations accept Go duration strings
// ("90s") or bare numbers, which are read as milliseconds ("60000").
func Unmarshal(v *viper.Viper, conf *Config) error {
	return v.Unmarshal(conf, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.DecodeHookFuncType(millisecondsHook),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
}

func millisecondsHook(from, to reflect.Type, data any) (any, error) {
	if to != durationType || from == durationType {
		return data, nil
	}
	v := reflect.ValueOf(data)
	switch from.Kind() { //nolint:exhaustive
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return time.Duration(v.Int()) * time.Millisecond, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return time.Duration(v.Uint()) * time.Millisecond, nil //nolint:gosec
	case reflect.Float32, reflect.Float64:
		return time.Duration(v.Float() * float64(time.Millisecond)), nil
	case reflect.String:
		if ms, err := strconv.ParseInt(v.String(), 10, 64); err == nil {
			return time.Duration(ms) * time.Millisecond, nil
		}
	}
	return data, nil
}
