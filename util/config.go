package util

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"
)

var camelCaseBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)

// LoadConfig sets the fields of the struct pointed to by c from the env vars
// PREFIX_FIELD_NAME (UserAgent -> PREFIX_USER_AGENT). String fields are taken as is,
// everything else is json decoded. Unset vars keep the current value unless the
// field is tagged required:"true".
func LoadConfig(prefix string, c any) error {
	rt, rc := reflect.TypeOf(c).Elem(), reflect.ValueOf(c).Elem()
	for i := 0; i < rt.NumField(); i++ {
		rft := rt.Field(i)
		if !rft.IsExported() {
			continue
		}
		k := EnvKey(prefix, rft.Name)
		s, ok := os.LookupEnv(k)
		if !ok && rft.Tag.Get("required") == "true" {
			return fmt.Errorf("failed to lookup field %q in env (%s)", rft.Name, k)
		} else if !ok {
			continue
		}
		if rft.Type.Kind() == reflect.String {
			rc.Field(i).SetString(s)
		} else if err := json.Unmarshal([]byte(s), rc.Field(i).Addr().Interface()); err != nil {
			return fmt.Errorf("failed to unmarshal %q(%s) from %s=%q", rft.Name, rft.Type, k, s)
		}
	}
	return nil
}

func EnvKey(prefix, field string) string {
	k := strings.ToUpper(camelCaseBoundary.ReplaceAllString(field, "${1}_${2}"))
	if prefix == "" {
		return k
	}
	return prefix + "_" + k
}
