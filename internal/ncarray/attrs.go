package ncarray

import (
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/util"
	"github.com/pkg/errors"
)

// Attributes builds an ordered attribute map from alternating keys and
// values. Key order is preserved in the written file.
func Attributes(kv ...any) (api.AttributeMap, error) {
	if len(kv)%2 != 0 {
		return nil, errors.New("attributes need key/value pairs")
	}
	keys := make([]string, 0, len(kv)/2)
	vals := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, errors.Errorf("attribute key %v is not a string", kv[i])
		}
		keys = append(keys, k)
		vals[k] = kv[i+1]
	}
	return util.NewOrderedMap(keys, vals)
}

// Merge returns an attribute map holding base's entries followed by extra's.
// Entries of extra override entries of base with the same key.
func Merge(base, extra api.AttributeMap) (api.AttributeMap, error) {
	var keys []string
	vals := map[string]any{}
	for _, m := range []api.AttributeMap{base, extra} {
		if m == nil {
			continue
		}
		for _, k := range m.Keys() {
			v, _ := m.Get(k)
			if _, seen := vals[k]; !seen {
				keys = append(keys, k)
			}
			vals[k] = v
		}
	}
	return util.NewOrderedMap(keys, vals)
}
