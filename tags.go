// Tags is a map of attribute names to values that gets attached to
// every datapoint a reflector exports.
//
// Example:
// Tags["cluster"] = "cache-east"
// Tags["relay_id"] = "b1946ac9-..."
package presence

type Tags map[string]string

// Merge copies the entries of other into t, overriding where keys
// collide.
func (t Tags) Merge(other Tags) {
	for k, v := range other {
		t[k] = v
	}
}
