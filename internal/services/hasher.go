package services

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"reflect"

	"github.com/wntjdus12/jobverse/internal/apperr"
	"github.com/wntjdus12/jobverse/internal/models"
)

// HashContent fingerprints structured content deterministically: JSON
// encoding sorts map keys recursively, so semantically identical content
// hashes the same regardless of original key order. Content that cannot be
// represented as JSON is rejected with the offending path.
func HashContent(content models.StructuredContent) (string, error) {
	canonical, err := json.Marshal(content)
	if err != nil {
		if path := findUnsupportedValue("$", reflect.ValueOf(content)); path != "" {
			return "", apperr.Validation("content is not JSON-serializable at %s", path)
		}
		return "", apperr.Validation("content is not JSON-serializable: %v", err)
	}

	digest := sha256.Sum256(canonical)
	return hex.EncodeToString(digest[:]), nil
}

// findUnsupportedValue walks the content to locate the first value the JSON
// encoder cannot handle (channels, funcs, NaN/Inf floats and the like).
// Returns "" when nothing obviously unsupported is found.
func findUnsupportedValue(path string, v reflect.Value) string {
	if !v.IsValid() {
		return ""
	}

	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return ""
		}
		return findUnsupportedValue(path, v.Elem())
	case reflect.Map:
		for _, key := range v.MapKeys() {
			keyStr := fmt.Sprintf("%v", key.Interface())
			if p := findUnsupportedValue(path+"."+keyStr, v.MapIndex(key)); p != "" {
				return p
			}
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if p := findUnsupportedValue(fmt.Sprintf("%s[%d]", path, i), v.Index(i)); p != "" {
				return p
			}
		}
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			if p := findUnsupportedValue(path+"."+t.Field(i).Name, v.Field(i)); p != "" {
				return p
			}
		}
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return path
		}
	case reflect.Chan, reflect.Func, reflect.Complex64, reflect.Complex128, reflect.UnsafePointer:
		return path
	}
	return ""
}
