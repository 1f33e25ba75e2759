package querybuilder

import (
	"reflect"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

type modelField struct {
	index  []int
	column string
}

// fieldCache maps a struct type to its db columns; row models are inserted
// once per load, always with the same type.
var fieldCache sync.Map

// InsertModel builds an insert from the db-tagged exported fields of model,
// including those promoted from embedded structs.
func InsertModel(d Dialect, table string, model any, suffix string) (string, []any, error) {
	v, fields, err := modelFields(model)
	if err != nil {
		return "", nil, err
	}

	cols := make([]string, len(fields))
	vals := make([]any, len(fields))
	for i, f := range fields {
		cols[i] = f.column
		vals[i] = v.FieldByIndex(f.index).Interface()
	}
	return InsertInto(table).Dialect(d).Columns(cols...).Values(vals...).Suffix(suffix).ToSQL()
}

// Columns lists the db column names of model in field order, or nil when
// model is not a tagged struct.
func Columns(model any) []string {
	_, fields, err := modelFields(model)
	if err != nil {
		return nil
	}
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.column
	}
	return cols
}

func modelFields(model any) (reflect.Value, []modelField, error) {
	v := reflect.ValueOf(model)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, nil, errors.New("model cannot be nil")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, nil, errors.Newf("model must be a struct, got %s", v.Kind())
	}

	if cached, ok := fieldCache.Load(v.Type()); ok {
		return v, cached.([]modelField), nil
	}

	var fields []modelField
	for _, sf := range reflect.VisibleFields(v.Type()) {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		name, _, _ := strings.Cut(sf.Tag.Get("db"), ",")
		name = strings.TrimSpace(name)
		if name == "" || name == "-" {
			continue
		}
		fields = append(fields, modelField{index: sf.Index, column: name})
	}
	if len(fields) == 0 {
		return reflect.Value{}, nil, errors.Newf("%s has no db columns", v.Type())
	}

	fieldCache.Store(v.Type(), fields)
	return v, fields, nil
}
