package models

import (
	"reflect"
	"sync"

	"gorm.io/gorm/schema"
)

var schemaCache sync.Map

// ResetServerFields обнуляет первичный ключ и поля autoCreateTime.
// Их значения назначаются при вставке.
func ResetServerFields(entity any) {
	eachField(entity, func(field *schema.Field, value reflect.Value) {
		if field.PrimaryKey || field.AutoCreateTime > 0 {
			value.Set(reflect.Zero(value.Type()))
		}
	})
}

// AssignID записывает первичный ключ
func AssignID(entity any, id uint) {
	eachField(entity, func(field *schema.Field, value reflect.Value) {
		if field.PrimaryKey && value.Kind() == reflect.Uint {
			value.SetUint(uint64(id))
		}
	})
}

func eachField(entity any, fn func(*schema.Field, reflect.Value)) {
	s, err := schema.Parse(entity, &schemaCache, schema.NamingStrategy{})
	if err != nil {
		return
	}
	rv := reflect.Indirect(reflect.ValueOf(entity))
	for _, field := range s.Fields {
		fn(field, rv.FieldByIndex(field.StructField.Index))
	}
}
