package crud

import (
	"errors"
	"strings"

	val "github.com/go-ozzo/ozzo-validation"
	"gorm.io/gorm"
)

var ErrTaken = errors.New("has already been taken")

// Unique fails when another row of model already holds the value in column.
// Strings are compared trimmed, the way Trim stores them. Soft-deleted rows
// count too, ignoreID excludes the row being updated.
func Unique(db *gorm.DB, model interface{}, column string, ignoreID uint) val.Rule {
	return val.By(func(value interface{}) error {
		v, isNil := val.Indirect(value)
		if s, ok := v.(string); ok {
			v = strings.TrimSpace(s)
		}
		if isNil || val.IsEmpty(v) {
			return nil
		}

		q := db.Session(&gorm.Session{NewDB: true}).Unscoped().Model(model).Where(column+" = ?", v)
		if ignoreID > 0 {
			q = q.Where("id <> ?", ignoreID)
		}

		var count int64
		if err := q.Count(&count).Error; err != nil {
			return val.NewInternalError(err)
		}
		if count > 0 {
			return ErrTaken
		}
		return nil
	})
}

// Trim returns nil for blank strings so optional columns stay NULL.
func Trim(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// Exists fails when no row of model has the value as its primary key.
func Exists(db *gorm.DB, model interface{}) val.Rule {
	return val.By(func(value interface{}) error {
		v, isNil := val.Indirect(value)
		if isNil || val.IsEmpty(v) {
			return nil
		}

		var count int64
		if err := db.Session(&gorm.Session{NewDB: true}).Model(model).Where("id = ?", v).Count(&count).Error; err != nil {
			return val.NewInternalError(err)
		}
		if count == 0 {
			return errors.New("does not exist")
		}
		return nil
	})
}
