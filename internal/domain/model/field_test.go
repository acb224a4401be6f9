package model_test

import (
	"errors"
	"testing"

	"github.com/okian/charcache/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestParseField(t *testing.T) {
	convey.Convey("Given user supplied field names", t, func() {
		convey.Convey("When the name is known in any case", func() {
			f, err := model.ParseField("  Species ")

			convey.Convey("Then it should resolve to the field", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(f, convey.ShouldEqual, model.FieldSpecies)
			})
		})

		convey.Convey("When the name is a raw SQL fragment", func() {
			_, err := model.ParseField("species; DROP TABLE characters")

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, model.ErrUnknownField), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the name is the primary key", func() {
			_, err := model.ParseField("id")

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, model.ErrUnknownField), convey.ShouldBeTrue)
			})
		})
	})
}

func TestFieldColumn(t *testing.T) {
	convey.Convey("Given the declared fields", t, func() {
		fields := []model.Field{
			model.FieldName, model.FieldStatus, model.FieldSpecies, model.FieldSubtype,
			model.FieldGender, model.FieldOrigin, model.FieldLocation,
		}

		convey.Convey("Then each should map to a column", func() {
			for _, f := range fields {
				col, err := f.Column()
				convey.So(err, convey.ShouldBeNil)
				convey.So(col, convey.ShouldEqual, string(f))
				convey.So(f.Valid(), convey.ShouldBeTrue)
			}
		})

		convey.Convey("Then an undeclared field should not map", func() {
			_, err := model.Field("image_url").Column()
			convey.So(errors.Is(err, model.ErrUnknownField), convey.ShouldBeTrue)
		})
	})
}

func TestFieldValueOf(t *testing.T) {
	convey.Convey("Given a character", t, func() {
		c := model.Character{
			ID: 1, Name: "Rick Sanchez", Status: "Alive", Species: "Human", Subtype: "",
			Gender: "Male", Origin: "Earth (C-137)", Location: "Citadel of Ricks",
		}

		convey.Convey("Then ValueOf should read the matching attribute", func() {
			convey.So(model.FieldName.ValueOf(c), convey.ShouldEqual, "Rick Sanchez")
			convey.So(model.FieldSpecies.ValueOf(c), convey.ShouldEqual, "Human")
			convey.So(model.FieldOrigin.ValueOf(c), convey.ShouldEqual, "Earth (C-137)")
			convey.So(model.FieldLocation.ValueOf(c), convey.ShouldEqual, "Citadel of Ricks")
			convey.So(model.Field("bogus").ValueOf(c), convey.ShouldEqual, "")
		})
	})
}

func TestQueryOptions(t *testing.T) {
	convey.Convey("Given query options", t, func() {
		convey.So(model.QueryOptions{}.IsZero(), convey.ShouldBeTrue)
		convey.So(model.QueryOptions{Status: "Dead"}.IsZero(), convey.ShouldBeFalse)
	})
}
