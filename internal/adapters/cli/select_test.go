package cli_test

import (
	"errors"
	"testing"

	"github.com/okian/charcache/internal/adapters/cli"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSelect(t *testing.T) {
	Convey("Given three options", t, func() {
		options := []string{"Alien", "Human", "Robot"}
		snapshot := append([]string(nil), options...)

		Convey("When choosing valid positions", func() {
			first, err1 := cli.Select(options, "1")
			last, err2 := cli.Select(options, " 3 ")

			Convey("Then the matching values should be returned", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(first, ShouldEqual, "Alien")
				So(last, ShouldEqual, "Robot")
			})
		})

		for _, token := range []string{"0", "4", "-1", "abc", "", "1.5"} {
			Convey("When choosing "+token, func() {
				v, err := cli.Select(options, token)

				Convey("Then it should be an invalid selection with no side effects", func() {
					So(errors.Is(err, cli.ErrInvalidSelection), ShouldBeTrue)
					So(v, ShouldBeEmpty)
					So(options, ShouldResemble, snapshot)
				})
			})
		}
	})

	Convey("Given no options", t, func() {
		_, err := cli.Select(nil, "1")
		So(errors.Is(err, cli.ErrInvalidSelection), ShouldBeTrue)
	})
}

func TestSelectOptional(t *testing.T) {
	Convey("Given two options", t, func() {
		options := []string{"Alive", "Dead"}

		Convey("When the token is blank", func() {
			v, chosen, err := cli.SelectOptional(options, "   ")

			Convey("Then nothing should be chosen", func() {
				So(err, ShouldBeNil)
				So(chosen, ShouldBeFalse)
				So(v, ShouldBeEmpty)
			})
		})

		Convey("When the token is a valid position", func() {
			v, chosen, err := cli.SelectOptional(options, "2")

			Convey("Then the value should be chosen", func() {
				So(err, ShouldBeNil)
				So(chosen, ShouldBeTrue)
				So(v, ShouldEqual, "Dead")
			})
		})

		Convey("When the token is out of range", func() {
			_, chosen, err := cli.SelectOptional(options, "3")

			Convey("Then it should be invalid", func() {
				So(errors.Is(err, cli.ErrInvalidSelection), ShouldBeTrue)
				So(chosen, ShouldBeFalse)
			})
		})
	})
}

func TestSelectIndex(t *testing.T) {
	Convey("Given a list of five", t, func() {
		i, err := cli.SelectIndex(5, "5")
		So(err, ShouldBeNil)
		So(i, ShouldEqual, 4)

		_, err = cli.SelectIndex(5, "6")
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "expected 1-5")
	})
}
