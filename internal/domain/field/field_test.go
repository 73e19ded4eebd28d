package field_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/okian/scoring/internal/domain/field"
	"github.com/okian/scoring/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var now = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func valid(kind field.Kind, v any) bool {
	return field.Check("f", kind, v, now) == nil
}

func TestCharAndEmail(t *testing.T) {
	Convey("Given char and email fields", t, func() {
		So(valid(field.Char, "abc"), ShouldBeTrue)
		So(valid(field.Char, ""), ShouldBeTrue)
		So(valid(field.Char, json.Number("1")), ShouldBeFalse)
		So(valid(field.Char, nil), ShouldBeFalse)

		So(valid(field.Email, "a@b.com"), ShouldBeTrue)
		So(valid(field.Email, "stupnikov.otus.ru"), ShouldBeFalse)
		So(valid(field.Email, 42), ShouldBeFalse)
	})
}

func TestArguments(t *testing.T) {
	Convey("Given an arguments field", t, func() {
		So(valid(field.Arguments, model.NewObject()), ShouldBeTrue)
		So(valid(field.Arguments, map[string]any{"a": 1}), ShouldBeTrue)
		So(valid(field.Arguments, []any{}), ShouldBeFalse)
		So(valid(field.Arguments, "x"), ShouldBeFalse)
	})
}

func TestPhone(t *testing.T) {
	Convey("Given a phone field", t, func() {
		Convey("Empty values are accepted", func() {
			So(valid(field.Phone, nil), ShouldBeTrue)
			So(valid(field.Phone, ""), ShouldBeTrue)
			So(valid(field.Phone, json.Number("0")), ShouldBeTrue)
		})

		Convey("Eleven characters starting with 7 pass as string and integer", func() {
			So(valid(field.Phone, "79175002040"), ShouldBeTrue)
			So(valid(field.Phone, json.Number("79175002040")), ShouldBeTrue)
			So(valid(field.Phone, 79175002040), ShouldBeTrue)
			So(valid(field.Phone, "7926322223x"), ShouldBeTrue)
		})

		Convey("Length 10 or 12 is rejected", func() {
			So(valid(field.Phone, "7917500204"), ShouldBeFalse)
			So(valid(field.Phone, "791750020400"), ShouldBeFalse)
			So(valid(field.Phone, json.Number("7917500204")), ShouldBeFalse)
			So(valid(field.Phone, json.Number("791750020400")), ShouldBeFalse)
		})

		Convey("A first digit other than 7 is rejected", func() {
			err := field.Check("phone", field.Phone, "89175002040", now)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldEqual, "phone: first digit should be 7")
			So(valid(field.Phone, json.Number("89175002040")), ShouldBeFalse)
		})

		Convey("Non-integral numbers and other types are rejected", func() {
			So(valid(field.Phone, json.Number("7.9175002e10")), ShouldBeFalse)
			So(valid(field.Phone, true), ShouldBeFalse)
			So(valid(field.Phone, []any{"79175002040"}), ShouldBeFalse)
		})
	})
}

func TestDate(t *testing.T) {
	Convey("Given a date field", t, func() {
		So(valid(field.Date, "01.01.2000"), ShouldBeTrue)
		So(valid(field.Date, "19.07.1017"), ShouldBeTrue)
		So(valid(field.Date, ""), ShouldBeTrue)
		So(valid(field.Date, "19.07.17"), ShouldBeFalse)
		So(valid(field.Date, "2000-01-01"), ShouldBeFalse)
		So(valid(field.Date, "32.01.2000"), ShouldBeFalse)
		So(valid(field.Date, json.Number("20000101")), ShouldBeFalse)
	})
}

func TestBirthDay(t *testing.T) {
	Convey("Given a birthday field anchored at a fixed now", t, func() {
		So(valid(field.BirthDay, "01.01.2000"), ShouldBeTrue)
		So(valid(field.BirthDay, "15.03.1954"), ShouldBeTrue)
		So(valid(field.BirthDay, "15.03.2024"), ShouldBeTrue)
		So(valid(field.BirthDay, ""), ShouldBeTrue)

		Convey("Dates more than 70 years back are rejected", func() {
			err := field.Check("birthday", field.BirthDay, "14.03.1954", now)
			So(err, ShouldNotBeNil)
			So(errors.Is(err, field.ErrInvalid), ShouldBeTrue)
			So(valid(field.BirthDay, "01.01.1500"), ShouldBeFalse)
		})

		Convey("Future dates are rejected", func() {
			So(valid(field.BirthDay, "16.03.2024"), ShouldBeFalse)
			So(valid(field.BirthDay, "01.01.8900"), ShouldBeFalse)
		})

		Convey("Leap day anchors clamp to Feb 28", func() {
			leap := time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)
			So(field.Check("b", field.BirthDay, "28.02.1954", leap), ShouldBeNil)
			So(field.Check("b", field.BirthDay, "27.02.1954", leap), ShouldNotBeNil)
		})
	})
}

func TestGender(t *testing.T) {
	Convey("Given a gender field", t, func() {
		for _, g := range []any{json.Number("0"), json.Number("1"), json.Number("2"), 0, 2} {
			So(valid(field.Gender, g), ShouldBeTrue)
		}
		for _, g := range []any{json.Number("3"), json.Number("-1"), "1", json.Number("1.5"), nil} {
			So(valid(field.Gender, g), ShouldBeFalse)
		}
	})
}

func TestClientIDs(t *testing.T) {
	Convey("Given a client ids field", t, func() {
		So(valid(field.ClientIDs, []any{json.Number("1"), json.Number("2")}), ShouldBeTrue)
		So(valid(field.ClientIDs, []int{1}), ShouldBeTrue)
		So(valid(field.ClientIDs, []any{json.Number("1"), "s"}), ShouldBeFalse)
		So(valid(field.ClientIDs, []any{}), ShouldBeFalse)
		So(valid(field.ClientIDs, []any{""}), ShouldBeFalse)
		So(valid(field.ClientIDs, "1,2"), ShouldBeFalse)
		So(valid(field.ClientIDs, map[string]any{"1": 1}), ShouldBeFalse)
	})
}

func TestIsEmpty(t *testing.T) {
	Convey("Given the emptiness helper", t, func() {
		So(field.IsEmpty(nil), ShouldBeTrue)
		So(field.IsEmpty(""), ShouldBeTrue)
		So(field.IsEmpty([]any{}), ShouldBeTrue)
		So(field.IsEmpty(model.NewObject()), ShouldBeTrue)
		So(field.IsEmpty(json.Number("0")), ShouldBeFalse)
		So(field.IsEmpty("x"), ShouldBeFalse)
	})
}
