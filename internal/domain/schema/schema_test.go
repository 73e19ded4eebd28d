package schema_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/okian/scoring/internal/domain/field"
	"github.com/okian/scoring/internal/domain/model"
	"github.com/okian/scoring/internal/domain/schema"
	. "github.com/smartystreets/goconvey/convey"
)

var now = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func decode(s string) *model.Object {
	obj, err := model.Decode(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return obj
}

func TestNew(t *testing.T) {
	Convey("Given a schema definition", t, func() {
		Convey("Duplicate names panic", func() {
			So(func() {
				schema.New("dup", []schema.Field{{Name: "a"}, {Name: "a"}})
			}, ShouldPanic)
		})

		Convey("Pairs must reference declared fields", func() {
			So(func() {
				schema.New("pair", []schema.Field{{Name: "a"}}, schema.Pair{"a", "b"})
			}, ShouldPanic)
		})

		Convey("Fields keep declaration order", func() {
			s := schema.New("ordered", []schema.Field{
				{Name: "z", Kind: field.Char},
				{Name: "a", Kind: field.Char},
			})
			fields := s.Fields()
			So(fields[0].Name, ShouldEqual, "z")
			So(fields[1].Name, ShouldEqual, "a")
		})
	})
}

func TestEnvelope(t *testing.T) {
	Convey("Given the envelope schema", t, func() {
		Convey("A complete envelope is valid", func() {
			r := schema.Envelope.Validate(decode(`{"account":"horns","login":"h","method":"online_score","token":"x","arguments":{}}`), now)
			So(r.Valid(), ShouldBeTrue)
			So(r.Message(), ShouldBeEmpty)
			So(r.Err(), ShouldBeNil)
		})

		Convey("A missing method is reported as a missing required field", func() {
			r := schema.Envelope.Validate(decode(`{"account":"horns","login":"h","token":"x","arguments":{}}`), now)
			So(r.Valid(), ShouldBeFalse)
			So(r.Missing, ShouldResemble, []string{"method"})
			So(r.Message(), ShouldContainSubstring, "Missed required arguments: method")
			So(errors.Is(r.Err(), schema.ErrInvalid), ShouldBeTrue)
		})

		Convey("An empty method is rejected since it is not nullable", func() {
			r := schema.Envelope.Validate(decode(`{"login":"h","token":"x","arguments":{},"method":""}`), now)
			So(r.InvalidFields(), ShouldResemble, []string{"method"})
		})

		Convey("Null login is accepted since it is nullable", func() {
			r := schema.Envelope.Validate(decode(`{"login":null,"token":"","arguments":{},"method":"m"}`), now)
			So(r.Valid(), ShouldBeTrue)
		})

		Convey("Arguments must be a mapping", func() {
			r := schema.Envelope.Validate(decode(`{"login":"h","token":"","arguments":[],"method":"m"}`), now)
			So(r.InvalidFields(), ShouldResemble, []string{"arguments"})
		})

		Convey("Unknown keys invalidate the payload and come first in the message", func() {
			r := schema.Envelope.Validate(decode(`{"extra":1,"login":"h","token":"","arguments":{}}`), now)
			So(r.Unknown, ShouldResemble, []string{"extra"})
			So(r.Message(), ShouldEqual, "Unknown arguments: extra; Missed required arguments: method")
		})
	})
}

func TestOnlineScore(t *testing.T) {
	Convey("Given the online_score schema", t, func() {
		Convey("Supplied fields are recorded in request order", func() {
			r := schema.OnlineScore.Validate(decode(`{"phone":"79175002040","email":"a@b.com"}`), now)
			So(r.Valid(), ShouldBeTrue)
			So(r.Supplied, ShouldResemble, []string{"phone", "email"})
		})

		Convey("Empty strings count as present for the pair rule", func() {
			r := schema.OnlineScore.Validate(decode(`{"first_name":"","last_name":""}`), now)
			So(r.Valid(), ShouldBeTrue)
		})

		Convey("Gender zero with a birthday forms a pair", func() {
			r := schema.OnlineScore.Validate(decode(`{"gender":0,"birthday":"01.01.2000"}`), now)
			So(r.Valid(), ShouldBeTrue)
		})

		Convey("Null values do not complete a pair", func() {
			r := schema.OnlineScore.Validate(decode(`{"phone":"79175002040","email":null}`), now)
			So(r.Valid(), ShouldBeFalse)
			So(r.NoPair, ShouldBeTrue)
			So(r.Supplied, ShouldResemble, []string{"phone"})
		})

		Convey("No complete pair is invalid even when every field is fine", func() {
			r := schema.OnlineScore.Validate(decode(`{"phone":"79175002040","first_name":"a"}`), now)
			So(r.Valid(), ShouldBeFalse)
			So(r.Message(), ShouldEqual, "No valid field pair presented")
		})

		Convey("An empty payload lacks a pair", func() {
			r := schema.OnlineScore.Validate(model.NewObject(), now)
			So(r.NoPair, ShouldBeTrue)
		})

		Convey("Invalid values are named with their reasons", func() {
			r := schema.OnlineScore.Validate(decode(`{"phone":"89175002040","email":"nope","gender":"1","birthday":"01.01.1890"}`), now)
			So(r.InvalidFields(), ShouldResemble, []string{"email", "phone", "birthday", "gender"})
			So(r.Message(), ShouldStartWith, "Wrong field values: email: value must contain @")
		})

		Convey("Sections keep their precedence", func() {
			r := schema.OnlineScore.Validate(decode(`{"x":1,"phone":"1"}`), now)
			msg := r.Message()
			So(strings.Index(msg, "Unknown"), ShouldBeLessThan, strings.Index(msg, "Wrong"))
			So(strings.Index(msg, "Wrong"), ShouldBeLessThan, strings.Index(msg, "No valid"))
		})
	})
}

func TestClientsInterests(t *testing.T) {
	Convey("Given the clients_interests schema", t, func() {
		Convey("A list of ids with a date is valid", func() {
			r := schema.ClientsInterests.Validate(decode(`{"client_ids":[1,2,3],"date":"19.07.2017"}`), now)
			So(r.Valid(), ShouldBeTrue)
		})

		Convey("client_ids is required", func() {
			r := schema.ClientsInterests.Validate(decode(`{"date":"19.07.2017"}`), now)
			So(r.Missing, ShouldResemble, []string{"client_ids"})
		})

		Convey("An empty list is rejected", func() {
			r := schema.ClientsInterests.Validate(decode(`{"client_ids":[]}`), now)
			So(r.InvalidFields(), ShouldResemble, []string{"client_ids"})
		})

		Convey("Non-integer ids are rejected", func() {
			r := schema.ClientsInterests.Validate(decode(`{"client_ids":[1,"s"]}`), now)
			So(r.InvalidFields(), ShouldResemble, []string{"client_ids"})
		})

		Convey("A null date is accepted", func() {
			in := model.NewObject()
			in.Set("client_ids", []any{json.Number("1")})
			in.Set("date", nil)
			So(schema.ClientsInterests.Validate(in, now).Valid(), ShouldBeTrue)
		})
	})
}
