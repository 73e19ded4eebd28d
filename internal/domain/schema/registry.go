package schema

import "github.com/okian/scoring/internal/domain/field"

// Argument names of the online_score method.
const (
	FirstName = "first_name"
	LastName  = "last_name"
	Email     = "email"
	Phone     = "phone"
	Birthday  = "birthday"
	Gender    = "gender"
)

// Argument names of the clients_interests method.
const (
	ClientIDs = "client_ids"
	Date      = "date"
)

// Envelope is the outer request shape.
var Envelope = New("envelope", []Field{
	{Name: "account", Kind: field.Char, Required: false, Nullable: true},
	{Name: "login", Kind: field.Char, Required: true, Nullable: true},
	{Name: "token", Kind: field.Char, Required: true, Nullable: true},
	{Name: "arguments", Kind: field.Arguments, Required: true, Nullable: true},
	{Name: "method", Kind: field.Char, Required: true, Nullable: false},
})

// OnlineScore is the argument shape of online_score. At least one pair must
// be supplied with non-null values.
var OnlineScore = New("online_score", []Field{
	{Name: FirstName, Kind: field.Char, Nullable: true},
	{Name: LastName, Kind: field.Char, Nullable: true},
	{Name: Email, Kind: field.Email, Nullable: true},
	{Name: Phone, Kind: field.Phone, Nullable: true},
	{Name: Birthday, Kind: field.BirthDay, Nullable: true},
	{Name: Gender, Kind: field.Gender, Nullable: true},
},
	Pair{Phone, Email},
	Pair{FirstName, LastName},
	Pair{Gender, Birthday},
)

// ClientsInterests is the argument shape of clients_interests.
var ClientsInterests = New("clients_interests", []Field{
	{Name: ClientIDs, Kind: field.ClientIDs, Required: true, Nullable: false},
	{Name: Date, Kind: field.Date, Required: false, Nullable: true},
})
