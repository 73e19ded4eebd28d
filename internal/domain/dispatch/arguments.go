package dispatch

import (
	"strconv"

	"github.com/okian/scoring/internal/domain/field"
	"github.com/okian/scoring/internal/domain/model"
	"github.com/okian/scoring/internal/domain/schema"
	"github.com/okian/scoring/internal/domain/scoring"
)

// scoreInput maps validated online_score arguments to the scoring input.
func scoreInput(args *model.Object) scoring.Input {
	in := scoring.Input{
		FirstName: args.String(schema.FirstName),
		LastName:  args.String(schema.LastName),
		Email:     args.String(schema.Email),
		Birthday:  args.String(schema.Birthday),
		Phone:     phoneText(args),
	}
	if v, ok := args.Get(schema.Gender); ok {
		if g, ok := field.AsInteger(v); ok {
			gi := int(g)
			in.Gender = &gi
		}
	}
	return in
}

// phoneText renders the phone as its decimal text; integer 0 counts as empty.
func phoneText(args *model.Object) string {
	v, _ := args.Get(schema.Phone)
	if s, ok := v.(string); ok {
		return s
	}
	if n, ok := field.AsInteger(v); ok && n != 0 {
		return strconv.FormatInt(n, 10)
	}
	return ""
}

// clientIDs returns the validated client ids in request order.
func clientIDs(args *model.Object) []int64 {
	v, _ := args.Get(schema.ClientIDs)
	switch ids := v.(type) {
	case []any:
		out := make([]int64, 0, len(ids))
		for _, id := range ids {
			if n, ok := field.AsInteger(id); ok {
				out = append(out, n)
			}
		}
		return out
	case []int:
		out := make([]int64, 0, len(ids))
		for _, id := range ids {
			out = append(out, int64(id))
		}
		return out
	case []int64:
		return append([]int64(nil), ids...)
	}
	return nil
}
