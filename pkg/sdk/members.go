package sdk

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-bexpr"
)

// FilterMembers keeps the members matching a go-bexpr expression evaluated over
// id, username, first_name, last_name, email, role and has_phone.
// An empty expression keeps everything.
//
//	role == "teacher" and username matches "^teacher_a"
func FilterMembers(members []Member, expr string) ([]Member, error) {
	if strings.TrimSpace(expr) == "" {
		return members, nil
	}

	evaluator, err := bexpr.CreateEvaluator(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid member filter: %w", err)
	}

	out := make([]Member, 0, len(members))
	for _, m := range members {
		ok, err := evaluator.Evaluate(memberFields(m))
		if err != nil {
			// A selector the member lacks is a non-match, not a failure.
			continue
		}
		if ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func memberFields(m Member) map[string]any {
	return map[string]any{
		"id":         m.ID,
		"username":   m.Username,
		"first_name": m.FirstName,
		"last_name":  m.LastName,
		"email":      m.Email,
		"role":       m.Role,
		"has_phone":  m.Phone != nil && *m.Phone != "",
	}
}
