package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/deepmetric/institute-portal/internal/core/domain"
)

var ErrUnsupportedSchema = errors.New("storage: record written by a newer schema")

// upgrade lifts one item record from version N to N+1.
type upgrade func(record []byte) ([]byte, error)

// schema describes one persisted record type. Versioned records are stored as
// {"schemaVersion": N, "<field>": ...}; anything without schemaVersion is a
// legacy version 1 record. upgrades[i] moves an item from version i+1 to i+2,
// so current == len(upgrades)+1.
type schema struct {
	field    string
	upgrades []upgrade
}

func (s schema) current() int { return len(s.upgrades) + 1 }

var usersSchema = schema{
	field: "users",
	upgrades: []upgrade{
		addEnrollmentCollections, // 1 -> 2
		addRole,                  // 2 -> 3
		addCompletionEvidence,    // 3 -> 4
	},
}

var sessionSchema = schema{
	field: "userId",
	upgrades: []upgrade{
		snapshotToPointer, // 1 -> 2
	},
}

var reviewsSchema = schema{field: "reviews"}

var coursesSchema = schema{field: "courses"}

func addEnrollmentCollections(rec []byte) ([]byte, error) {
	var err error
	for _, f := range []struct{ path, raw string }{
		{"registeredCourseIds", `[]`},
		{"completedCourseIds", `[]`},
		{"pendingCourseIds", `[]`},
		{"courseProgress", `{}`},
	} {
		if rec, err = backfill(rec, f.path, f.raw); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

func addRole(rec []byte) ([]byte, error) {
	return backfill(rec, "role", `"`+string(domain.RoleStudent)+`"`)
}

func addCompletionEvidence(rec []byte) ([]byte, error) {
	return backfill(rec, "completionEvidence", `{}`)
}

// snapshotToPointer converts a legacy session, which held a full copy of the
// user record, into a pointer at the directory entry.
func snapshotToPointer(rec []byte) ([]byte, error) {
	return sjson.SetBytes([]byte(`{}`), "userId", gjson.GetBytes(rec, "id").String())
}

// backfill sets path to raw when the field is absent or null.
func backfill(rec []byte, path, raw string) ([]byte, error) {
	if v := gjson.GetBytes(rec, path); v.Exists() && v.Type != gjson.Null {
		return rec, nil
	}
	out, err := sjson.SetRawBytes(rec, path, []byte(raw))
	if err != nil {
		return nil, fmt.Errorf("backfill %s: %w", path, err)
	}
	return out, nil
}

// version reports the schema version of a stored document.
func version(data []byte) int {
	v := gjson.GetBytes(data, "schemaVersion")
	if !v.Exists() || v.Int() < 1 {
		return 1
	}
	return int(v.Int())
}

// migrate applies every upgrade from the stored version to current, in order.
func (s schema) migrate(rec []byte, from int) ([]byte, error) {
	if from > s.current() {
		return nil, fmt.Errorf("%w: %s v%d", ErrUnsupportedSchema, s.field, from)
	}
	var err error
	for v := from; v < s.current(); v++ {
		if rec, err = s.upgrades[v-1](rec); err != nil {
			return nil, fmt.Errorf("upgrade %s v%d: %w", s.field, v, err)
		}
	}
	return rec, nil
}

// items extracts and migrates the list held by a versioned or legacy document.
// A legacy list document is the bare JSON array.
func (s schema) items(data []byte) ([][]byte, error) {
	doc := gjson.ParseBytes(data)
	from := 1
	list := doc
	if !doc.IsArray() {
		from = version(data)
		list = doc.Get(s.field)
	}

	out := make([][]byte, 0, len(list.Array()))
	for _, item := range list.Array() {
		rec, err := s.migrate([]byte(item.Raw), from)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// envelope wraps a payload with the current schema version.
func (s schema) envelope(payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	doc, err := sjson.SetBytes([]byte(`{}`), "schemaVersion", s.current())
	if err != nil {
		return nil, err
	}
	return sjson.SetRawBytes(doc, s.field, raw)
}

// DecodeUsers reads a users document of any supported version.
func DecodeUsers(data []byte) ([]domain.User, error) {
	recs, err := usersSchema.items(data)
	if err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(recs))
	for _, rec := range recs {
		var u domain.User
		if err := json.Unmarshal(rec, &u); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		u.Normalize()
		users = append(users, u)
	}
	return users, nil
}

// EncodeUsers writes users at the current schema version.
func EncodeUsers(users []domain.User) ([]byte, error) {
	if users == nil {
		users = []domain.User{}
	}
	return usersSchema.envelope(users)
}

// DecodeSession returns the active user id held by a session document.
func DecodeSession(data []byte) (string, error) {
	rec, err := sessionSchema.migrate(data, version(data))
	if err != nil {
		return "", err
	}
	return gjson.GetBytes(rec, sessionSchema.field).String(), nil
}

// EncodeSession writes a session pointer at the current schema version.
func EncodeSession(userID string) ([]byte, error) {
	return sessionSchema.envelope(userID)
}

// DecodeReviews reads a reviews document of any supported version.
func DecodeReviews(data []byte) ([]domain.Review, error) {
	recs, err := reviewsSchema.items(data)
	if err != nil {
		return nil, err
	}
	reviews := make([]domain.Review, 0, len(recs))
	for _, rec := range recs {
		var r domain.Review
		if err := json.Unmarshal(rec, &r); err != nil {
			return nil, fmt.Errorf("decode review: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, nil
}

func EncodeReviews(reviews []domain.Review) ([]byte, error) {
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return reviewsSchema.envelope(reviews)
}

// DecodeCourses reads a courses document of any supported version.
func DecodeCourses(data []byte) ([]domain.Course, error) {
	recs, err := coursesSchema.items(data)
	if err != nil {
		return nil, err
	}
	courses := make([]domain.Course, 0, len(recs))
	for _, rec := range recs {
		var c domain.Course
		if err := json.Unmarshal(rec, &c); err != nil {
			return nil, fmt.Errorf("decode course: %w", err)
		}
		if c.Tags == nil {
			c.Tags = []string{}
		}
		courses = append(courses, c)
	}
	return courses, nil
}

func EncodeCourses(courses []domain.Course) ([]byte, error) {
	if courses == nil {
		courses = []domain.Course{}
	}
	return coursesSchema.envelope(courses)
}
