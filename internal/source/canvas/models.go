package canvas

import (
	"encoding/json"
	"fmt"
)

// Remote records are partial: any field may be absent depending on the
// instance configuration, so every scalar is a pointer.

type Course struct {
	ID            *int64       `json:"id"`
	Name          *string      `json:"name"`
	CourseCode    *string      `json:"course_code"`
	SISCourseID   *string      `json:"sis_course_id"`
	WorkflowState *string      `json:"workflow_state"`
	HTMLURL       *string      `json:"html_url"`
	SyllabusBody  *string      `json:"syllabus_body"`
	Calendar      *Calendar    `json:"calendar"`
	Enrollments   []Enrollment `json:"enrollments"`
	Teachers      []Teacher    `json:"teachers"`

	// Malformed is set when the record did not match the expected shape.
	// Only ID is populated then, when it could be read.
	Malformed error `json:"-"`
}

// UnmarshalJSON marks a wrongly typed course as malformed instead of failing
// the whole page.
func (c *Course) UnmarshalJSON(data []byte) error {
	type plain Course
	var v plain

	if err := json.Unmarshal(data, &v); err != nil {
		id, ok := recoverID(data)
		if !ok {
			return err
		}
		*c = Course{ID: id, Malformed: fmt.Errorf("decode course: %w", err)}
		return nil
	}

	*c = Course(v)
	return nil
}

// PrimaryTeacher returns the display name of the first named teacher.
func (c *Course) PrimaryTeacher() string {
	for _, t := range c.Teachers {
		if t.DisplayName != nil && *t.DisplayName != "" {
			return *t.DisplayName
		}
	}
	return ""
}

type Calendar struct {
	ICS *string `json:"ics"`
}

type Teacher struct {
	ID          *int64  `json:"id"`
	DisplayName *string `json:"display_name"`
}

type Enrollment struct {
	Type            string `json:"type"`
	Role            string `json:"role"`
	EnrollmentState string `json:"enrollment_state"`
}

type AssignmentGroup struct {
	ID   *int64  `json:"id"`
	Name *string `json:"name"`
}

type Assignment struct {
	ID                *int64   `json:"id"`
	Name              *string  `json:"name"`
	Description       *string  `json:"description"`
	DueAt             *string  `json:"due_at"`
	UnlockAt          *string  `json:"unlock_at"`
	LockAt            *string  `json:"lock_at"`
	AssignmentGroupID *int64   `json:"assignment_group_id"`
	PointsPossible    *float64 `json:"points_possible"`
	SubmissionTypes   []string `json:"submission_types"`
	QuizID            *int64   `json:"quiz_id"`
	IsQuizAssignment  *bool    `json:"is_quiz_assignment"`
	WorkflowState     *string  `json:"workflow_state"`
	HTMLURL           *string  `json:"html_url"`
	UpdatedAt         *string  `json:"updated_at"`

	// Raw is the record exactly as received.
	Raw json.RawMessage `json:"-"`
	// Malformed is set when the record did not match the expected shape.
	// Only ID is populated then, when it could be read.
	Malformed error `json:"-"`
}

// UnmarshalJSON never fails on a well-formed JSON object, so that one bad
// assignment cannot invalidate the page it arrived on.
func (a *Assignment) UnmarshalJSON(data []byte) error {
	type plain Assignment
	var v plain
	raw := append(json.RawMessage(nil), data...)

	if err := json.Unmarshal(data, &v); err != nil {
		id, ok := recoverID(data)
		if !ok {
			return err
		}
		*a = Assignment{ID: id, Raw: raw, Malformed: fmt.Errorf("decode assignment: %w", err)}
		return nil
	}

	*a = Assignment(v)
	a.Raw = raw
	return nil
}

// recoverID reads the id of a record that failed to decode. ok is false when
// data is not a JSON object at all.
func recoverID(data []byte) (id *int64, ok bool) {
	var fields map[string]json.RawMessage
	if json.Unmarshal(data, &fields) != nil {
		return nil, false
	}
	if json.Unmarshal(fields["id"], &id) != nil {
		return nil, true
	}
	return id, true
}

type Profile struct {
	ID           *int64  `json:"id"`
	Name         *string `json:"name"`
	ShortName    *string `json:"short_name"`
	PrimaryEmail *string `json:"primary_email"`
	LoginID      *string `json:"login_id"`
	AvatarURL    *string `json:"avatar_url"`
}

// DisplayName prefers the full name over the short name.
func (p *Profile) DisplayName() string {
	switch {
	case p.Name != nil && *p.Name != "":
		return *p.Name
	case p.ShortName != nil:
		return *p.ShortName
	default:
		return ""
	}
}
