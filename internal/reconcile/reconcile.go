// Package reconcile turns remote Canvas records into the local records that
// are upserted by their conflict keys. Every derived field is computed here
// so that it always agrees with the key it is stored under.
package reconcile

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"lms_sync/internal/domain"
	"lms_sync/internal/source/canvas"
)

// DefaultInstitution is used when a connection does not name one.
const DefaultInstitution = "QUT"

var (
	ErrMissingID    = errors.New("missing external id")
	ErrMissingTitle = errors.New("missing title")
)

// IsValidation reports whether err rejects a record as invalid. Such records
// are skipped, not treated as failures.
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingID) || errors.Is(err, ErrMissingTitle)
}

// SkipReason explains why a course is not synced. An empty reason accepts it.
type SkipReason string

const (
	SkipNone        SkipReason = ""
	SkipMalformed   SkipReason = "malformed record"
	SkipMissingID   SkipReason = "missing id"
	SkipMissingName SkipReason = "missing name"
	SkipUnavailable SkipReason = "not available"
	SkipNotEnrolled SkipReason = "no active enrollment"
)

// AcceptCourse applies the parent acceptance filters.
func AcceptCourse(c *canvas.Course) SkipReason {
	switch {
	case c.Malformed != nil:
		return SkipMalformed
	case c.ID == nil:
		return SkipMissingID
	case c.Name == nil || strings.TrimSpace(*c.Name) == "":
		return SkipMissingName
	case c.WorkflowState != nil && *c.WorkflowState != "available":
		return SkipUnavailable
	case !hasActiveEnrollment(c.Enrollments):
		return SkipNotEnrolled
	}
	return SkipNone
}

func hasActiveEnrollment(enrollments []canvas.Enrollment) bool {
	for _, e := range enrollments {
		if e.EnrollmentState == "" || e.EnrollmentState == "active" {
			return true
		}
	}
	return false
}

// Unit builds the local unit for an accepted course.
func Unit(conn *domain.Connection, c *canvas.Course) (*domain.Unit, error) {
	if c.ID == nil {
		return nil, ErrMissingID
	}
	if c.Name == nil || strings.TrimSpace(*c.Name) == "" {
		return nil, fmt.Errorf("course %d: %w", *c.ID, ErrMissingTitle)
	}

	rawCode := firstNonEmpty(c.CourseCode, c.SISCourseID)

	unit := &domain.Unit{
		OwnerID:     conn.OwnerID,
		Platform:    conn.Platform,
		Institution: conn.Institution,
		ExternalID:  strconv.FormatInt(*c.ID, 10),
		URL:         c.HTMLURL,
		Description: CleanSyllabus(c.SyllabusBody),
	}
	if c.Calendar != nil && c.Calendar.ICS != nil && *c.Calendar.ICS != "" {
		unit.CalendarURL = c.Calendar.ICS
	}
	if teacher := c.PrimaryTeacher(); teacher != "" {
		unit.Instructor = &teacher
	}
	if unit.Platform == "" {
		unit.Platform = domain.PlatformCanvas
	}
	if unit.Institution == "" {
		unit.Institution = DefaultInstitution
	}

	var code string
	if rawCode != "" {
		code, _ = ParseCode(rawCode)
		unit.Code = &code
	}

	// Without a code the period is read from the name.
	_, period := ParseCode(firstNonEmpty(c.CourseCode, c.SISCourseID, c.Name))
	if period != nil {
		year, sem, term := period.Year, period.Semester, period.Term()
		unit.Year = &year
		unit.Semester = &sem
		unit.Term = &term
	}

	unit.Title = CleanTitle(*c.Name, rawCode, code)
	return unit, nil
}

// Assignment builds the local assignment for a remote record under unit.
// groups maps assignment group id to name.
func Assignment(unit *domain.Unit, a *canvas.Assignment, groups map[int64]string, now time.Time) (*domain.Assignment, error) {
	if a.Malformed != nil {
		return nil, a.Malformed
	}
	if a.ID == nil {
		return nil, ErrMissingID
	}
	if a.Name == nil || strings.TrimSpace(*a.Name) == "" {
		return nil, fmt.Errorf("assignment %d: %w", *a.ID, ErrMissingTitle)
	}

	out := &domain.Assignment{
		OwnerID:         unit.OwnerID,
		UnitID:          unit.ID,
		Source:          unit.Platform,
		ExternalID:      strconv.FormatInt(*a.ID, 10),
		ExternalQuizID:  formatID(a.QuizID),
		Title:           *a.Name,
		DescriptionHTML: a.Description,
		Type:            Type(a),
		PointsPossible:  a.PointsPossible,
		State:           a.WorkflowState,
		HTMLURL:         a.HTMLURL,
		SubmissionTypes: a.SubmissionTypes,
		LastSyncedAt:    now,
		Raw:             a.Raw,
	}

	if a.AssignmentGroupID != nil {
		out.AssignmentGroupID = formatID(a.AssignmentGroupID)
		if name, ok := groups[*a.AssignmentGroupID]; ok {
			out.AssignmentGroupName = &name
		}
	}
	out.Label = Label(out.Title, out.AssignmentGroupName)

	var err error
	if out.DueAt, err = parseTime("due_at", a.DueAt); err != nil {
		return nil, err
	}
	if out.UnlockAt, err = parseTime("unlock_at", a.UnlockAt); err != nil {
		return nil, err
	}
	if out.LockAt, err = parseTime("lock_at", a.LockAt); err != nil {
		return nil, err
	}
	if out.ExternalUpdatedAt, err = parseTime("updated_at", a.UpdatedAt); err != nil {
		return nil, err
	}

	return out, nil
}

// Type classifies a remote assignment as a quiz or a plain assignment.
func Type(a *canvas.Assignment) domain.AssignmentType {
	if slices.Contains(a.SubmissionTypes, "online_quiz") ||
		a.QuizID != nil ||
		(a.IsQuizAssignment != nil && *a.IsQuizAssignment) {
		return domain.AssignmentTypeQuiz
	}
	return domain.AssignmentTypeAssignment
}

// GroupNames indexes assignment groups by id.
func GroupNames(groups []canvas.AssignmentGroup) map[int64]string {
	names := make(map[int64]string, len(groups))
	for _, g := range groups {
		if g.ID == nil {
			continue
		}
		var name string
		if g.Name != nil {
			name = *g.Name
		}
		names[*g.ID] = name
	}
	return names
}

func parseTime(field string, v *string) (*time.Time, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *v)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", field, err)
	}
	return &t, nil
}

func formatID(id *int64) *string {
	if id == nil {
		return nil
	}
	s := strconv.FormatInt(*id, 10)
	return &s
}

func firstNonEmpty(vals ...*string) string {
	for _, v := range vals {
		if v != nil && strings.TrimSpace(*v) != "" {
			return strings.TrimSpace(*v)
		}
	}
	return ""
}
