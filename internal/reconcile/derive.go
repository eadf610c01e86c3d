package reconcile

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

var (
	// PREFIX+digits, an optional -N part suffix, then an optional _YYseN period.
	// The code must end the string or be followed by a separator.
	unitCodeRe = regexp.MustCompile(`(?i)^([a-z]+\d+(?:-\d+)?)(?:_(\d{2})se(\d))?(?:$|[^a-z0-9_])`)

	finalRe = regexp.MustCompile(`(?i)\bfinal\b`)
	examRe  = regexp.MustCompile(`(?i)\b(exam|midsem|mid-sem|test)\b`)
)

const (
	LabelFinal = "final"
	LabelExam  = "exam"
)

// Period is the academic period encoded in a unit code.
type Period struct {
	Year     int
	Semester int
}

// Term renders the period as "S<semester> <year>".
func (p Period) Term() string {
	return "S" + strconv.Itoa(p.Semester) + " " + strconv.Itoa(p.Year)
}

// ParseCode splits a raw course code such as "MXB202_25se2" into the display
// code "MXB202" and its period. Codes without a period suffix return a nil
// period. Codes that are not PREFIX+digits[_YYseN] (an all-letters tag, or
// a trailing letter as in "CAB202X") are returned trimmed and untouched.
func ParseCode(raw string) (string, *Period) {
	raw = strings.TrimSpace(raw)
	m := unitCodeRe.FindStringSubmatch(raw)
	if m == nil {
		return raw, nil
	}

	code := strings.ToUpper(m[1])
	if m[2] == "" {
		return code, nil
	}

	yy, _ := strconv.Atoi(m[2])
	sem, _ := strconv.Atoi(m[3])
	return code, &Period{Year: 2000 + yy, Semester: sem}
}

// CleanTitle strips a leading unit code (with any _suffix) from title.
// The title is returned unchanged when nothing would be left.
func CleanTitle(title string, codes ...string) string {
	title = strings.TrimSpace(title)
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		re, err := regexp.Compile(`(?i)^` + regexp.QuoteMeta(code) + `(_[\w.-]+)?(\s+|$)`)
		if err != nil {
			continue
		}
		cleaned := strings.TrimSpace(re.ReplaceAllString(title, ""))
		if cleaned != "" && cleaned != title {
			return cleaned
		}
	}
	return title
}

// Label classifies an item from whole-word keywords in its title and group
// name. "final" wins over the generic exam keywords; no match yields nil.
func Label(title string, groupName *string) *string {
	text := title
	if groupName != nil {
		text += " " + *groupName
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var label string
	switch {
	case finalRe.MatchString(text):
		label = LabelFinal
	case examRe.MatchString(text):
		label = LabelExam
	default:
		return nil
	}
	return &label
}

// CleanSyllabus reduces a syllabus HTML body to plain text with collapsed
// whitespace. Script and style content is dropped. An empty result is nil.
func CleanSyllabus(body *string) *string {
	if body == nil {
		return nil
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(*body))
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			text := strings.Join(strings.Fields(b.String()), " ")
			if text == "" {
				return nil
			}
			return &text
		case html.StartTagToken:
			if name, _ := z.TagName(); isRawTextTag(name) {
				skip++
			}
			b.WriteByte(' ')
		case html.EndTagToken:
			if name, _ := z.TagName(); isRawTextTag(name) && skip > 0 {
				skip--
			}
			b.WriteByte(' ')
		case html.SelfClosingTagToken:
			b.WriteByte(' ')
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func isRawTextTag(name []byte) bool {
	return string(name) == "script" || string(name) == "style"
}
