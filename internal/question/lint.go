package question

import "fmt"

// Issue describes a problem found in a question record.
type Issue struct {
	QuestionID string
	Index      int
	Message    string
}

func (i Issue) String() string {
	if i.QuestionID == "" {
		return fmt.Sprintf("question #%d: %s", i.Index, i.Message)
	}
	return fmt.Sprintf("question %q: %s", i.QuestionID, i.Message)
}

// Lint checks questions for records a session can still serve but that
// will behave badly, such as a missing correct option (always graded
// incorrect). Sessions never reject these; callers decide whether to log.
func Lint(qs []Question) []Issue {
	var issues []Issue
	seen := make(map[string]int)

	for i, q := range qs {
		add := func(format string, args ...any) {
			issues = append(issues, Issue{QuestionID: q.ID, Index: i, Message: fmt.Sprintf(format, args...)})
		}

		if q.ID == "" {
			add("missing id")
		} else if prev, dup := seen[q.ID]; dup {
			add("duplicate id (first seen at #%d)", prev)
		} else {
			seen[q.ID] = i
		}

		if q.Difficulty < 0 || q.Difficulty > 1 {
			add("difficulty %.2f outside [0,1]", q.Difficulty)
		}
		if len(q.Options) == 0 {
			add("no options")
		}
		if q.CorrectOptionID == "" {
			add("missing correct option id")
		} else if q.OptionIndex(q.CorrectOptionID) < 0 {
			add("correct option %q not among options", q.CorrectOptionID)
		}

		optIDs := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			if optIDs[o.ID] {
				add("duplicate option id %q", o.ID)
			}
			optIDs[o.ID] = true
		}
	}
	return issues
}
