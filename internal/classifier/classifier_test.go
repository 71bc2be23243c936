package classifier

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    Category
	}{
		{"greeting lower", "hi", Greeting},
		{"greeting upper", "HELLO", Greeting},
		{"greeting mixed", "Hey", Greeting},
		{"greeting with punctuation is not exact", "hi!", Unrelated},
		{"farewell", "bye", Farewell},
		{"farewell two words", "See You", Farewell},
		{"farewell goodbye", "GOODBYE", Farewell},
		{"course with space", "Is CSC 101 hard?", CourseRelated},
		{"course with hyphen", "what about csc-101", CourseRelated},
		{"course compact", "CSC101 prerequisites", CourseRelated},
		{"course four digits is not a course", "CSC1010", Unrelated},
		{"course needs word boundary", "xcsc101", Unrelated},
		{"study", "How should I STUDY for finals", StudyRelated},
		{"study beats keywords", "study data structures", StudyRelated},
		{"course beats study", "study plan for csc 220", CourseRelated},
		{"keyword programming", "I like programming", GenericCSRelated},
		{"keyword multi word", "tell me about Machine Learning", GenericCSRelated},
		{"keyword AI any case", "what is ai", GenericCSRelated},
		{"keyword AI as substring", "the rain in spain", GenericCSRelated},
		{"unrelated", "what's the weather like", Unrelated},
		{"empty", "", Unrelated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Classify(tt.message))
		})
	}
}

func TestCategoryRelated(t *testing.T) {
	require.True(t, CourseRelated.Related())
	require.True(t, StudyRelated.Related())
	require.True(t, GenericCSRelated.Related())
	require.False(t, Greeting.Related())
	require.False(t, Farewell.Related())
	require.False(t, Unrelated.Related())
}

func TestCategoryString(t *testing.T) {
	require.Equal(t, "course_related", CourseRelated.String())
	require.Equal(t, "unknown", Category(42).String())
}

func TestListsAreCopies(t *testing.T) {
	g := Greetings()
	g[0] = "yo"
	require.Equal(t, Greeting, Classify("hi"))
	require.Len(t, Keywords(), 14)
	require.Contains(t, Farewells(), "see you")
}
