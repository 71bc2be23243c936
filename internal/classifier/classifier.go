// Package classifier sorts a free-text message into the categories the advisor
// routes on. Classification is a pure function over the message string.
package classifier

import (
	"regexp"
	"slices"
	"strings"
)

// Category is the routing decision for a single message.
type Category int

const (
	Unrelated Category = iota
	Greeting
	Farewell
	CourseRelated
	StudyRelated
	GenericCSRelated
)

var categoryNames = map[Category]string{
	Unrelated:        "unrelated",
	Greeting:         "greeting",
	Farewell:         "farewell",
	CourseRelated:    "course_related",
	StudyRelated:     "study_related",
	GenericCSRelated: "generic_cs_related",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// Related reports whether the category is answered by the generative service.
func (c Category) Related() bool {
	return c == CourseRelated || c == StudyRelated || c == GenericCSRelated
}

var (
	greetings = []string{"hi", "hello", "hey"}
	farewells = []string{"bye", "goodbye", "see you"}

	// Compared against the lowercased message, so "AI" matches any "ai" substring.
	csKeywords = []string{
		"computer", "programming", "software", "hardware", "algorithm", "data", "network",
		"security", "AI", "machine learning", "database", "system", "engineering", "development",
	}

	coursePattern = regexp.MustCompile(`(?i)\bCSC[- ]?\d{3}\b`)
)

// Classify returns the category of message. Greeting and farewell require an
// exact (case-insensitive) match and win over everything else.
func Classify(message string) Category {
	text := strings.ToLower(message)

	switch {
	case slices.Contains(greetings, text):
		return Greeting
	case slices.Contains(farewells, text):
		return Farewell
	case isCourseRelated(text):
		return CourseRelated
	case strings.Contains(text, "study"):
		return StudyRelated
	case isComputerScienceRelated(text):
		return GenericCSRelated
	}
	return Unrelated
}

func isCourseRelated(text string) bool {
	return coursePattern.MatchString(text)
}

func isComputerScienceRelated(text string) bool {
	return slices.ContainsFunc(csKeywords, func(keyword string) bool {
		return strings.Contains(text, strings.ToLower(keyword))
	})
}

// Greetings returns the exact phrases treated as greetings.
func Greetings() []string { return slices.Clone(greetings) }

// Farewells returns the exact phrases treated as farewells.
func Farewells() []string { return slices.Clone(farewells) }

// Keywords returns the substrings that mark a message as computer-science related.
func Keywords() []string { return slices.Clone(csKeywords) }
