package model

// Chapter groups topics into curriculum units.
type Chapter struct {
	ID     int64
	Title  string
	Number int
}

// Category partitions topics (e.g. 사건, 인물, 유물, 국가).
type Category struct {
	ID   int64
	Name string
}

// Topic is a historical entity with an integer-encoded date interval.
// StartDate/EndDate encode calendar dates as comparable integers
// (19980318 = 1998-03-18); range checks are plain numeric comparisons.
type Topic struct {
	ID         int64
	ChapterID  int64
	CategoryID int64
	Title      string
	StartDate  int
	EndDate    int
	Detail     string
}

// Choice is a candidate answer option owned by a topic.
type Choice struct {
	ID      int64
	Content string
	TopicID int64
}

// Description is explanatory text owned by a topic, used as the
// "given" context of a generated question.
type Description struct {
	ID      int64
	Content string
	TopicID int64
}

// Sentence is a short source excerpt attached to a topic.
type Sentence struct {
	ID      int64
	Content string
	TopicID int64
}

// Keyword is a reusable tag attached to topics via topic_keywords.
type Keyword struct {
	ID   int64
	Name string
}

// Question is a persisted graded question. The five options and the
// supporting description are linked through question_choices and
// question_descriptions join rows.
type Question struct {
	ID             int64
	CategoryID     int64
	Prompt         string
	AnswerChoiceID int64
	Type           int
}

// Customer is the minimal account entity bookmarks hang off.
type Customer struct {
	ID       int64
	NickName string
}

// ChoiceCandidate is a choice joined with its owning topic's category
// and date interval, the projection the distractor sampler filters on.
type ChoiceCandidate struct {
	Choice
	CategoryID int64
	StartDate  int
	EndDate    int
}

// TopicDetail is a topic joined with its chapter number and category name.
type TopicDetail struct {
	ID            int64
	ChapterNumber int
	CategoryName  string
	Title         string
	StartDate     int
	EndDate       int
	Detail        string
}

// QuestionDetail is a question joined with its category name and linked
// description and choices.
type QuestionDetail struct {
	Question     Question
	CategoryName string
	Description  Description
	Choices      []Choice
}
