package document

// DefaultDifficulty is used when a caller omits the difficulty level.
const DefaultDifficulty = "intermediate"

// Well-known metadata keys shared by both collections.
const (
	MetaTitle      = "title"
	MetaTopic      = "topic"
	MetaSubject    = "subject"
	MetaDifficulty = "difficulty"
	MetaQuestion   = "question"
	MetaAnswer     = "answer"
)

// MaterialMeta is the documented metadata schema for study materials.
type MaterialMeta struct {
	Title      string
	Topic      string
	Subject    string
	Difficulty string
}

// Map renders the schema as storable metadata, applying the difficulty
// default and skipping empty fields.
func (m MaterialMeta) Map() map[string]string {
	difficulty := m.Difficulty
	if difficulty == "" {
		difficulty = DefaultDifficulty
	}
	out := map[string]string{MetaDifficulty: difficulty}
	putNonEmpty(out, MetaTitle, m.Title)
	putNonEmpty(out, MetaTopic, m.Topic)
	putNonEmpty(out, MetaSubject, m.Subject)
	return out
}

// QuestionMeta is the documented metadata schema for reference questions.
type QuestionMeta struct {
	Question   string
	Answer     string
	Topic      string
	Subject    string
	Difficulty string
}

// Map renders the schema as storable metadata, applying the difficulty
// default and skipping empty fields.
func (m QuestionMeta) Map() map[string]string {
	difficulty := m.Difficulty
	if difficulty == "" {
		difficulty = DefaultDifficulty
	}
	out := map[string]string{MetaDifficulty: difficulty}
	putNonEmpty(out, MetaQuestion, m.Question)
	putNonEmpty(out, MetaAnswer, m.Answer)
	putNonEmpty(out, MetaTopic, m.Topic)
	putNonEmpty(out, MetaSubject, m.Subject)
	return out
}

func putNonEmpty(m map[string]string, key, value string) {
	if value != "" {
		m[key] = value
	}
}
