package retrieval

// Context is the retrieved context assembled for one request: ranked study
// materials plus a smaller set of reference questions. Ephemeral, never
// persisted.
type Context struct {
	materials    []Result
	refQuestions []Result
}

// NewContext creates a retrieved context.
func NewContext(materials, refQuestions []Result) Context {
	return Context{materials: materials, refQuestions: refQuestions}
}

// Materials returns the retrieved study materials, closest first.
func (c *Context) Materials() []Result { return c.materials }

// ReferenceQuestions returns the retrieved reference questions, closest first.
func (c *Context) ReferenceQuestions() []Result { return c.refQuestions }

// IsEmpty reports whether no materials and no reference questions were found.
func (c *Context) IsEmpty() bool {
	return len(c.materials) == 0 && len(c.refQuestions) == 0
}
